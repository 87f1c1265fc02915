package version

// Version is the rotabot release version, overridable at build time via
// -ldflags "-X github.com/dkazmin/rotabot/internal/version.Version=...".
var Version = "0.1.0-dev"
