package main

import (
	"os"

	"github.com/dkazmin/rotabot/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
