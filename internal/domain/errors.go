package domain

import "errors"

// ErrCurrentOccupied rejects a promote while a current activity exists.
// Callers clear the slot first; a concurrent double-tap hitting this is
// dropped silently.
var ErrCurrentOccupied = errors.New("current slot occupied")
