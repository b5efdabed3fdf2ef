package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrConfiguration marks a modeling or configuration mistake
var ErrConfiguration = errors.New("configuration error")

// MissingStrategyError is returned when a fixed strategy has no choice for a draw
type MissingStrategyError struct {
	Draw []string
}

func (e *MissingStrategyError) Error() string {
	return fmt.Sprintf("no selection provided for draw: %s", strings.Join(e.Draw, "-"))
}

// InvalidSubsetSizeError indicates a subset outside sizes 1..3 was constructed
type InvalidSubsetSizeError struct {
	Size int
}

func (e *InvalidSubsetSizeError) Error() string {
	return fmt.Sprintf("invalid subset size %d (want 1..%d)", e.Size, MaxSubsetSize)
}
