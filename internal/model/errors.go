package model

import "errors"

// Parse errors.
var (
	ErrUnknownField = errors.New("unknown adjustment field")
	ErrUnknownRatio = errors.New("unknown aspect ratio")
	ErrUnknownGroup = errors.New("unknown category")
)
