package models

import "errors"

var (
	// ErrConfiguration marks a fatal configuration problem such as a missing API key.
	ErrConfiguration = errors.New("configuration error")
	// ErrNoteNotFound is returned when a note id does not exist.
	ErrNoteNotFound    = errors.New("note not found")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrUploadTooLarge  = errors.New("upload too large")
)
