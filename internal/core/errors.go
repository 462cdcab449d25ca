package core

import "errors"

// Sentinel errors shared by the decoder, the capture source and the CLI.
var (
	// Dissection errors
	ErrTruncated = errors.New("ospfdump: truncated capture")

	// Capture record errors
	ErrCaptureLength       = errors.New("ospfdump: captured length exceeds wire length")
	ErrUnsupportedLinkType = errors.New("ospfdump: unsupported link type")
	ErrSourceNotOpen       = errors.New("ospfdump: capture source not open")

	// Configuration errors
	ErrConfigInvalid = errors.New("ospfdump: invalid configuration")
)
