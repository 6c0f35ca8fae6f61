package linguist

import "errors"

var (
	// Rendering
	ErrPresetNotFound   = errors.New("preset not found")
	ErrUnknownFormatter = errors.New("unknown formatter")

	// Configuration
	ErrInvalidConfig = errors.New("invalid configuration")

	// Loading
	ErrFailedToReadFile  = errors.New("failed to read dictionary file")
	ErrFailedToParseFile = errors.New("failed to parse dictionary file")
	ErrUnsupportedFormat = errors.New("unsupported dictionary format")
	ErrInvalidDictionary = errors.New("dictionary root must be a mapping")
)
