package metadata

import "errors"

var (
	ErrNoFile          = errors.New("no file uploaded")
	ErrFileTooLarge    = errors.New("file exceeds the allowed size")
	ErrStaging         = errors.New("failed to stage upload")
	ErrExtraction      = errors.New("metadata extraction failed")
	ErrRedaction       = errors.New("metadata redaction failed")
	ErrHashing         = errors.New("failed to hash content")
	ErrToolUnavailable = errors.New("metadata tool could not be run")
)
