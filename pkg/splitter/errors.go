package splitter

import "errors"

// Failure taxonomy surfaced by Preflight and Split. Callers match with
// errors.Is; Split wraps each sentinel with the offending path.
var (
	// ErrNotAPDF is returned by Preflight when the input file cannot be
	// parsed as a PDF document.
	ErrNotAPDF = errors.New("file is not a valid PDF")

	// ErrFileNotFound is returned when the input file does not exist.
	ErrFileNotFound = errors.New("input file does not exist")

	// ErrDirectoryNotFound is returned by Preflight when the output
	// directory does not exist.
	ErrDirectoryNotFound = errors.New("output directory does not exist")

	// ErrMalformedDocument is returned by Split when the input opens but
	// fails PDF parsing or page extraction.
	ErrMalformedDocument = errors.New("malformed PDF document")

	// ErrIOFailure is returned by Split when an output chunk cannot be
	// written. Chunks written before the failure are left in place.
	ErrIOFailure = errors.New("i/o failure")
)
