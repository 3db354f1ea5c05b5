package archive

import "fmt"

// NotFoundError is returned when the archive path does not reference an
// existing regular file.
type NotFoundError struct {
	Path string
	Err  error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("archive %q does not exist", e.Path)
}

func (e *NotFoundError) Unwrap() error { return e.Err }

// FormatError is returned when the archive cannot be parsed as a ZIP file.
type FormatError struct {
	Path string
	Err  error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("archive %q is not a valid zip file: %v", e.Path, e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }
