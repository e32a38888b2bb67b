// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "fmt"

// ExpectedTemplate describes the input layout. It is appended to every
// FormatError so the user sees what the file should look like.
const ExpectedTemplate = `expected CSV template:
  row 1:  topic1,,,topic2,,,...
  row 2:  word,translation,kanji,word,translation,kanji,...
  row 3+: <word>,<translation>,<kanji>,...
each topic occupies three columns; its label sits in the first of them`

// FileError reports an input that cannot be read or an output that cannot
// be written.
type FileError struct {
	Op   string
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FileError) Unwrap() error { return e.Err }

// FormatError reports a table that does not follow the expected template.
type FormatError struct {
	Reason string
}

func (e *FormatError) Error() string {
	return e.Reason + "\n" + ExpectedTemplate
}

// Formatf builds a FormatError with a formatted reason.
func Formatf(format string, args ...any) *FormatError {
	return &FormatError{Reason: fmt.Sprintf(format, args...)}
}
