package csvio

import (
	"fmt"
	"strings"
)

// FormatError signals structural problems with the input file: missing
// required columns, an empty file, or rows the CSV parser rejects.
type FormatError struct {
	msg string
}

func (e *FormatError) Error() string {
	return e.msg
}

func newFormatError(format string, args ...any) *FormatError {
	return &FormatError{msg: fmt.Sprintf(format, args...)}
}

func missingColumnsError(missing []string) *FormatError {
	return newFormatError("missing required columns: %s", strings.Join(missing, ", "))
}

// EncodingError signals byte content that is not valid UTF-8. Row is the
// 1-based data row, 0 for the header.
type EncodingError struct {
	Row int
}

func (e *EncodingError) Error() string {
	if e.Row == 0 {
		return "header contains invalid UTF-8"
	}
	return fmt.Sprintf("row %d contains invalid UTF-8", e.Row)
}
