package domain

import "fmt"

type ErrorKind string

const (
	ErrMissingColumns ErrorKind = "MISSING_COLUMNS"
	ErrMissingValue   ErrorKind = "MISSING_VALUE"
	ErrInvalidFormat  ErrorKind = "INVALID_FORMAT"
	ErrInvalidDate    ErrorKind = "INVALID_DATE"
	ErrInvalidType    ErrorKind = "INVALID_TYPE"
)

// ValidationError is one per-row, per-column validation failure. Row is
// 1-indexed with the header counting as row 1, so the first data row is 2.
// Structural file-level failures use Row 0.
type ValidationError struct {
	Row     int       `json:"row"`
	Column  string    `json:"column"`
	Message string    `json:"message"`
	Kind    ErrorKind `json:"error_type"`
}

func (e ValidationError) Error() string {
	if e.Row == 0 {
		return fmt.Sprintf("%s: %s (%s)", e.Column, e.Message, e.Kind)
	}
	return fmt.Sprintf("row %d, %s: %s (%s)", e.Row, e.Column, e.Message, e.Kind)
}
