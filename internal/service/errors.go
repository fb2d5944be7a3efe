package service

import (
	"errors"
	"strings"
)

var ErrInvalidPaymentStatus = errors.New("invalid payment status")

// ValidationError reports which billing form fields were missing or
// malformed. It is terminal for the submission attempt; no store call is
// made when it is returned.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "invalid billing details: " + strings.Join(e.Fields, ", ")
}
