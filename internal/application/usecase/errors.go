package usecase

import (
	"errors"
	"strings"
)

// ErrRunNotFound is returned when a segmentation run does not exist.
var ErrRunNotFound = errors.New("segmentation run not found")

// ErrModelUnavailable is returned when prediction is requested without a loaded model.
var ErrModelUnavailable = errors.New("risk model not loaded")

// ValidationError reports request fields that are missing or invalid.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "invalid request: missing or invalid fields " + strings.Join(e.Fields, ", ")
}
