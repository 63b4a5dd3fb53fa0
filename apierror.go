package main

import (
	"errors"
	"fmt"
)

// apiError marks a request-validation failure. The pipeline raises it before
// any store mutation; infrastructure errors are never wrapped in it.
type apiError struct {
	msg string
}

func (e *apiError) Error() string {
	return e.msg
}

func apiErrorf(format string, a ...any) error {
	return &apiError{msg: fmt.Sprintf(format, a...)}
}

func isAPIError(err error) bool {
	var ae *apiError
	return errors.As(err, &ae)
}
