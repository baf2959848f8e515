package models

import "errors"

// ErrInvalidPayload is wrapped by every payload validation failure
var ErrInvalidPayload = errors.New("invalid payload")
