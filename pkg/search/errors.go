package search

import (
	"errors"
	"fmt"
)

var (
	// ErrDisabled is returned when no search backend is configured
	ErrDisabled = errors.New("search is disabled")
	// ErrRemote matches every non-2xx answer of the search backend
	ErrRemote = errors.New("search backend error")
)

// RemoteError is a non-2xx response from Elasticsearch
type RemoteError struct {
	StatusCode int
	Body       string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("search backend returned %d: %s", e.StatusCode, e.Body)
}

// Is makes errors.Is(err, ErrRemote) match
func (e *RemoteError) Is(target error) bool {
	return target == ErrRemote
}
