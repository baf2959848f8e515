package httputil

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
)

const (
	// DefaultPageSize is used when a list request has no count
	DefaultPageSize = 20
	// MaxPageSize caps count on list and search requests
	MaxPageSize = 500
)

// ParseJSON decodes JSON from the request body into the destination
func ParseJSON(r *http.Request, dest interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dest); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("invalid JSON: empty body")
		}
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return nil
}

// ParseJSONOrError decodes JSON and writes error response on failure
func ParseJSONOrError(w http.ResponseWriter, r *http.Request, dest interface{}) bool {
	if err := ParseJSON(r, dest); err != nil {
		WriteBadRequest(w, err.Error())
		return false
	}
	return true
}

// ParsePathInt64 extracts and parses an int64 path parameter
func ParsePathInt64(r *http.Request, key string) (int64, error) {
	str := mux.Vars(r)[key]
	if str == "" {
		return 0, fmt.Errorf("missing path parameter: %s", key)
	}
	val, err := strconv.ParseInt(str, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid integer for %s: %s", key, str)
	}
	return val, nil
}

// ParsePathInt64OrError extracts an int64 path parameter and writes error on failure
func ParsePathInt64OrError(w http.ResponseWriter, r *http.Request, key string) (int64, bool) {
	val, err := ParsePathInt64(r, key)
	if err != nil {
		WriteBadRequest(w, err.Error())
		return 0, false
	}
	return val, true
}

// ParsePathStringOrError extracts a string path parameter and writes error on failure
func ParsePathStringOrError(w http.ResponseWriter, r *http.Request, key string) (string, bool) {
	str := mux.Vars(r)[key]
	if str == "" {
		WriteBadRequest(w, fmt.Sprintf("missing path parameter: %s", key))
		return "", false
	}
	return str, true
}

// ParseQueryInt parses an integer query parameter with a default value
func ParseQueryInt(r *http.Request, key string, defaultVal int) (int, error) {
	str := r.URL.Query().Get(key)
	if str == "" {
		return defaultVal, nil
	}
	val, err := strconv.Atoi(str)
	if err != nil {
		return 0, fmt.Errorf("invalid integer for query param %s: %s", key, str)
	}
	return val, nil
}

// ParseQueryInt64 parses an int64 query parameter with a default value
func ParseQueryInt64(r *http.Request, key string, defaultVal int64) (int64, error) {
	str := r.URL.Query().Get(key)
	if str == "" {
		return defaultVal, nil
	}
	val, err := strconv.ParseInt(str, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid integer for query param %s: %s", key, str)
	}
	return val, nil
}

// ParseQueryString returns a query parameter or a default
func ParseQueryString(r *http.Request, key string, defaultVal string) string {
	if str := r.URL.Query().Get(key); str != "" {
		return str
	}
	return defaultVal
}

// ParseQueryBool parses a boolean query parameter with a default value
func ParseQueryBool(r *http.Request, key string, defaultVal bool) (bool, error) {
	str := r.URL.Query().Get(key)
	if str == "" {
		return defaultVal, nil
	}
	val, err := strconv.ParseBool(str)
	if err != nil {
		return false, fmt.Errorf("invalid boolean for query param %s: %s", key, str)
	}
	return val, nil
}

// Page is a window into a list: skip From rows, return at most Count
type Page struct {
	From  int64
	Count int
}

// ParsePage reads the offset parameter named fromKey and "count", applying
// DefaultPageSize and MaxPageSize
func ParsePage(r *http.Request, fromKey string) (Page, error) {
	from, err := ParseQueryInt64(r, fromKey, 0)
	if err != nil {
		return Page{}, err
	}
	if from < 0 {
		return Page{}, fmt.Errorf("query param %s must not be negative", fromKey)
	}
	count, err := ParseQueryInt(r, "count", DefaultPageSize)
	if err != nil {
		return Page{}, err
	}
	if count <= 0 {
		return Page{}, fmt.Errorf("query param count must be positive")
	}
	if count > MaxPageSize {
		count = MaxPageSize
	}
	return Page{From: from, Count: count}, nil
}

// ParsePageOrError is ParsePage writing a 400 on failure
func ParsePageOrError(w http.ResponseWriter, r *http.Request, fromKey string) (Page, bool) {
	page, err := ParsePage(r, fromKey)
	if err != nil {
		WriteBadRequest(w, err.Error())
		return Page{}, false
	}
	return page, true
}
