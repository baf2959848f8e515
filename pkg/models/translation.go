// Package models defines the entities served by the stores service together
// with their create and update payloads.
package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// Translation is a single localized text value
type Translation struct {
	Lang string `json:"lang"`
	Text string `json:"text"`
}

// Translations is a list of localized values persisted as a JSON column
type Translations []Translation

// Value implements driver.Valuer
func (t Translations) Value() (driver.Value, error) {
	if t == nil {
		return "[]", nil
	}
	data, err := json.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal translations: %w", err)
	}
	return string(data), nil
}

// Scan implements sql.Scanner
func (t *Translations) Scan(src interface{}) error {
	return scanJSON(src, t)
}

// Get returns the text for the given language, falling back to the first entry
func (t Translations) Get(lang string) string {
	for _, tr := range t {
		if strings.EqualFold(tr.Lang, lang) {
			return tr.Text
		}
	}
	if len(t) > 0 {
		return t[0].Text
	}
	return ""
}

// Validate ensures every entry has a language and a non-empty text
func (t Translations) Validate(field string) error {
	if len(t) == 0 {
		return fmt.Errorf("%w: %s must contain at least one translation", ErrInvalidPayload, field)
	}
	for _, tr := range t {
		if tr.Lang == "" {
			return fmt.Errorf("%w: %s translation language is required", ErrInvalidPayload, field)
		}
		if strings.TrimSpace(tr.Text) == "" {
			return fmt.Errorf("%w: %s translation for %s is empty", ErrInvalidPayload, field, tr.Lang)
		}
	}
	return nil
}

// JSONMap is a free-form JSON object column
type JSONMap map[string]interface{}

// Value implements driver.Valuer
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal json column: %w", err)
	}
	return string(data), nil
}

// Scan implements sql.Scanner
func (m *JSONMap) Scan(src interface{}) error {
	if src == nil {
		*m = nil
		return nil
	}
	return scanJSON(src, m)
}

// StringList is a JSON array of strings
type StringList []string

// Value implements driver.Valuer
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	data, err := json.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal string list: %w", err)
	}
	return string(data), nil
}

// Scan implements sql.Scanner
func (l *StringList) Scan(src interface{}) error {
	if src == nil {
		*l = StringList{}
		return nil
	}
	return scanJSON(src, l)
}

func scanJSON(src interface{}, dest interface{}) error {
	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	case nil:
		return nil
	default:
		return fmt.Errorf("unsupported json column type %T", src)
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("failed to unmarshal json column: %w", err)
	}
	return nil
}
