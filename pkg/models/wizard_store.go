package models

import "fmt"

// WizardStore holds the draft of a store being set up through the creation wizard
type WizardStore struct {
	ID               int64   `json:"id"`
	UserID           int64   `json:"user_id"`
	StoreID          *int64  `json:"store_id,omitempty"`
	Name             *string `json:"name,omitempty"`
	ShortDescription *string `json:"short_description,omitempty"`
	DefaultLanguage  *string `json:"default_language,omitempty"`
	Slug             *string `json:"slug,omitempty"`
	Country          *string `json:"country,omitempty"`
	Address          *string `json:"address,omitempty"`
	Completed        bool    `json:"completed"`
}

// OwnershipField exposes the user the draft belongs to
func (w *WizardStore) OwnershipField(name string) (int64, bool) {
	if name == "user_id" {
		return w.UserID, true
	}
	return 0, false
}

// NewWizardStore starts a wizard for a user
type NewWizardStore struct {
	UserID int64 `json:"user_id"`
}

// OwnershipField exposes the user the draft will belong to
func (n *NewWizardStore) OwnershipField(name string) (int64, bool) {
	if name == "user_id" {
		return n.UserID, true
	}
	return 0, false
}

// UpdateWizardStore is the payload for updating a draft
type UpdateWizardStore struct {
	StoreID          *int64  `json:"store_id,omitempty"`
	Name             *string `json:"name,omitempty"`
	ShortDescription *string `json:"short_description,omitempty"`
	DefaultLanguage  *string `json:"default_language,omitempty"`
	Slug             *string `json:"slug,omitempty"`
	Country          *string `json:"country,omitempty"`
	Address          *string `json:"address,omitempty"`
	Completed        *bool   `json:"completed,omitempty"`
}

// Validate checks the payload
func (u *UpdateWizardStore) Validate() error {
	if u.Slug != nil && !slugPattern.MatchString(*u.Slug) {
		return fmt.Errorf("%w: slug %q must be lowercase alphanumerics separated by dashes", ErrInvalidPayload, *u.Slug)
	}
	if u.StoreID != nil && *u.StoreID <= 0 {
		return fmt.Errorf("%w: store_id must be positive", ErrInvalidPayload)
	}
	return nil
}
