package models

import "time"

// Identity is the credential store's record of a user. PasswordHash never
// leaves the credential store.
type Identity struct {
	UID          string
	Email        string
	PasswordHash string
	DisplayName  string
	CreatedAt    time.Time
}

// Profile is the user-visible record kept in the profile store, keyed by the
// identity uid.
type Profile struct {
	UID       string          `json:"uid"`
	Username  string          `json:"username"`
	Email     string          `json:"email"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
	Details   *ProfileDetails `json:"profile,omitempty"`
}

// ProfileDetails holds the optional part of a profile.
type ProfileDetails struct {
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	PhotoURL  string `json:"photoURL,omitempty"`
}
