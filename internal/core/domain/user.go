package domain

import "time"

// User is the registered account record. The ledger core only ever consumes
// the UserID of a verified session; credential handling lives behind the
// user service boundary.
type User struct {
	UserID           int64     `json:"userID"`
	Username         string    `json:"username"`
	HashedPassword   string    `json:"-"`
	Salt             string    `json:"-"` // retained for records imported from the legacy sha256 scheme
	RegistrationDate time.Time `json:"registrationDate"`
}
