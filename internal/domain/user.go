package domain

import "time"

// User is an account record. The core chat path never mutates it; it is
// read by the session authenticator and managed by the accounts service.
type User struct {
	ID           UserID
	FirstName    string
	LastName     string
	Email        string
	PasswordHash []byte
	CreatedAt    time.Time
}
