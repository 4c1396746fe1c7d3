package domain

import "time"

type ID string

// User carries the credential record for one account. The password hash
// never leaves the auth layer except through this struct; everything
// downstream works with Identity instead.
type User struct {
	ID           ID
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// Identity is a User with the credential material stripped.
type Identity struct {
	ID       ID
	Username string
}

func (u User) Identity() Identity {
	return Identity{ID: u.ID, Username: u.Username}
}
