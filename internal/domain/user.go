package domain

import "time"

// User owns one ledger. There is exactly one principal per ledger, so no
// role model: a valid token simply identifies the ledger owner.
type User struct {
	CreatedAt      time.Time
	UpdatedAt      time.Time
	ID             string
	Email          string
	Name           string
	HashedPassword string
	Active         bool
}
