package domain

import (
	"regexp"
	"time"
)

var nationalIDPattern = regexp.MustCompile(`^[0-9]{12}$`)

// Identity is a pre-seeded national ID record establishing eligibility.
// Identities are created out-of-band and never through the API.
type Identity struct {
	ID               string
	NationalIDNumber string
	IsValid          bool
	CreatedAt        time.Time
}

// ValidateNationalID checks the exact 12-digit format.
func ValidateNationalID(id string) error {
	if !nationalIDPattern.MatchString(id) {
		return Invalid("national id must be exactly 12 digits")
	}
	return nil
}

// Account is the application-level user record backed by exactly one Identity.
type Account struct {
	ID             string
	IdentityID     string
	PasswordHash   string
	Role           Role
	VotedElections []string
	CreatedAt      time.Time
}

// HasVotedIn reports whether electionID is already recorded on the account.
func (a *Account) HasVotedIn(electionID string) bool {
	for _, id := range a.VotedElections {
		if id == electionID {
			return true
		}
	}
	return false
}
