package user

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"
)

var ErrUsernameTaken = errors.New("username is already taken")

// Principal identifies an authenticated caller, as asserted by the external
// identity service.
type Principal struct {
	UserID string
	Email  string
}

// Profile holds the public identity a user drafts under. The username is
// claimed once and immutable afterwards; there is no rename path.
type Profile struct {
	ID        string
	Username  string
	CreatedAt time.Time
}

func (p Profile) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("profile id is required")
	}
	return ValidateUsername(p.Username)
}

func ValidateUsername(username string) error {
	username = strings.TrimSpace(username)
	if len(username) < 3 || len(username) > 24 {
		return fmt.Errorf("username must be 3-24 characters")
	}
	for _, r := range username {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-' {
			continue
		}
		return fmt.Errorf("username may only contain letters, digits, '-' and '_'")
	}

	return nil
}
