package users

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/ppetrovs/authd/internal/common"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

const passwordSpecials = "@$!%*?&"

// NormalizeEmail lower-cases and trims an address. Every store lookup and
// write goes through this, so email uniqueness is case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// RegisterInput is the payload for account creation, validated as a whole
// before anything is hashed or persisted.
type RegisterInput struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
}

// ValidateRegistration checks the full registration payload and returns
// every violation found, or nil when the input is acceptable.
func ValidateRegistration(in RegisterInput) *common.ValidationError {
	e := &common.ValidationError{}

	name := strings.TrimSpace(in.Name)
	if len(name) < 3 {
		e.Add("name must be at least 3 characters long")
	} else if len(name) > 50 {
		e.Add("name must be at most 50 characters long")
	}

	if !emailPattern.MatchString(NormalizeEmail(in.Email)) {
		e.Add("please provide a valid email address")
	}

	validatePassword(in.Password, e)

	if in.Password != in.ConfirmPassword {
		e.Add("passwords do not match")
	}

	if e.Empty() {
		return nil
	}
	return e
}

// ValidatePassword checks a single password against the account policy.
// Exposed separately for the password-change path.
func ValidatePassword(password string) *common.ValidationError {
	e := &common.ValidationError{}
	validatePassword(password, e)
	if e.Empty() {
		return nil
	}
	return e
}

// Policy: 8-20 characters drawn from letters, digits and a fixed special
// set, with at least one lowercase, one uppercase, one digit, and one
// special character.
func validatePassword(password string, e *common.ValidationError) {
	if len(password) < 8 {
		e.Add("password must be at least 8 characters long")
		return
	}
	if len(password) > 20 {
		e.Add("password must be at most 20 characters long")
		return
	}

	var hasLower, hasUpper, hasDigit, hasSpecial, hasForeign bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r) && r <= unicode.MaxASCII:
			hasLower = true
		case unicode.IsUpper(r) && r <= unicode.MaxASCII:
			hasUpper = true
		case unicode.IsDigit(r) && r <= unicode.MaxASCII:
			hasDigit = true
		case strings.ContainsRune(passwordSpecials, r):
			hasSpecial = true
		default:
			hasForeign = true
		}
	}

	if !hasLower || !hasUpper || !hasDigit || !hasSpecial || hasForeign {
		e.Add("password must contain at least 1 uppercase, 1 lowercase, 1 number, and 1 special character")
	}
}
