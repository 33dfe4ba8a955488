package account

import (
	"regexp"
	"sort"
	"strings"
)

var emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)

const (
	minNameLength     = 2
	minPasswordLength = 6
)

type SignupRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// ValidationErrors maps a form field to the message shown next to it.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for field := range v {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+v[field])
	}
	return "invalid signup: " + strings.Join(parts, "; ")
}

// ValidateSignup returns nil when the form is acceptable.
func ValidateSignup(req SignupRequest) ValidationErrors {
	errs := ValidationErrors{}

	if name := strings.TrimSpace(req.Name); len([]rune(name)) < minNameLength {
		errs["name"] = "Full name is required and must be at least 2 characters long."
	}

	email := strings.TrimSpace(req.Email)
	switch {
	case email == "":
		errs["email"] = "Email is required."
	case !emailPattern.MatchString(email):
		errs["email"] = "Email must be a valid address."
	}

	if len(req.Password) < minPasswordLength {
		errs["password"] = "Password is required and must be at least 6 characters long."
	}

	confirm := strings.TrimSpace(req.ConfirmPassword)
	switch {
	case confirm == "":
		errs["confirmPassword"] = "Please confirm your password."
	case confirm != req.Password:
		errs["confirmPassword"] = "Passwords do not match."
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
