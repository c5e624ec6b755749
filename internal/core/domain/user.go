package domain

import (
	"errors"
	"time"
)

// Role distinguishes the two account variants.
type Role string

const (
	RoleClient       Role = "client"
	RoleProfessional Role = "professional"
)

// TextSize is the display text-size preference.
type TextSize string

const (
	TextSizeSmall  TextSize = "small"
	TextSizeMedium TextSize = "medium"
	TextSizeLarge  TextSize = "large"
)

var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrNotAuthenticated = errors.New("not authenticated")
var ErrSignupRejected = errors.New("signup could not be completed, please try again")

// Identity models the authenticated account. Professional-only fields are
// zero-valued for client accounts.
type Identity struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	Role     Role   `json:"role"`
	Verified bool   `json:"verified"`

	PasswordHash string `json:"-"`

	LicenseNumber   string   `json:"license_number,omitempty"`
	LicenseImageRef string   `json:"license_image_ref,omitempty"`
	Specialization  string   `json:"specialization,omitempty"`
	YearsExperience int      `json:"years_experience,omitempty"`
	Bio             string   `json:"bio,omitempty"`
	PortfolioLinks  []string `json:"portfolio_links,omitempty"`
	PortfolioImages []string `json:"portfolio_images,omitempty"`
	Location        string   `json:"location,omitempty"`
	WorkPreferences []string `json:"work_preferences,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// Preferences holds the display settings persisted with the session.
type Preferences struct {
	DarkMode bool     `json:"dark_mode"`
	TextSize TextSize `json:"text_size"`
}

// DefaultPreferences returns the out-of-the-box display settings.
func DefaultPreferences() Preferences {
	return Preferences{DarkMode: false, TextSize: TextSizeMedium}
}

// SignupDraft accumulates the wizard's fields across steps. It lives only in
// memory: the draft is never included in the persisted session snapshot, so
// an interrupted session loses in-progress signup state.
type SignupDraft struct {
	Step int

	FullName        string
	Email           string
	Phone           string
	Password        string
	ConfirmPassword string
	Role            Role

	LicenseNumber   string
	LicenseImageRef string
	Specialization  string
	YearsExperience int

	Bio             string
	PortfolioLinks  []string
	PortfolioImages []string

	Location        string
	WorkPreferences []string
	AgreeTerms      bool
	AgreePrivacy    bool
}

// NewSignupDraft returns an empty draft positioned at step 1 with the
// default role.
func NewSignupDraft() SignupDraft {
	return SignupDraft{Step: 1, Role: RoleClient}
}

// ValidationError reports a blocked wizard transition. Fields maps each
// offending field name to a human-readable message.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "validation failed"
}
