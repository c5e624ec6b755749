package ports

import (
	"context"

	"github.com/craftlink/marketplace-core/internal/core/domain"
)

// DraftPatch is a partial update applied to the signup draft. Nil fields are
// left untouched.
type DraftPatch struct {
	FullName        *string
	Email           *string
	Phone           *string
	Password        *string
	ConfirmPassword *string
	Role            *domain.Role

	LicenseNumber   *string
	LicenseImageRef *string
	Specialization  *string
	YearsExperience *int

	Bio             *string
	PortfolioLinks  *[]string
	PortfolioImages *[]string

	Location        *string
	WorkPreferences *[]string
	AgreeTerms      *bool
	AgreePrivacy    *bool
}

// StepResult is returned by a successful forward transition of the wizard.
type StepResult struct {
	// Step is the wizard step now showing. Meaningless when Completed.
	Step int
	// Completed is true once the draft has been materialized into an
	// identity and the caller is authenticated.
	Completed bool
	Identity  *domain.Identity
}

// SessionService owns the authenticated identity, the signup wizard, the
// followed-user set, and display preferences. Every mutation schedules a
// write-through of the session snapshot; the signup draft is excluded from
// that snapshot.
type SessionService interface {
	// Login authenticates with the given credentials. Authentication is
	// mocked: any non-empty, well-formed pair is accepted after a simulated
	// delay.
	Login(ctx context.Context, email, password string) (*domain.Identity, error)
	Logout()

	Identity() *domain.Identity
	IsAuthenticated() bool
	Token() string

	FollowUser(id string)
	UnfollowUser(id string)
	IsFollowing(id string) bool
	FollowedUsers() []string

	SetDarkMode(on bool)
	SetTextSize(size domain.TextSize)
	Preferences() domain.Preferences

	Draft() domain.SignupDraft
	UpdateDraft(patch DraftPatch)
	// NextStep validates the current step's fields and advances the wizard.
	// A *domain.ValidationError blocks the transition and leaves the draft
	// untouched. On the terminal transition the draft is submitted.
	NextStep(ctx context.Context) (*StepResult, error)
	BackStep()
	// SkipPortfolio bypasses step 3 without validation; portfolio fields are
	// omitted from the committed identity.
	SkipPortfolio()
	ResetDraft()

	// AttachLicenseImage and AddPortfolioImage store the picked local file
	// reference verbatim on the draft.
	AttachLicenseImage(ctx context.Context, picker ImagePicker) error
	AddPortfolioImage(ctx context.Context, picker ImagePicker) error
}
