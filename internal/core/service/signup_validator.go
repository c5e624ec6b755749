package service

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/craftlink/marketplace-core/internal/core/domain"
)

// Per-step form views of the draft. Only the fields a step shows are
// validated by its gate; earlier steps' fields are not re-checked.

type stepBasicInfo struct {
	FullName        string      `validate:"required"`
	Email           string      `validate:"required,email"`
	Phone           string      `validate:"required,phone"`
	Password        string      `validate:"required,password"`
	ConfirmPassword string      `validate:"required,eqfield=Password"`
	Role            domain.Role `validate:"required,oneof=client professional"`
}

type stepProfessionalDetails struct {
	LicenseNumber   string `validate:"required"`
	Specialization  string `validate:"required"`
	YearsExperience int    `validate:"gte=0"`
}

type stepPortfolio struct {
	// Portfolio is PortfolioLinks and PortfolioImages combined; the step
	// requires at least one unless it is explicitly skipped.
	Portfolio []string `validate:"required,min=1"`
}

type stepLocationAgreement struct {
	Location     string `validate:"required"`
	AgreeTerms   bool   `validate:"eq=true"`
	AgreePrivacy bool   `validate:"eq=true"`
}

// signupValidator runs the wizard's per-step validation gates.
type signupValidator struct {
	v *validator.Validate
}

func newSignupValidator() *signupValidator {
	v := validator.New()

	// password: at least 8 chars with one upper, one lower, one digit.
	_ = v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if len(s) < 8 {
			return false
		}
		var upper, lower, digit bool
		for _, r := range s {
			switch {
			case unicode.IsUpper(r):
				upper = true
			case unicode.IsLower(r):
				lower = true
			case unicode.IsDigit(r):
				digit = true
			}
		}
		return upper && lower && digit
	})

	// phone: at least 10 digits, separators ignored.
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		digits := 0
		for _, r := range fl.Field().String() {
			if unicode.IsDigit(r) {
				digits++
			}
		}
		return digits >= 10
	})

	return &signupValidator{v: v}
}

// checkStep validates the given step's fields of the draft. A failure is
// reported as *domain.ValidationError keyed by field; the draft is never
// mutated.
func (sv *signupValidator) checkStep(step int, d domain.SignupDraft) error {
	var form any
	switch step {
	case 1:
		form = stepBasicInfo{
			FullName:        d.FullName,
			Email:           d.Email,
			Phone:           d.Phone,
			Password:        d.Password,
			ConfirmPassword: d.ConfirmPassword,
			Role:            d.Role,
		}
	case 2:
		form = stepProfessionalDetails{
			LicenseNumber:   d.LicenseNumber,
			Specialization:  d.Specialization,
			YearsExperience: d.YearsExperience,
		}
	case 3:
		entries := make([]string, 0, len(d.PortfolioLinks)+len(d.PortfolioImages))
		entries = append(entries, d.PortfolioLinks...)
		entries = append(entries, d.PortfolioImages...)
		form = stepPortfolio{Portfolio: entries}
	case 4:
		form = stepLocationAgreement{
			Location:     d.Location,
			AgreeTerms:   d.AgreeTerms,
			AgreePrivacy: d.AgreePrivacy,
		}
	default:
		return fmt.Errorf("unknown wizard step %d", step)
	}

	err := sv.v.Struct(form)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}

	fields := make(map[string]string, len(ve))
	for _, fe := range ve {
		fields[fieldKey(fe.Field())] = fieldMessage(fe)
	}
	return &domain.ValidationError{Fields: fields}
}

// fieldKey lowers the first rune so keys match the form field names the
// screens bind to (fullName, confirmPassword, ...).
func fieldKey(structField string) string {
	if structField == "" {
		return structField
	}
	r := []rune(structField)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}

// fieldMessage converts a single validation failure into a human-readable
// message.
func fieldMessage(fe validator.FieldError) string {
	field := fieldKey(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "phone":
		return field + " must contain at least 10 digits"
	case "password":
		return field + " must be at least 8 characters with upper, lower and digit"
	case "eqfield":
		return "passwords do not match"
	case "eq":
		return field + " must be accepted"
	case "min":
		return fmt.Sprintf("%s must have at least %s entries", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}

// summarize flattens the field map into a single line for log and toast
// surfaces.
func summarize(ve *domain.ValidationError) string {
	msgs := make([]string, 0, len(ve.Fields))
	for _, m := range ve.Fields {
		msgs = append(msgs, m)
	}
	return strings.Join(msgs, "; ")
}
