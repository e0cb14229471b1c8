package screens

import (
	"context"
	"regexp"
	"strings"

	"github.com/dyike/NamaaGo/internal/api"
	"github.com/dyike/NamaaGo/internal/models"
)

const registrationFallback = "Registration failed. Please try again."

var emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)

// RegistrationForm holds the registration fields as typed.
type RegistrationForm struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
}

// Validate returns the first failing rule as a *ValidationError.
func (f RegistrationForm) Validate() error {
	switch {
	case strings.TrimSpace(f.FirstName) == "":
		return &ValidationError{Field: "firstName", Message: "First name is required"}
	case strings.TrimSpace(f.LastName) == "":
		return &ValidationError{Field: "lastName", Message: "Last name is required"}
	case strings.TrimSpace(f.Email) == "":
		return &ValidationError{Field: "email", Message: "Email is required"}
	case !emailPattern.MatchString(f.Email):
		return &ValidationError{Field: "email", Message: "Please enter a valid email address"}
	}
	return nil
}

// Register is the one screen reachable without a session.
type Register struct {
	deps Deps
}

func NewRegister(deps Deps) *Register {
	return &Register{deps: deps}
}

// Submit validates the form, registers a new customer id and establishes
// the session. It returns the route to show next.
func (r *Register) Submit(ctx context.Context, form RegistrationForm) (Route, error) {
	if err := form.Validate(); err != nil {
		return "", err
	}

	customerUserID := r.deps.ids().CustomerUserID()
	log := r.deps.Log.WithField("customer_user_id", customerUserID)

	resp, err := r.deps.Backend.Register(ctx, api.RegisterRequest{
		CustomerUserID: customerUserID,
		FirstName:      strings.TrimSpace(form.FirstName),
		LastName:       strings.TrimSpace(form.LastName),
		Email:          strings.TrimSpace(form.Email),
		Phone:          strings.TrimSpace(form.Phone),
	})
	if err != nil {
		log.WithError(err).Warn("registration failed")
		return "", userError(err, registrationFallback)
	}

	id := models.Identity{
		CustomerUserID: customerUserID,
		UserID:         resp.UserID.String(),
		UserEmail:      strings.TrimSpace(form.Email),
	}
	if err := r.deps.Session.Establish(id); err != nil {
		log.WithError(err).Error("persist session")
		return "", &UserError{Message: registrationFallback, Err: err}
	}
	return RouteConnectBank, nil
}
