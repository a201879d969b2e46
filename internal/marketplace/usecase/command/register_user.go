package command

import (
	"context"
	"fmt"
	"strings"

	emailaddress "github.com/mcnijman/go-emailaddress"

	"github.com/tair/vapt/internal/marketplace/domain"
)

// RegisterUserCommand represents the command to register a new user
type RegisterUserCommand struct {
	Name            string
	Email           string
	Phone           string
	Location        string
	Password        string
	ConfirmPassword string
	Photo           string
}

// RegisterUserHandler handles user registration command
type RegisterUserHandler struct {
	repo domain.Repository
}

// NewRegisterUserHandler creates a new register user handler
func NewRegisterUserHandler(repo domain.Repository) *RegisterUserHandler {
	return &RegisterUserHandler{repo: repo}
}

// Handle stores the user and logs them in
func (h *RegisterUserHandler) Handle(ctx context.Context, cmd RegisterUserCommand) (*domain.User, error) {
	name := strings.TrimSpace(cmd.Name)
	email := strings.TrimSpace(cmd.Email)

	if name == "" {
		return nil, domain.NewValidationError("name", "name is required")
	}
	if email == "" {
		return nil, domain.NewValidationError("email", "email is required")
	}
	if _, err := emailaddress.Parse(email); err != nil {
		return nil, domain.NewValidationError("email", "invalid email address")
	}
	if strings.TrimSpace(cmd.Phone) == "" {
		return nil, domain.NewValidationError("phone", "phone is required")
	}
	if cmd.Password == "" {
		return nil, domain.NewValidationError("password", "password is required")
	}
	if cmd.Password != cmd.ConfirmPassword {
		return nil, domain.NewValidationError("confirmPassword", "passwords do not match")
	}

	if _, exists, err := h.repo.FindUserByEmail(ctx, email); err != nil {
		return nil, err
	} else if exists {
		return nil, domain.ErrEmailInUse
	}

	photo := strings.TrimSpace(cmd.Photo)
	if photo == "" {
		photo = domain.DefaultPhotoURL
	}

	user, err := h.repo.AddUser(ctx, domain.UserDraft{
		Name:     name,
		Email:    email,
		Phone:    strings.TrimSpace(cmd.Phone),
		Location: strings.TrimSpace(cmd.Location),
		Password: cmd.Password,
		Photo:    photo,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if err := h.repo.SetCurrentUser(ctx, &user); err != nil {
		return nil, fmt.Errorf("failed to start session: %w", err)
	}

	return &user, nil
}
