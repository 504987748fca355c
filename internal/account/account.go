// Package account registers users and checks their credentials.
package account

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/yatube/yatube/internal/auth"
	"github.com/yatube/yatube/internal/blog"
	"github.com/yatube/yatube/internal/db"
	"github.com/yatube/yatube/internal/models"
	"github.com/yatube/yatube/pkg/logging"
)

// ErrInvalidCredentials is returned when the username or password is wrong
var ErrInvalidCredentials = errors.New("invalid username or password")

const minPasswordLen = 8

var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

// SignupInput is a registration request
type SignupInput struct {
	Username  string
	Password  string
	Email     string
	FirstName string
	LastName  string
}

func (in SignupInput) validate() error {
	fields := make(map[string]string)

	switch {
	case in.Username == "":
		fields["username"] = "This field is required."
	case utf8.RuneCountInString(in.Username) > 150:
		fields["username"] = "Ensure this value has at most 150 characters."
	case !usernamePattern.MatchString(in.Username):
		fields["username"] = "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters."
	}

	switch {
	case in.Password == "":
		fields["password"] = "This field is required."
	case utf8.RuneCountInString(in.Password) < minPasswordLen:
		fields["password"] = "This password is too short. It must contain at least 8 characters."
	}

	if in.Email != "" && !strings.Contains(in.Email, "@") {
		fields["email"] = "Enter a valid email address."
	}

	if len(fields) > 0 {
		return &blog.ValidationError{Fields: fields}
	}
	return nil
}

// Service manages user accounts
type Service struct {
	users  *db.UserRepository
	logger *zap.Logger
}

// NewService creates an account service
func NewService(repo *db.Repository) *Service {
	return &Service{
		users:  db.NewUserRepository(repo),
		logger: logging.WithComponent("account"),
	}
}

// Signup creates a user with a hashed password
func (s *Service) Signup(ctx context.Context, in SignupInput) (*models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if err := in.validate(); err != nil {
		return nil, err
	}

	existing, err := s.users.GetByUsername(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, &blog.ValidationError{Fields: map[string]string{
			"username": "A user with that username already exists.",
		}}
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     in.Username,
		Email:        in.Email,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("User signed up", zap.Int64("user_id", user.ID), zap.String("username", user.Username))
	return user, nil
}

// Authenticate returns the user when the password matches
func (s *Service) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, err
	}
	if user == nil || !auth.CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}
