package accounts

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"dashchat/internal/domain"
	"dashchat/internal/observability"
)

const minPasswordLength = 6

// Service implements account management: registration, login, profile and
// password updates, and account deletion.
type Service struct {
	users    domain.UserStore
	sessions domain.SessionStore
}

func NewService(users domain.UserStore, sessions domain.SessionStore) *Service {
	return &Service{
		users:    users,
		sessions: sessions,
	}
}

type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.TrimSpace(in.Email)

	if in.FirstName == "" || in.LastName == "" || in.Email == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: all fields are required", domain.ErrInvalidInput)
	}
	if len(in.Password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters long", domain.ErrInvalidInput, minPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user, err := s.users.Create(ctx, &domain.User{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		PasswordHash: hash,
	})
	if err != nil {
		return nil, err
	}

	observability.LoggerFromContext(ctx).Info("account created", "new_user_id", user.ID)
	return user, nil
}

// Login verifies credentials and opens a session. Unknown email and wrong
// password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, "", domain.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)) != nil {
		return nil, "", domain.ErrInvalidCredentials
	}

	token, err := s.sessions.Create(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("creating session: %w", err)
	}

	observability.LoggerFromContext(ctx).Info("login", "login_user_id", user.ID)
	return user, token, nil
}

func (s *Service) Logout(token string) {
	s.sessions.Destroy(token)
}

func (s *Service) Profile(ctx context.Context, userID domain.UserID) (*domain.User, error) {
	return s.users.FindByID(ctx, userID)
}

type ChangePasswordInput struct {
	Current string
	New     string
	Confirm string
}

func (s *Service) ChangePassword(ctx context.Context, userID domain.UserID, in ChangePasswordInput) error {
	if in.Current == "" || in.New == "" || in.Confirm == "" {
		return fmt.Errorf("%w: all fields are required", domain.ErrInvalidInput)
	}
	if in.New != in.Confirm {
		return fmt.Errorf("%w: new passwords do not match", domain.ErrInvalidInput)
	}
	if len(in.New) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters long", domain.ErrInvalidInput, minPasswordLength)
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(in.Current)) != nil {
		return fmt.Errorf("%w: current password is incorrect", domain.ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.New), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	if err := s.users.UpdatePassword(ctx, userID, hash); err != nil {
		return err
	}

	observability.LoggerFromContext(ctx).Info("password changed")
	return nil
}

func (s *Service) UpdateProfile(ctx context.Context, userID domain.UserID, firstName, lastName string) error {
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	if firstName == "" || lastName == "" {
		return fmt.Errorf("%w: first name and last name are required", domain.ErrInvalidInput)
	}
	return s.users.UpdateProfile(ctx, userID, firstName, lastName)
}

// DeleteAccount removes the user record and every session belonging to it.
// The caller is responsible for clearing the user's transcript.
func (s *Service) DeleteAccount(ctx context.Context, userID domain.UserID) error {
	if err := s.users.Delete(ctx, userID); err != nil {
		return err
	}
	s.sessions.DestroyForUser(userID)

	observability.LoggerFromContext(ctx).Info("account deleted")
	return nil
}
