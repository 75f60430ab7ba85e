package accounts_test

import (
	"context"
	"errors"
	"testing"

	"dashchat/internal/adapters/storage/memory"
	"dashchat/internal/app/accounts"
	"dashchat/internal/domain"
)

func newService(t *testing.T) (*accounts.Service, *memory.SessionStore) {
	t.Helper()
	sessions := memory.NewSessionStore()
	return accounts.NewService(memory.NewUserStore(), sessions), sessions
}

func register(t *testing.T, svc *accounts.Service) *domain.User {
	t.Helper()
	user, err := svc.Register(context.Background(), accounts.RegisterInput{
		FirstName: "Grace",
		LastName:  "Hopper",
		Email:     "grace@example.com",
		Password:  "secret1",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	return user
}

func TestRegisterValidation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	cases := []accounts.RegisterInput{
		{LastName: "H", Email: "g@e.com", Password: "secret1"},
		{FirstName: "G", Email: "g@e.com", Password: "secret1"},
		{FirstName: "G", LastName: "H", Password: "secret1"},
		{FirstName: "G", LastName: "H", Email: "g@e.com"},
		{FirstName: "G", LastName: "H", Email: "g@e.com", Password: "short"},
	}
	for i, in := range cases {
		if _, err := svc.Register(ctx, in); !errors.Is(err, domain.ErrInvalidInput) {
			t.Fatalf("case %d: expected ErrInvalidInput, got %v", i, err)
		}
	}

	register(t, svc)
	if _, err := svc.Register(ctx, accounts.RegisterInput{
		FirstName: "G", LastName: "H", Email: "grace@example.com", Password: "secret1",
	}); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestLoginAndLogout(t *testing.T) {
	ctx := context.Background()
	svc, sessions := newService(t)
	user := register(t, svc)

	loggedIn, token, err := svc.Login(ctx, "grace@example.com", "secret1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if loggedIn.ID != user.ID || token == "" {
		t.Fatalf("unexpected login result: %+v, %q", loggedIn, token)
	}

	if got, err := sessions.Resolve(token); err != nil || got != user.ID {
		t.Fatalf("token does not resolve: %d, %v", got, err)
	}

	// Wrong password and unknown email look identical.
	if _, _, err := svc.Login(ctx, "grace@example.com", "wrong"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := svc.Login(ctx, "nobody@example.com", "secret1"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	svc.Logout(token)
	if _, err := sessions.Resolve(token); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("token survived logout")
	}
}

func TestChangePassword(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	user := register(t, svc)

	cases := []accounts.ChangePasswordInput{
		{New: "newsecret", Confirm: "newsecret"},
		{Current: "secret1", New: "newsecret", Confirm: "different"},
		{Current: "secret1", New: "tiny", Confirm: "tiny"},
		{Current: "wrong", New: "newsecret", Confirm: "newsecret"},
	}
	for i, in := range cases {
		if err := svc.ChangePassword(ctx, user.ID, in); !errors.Is(err, domain.ErrInvalidInput) {
			t.Fatalf("case %d: expected ErrInvalidInput, got %v", i, err)
		}
	}

	if err := svc.ChangePassword(ctx, user.ID, accounts.ChangePasswordInput{
		Current: "secret1", New: "newsecret", Confirm: "newsecret",
	}); err != nil {
		t.Fatalf("change password: %v", err)
	}

	if _, _, err := svc.Login(ctx, "grace@example.com", "secret1"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("old password still accepted")
	}
	if _, _, err := svc.Login(ctx, "grace@example.com", "newsecret"); err != nil {
		t.Fatalf("new password rejected: %v", err)
	}
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	user := register(t, svc)

	if err := svc.UpdateProfile(ctx, user.ID, "", "Hopper"); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	if err := svc.UpdateProfile(ctx, user.ID, "Amazing", "Grace"); err != nil {
		t.Fatalf("update profile: %v", err)
	}

	profile, err := svc.Profile(ctx, user.ID)
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if profile.FirstName != "Amazing" || profile.LastName != "Grace" {
		t.Fatalf("profile not updated: %+v", profile)
	}
}

func TestDeleteAccount(t *testing.T) {
	ctx := context.Background()
	svc, sessions := newService(t)
	user := register(t, svc)

	_, token, err := svc.Login(ctx, "grace@example.com", "secret1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if err := svc.DeleteAccount(ctx, user.ID); err != nil {
		t.Fatalf("delete account: %v", err)
	}

	if _, err := sessions.Resolve(token); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("session survived account deletion")
	}
	if _, err := svc.Profile(ctx, user.ID); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("deleted account still readable")
	}
}
