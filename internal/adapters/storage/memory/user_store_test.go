package memory

import (
	"context"
	"errors"
	"testing"

	"dashchat/internal/domain"
)

func TestUserStoreCRUD(t *testing.T) {
	ctx := context.Background()
	s := NewUserStore()

	created, err := s.Create(ctx, &domain.User{
		FirstName:    "Ada",
		LastName:     "Lovelace",
		Email:        "ada@example.com",
		PasswordHash: []byte("hash"),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == 0 {
		t.Fatalf("expected assigned id")
	}

	// Duplicate email, case-insensitive.
	if _, err := s.Create(ctx, &domain.User{
		FirstName: "A", LastName: "L", Email: "ADA@example.com", PasswordHash: []byte("x"),
	}); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}

	byEmail, err := s.FindByEmail(ctx, "Ada@Example.com")
	if err != nil || byEmail.ID != created.ID {
		t.Fatalf("find by email: %+v, %v", byEmail, err)
	}

	if err := s.UpdateProfile(ctx, created.ID, "Augusta", "King"); err != nil {
		t.Fatalf("update profile: %v", err)
	}
	updated, _ := s.FindByID(ctx, created.ID)
	if updated.FirstName != "Augusta" || updated.LastName != "King" {
		t.Fatalf("profile not updated: %+v", updated)
	}

	if err := s.UpdatePassword(ctx, created.ID, []byte("newhash")); err != nil {
		t.Fatalf("update password: %v", err)
	}
	updated, _ = s.FindByID(ctx, created.ID)
	if string(updated.PasswordHash) != "newhash" {
		t.Fatalf("password not updated")
	}

	if err := s.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.FindByID(ctx, created.ID); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("deleted user still found")
	}
	// Email is free again after deletion.
	if _, err := s.Create(ctx, &domain.User{
		FirstName: "New", LastName: "User", Email: "ada@example.com", PasswordHash: []byte("x"),
	}); err != nil {
		t.Fatalf("re-create after delete: %v", err)
	}
}

func TestUserStoreNotFound(t *testing.T) {
	ctx := context.Background()
	s := NewUserStore()

	if _, err := s.FindByEmail(ctx, "nobody@example.com"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if err := s.UpdateProfile(ctx, 42, "a", "b"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if err := s.Delete(ctx, 42); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
