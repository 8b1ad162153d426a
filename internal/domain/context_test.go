package domain

import (
	"context"
	"testing"
)

func TestUserContext(t *testing.T) {
	t.Run("UserFromContext returns nil when no user", func(t *testing.T) {
		if user := UserFromContext(context.Background()); user != nil {
			t.Errorf("expected nil user, got %+v", user)
		}
		if IsAuthenticated(context.Background()) {
			t.Error("expected unauthenticated context")
		}
	})

	t.Run("UserFromContext returns user when set", func(t *testing.T) {
		expected := &User{ID: "u-1", Email: "crio-user@gmail.com"}
		ctx := NewContextWithUser(context.Background(), expected)

		user := UserFromContext(ctx)
		if user == nil {
			t.Fatal("expected user, got nil")
		}
		if user.Email != expected.Email {
			t.Errorf("expected Email %q, got %q", expected.Email, user.Email)
		}
		if !IsAuthenticated(ctx) {
			t.Error("expected authenticated context")
		}
	})

	t.Run("MustUser panics when no user", func(t *testing.T) {
		defer func() {
			if r := recover(); r == nil {
				t.Error("expected panic")
			}
		}()
		MustUser(context.Background())
	})
}

func TestRequestIDContext(t *testing.T) {
	if id := RequestIDFromContext(context.Background()); id != "" {
		t.Errorf("expected empty request ID, got %q", id)
	}

	ctx := NewContextWithRequestID(context.Background(), "req-123")
	if id := RequestIDFromContext(ctx); id != "req-123" {
		t.Errorf("expected %q, got %q", "req-123", id)
	}
}
