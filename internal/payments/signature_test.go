package payments

import (
	"errors"
	"testing"
	"time"
)

func TestVerifySignature(t *testing.T) {
	body := []byte(`{"type":"checkout.session.completed"}`)
	secret := "whsec_test"
	now := time.Unix(1_700_000_000, 0)

	t.Run("valid", func(t *testing.T) {
		header := Sign(body, secret, now)
		if err := VerifySignature(header, body, secret, DefaultTolerance, now); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("missing header", func(t *testing.T) {
		err := VerifySignature("", body, secret, DefaultTolerance, now)
		if !errors.Is(err, ErrMissingSignature) {
			t.Fatalf("expected ErrMissingSignature, got %v", err)
		}
	})

	t.Run("wrong secret", func(t *testing.T) {
		header := Sign(body, "other-secret", now)
		err := VerifySignature(header, body, secret, DefaultTolerance, now)
		if !errors.Is(err, ErrBadSignature) {
			t.Fatalf("expected ErrBadSignature, got %v", err)
		}
	})

	t.Run("tampered body", func(t *testing.T) {
		header := Sign(body, secret, now)
		err := VerifySignature(header, []byte(`{"type":"evil"}`), secret, DefaultTolerance, now)
		if !errors.Is(err, ErrBadSignature) {
			t.Fatalf("expected ErrBadSignature, got %v", err)
		}
	})

	t.Run("stale timestamp", func(t *testing.T) {
		header := Sign(body, secret, now.Add(-time.Hour))
		err := VerifySignature(header, body, secret, DefaultTolerance, now)
		if !errors.Is(err, ErrBadSignature) {
			t.Fatalf("expected ErrBadSignature, got %v", err)
		}
	})

	t.Run("garbage header", func(t *testing.T) {
		err := VerifySignature("not-a-signature", body, secret, DefaultTolerance, now)
		if !errors.Is(err, ErrBadSignature) {
			t.Fatalf("expected ErrBadSignature, got %v", err)
		}
	})
}
