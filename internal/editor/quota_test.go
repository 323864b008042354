package editor

import (
	"errors"
	"testing"
)

func TestAIQuotaGate(t *testing.T) {
	t.Run("first consume succeeds second is refused", func(t *testing.T) {
		gate := NewAIQuotaGate()

		if err := gate.Consume("cand-1"); err != nil {
			t.Fatalf("first consume failed: %v", err)
		}

		err := gate.Consume("cand-1")
		var quotaErr *QuotaError
		if !errors.As(err, &quotaErr) {
			t.Fatalf("expected QuotaError, got %v", err)
		}
		if quotaErr.CandidateID != "cand-1" {
			t.Errorf("expected candidate cand-1 in error, got %s", quotaErr.CandidateID)
		}
	})

	t.Run("candidates are independent", func(t *testing.T) {
		gate := NewAIQuotaGate()
		if err := gate.Consume("cand-1"); err != nil {
			t.Fatalf("consume failed: %v", err)
		}
		if err := gate.Consume("cand-2"); err != nil {
			t.Errorf("cand-2 should have its own quota: %v", err)
		}
	})

	t.Run("seed marks persisted usage", func(t *testing.T) {
		gate := NewAIQuotaGate()
		gate.Seed("cand-1", true)
		if !gate.Used("cand-1") {
			t.Error("expected quota marked used after seeding")
		}
		if gate.Consume("cand-1") == nil {
			t.Error("seeded quota should refuse consumption")
		}
	})

	t.Run("clear reopens the quota", func(t *testing.T) {
		gate := NewAIQuotaGate()
		if err := gate.Consume("cand-1"); err != nil {
			t.Fatalf("consume failed: %v", err)
		}

		gate.Clear("cand-1")
		if gate.Used("cand-1") {
			t.Error("expected quota cleared")
		}
		if err := gate.Consume("cand-1"); err != nil {
			t.Errorf("consume after clear failed: %v", err)
		}
	})
}
