package model

import (
	"encoding/json"
	"testing"
)

func TestPaymentStatusDecodesEitherIDShape(t *testing.T) {
	// The backend sends transaction_id as a number on some routes and
	// as a string on others.
	bodies := []string{
		`{"transaction_id": 123, "status": "pending"}`,
		`{"transaction_id": "123", "status": "pending"}`,
	}
	for _, body := range bodies {
		var status PaymentStatus
		if err := json.Unmarshal([]byte(body), &status); err != nil {
			t.Fatalf("decode %s: %v", body, err)
		}
		if status.TransactionID.String() != "123" {
			t.Fatalf("decode %s: transaction id %q", body, status.TransactionID)
		}
		if status.Status != PaymentPending {
			t.Fatalf("decode %s: status %q", body, status.Status)
		}
	}
}

func TestTxnIDRejectsNonScalar(t *testing.T) {
	var id TxnID
	if err := json.Unmarshal([]byte(`{"nested": true}`), &id); err == nil {
		t.Fatal("expected error for object-valued transaction id")
	}
}

func TestTxnIDMarshalsAsString(t *testing.T) {
	out, err := json.Marshal(TxnID("456"))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `"456"` {
		t.Fatalf("marshal: got %s", out)
	}
}

func TestPaymentStatusTerminal(t *testing.T) {
	cases := map[string]bool{
		PaymentPending:    false,
		PaymentProcessing: false,
		PaymentCompleted:  true,
		PaymentFailed:     true,
		PaymentCancelled:  true,
		"weird":           false,
	}
	for status, want := range cases {
		p := &PaymentStatus{Status: status}
		if p.Terminal() != want {
			t.Fatalf("Terminal(%q): got %v, want %v", status, !want, want)
		}
	}
}
