package orders

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"strings"
	"testing"
)

func TestInvoiceQRPayloadSignature(t *testing.T) {
	payload := InvoiceQRPayload("o123", "u456")

	parts := strings.Split(payload, "|")
	if len(parts) != 4 {
		t.Fatalf("expected 4 payload parts, got %d: %q", len(parts), payload)
	}
	if parts[0] != "o123" || parts[1] != "u456" {
		t.Fatalf("payload carries wrong identifiers: %q", payload)
	}

	data := strings.Join(parts[:3], "|")
	h := hmac.New(sha256.New, invoiceSecret())
	h.Write([]byte(data))
	want := base64.StdEncoding.EncodeToString(h.Sum(nil))

	if parts[3] != want {
		t.Fatalf("signature mismatch: got %q, want %q", parts[3], want)
	}
}
