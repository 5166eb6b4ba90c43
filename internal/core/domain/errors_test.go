package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestUpstreamError(t *testing.T) {
	cause := errors.New("INVALID_PUBLIC_TOKEN")
	err := fmt.Errorf("exchange: %w", NewUpstreamError("plaid", "item/public_token/exchange", "", cause))

	if !IsUpstream(err) {
		t.Fatal("wrapped upstream error not classified")
	}
	var ue *UpstreamError
	if !errors.As(err, &ue) {
		t.Fatal("errors.As failed")
	}
	if ue.Error() != "INVALID_PUBLIC_TOKEN" {
		t.Errorf("message = %q, want cause text", ue.Error())
	}
	if got, want := ue.Describe(), "plaid item/public_token/exchange: INVALID_PUBLIC_TOKEN"; got != want {
		t.Errorf("Describe() = %q, want %q", got, want)
	}
	if !errors.Is(err, cause) {
		t.Error("cause not reachable through Unwrap")
	}
	if IsValidation(err) || IsNotFound(err) {
		t.Error("upstream error misclassified")
	}
}
