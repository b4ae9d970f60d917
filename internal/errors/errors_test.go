package errors

import (
	"fmt"
	"testing"
)

func TestMarkedErrorsMatchSentinels(t *testing.T) {
	err := NewError("document doc_1 not found").
		WithHint("The document no longer exists").
		Mark(ErrNotFound)
	err = WithError(err).Mark(ErrTransport)

	if !IsNotFound(err) {
		t.Fatal("expected not found")
	}
	if !IsTransport(err) {
		t.Fatal("expected not found to also be a transport failure")
	}
	if IsValidation(err) {
		t.Fatal("did not expect validation")
	}
	if got := Hint(err); got != "The document no longer exists" {
		t.Fatalf("unexpected hint %q", got)
	}
}

func TestStdlibWrappingPreservesMarks(t *testing.T) {
	base := NewError("title is required").Mark(ErrValidation)
	wrapped := fmt.Errorf("submit draft: %w", base)
	if !IsValidation(wrapped) {
		t.Fatal("expected wrapped error to keep the validation mark")
	}
	if IsTransport(wrapped) {
		t.Fatal("did not expect transport")
	}
}

func TestHintOnNil(t *testing.T) {
	if Hint(nil) != "" {
		t.Fatal("expected empty hint")
	}
}
