package errs

import (
	"net/http"
	"strings"
	"testing"
)

func TestNewErrorKnownCode(t *testing.T) {
	customErr := NewError(ErrJourneyNotFound)

	if customErr.Code != ErrJourneyNotFound {
		t.Errorf("Code = %d, want %d", customErr.Code, ErrJourneyNotFound)
	}
	if customErr.Status != http.StatusNotFound {
		t.Errorf("Status = %d, want %d", customErr.Status, http.StatusNotFound)
	}
	if customErr.Message == "" {
		t.Error("Message is empty")
	}
}

func TestNewErrorDefaultsStatusToOK(t *testing.T) {
	customErr := NewError(ErrJourneyFull)

	if customErr.Status != http.StatusOK {
		t.Errorf("Status = %d, want %d for a code without an explicit status", customErr.Status, http.StatusOK)
	}
}

func TestNewErrorFormatsTemplate(t *testing.T) {
	customErr := NewError(ErrBookingTransition, "accepted", "rejected")

	if !strings.Contains(customErr.Message, "accepted") || !strings.Contains(customErr.Message, "rejected") {
		t.Errorf("Message = %q, want it to contain both status values", customErr.Message)
	}
}

func TestNewErrorUnknownCodeFallsBack(t *testing.T) {
	customErr := NewError(99999)

	if customErr.Code != ErrUnknown {
		t.Errorf("Code = %d, want fallback to %d", customErr.Code, ErrUnknown)
	}
	if customErr.Status != http.StatusInternalServerError {
		t.Errorf("Status = %d, want %d", customErr.Status, http.StatusInternalServerError)
	}
}

func TestCustomErrorError(t *testing.T) {
	customErr := NewError(ErrUnauthorized)

	msg := customErr.Error()
	if !strings.Contains(msg, "3001") {
		t.Errorf("Error() = %q, want it to contain the business code", msg)
	}
}
