package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestExitError_Unwrap(t *testing.T) {
	wrapped := fmt.Errorf("loading config: %w", ErrInvalidConfig)
	exitErr := NewUserError(wrapped, "check config.yaml")

	if !errors.Is(exitErr, ErrInvalidConfig) {
		t.Error("errors.Is should find the sentinel through the chain")
	}

	var target *ExitError
	if !errors.As(exitErr, &target) {
		t.Fatal("errors.As should match ExitError")
	}
	if target.Code != ExitUser {
		t.Errorf("Code = %d, want %d", target.Code, ExitUser)
	}
	if target.Suggestion != "check config.yaml" {
		t.Errorf("Suggestion = %q", target.Suggestion)
	}
}

func TestExitError_Error(t *testing.T) {
	if got := NewExitError(nil, ExitSystem).Error(); got != "exit code 2" {
		t.Errorf("Error() = %q", got)
	}
	if got := NewSystemError(errors.New("disk full"), "").Error(); got != "disk full" {
		t.Errorf("Error() = %q", got)
	}
}

func TestSettingsChangedCode(t *testing.T) {
	exitErr := NewExitError(ErrSettingsChanged, ExitSettingsChanged)
	if exitErr.Code != 42 {
		t.Errorf("Code = %d, want 42", exitErr.Code)
	}
}
