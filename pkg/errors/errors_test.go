package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidPath, "not a directory: %s", "/tmp/x")

	if err.Code != ErrCodeInvalidPath {
		t.Errorf("Code = %s, want %s", err.Code, ErrCodeInvalidPath)
	}
	if err.Message != "not a directory: /tmp/x" {
		t.Errorf("Message = %q", err.Message)
	}
	want := "INVALID_PATH: not a directory: /tmp/x"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestWrap(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := Wrap(ErrCodeNetwork, cause, "failed to fetch %s", "requests")

	if !stderrors.Is(err, cause) {
		t.Error("wrapped error should match cause via errors.Is")
	}
	if err.Unwrap() != cause {
		t.Error("Unwrap should return the cause")
	}
	want := "NETWORK_ERROR: failed to fetch requests: connection refused"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestIs(t *testing.T) {
	err := New(ErrCodePackageNotFound, "no such package")

	if !Is(err, ErrCodePackageNotFound) {
		t.Error("Is should match the error's code")
	}
	if Is(err, ErrCodeNetwork) {
		t.Error("Is should not match a different code")
	}
	if Is(fmt.Errorf("plain"), ErrCodeNetwork) {
		t.Error("Is should be false for plain errors")
	}

	// Code match should survive wrapping in plain errors.
	wrapped := fmt.Errorf("outer: %w", err)
	if !Is(wrapped, ErrCodePackageNotFound) {
		t.Error("Is should unwrap the chain")
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeTimeout, "slow")); got != ErrCodeTimeout {
		t.Errorf("GetCode = %s, want %s", got, ErrCodeTimeout)
	}
	if got := GetCode(fmt.Errorf("plain")); got != "" {
		t.Errorf("GetCode for plain error = %q, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	err := New(ErrCodeEnvironmentNotFound, "no site-packages at /x")
	if got := UserMessage(err); got != "no site-packages at /x" {
		t.Errorf("UserMessage = %q", got)
	}
	if got := UserMessage(fmt.Errorf("plain failure")); got != "plain failure" {
		t.Errorf("UserMessage for plain error = %q", got)
	}
}
