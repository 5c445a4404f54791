package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatusPerKind(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{KindValidation, http.StatusUnprocessableEntity},
		{KindConflict, http.StatusBadRequest},
		{KindBadRequest, http.StatusBadRequest},
		{KindUnauthorized, http.StatusUnauthorized},
		{KindForbidden, http.StatusForbidden},
		{KindNotFound, http.StatusNotFound},
		{KindInternal, http.StatusInternalServerError},
		{KindUnknown, http.StatusBadRequest},
	}

	for _, tt := range tests {
		if got := (&Error{Kind: tt.kind}).HTTPStatus(); got != tt.want {
			t.Errorf("kind %d: expected status %d, got %d", tt.kind, tt.want, got)
		}
	}
}

func TestErrorStringIncludesOp(t *testing.T) {
	err := NotFound("User not found").WithOp("accounts.GetUser")
	if err.Error() != "accounts.GetUser: User not found" {
		t.Errorf("unexpected error string %q", err.Error())
	}

	bare := NotFound("User not found")
	if bare.Error() != "User not found" {
		t.Errorf("unexpected error string %q", bare.Error())
	}
}

func TestUnwrapExposesCause(t *testing.T) {
	cause := errors.New("pg: unique violation")
	err := Wrap(KindConflict, "Registration unsuccessful", cause)

	if !errors.Is(err, cause) {
		t.Error("wrapped cause should satisfy errors.Is")
	}
	if !errors.Is(fmt.Errorf("outer: %w", err), cause) {
		t.Error("cause should survive further wrapping")
	}
}

func TestIsMatchesKind(t *testing.T) {
	err := Forbidden("nope")
	if !Is(err, KindForbidden) {
		t.Error("expected kind match")
	}
	if Is(err, KindNotFound) {
		t.Error("unexpected kind match")
	}
	if Is(errors.New("plain"), KindForbidden) {
		t.Error("plain errors have no kind")
	}
}

func TestValidationCarriesFields(t *testing.T) {
	err := Validation("Client error",
		FieldError{Field: "firstName", Message: "First Name must not be null"},
		FieldError{Field: "email", Message: "Email must not be null"},
	)
	if len(err.Fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(err.Fields))
	}
	if err.Fields[0].Field != "firstName" {
		t.Errorf("field order must be preserved, got %q first", err.Fields[0].Field)
	}
}
