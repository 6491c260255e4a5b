package pkgerror

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestStatusCodes(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"server", NewServer(errors.New("db down")), http.StatusInternalServerError},
		{"format", NewInvalidFormat(), http.StatusBadRequest},
		{"input", NewInvalidInput(errors.New("bad")), http.StatusUnprocessableEntity},
		{"validation", NewValidation(errors.New("bad"), nil), http.StatusUnprocessableEntity},
		{"not found", NewNotFound("task not found"), http.StatusNotFound},
		{"conflict", NewConflict("email already registered"), http.StatusConflict},
		{"unauthorized", NewUnauthorized("invalid token"), http.StatusUnauthorized},
		{"rate limited", NewTooManyRequests(), http.StatusTooManyRequests},
		{"unknown code", NewBusiness("x", Code(99)), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			perr, ok := As(tc.err)
			if !ok {
				t.Fatalf("expected *Error, got %T", tc.err)
			}
			if got := perr.StatusCode(); got != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, got)
			}
		})
	}
}

func TestNames(t *testing.T) {
	if got := TypeValidation.String(); got != "ERROR_TYPE_VALIDATION" {
		t.Fatalf("unexpected type name: %q", got)
	}
	if got := Type(42).String(); got != "ERROR_TYPE_UNKNOWN" {
		t.Fatalf("unexpected unknown type name: %q", got)
	}
	if got := CodeTooManyRequests.String(); got != "ERROR_CODE_TOO_MANY_REQUESTS" {
		t.Fatalf("unexpected code name: %q", got)
	}
	if got := Code(42).String(); got != "ERROR_CODE_INTERNAL" {
		t.Fatalf("unexpected unknown code name: %q", got)
	}
}

func TestServerErrorHidesCause(t *testing.T) {
	root := errors.New("connection refused")
	err := NewServer(root)

	perr, _ := As(err)
	if perr.Msg() != "Internal server error" {
		t.Fatalf("unexpected message: %q", perr.Msg())
	}
	if !errors.Is(err, root) {
		t.Fatal("expected cause to be wrapped")
	}
	if perr.Type() != TypeServer || perr.Code() != CodeInternal {
		t.Fatalf("unexpected classification: %s", perr)
	}
	if !strings.Contains(perr.String(), "connection refused") {
		t.Fatalf("verbose form should include cause: %s", perr)
	}
}

func TestErrorText(t *testing.T) {
	if got := NewNotFound("task not found").Error(); got != "task not found" {
		t.Fatalf("unexpected text: %q", got)
	}
	if got := (&Error{code: CodeConflict}).Error(); got != "ERROR_CODE_CONFLICT" {
		t.Fatalf("unexpected fallback text: %q", got)
	}
}

func TestValidationFields(t *testing.T) {
	err := NewValidation(errors.New("schema"), map[string]string{"title": "is required"})
	wrapped := fmt.Errorf("create task: %w", err)

	perr, ok := As(wrapped)
	if !ok {
		t.Fatal("expected *Error through wrapping")
	}
	if perr.Fields()["title"] != "is required" {
		t.Fatalf("unexpected fields: %v", perr.Fields())
	}
	if _, ok := As(errors.New("plain")); ok {
		t.Fatal("plain error should not match")
	}
}
