package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestAs(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"not found", NotFound("x"), KindNotFound},
		{"wrapped", fmt.Errorf("load: %w", Forbidden("no")), KindForbidden},
		{"plain error", errors.New("boom"), KindInternal},
		{"validation", Validation(FieldError{Msg: "Text is required"}), KindValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := As(tt.err).Kind; got != tt.want {
				t.Errorf("As().Kind = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestErrorsIsMatchesKind(t *testing.T) {
	err := fmt.Errorf("wrap: %w", NotFound("Post does not exist"))
	if !errors.Is(err, ErrNotFound) {
		t.Error("expected errors.Is to match ErrNotFound")
	}
	if errors.Is(err, ErrForbidden) {
		t.Error("expected errors.Is not to match ErrForbidden")
	}
}

func TestInternalHidesCause(t *testing.T) {
	cause := errors.New("pq: connection refused")
	e := Internal(cause)
	if e.Message != "Server error" {
		t.Errorf("Message = %q", e.Message)
	}
	if !errors.Is(e, cause) {
		t.Error("expected cause to stay in the chain")
	}
}

func TestInvalidCredentialsUniformMessage(t *testing.T) {
	if InvalidCredentials().Message != InvalidCredentials().Message {
		t.Fatal("messages differ")
	}
}

func TestAsWrapsUnknown(t *testing.T) {
	e := As(errors.New("boom"))
	if e.Kind != KindInternal {
		t.Errorf("Kind = %v, want internal", e.Kind)
	}
}
