package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatusMapsKinds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: http.StatusOK},
		{name: "validation", err: Validation("bad %s", "date"), want: http.StatusBadRequest},
		{name: "not found", err: NotFound("lot not found"), want: http.StatusNotFound},
		{name: "conflict", err: Conflict("duplicate"), want: http.StatusConflict},
		{name: "wrapped", err: fmt.Errorf("create: %w", NotFound("x")), want: http.StatusNotFound},
		{name: "untyped", err: errors.New("connection refused"), want: http.StatusInternalServerError},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := HTTPStatus(tc.err); got != tc.want {
				t.Fatalf("HTTPStatus = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestErrorMessage(t *testing.T) {
	t.Parallel()

	if got := Validation("entry bay %d", 3).Error(); got != "entry bay 3" {
		t.Fatalf("Error() = %q", got)
	}
	if got := (Error{Kind: KindConflict}).Error(); got != "conflict" {
		t.Fatalf("Error() with empty message = %q", got)
	}
	if !Is(fmt.Errorf("wrap: %w", Conflict("dup")), KindConflict) {
		t.Fatal("Is should see through wrapping")
	}
}
