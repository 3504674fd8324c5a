package apperr

import (
	"errors"
	"net/http"
	"testing"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  *Error
		want int
	}{
		{err: Validation("bad"), want: http.StatusBadRequest},
		{err: BadRequest("bad json"), want: http.StatusBadRequest},
		{err: NotFound("gone"), want: http.StatusNotFound},
		{err: RateLimited("slow down"), want: http.StatusTooManyRequests},
		{err: Upstream("down", errors.New("refused")), want: http.StatusBadGateway},
		{err: Timeout("slow", errors.New("deadline")), want: http.StatusGatewayTimeout},
		{err: Internal("oops", errors.New("panic")), want: http.StatusInternalServerError},
		{err: New(KindUnknown, "?"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := tt.err.HTTPStatus(); got != tt.want {
			t.Fatalf("%q: expected %d, got %d", tt.err.Message, tt.want, got)
		}
	}
}

func TestError_FormatsOpAndCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Upstream("metrics provider unavailable", cause).WithOp("leads.Analyze")

	if got := err.Error(); got != "leads.Analyze: metrics provider unavailable: connection refused" {
		t.Fatalf("unexpected message %q", got)
	}
	if !errors.Is(err, cause) {
		t.Fatal("expected cause to be reachable through Unwrap")
	}
	if !Is(err, KindUpstream) || GetKind(cause) != KindUnknown {
		t.Fatal("unexpected kind lookup")
	}
}
