package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestAPIError(t *testing.T) {
	err := NewAPIError(400, "test-endpoint", "test API error")

	expected := "API error [400] at test-endpoint: test API error"
	if err.Error() != expected {
		t.Errorf("Error() = %s, want %s", err.Error(), expected)
	}

	noMessage := NewAPIError(503, "test-endpoint", "")
	expected = "API error [503] at test-endpoint: Service Unavailable"
	if noMessage.Error() != expected {
		t.Errorf("Error() = %s, want %s", noMessage.Error(), expected)
	}
}

func TestAPIErrorIs(t *testing.T) {
	tests := []struct {
		status    int
		auth      bool
		rateLimit bool
	}{
		{401, true, false},
		{403, true, false},
		{429, false, true},
		{500, false, false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.status), func(t *testing.T) {
			err := fmt.Errorf("wrapped: %w", NewAPIError(tt.status, "e", "m"))
			if got := IsAuthError(err); got != tt.auth {
				t.Errorf("IsAuthError() = %v, want %v", got, tt.auth)
			}
			if got := IsRateLimitError(err); got != tt.rateLimit {
				t.Errorf("IsRateLimitError() = %v, want %v", got, tt.rateLimit)
			}
			if !IsAPIError(err) {
				t.Error("IsAPIError() = false, want true")
			}
			if got := GetHTTPStatus(err); got != tt.status {
				t.Errorf("GetHTTPStatus() = %d, want %d", got, tt.status)
			}
		})
	}
}

func TestTimeoutError(t *testing.T) {
	err := NewTimeoutError("test timeout error")

	expected := "request timed out: test timeout error"
	if err.Error() != expected {
		t.Errorf("Error() = %s, want %s", err.Error(), expected)
	}
	if NewTimeoutError("").Error() != "request timed out" {
		t.Errorf("empty TimeoutError message mismatch")
	}
}

func TestNetworkError(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewNetworkErrorWithEndpoint("chat completion", "https://example.test", cause)

	if !errors.Is(err, cause) {
		t.Error("expected NetworkError to unwrap to its cause")
	}
	if !IsNetworkError(fmt.Errorf("ctx: %w", err)) {
		t.Error("expected wrapped NetworkError to be detected")
	}
	if GetEndpoint(err) != "https://example.test" {
		t.Errorf("GetEndpoint() = %q", GetEndpoint(err))
	}

	ctxErr := NewNetworkErrorWithEndpoint("chat completion", "", context.Canceled)
	if !errors.Is(ctxErr, context.Canceled) {
		t.Error("expected context.Canceled to be preserved")
	}
}

func TestParseError(t *testing.T) {
	err := NewParseError("missing content", "choices.0.message.content")

	expected := "parse error at choices.0.message.content: missing content"
	if err.Error() != expected {
		t.Errorf("Error() = %s, want %s", err.Error(), expected)
	}
	if !errors.Is(err, ErrInvalidResponse) {
		t.Error("expected ParseError to match ErrInvalidResponse")
	}
	if !IsParseError(fmt.Errorf("wrap: %w", err)) {
		t.Error("expected wrapped ParseError to be detected")
	}
	if errors.Is(err, ErrNoContent) {
		t.Error("ParseError should not match ErrNoContent")
	}
}

func TestNoContentError(t *testing.T) {
	err := NewNoContentError("completion content is empty", "choices.0.message.content")

	if !IsNoContentError(fmt.Errorf("wrap: %w", err)) {
		t.Error("expected wrapped no-content error to match ErrNoContent")
	}
	if !IsParseError(err) {
		t.Error("expected no-content error to stay a parse error")
	}
	want := "Unexpected response from the completion service: completion content is empty"
	if got := UserMessage(err); got != want {
		t.Errorf("UserMessage() = %q, want %q", got, want)
	}
	if IsNoContentError(NewParseError("body is not JSON", "")) {
		t.Error("plain ParseError should not match ErrNoContent")
	}
}

func TestGetEndpoint(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"api error", NewAPIError(500, "https://api.example.test/v1", ""), "https://api.example.test/v1"},
		{"wrapped network error", fmt.Errorf("send: %w", NewNetworkErrorWithEndpoint("op", "https://e.test", errors.New("x"))), "https://e.test"},
		{"timeout", NewTimeoutError("30s"), ""},
		{"plain", errors.New("boom"), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetEndpoint(tt.err); got != tt.want {
				t.Errorf("GetEndpoint() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"missing credential", ErrMissingCredential, MsgMissingCredential},
		{"wrapped missing credential", fmt.Errorf("submit: %w", ErrMissingCredential), MsgMissingCredential},
		{"api error with server text", NewAPIError(429, "e", "rate limited"), "rate limited"},
		{"api error without server text", NewAPIError(500, "e", ""), MsgUnknownAPIError},
		{"timeout", NewTimeoutError("30s"), MsgTimeout},
		{"network", NewNetworkErrorWithEndpoint("op", "e", errors.New("dial tcp")), MsgTransport},
		{"parse", NewParseError("body is not JSON", ""), "Unexpected response from the completion service: body is not JSON"},
		{"other", errors.New("something else"), "something else"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.want {
				t.Errorf("UserMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}
