package errors

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestMessages(t *testing.T) {
	tests := []struct {
		err  *Error
		typ  ErrorType
		want string
	}{
		{NotFound(), ErrorTypeNotFound, "User not found"},
		{RateLimited(), ErrorTypeRateLimit, "Rate limit - please wait before trying again"},
		{Timeout(), ErrorTypeTimeout, "Request timeout - please try again"},
		{InvalidFormat(), ErrorTypeInvalidFormat, "Invalid ID format"},
		{Unknown("boom %d", 42), ErrorTypeUnknown, "boom 42"},
	}

	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			assert.Equal(t, tt.typ, tt.err.Type)
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestTypeOf(t *testing.T) {
	wrapped := fmt.Errorf("resolve: %w", NotFound())
	assert.Equal(t, ErrorTypeNotFound, TypeOf(wrapped))
	assert.True(t, Is(wrapped, ErrorTypeNotFound))
	assert.False(t, Is(wrapped, ErrorTypeTimeout))

	assert.Equal(t, ErrorTypeUnknown, TypeOf(stderrors.New("plain")))
}

func TestFromTransport(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		assert.Nil(t, FromTransport(nil))
	})

	t.Run("cancelled", func(t *testing.T) {
		err := FromTransport(fmt.Errorf("get: %w", context.Canceled))
		assert.Equal(t, ErrorTypeUnknown, err.Type)
		assert.True(t, IsCancelled(err))
	})

	t.Run("deadline exceeded", func(t *testing.T) {
		err := FromTransport(fmt.Errorf("get: %w", context.DeadlineExceeded))
		assert.Equal(t, ErrorTypeTimeout, err.Type)
	})

	t.Run("net timeout", func(t *testing.T) {
		err := FromTransport(&url.Error{Op: "Get", URL: "https://x", Err: timeoutErr{}})
		assert.Equal(t, ErrorTypeTimeout, err.Type)
	})

	t.Run("other", func(t *testing.T) {
		cause := stderrors.New("connection refused")
		err := FromTransport(cause)
		assert.Equal(t, ErrorTypeUnknown, err.Type)
		assert.Contains(t, err.Error(), "connection refused")
		assert.ErrorIs(t, err, cause)
	})
}

func TestDecodeBody(t *testing.T) {
	t.Run("object keeps numbers exact", func(t *testing.T) {
		v, err := DecodeBody([]byte(`{"follower_count": 12345678901}`))
		require.NoError(t, err)
		m, ok := v.(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, json.Number("12345678901"), m["follower_count"])
	})

	for name, body := range map[string]string{
		"html":     "<!DOCTYPE html><html></html>",
		"empty":    "",
		"trailing": `{"a":1} {"b":2}`,
		"broken":   `{"a":`,
	} {
		t.Run(name+" is rate limited", func(t *testing.T) {
			v, err := DecodeBody([]byte(body))
			assert.Nil(t, v)
			assert.True(t, Is(err, ErrorTypeRateLimit))
		})
	}
}

func TestIsCancelled(t *testing.T) {
	assert.True(t, IsCancelled(fmt.Errorf("x: %w", context.Canceled)))
	assert.False(t, IsCancelled(context.DeadlineExceeded))
}

func TestHint(t *testing.T) {
	assert.NotEmpty(t, Hint(ErrorTypeRateLimit))
	assert.NotEmpty(t, Hint(ErrorTypeNotFound))
	assert.NotEmpty(t, Hint(ErrorTypeTimeout))
	assert.Empty(t, Hint(ErrorTypeInvalidFormat))
	assert.Empty(t, Hint(ErrorTypeUnknown))
}
