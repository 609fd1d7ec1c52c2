package instagram

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"instarecon/pkg/config"
	"instarecon/pkg/errors"
	"instarecon/pkg/logger"
)

const testSession = "1234%3Aabcd%3A26"

// newTestClient starts a server running handler and returns a client
// pointed at it with a short timeout
func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *logger.TestLogger) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	log := logger.NewTestLogger()
	client := NewClient(&config.InstagramConfig{
		SessionID: testSession,
		BaseURL:   server.URL,
		Timeout:   100 * time.Millisecond,
	}, log)

	return client, log
}

// newDeadClient returns a client whose server is already gone
func newDeadClient(t *testing.T) *Client {
	t.Helper()

	server := httptest.NewServer(http.NotFoundHandler())
	addr := server.URL
	server.Close()

	return NewClient(&config.InstagramConfig{BaseURL: addr, Timeout: time.Second}, logger.NewNopLogger())
}

// slowHandler never answers before the client gives up
func slowHandler(w http.ResponseWriter, r *http.Request) {
	select {
	case <-time.After(2 * time.Second):
	case <-r.Context().Done():
	}
}

func respond(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		io.WriteString(w, body)
	}
}

// assertExclusive checks that exactly one of value and error is populated
func assertExclusive(t *testing.T, hasValue bool, err error) {
	t.Helper()
	assert.True(t, hasValue != (err != nil), "exactly one of value and error must be set (value=%v, err=%v)", hasValue, err)
}

func TestNewClientDefaults(t *testing.T) {
	client := NewClient(&config.InstagramConfig{}, nil)

	assert.Equal(t, config.DefaultBaseURL, client.http.BaseURL)
	assert.Equal(t, 0, client.http.RetryCount)
	assert.NotNil(t, client.logger)
}

func TestResolveByUserID(t *testing.T) {
	var calls int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		input   string
		want    string
		wantErr errors.ErrorType
	}{
		{input: "123456789", want: "123456789"},
		{input: " +0042 ", want: "42"},
		{input: "-7", want: "-7"},
		{input: "abc", wantErr: errors.ErrorTypeInvalidFormat},
		{input: "12a", wantErr: errors.ErrorTypeInvalidFormat},
		{input: "", wantErr: errors.ErrorTypeInvalidFormat},
		{input: "1.5", wantErr: errors.ErrorTypeInvalidFormat},
		{input: "99999999999999999999999", wantErr: errors.ErrorTypeInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%q", tt.input), func(t *testing.T) {
			res := client.Resolve(context.Background(), ByUserID(tt.input))
			assertExclusive(t, res.ID != "", res.Err)

			if tt.wantErr != "" {
				assert.True(t, errors.Is(res.Err, tt.wantErr), "got %v", res.Err)
				return
			}
			require.NoError(t, res.Err)
			assert.Equal(t, tt.want, res.ID)
		})
	}

	assert.Zero(t, atomic.LoadInt32(&calls), "ID queries must not hit the network")
}

func TestResolveUsername(t *testing.T) {
	t.Run("success sends resolve headers", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, WebProfileInfoPath, r.URL.Path)
			assert.Equal(t, "alice", r.URL.Query().Get("username"))
			assert.Equal(t, "iphone_ua", r.Header.Get("User-Agent"))
			assert.Equal(t, WebAppID, r.Header.Get("X-Ig-App-Id"))

			cookie, err := r.Cookie("sessionid")
			require.NoError(t, err)
			assert.Equal(t, testSession, cookie.Value)

			io.WriteString(w, `{"data":{"user":{"id":"314159","username":"alice"}},"status":"ok"}`)
		})

		res := client.Resolve(context.Background(), ByUsername("alice"))
		require.NoError(t, res.Err)
		assert.Equal(t, "314159", res.ID)
	})

	t.Run("numeric id in body", func(t *testing.T) {
		client, _ := newTestClient(t, respond(http.StatusOK, `{"data":{"user":{"id":271828}}}`))

		res := client.Resolve(context.Background(), ByUsername("bob"))
		require.NoError(t, res.Err)
		assert.Equal(t, "271828", res.ID)
	})

	tests := []struct {
		name     string
		handler  http.HandlerFunc
		wantType errors.ErrorType
	}{
		{"404 is not found", respond(http.StatusNotFound, `{"message":"not found"}`), errors.ErrorTypeNotFound},
		{"404 with html is still not found", respond(http.StatusNotFound, `<html></html>`), errors.ErrorTypeNotFound},
		{"html body is rate limit", respond(http.StatusOK, `<!DOCTYPE html><html>Please wait</html>`), errors.ErrorTypeRateLimit},
		{"empty body is rate limit", respond(http.StatusOK, ``), errors.ErrorTypeRateLimit},
		{"throttled html on 429 is rate limit", respond(http.StatusTooManyRequests, `<html>wait</html>`), errors.ErrorTypeRateLimit},
		{"missing data.user.id is unknown", respond(http.StatusOK, `{"data":{"user":null},"status":"ok"}`), errors.ErrorTypeUnknown},
		{"json error body is unknown", respond(http.StatusBadRequest, `{"message":"useragent mismatch","status":"fail"}`), errors.ErrorTypeUnknown},
		{"timeout", slowHandler, errors.ErrorTypeTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, tt.handler)

			res := client.Resolve(context.Background(), ByUsername("carol"))
			assertExclusive(t, res.ID != "", res.Err)
			assert.Equal(t, tt.wantType, errors.TypeOf(res.Err), "got %v", res.Err)
		})
	}

	t.Run("connection refused is unknown", func(t *testing.T) {
		res := newDeadClient(t).Resolve(context.Background(), ByUsername("dave"))
		assertExclusive(t, res.ID != "", res.Err)
		assert.Equal(t, errors.ErrorTypeUnknown, errors.TypeOf(res.Err))
		assert.Contains(t, res.Err.Error(), "request failed")
	})

	t.Run("rate limit is logged with body preview", func(t *testing.T) {
		client, log := newTestClient(t, respond(http.StatusOK, `<html>`))

		client.Resolve(context.Background(), ByUsername("erin"))

		warns := log.GetMessagesByLevel("WARN")
		require.NotEmpty(t, warns)
		assert.Equal(t, "<html>", warns[0].Fields["body_preview"])
		assert.Equal(t, "erin", warns[0].Fields["username"])
	})
}

func TestFetchProfile(t *testing.T) {
	t.Run("success attaches user id", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "/api/v1/users/42/info/", r.URL.Path)
			assert.Equal(t, "Instagram 64.0.0.14.96", r.Header.Get("User-Agent"))
			assert.Equal(t, "en-US", r.Header.Get("Accept-Language"))

			cookie, err := r.Cookie("sessionid")
			require.NoError(t, err)
			assert.Equal(t, testSession, cookie.Value)

			io.WriteString(w, `{"user":{"username":"alice","follower_count":100,"is_private":false},"status":"ok"}`)
		})

		res := client.FetchProfile(context.Background(), "42")
		require.NoError(t, res.Err)

		want := Profile{
			"username":       "alice",
			"follower_count": json.Number("100"),
			"is_private":     false,
			"userID":         "42",
		}
		if diff := cmp.Diff(want, res.Profile); diff != "" {
			t.Errorf("profile mismatch (-want +got):\n%s", diff)
		}
	})

	tests := []struct {
		name     string
		handler  http.HandlerFunc
		wantType errors.ErrorType
		wantCode int
	}{
		{"429 is rate limit", respond(http.StatusTooManyRequests, `{"message":"Please wait"}`), errors.ErrorTypeRateLimit, 429},
		{"500 is unknown", respond(http.StatusInternalServerError, `oops`), errors.ErrorTypeUnknown, 500},
		{"404 is unknown", respond(http.StatusNotFound, `{}`), errors.ErrorTypeUnknown, 404},
		{"missing user is not found", respond(http.StatusOK, `{"status":"ok"}`), errors.ErrorTypeNotFound, 200},
		{"null user is not found", respond(http.StatusOK, `{"user":null}`), errors.ErrorTypeNotFound, 200},
		{"empty user is not found", respond(http.StatusOK, `{"user":{}}`), errors.ErrorTypeNotFound, 200},
		{"invalid json is unknown", respond(http.StatusOK, `<html>`), errors.ErrorTypeUnknown, 200},
		{"timeout", slowHandler, errors.ErrorTypeTimeout, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, tt.handler)

			res := client.FetchProfile(context.Background(), "42")
			assertExclusive(t, res.Profile != nil, res.Err)
			assert.Equal(t, tt.wantType, errors.TypeOf(res.Err), "got %v", res.Err)

			var apiErr *errors.Error
			require.ErrorAs(t, res.Err, &apiErr)
			assert.Equal(t, tt.wantCode, apiErr.Code)
		})
	}

	t.Run("unexpected status message", func(t *testing.T) {
		client, _ := newTestClient(t, respond(http.StatusBadGateway, ``))

		res := client.FetchProfile(context.Background(), "42")
		assert.EqualError(t, res.Err, "request failed: unexpected status code 502")
	})
}

func TestLookupObfuscated(t *testing.T) {
	t.Run("posts signed body with lookup headers", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, UserLookupPath, r.URL.Path)
			assert.Equal(t, "Instagram 101.0.0.15.120", r.Header.Get("User-Agent"))
			assert.Equal(t, "en-US", r.Header.Get("Accept-Language"))
			assert.Equal(t, "application/x-www-form-urlencoded; charset=UTF-8", r.Header.Get("Content-Type"))
			assert.Equal(t, LookupAppID, r.Header.Get("X-IG-App-ID"))
			assert.Equal(t, "gzip, deflate", r.Header.Get("Accept-Encoding"))

			_, err := r.Cookie("sessionid")
			assert.ErrorIs(t, err, http.ErrNoCookie)

			raw, err := io.ReadAll(r.Body)
			require.NoError(t, err)
			want, _ := SignedLookupBody("alice")
			assert.Equal(t, want, string(raw))

			form, err := url.ParseQuery(string(raw))
			require.NoError(t, err)
			assert.Equal(t, `SIGNATURE.{"q":"alice","skip_recovery":"1"}`, form.Get("signed_body"))

			io.WriteString(w, `{"obfuscated_email":"a***e@g****.com","obfuscated_phone":"+1 ***-***-**42","status":"ok"}`)
		})

		res := client.LookupObfuscated(context.Background(), "alice")
		require.NoError(t, res.Err)
		assert.Equal(t, "a***e@g****.com", res.Payload.String("obfuscated_email"))
		assert.Equal(t, "+1 ***-***-**42", res.Payload.String("obfuscated_phone"))
	})

	t.Run("payload returned verbatim on error status", func(t *testing.T) {
		client, _ := newTestClient(t, respond(http.StatusNotFound, `{"message":"No users found","status":"fail"}`))

		res := client.LookupObfuscated(context.Background(), "ghost")
		require.NoError(t, res.Err)
		assert.Equal(t, "No users found", res.Payload.String("message"))
	})

	tests := []struct {
		name     string
		handler  http.HandlerFunc
		wantType errors.ErrorType
	}{
		{"html is rate limit", respond(http.StatusOK, `<html>`), errors.ErrorTypeRateLimit},
		{"non-object json is unknown", respond(http.StatusOK, `["x"]`), errors.ErrorTypeUnknown},
		{"timeout", slowHandler, errors.ErrorTypeTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, tt.handler)

			res := client.LookupObfuscated(context.Background(), "alice")
			assertExclusive(t, res.Payload != nil, res.Err)
			assert.Equal(t, tt.wantType, errors.TypeOf(res.Err))
		})
	}

	t.Run("transport failure degrades to unknown", func(t *testing.T) {
		res := newDeadClient(t).LookupObfuscated(context.Background(), "alice")
		assertExclusive(t, res.Payload != nil, res.Err)
		assert.Equal(t, errors.ErrorTypeUnknown, errors.TypeOf(res.Err))
	})
}

func TestCancelledContext(t *testing.T) {
	client, _ := newTestClient(t, slowHandler)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := client.Resolve(ctx, ByUsername("alice"))
	require.Error(t, res.Err)
	assert.True(t, errors.IsCancelled(res.Err))
}
