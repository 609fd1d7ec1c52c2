package instagram

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"instarecon/pkg/errors"
)

// Resolve maps a query to a numeric user ID. ID queries are validated
// locally without any network call; username queries hit the web profile
// endpoint.
func (c *Client) Resolve(ctx context.Context, q SearchQuery) LookupResult {
	if q.Kind() == QueryUserID {
		return newLookupResult(NormalizeUserID(q.Value()))
	}
	return newLookupResult(c.resolveUsername(ctx, q.Value()))
}

// NormalizeUserID checks that raw is a base-10 integer and returns its
// canonical form ("+0042" becomes "42").
func NormalizeUserID(raw string) (string, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return "", errors.InvalidFormat().WithCause(err)
	}
	return strconv.FormatInt(n, 10), nil
}

func (c *Client) resolveUsername(ctx context.Context, username string) (string, error) {
	log := c.logger.WithField("username", username)

	resp, err := c.do(ctx, resolveRequest(username))
	if err != nil {
		return "", err
	}

	if resp.StatusCode == http.StatusNotFound {
		log.Debug("username not found")
		return "", errors.NotFound().WithCode(resp.StatusCode)
	}

	doc, err := errors.DecodeBody(resp.Body)
	if err != nil {
		log.WarnWithFields("profile info response is not JSON, treating as rate limit", map[string]interface{}{
			"status":       resp.StatusCode,
			"body_preview": bodyPreview(resp.Body),
		})
		return "", err
	}

	// TODO: decide whether a 2xx body without data.user.id deserves its own
	// error kind instead of unknown.
	id, ok := userIDFrom(doc)
	if !ok {
		log.WarnWithFields("profile info response has no user id", map[string]interface{}{
			"status":       resp.StatusCode,
			"body_preview": bodyPreview(resp.Body),
		})
		return "", errors.Unknown("unexpected response: missing data.user.id").WithCode(resp.StatusCode)
	}

	log.DebugWithFields("resolved username", map[string]interface{}{"user_id": id})
	return id, nil
}

// userIDFrom reads data.user.id, accepting string or numeric IDs
func userIDFrom(doc interface{}) (string, bool) {
	root, _ := doc.(map[string]interface{})
	data, _ := root["data"].(map[string]interface{})
	user, _ := data["user"].(map[string]interface{})

	switch id := user["id"].(type) {
	case string:
		return id, id != ""
	case json.Number:
		return id.String(), true
	default:
		return "", false
	}
}
