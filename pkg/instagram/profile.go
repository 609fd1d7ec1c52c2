package instagram

import (
	"context"
	"net/http"

	"instarecon/pkg/errors"
)

// UserIDField is where the resolved identifier is attached on a profile
const UserIDField = "userID"

// FetchProfile retrieves the full profile record for a resolved user ID
func (c *Client) FetchProfile(ctx context.Context, userID string) ProfileResult {
	return newProfileResult(c.fetchProfile(ctx, userID))
}

func (c *Client) fetchProfile(ctx context.Context, userID string) (Profile, error) {
	log := c.logger.WithField("user_id", userID)

	resp, err := c.do(ctx, profileRequest(userID))
	if err != nil {
		return nil, err
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		log.Warn("profile request rate limited")
		return nil, errors.RateLimited().WithCode(resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		log.WarnWithFields("profile request failed", map[string]interface{}{
			"status":       resp.StatusCode,
			"body_preview": bodyPreview(resp.Body),
		})
		return nil, errors.Unknown("request failed: unexpected status code %d", resp.StatusCode).WithCode(resp.StatusCode)
	}

	doc, err := errors.DecodeBody(resp.Body)
	if err != nil {
		return nil, errors.Unknown("request failed: invalid JSON in profile response").
			WithCode(resp.StatusCode).
			WithCause(err)
	}

	root, _ := doc.(map[string]interface{})
	user, _ := root["user"].(map[string]interface{})
	if len(user) == 0 {
		log.Debug("profile response has no user")
		return nil, errors.NotFound().WithCode(resp.StatusCode)
	}

	user[UserIDField] = userID
	return Profile(user), nil
}
