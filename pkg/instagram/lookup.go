package instagram

import (
	"context"

	"instarecon/pkg/errors"
)

// LookupObfuscated queries the account-recovery lookup for masked contact
// hints. The result is best effort: callers render failures inline and carry
// on. The status code is ignored because the endpoint reports "no users
// found" and similar outcomes as JSON on non-2xx responses.
func (c *Client) LookupObfuscated(ctx context.Context, username string) ContactLookupResult {
	return newContactLookupResult(c.lookupObfuscated(ctx, username))
}

func (c *Client) lookupObfuscated(ctx context.Context, username string) (Profile, error) {
	log := c.logger.WithField("username", username)

	body, err := SignedLookupBody(username)
	if err != nil {
		return nil, errors.Unknown("%v", err).WithCause(err)
	}

	resp, err := c.do(ctx, lookupRequest(body))
	if err != nil {
		return nil, err
	}

	doc, err := errors.DecodeBody(resp.Body)
	if err != nil {
		log.WarnWithFields("lookup response is not JSON, treating as rate limit", map[string]interface{}{
			"status":       resp.StatusCode,
			"body_preview": bodyPreview(resp.Body),
		})
		return nil, err
	}

	payload, ok := doc.(map[string]interface{})
	if !ok {
		return nil, errors.Unknown("unexpected response: lookup payload is not an object").WithCode(resp.StatusCode)
	}

	return Profile(payload), nil
}
