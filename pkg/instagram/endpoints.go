package instagram

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

const (
	// WebProfileInfoPath resolves a username to its profile summary
	WebProfileInfoPath = "/api/v1/users/web_profile_info/"

	// UserLookupPath is the account-recovery lookup returning masked contacts
	UserLookupPath = "/api/v1/users/lookup/"

	// WebAppID identifies the web client on the resolve endpoint
	WebAppID = "936619743392459"

	// LookupAppID identifies the Android client on the lookup endpoint
	LookupAppID = "124024574287414"

	// signaturePrefix stands in for a real request signature; the lookup
	// endpoint accepts it as is.
	signaturePrefix = "SIGNATURE."
)

// UserInfoPath returns the full-profile endpoint for a numeric user ID
func UserInfoPath(userID string) string {
	return fmt.Sprintf("/api/v1/users/%s/info/", url.PathEscape(userID))
}

// The remote service varies its behaviour by client identity, so each
// endpoint keeps its own header set.

func resolveRequest(username string) request {
	return request{
		method: http.MethodGet,
		path:   WebProfileInfoPath,
		query:  map[string]string{"username": username},
		headers: map[string]string{
			"User-Agent":  "iphone_ua",
			"x-ig-app-id": WebAppID,
		},
		withSession: true,
	}
}

func profileRequest(userID string) request {
	return request{
		method: http.MethodGet,
		path:   UserInfoPath(userID),
		headers: map[string]string{
			"User-Agent":      "Instagram 64.0.0.14.96",
			"Accept-Language": "en-US",
		},
		withSession: true,
	}
}

func lookupRequest(body string) request {
	return request{
		method: http.MethodPost,
		path:   UserLookupPath,
		headers: map[string]string{
			"Accept-Language": "en-US",
			"User-Agent":      "Instagram 101.0.0.15.120",
			"Content-Type":    "application/x-www-form-urlencoded; charset=UTF-8",
			"X-IG-App-ID":     LookupAppID,
			"Accept-Encoding": "gzip, deflate",
		},
		body: body,
	}
}

type lookupQuery struct {
	Q            string `json:"q"`
	SkipRecovery string `json:"skip_recovery"`
}

// SignedLookupBody builds the form payload for the lookup endpoint:
// the placeholder signature followed by the URL-encoded compact JSON query.
func SignedLookupBody(username string) (string, error) {
	payload, err := json.Marshal(lookupQuery{Q: username, SkipRecovery: "1"})
	if err != nil {
		return "", fmt.Errorf("failed to encode lookup query: %w", err)
	}
	return "signed_body=" + signaturePrefix + url.QueryEscape(string(payload)), nil
}

// SanitizeUsername strips a leading @ and trailing slashes or spaces, as
// found in pasted profile handles and URLs.
func SanitizeUsername(username string) string {
	username = strings.TrimSpace(username)
	username = strings.TrimPrefix(username, "@")
	return strings.TrimRight(username, "/ ")
}
