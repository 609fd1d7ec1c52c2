package instagram

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"math"
	"sort"
	"strconv"

	"instarecon/pkg/errors"
)

// QueryKind tells which identifier a SearchQuery carries
type QueryKind int

const (
	QueryUsername QueryKind = iota
	QueryUserID
)

func (k QueryKind) String() string {
	if k == QueryUserID {
		return "id"
	}
	return "username"
}

// SearchQuery is either a username or a numeric user ID, never both
type SearchQuery struct {
	kind  QueryKind
	value string
}

// ByUsername queries by account handle
func ByUsername(username string) SearchQuery {
	return SearchQuery{kind: QueryUsername, value: username}
}

// ByUserID queries by numeric account identifier
func ByUserID(id string) SearchQuery {
	return SearchQuery{kind: QueryUserID, value: id}
}

func (q SearchQuery) Kind() QueryKind { return q.kind }
func (q SearchQuery) Value() string   { return q.value }

func (q SearchQuery) String() string {
	return fmt.Sprintf("%s: %s", q.kind, q.value)
}

// LookupResult holds either a resolved user ID or the reason resolution failed
type LookupResult struct {
	ID  string
	Err error
}

// ProfileResult holds either a profile record or the reason fetching failed
type ProfileResult struct {
	Profile Profile
	Err     error
}

// ContactLookupResult holds either the raw lookup payload or the reason the
// lookup failed
type ContactLookupResult struct {
	Payload Profile
	Err     error
}

// asAPIError makes sure every failure leaving the package is classified
func asAPIError(err error) error {
	var apiErr *errors.Error
	if stderrors.As(err, &apiErr) {
		return err
	}
	return errors.Unknown("%v", err).WithCause(err)
}

func newLookupResult(id string, err error) LookupResult {
	switch {
	case err != nil:
		return LookupResult{Err: asAPIError(err)}
	case id == "":
		return LookupResult{Err: errors.Unknown("unexpected response: empty user id")}
	default:
		return LookupResult{ID: id}
	}
}

func newProfileResult(p Profile, err error) ProfileResult {
	switch {
	case err != nil:
		return ProfileResult{Err: asAPIError(err)}
	case p == nil:
		return ProfileResult{Err: errors.NotFound()}
	default:
		return ProfileResult{Profile: p}
	}
}

func newContactLookupResult(p Profile, err error) ContactLookupResult {
	switch {
	case err != nil:
		return ContactLookupResult{Err: asAPIError(err)}
	case p == nil:
		return ContactLookupResult{Err: errors.Unknown("unexpected response: empty lookup payload")}
	default:
		return ContactLookupResult{Payload: p}
	}
}

// NotAvailable is what String returns for absent fields
const NotAvailable = "N/A"

// Profile is a loosely typed API record. No schema is enforced; every
// accessor has a documented default so rendering never fails on a missing
// field: "N/A" for strings, 0 for numbers, false for booleans.
type Profile map[string]interface{}

// Has reports whether key is present, even with a null value
func (p Profile) Has(key string) bool {
	_, ok := p[key]
	return ok
}

// String returns the field as text, or "N/A" when absent or null
func (p Profile) String(key string) string {
	v, ok := p[key]
	if !ok || v == nil {
		return NotAvailable
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Int returns the field as an integer, or 0 when absent or not numeric
func (p Profile) Int(key string) int64 {
	switch v := p[key].(type) {
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n
		}
		if f, err := v.Float64(); err == nil {
			return clampFloat(f)
		}
	case float64:
		return clampFloat(v)
	case int:
		return int64(v)
	case int64:
		return v
	case int32:
		return int64(v)
	case string:
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return 0
}

// Count is Int for counters: negative values are reported as 0
func (p Profile) Count(key string) int64 {
	if n := p.Int(key); n > 0 {
		return n
	}
	return 0
}

// Bool returns the truthiness of the field, false when absent
func (p Profile) Bool(key string) bool {
	return truthy(p[key])
}

// Truthy reports whether the field is present with a non-empty, non-zero value
func (p Profile) Truthy(key string) bool {
	return truthy(p[key])
}

// Map returns a nested record, or nil when absent or not an object
func (p Profile) Map(key string) Profile {
	switch v := p[key].(type) {
	case map[string]interface{}:
		return Profile(v)
	case Profile:
		return v
	}
	return nil
}

// Keys returns the field names in sorted order
func (p Profile) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func truthy(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case json.Number:
		f, err := t.Float64()
		return err != nil || f != 0
	case float64:
		return t != 0
	case int:
		return t != 0
	case int64:
		return t != 0
	case map[string]interface{}:
		return len(t) > 0
	case Profile:
		return len(t) > 0
	case []interface{}:
		return len(t) > 0
	default:
		return true
	}
}

func clampFloat(f float64) int64 {
	switch {
	case math.IsNaN(f):
		return 0
	case f >= math.MaxInt64:
		return math.MaxInt64
	case f <= math.MinInt64:
		return math.MinInt64
	}
	return int64(f)
}
