package cache

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// KeyPrefix namespaces every cache key.
const KeyPrefix = "pokeapi"

// CacheKey identifies a cached upstream response.
type CacheKey struct {
	// Endpoint is the request path (e.g. "/api/v2/pokemon/pikachu")
	Endpoint string

	// QueryParams are the query parameters (e.g. limit=100000, offset=0)
	QueryParams url.Values
}

// String generates a deterministic cache key string.
//
// Example:
//
//	pokeapi:api/v2/pokemon:limit=100000:offset=0
func (k CacheKey) String() string {
	parts := []string{KeyPrefix}

	endpoint := strings.ToLower(strings.Trim(k.Endpoint, "/"))
	if endpoint != "" {
		parts = append(parts, endpoint)
	}

	if len(k.QueryParams) > 0 {
		keys := make([]string, 0, len(k.QueryParams))
		for key := range k.QueryParams {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		for _, key := range keys {
			values := append([]string(nil), k.QueryParams[key]...)
			sort.Strings(values)
			parts = append(parts, fmt.Sprintf("%s=%s", key, strings.Join(values, ",")))
		}
	}

	return strings.Join(parts, ":")
}
