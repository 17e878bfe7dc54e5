package http

import (
	"net/http"
	"strconv"
)

// queryInt reads an integer query parameter, falling back when absent or
// malformed. Services clamp ranges themselves.
func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

// queryStringPtr returns a pointer to the parameter value, or nil when the
// parameter is absent or empty. Filters treat nil as "no constraint".
func queryStringPtr(r *http.Request, key string) *string {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil
	}
	return &raw
}

// queryBool reads a boolean query parameter ("true"/"1" are truthy).
func queryBool(r *http.Request, key string) bool {
	raw := r.URL.Query().Get(key)
	return raw == "true" || raw == "1"
}
