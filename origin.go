package main

import (
	"net/http"
	"net/url"
	"strings"
)

// checkOrigin builds the upgrader's origin policy. A nil result leaves
// gorilla's same-host check in place.
func checkOrigin(allowed string) func(r *http.Request) bool {
	allowed = strings.TrimSpace(allowed)
	switch allowed {
	case "":
		return nil
	case "*":
		return func(*http.Request) bool { return true }
	}
	want, ok := normalizeOrigin(allowed)
	return func(r *http.Request) bool {
		if !ok {
			return false
		}
		got, valid := normalizeOrigin(r.Header.Get("Origin"))
		return valid && got == want
	}
}

func normalizeOrigin(origin string) (string, bool) {
	parsed, err := url.Parse(origin)
	if err != nil {
		return "", false
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return "", false
	}
	return strings.ToLower(parsed.Scheme) + "://" + strings.ToLower(parsed.Host), true
}
