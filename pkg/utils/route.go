package utils

import "strings"

// RouteSeparator joins the two airport codes of a route, direction-significant.
const RouteSeparator = "-"

// SplitRoute decomposes a route into its origin and destination tokens.
// hasSeparator reports whether the route contained the separator at all;
// a route like "OGL-" yields ("OGL", "", true) — an incomplete route, not an error.
func SplitRoute(route string) (origin, destination string, hasSeparator bool) {
	idx := strings.Index(route, RouteSeparator)
	if idx < 0 {
		return route, "", false
	}
	return route[:idx], route[idx+len(RouteSeparator):], true
}

// JoinRoute builds a route string from origin and destination. The separator
// is always present so an empty destination reads as an incomplete route.
func JoinRoute(origin, destination string) string {
	return origin + RouteSeparator + destination
}

// ReverseRoute returns the reversed route "B-A" for "A-B". Routes without a
// separator, or with an empty token on either side, cannot be reversed and
// yield an empty string.
func ReverseRoute(route string) string {
	origin, destination, ok := SplitRoute(route)
	if !ok || origin == "" || destination == "" {
		return ""
	}
	return JoinRoute(destination, origin)
}
