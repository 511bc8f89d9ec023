package cors

import (
	"fmt"
	"regexp"
	"strings"
)

// Wildcard allows any origin, method or header.
const Wildcard = "*"

// originPattern matches scheme://host[:port][/path]. Host labels are 1-63
// alphanumerics with internal hyphens.
var originPattern = regexp.MustCompile(`(?i)^https?://` +
	`(?:(?:[a-z0-9](?:[a-z0-9-]{0,61}[a-z0-9])?\.)*[a-z0-9](?:[a-z0-9-]{0,61}[a-z0-9])?)` +
	`(?::\d+)?` +
	`(?:/\S*)?$`)

// ValidateOrigin reports whether origin is the wildcard or a well-formed
// http(s) origin.
func ValidateOrigin(origin string) bool {
	if origin == Wildcard {
		return true
	}
	return originPattern.MatchString(origin)
}

// ParseOrigins turns the configured origins string into an allow-list.
//
// A wildcard is honoured only in development. Elsewhere a bare wildcard
// yields an empty list, which denies every cross-origin request, and a
// wildcard entry inside a list is dropped. Otherwise entries are split on
// commas and trimmed, and entries that fail ValidateOrigin are dropped.
// Order and duplicates are preserved. The result is never nil.
func ParseOrigins(raw string, env Environment) []string {
	dev := env.Kind() == KindDevelopment
	if raw == Wildcard {
		if dev {
			return []string{Wildcard}
		}
		return []string{}
	}

	origins := make([]string, 0)
	for _, origin := range splitTrimmed(raw) {
		if origin == Wildcard && !dev {
			continue
		}
		if ValidateOrigin(origin) {
			origins = append(origins, origin)
		}
	}
	return origins
}

// HasWildcard reports whether raw is or contains the wildcard entry.
func HasWildcard(raw string) bool {
	for _, origin := range splitTrimmed(raw) {
		if origin == Wildcard {
			return true
		}
	}
	return false
}

// DroppedOrigins returns the entries of raw that ParseOrigins discards
// because they are not well-formed origins.
func DroppedOrigins(raw string) []string {
	if raw == Wildcard {
		return nil
	}
	var dropped []string
	for _, origin := range splitTrimmed(raw) {
		if !ValidateOrigin(origin) {
			dropped = append(dropped, origin)
		}
	}
	return dropped
}

// IsSecure reports whether origins are acceptable for env.
//
// Development accepts anything. Any other environment rejects the wildcard,
// and production additionally rejects plain-http origins other than
// http://localhost.
func IsSecure(origins []string, env Environment) bool {
	kind := env.Kind()
	if kind == KindDevelopment {
		return true
	}

	for _, origin := range origins {
		if origin == Wildcard {
			return false
		}
	}

	if kind == KindProduction {
		for _, origin := range origins {
			if strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "http://localhost") {
				return false
			}
		}
	}

	return true
}

// InvalidOriginError is returned by CheckOrigins for the first entry that is
// not an http(s) URL.
type InvalidOriginError struct {
	Origin string
}

func (e *InvalidOriginError) Error() string {
	return fmt.Sprintf("invalid origin format: %s. must start with http:// or https://", e.Origin)
}

// CheckOrigins is the load-time check for the configured origins string. The
// wildcard is always accepted; otherwise every non-empty entry must carry an
// http:// or https:// scheme.
func CheckOrigins(raw string) error {
	if raw == Wildcard {
		return nil
	}
	for _, origin := range splitTrimmed(raw) {
		if !strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://") {
			return &InvalidOriginError{Origin: origin}
		}
	}
	return nil
}
