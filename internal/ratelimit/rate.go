// Package ratelimit turns the configured textual rate and storage URL into
// ulule/limiter primitives.
package ratelimit

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ulule/limiter/v3"
)

// DefaultRate is used when RATE_LIMITER is unset.
const DefaultRate = "60/minute"

var (
	// "60/minute", "10 per second", "5/10 seconds"
	textRatePattern = regexp.MustCompile(`^(\d+)\s*(?:/|\s+per\s+)\s*(\d+)?\s*([a-zA-Z]+)$`)
	// limiter-native "60-M"
	nativeRatePattern = regexp.MustCompile(`^\d+-[SMHDsmhd]$`)
	// "10/second;100/minute"
	rateSeparators = regexp.MustCompile(`[,;|]`)
)

var units = map[string]time.Duration{
	"s":       time.Second,
	"sec":     time.Second,
	"second":  time.Second,
	"seconds": time.Second,
	"min":     time.Minute,
	"minute":  time.Minute,
	"minutes": time.Minute,
	"h":       time.Hour,
	"hr":      time.Hour,
	"hour":    time.Hour,
	"hours":   time.Hour,
	"d":       24 * time.Hour,
	"day":     24 * time.Hour,
	"days":    24 * time.Hour,
}

// RateSpecError reports a rate string that could not be parsed.
type RateSpecError struct {
	Spec   string
	Reason string
}

func (e *RateSpecError) Error() string {
	return fmt.Sprintf("invalid rate %q: %s", e.Spec, e.Reason)
}

// ParseRate parses spec into a limiter.Rate.
func ParseRate(spec string) (limiter.Rate, error) {
	s := strings.TrimSpace(spec)
	if s == "" {
		return limiter.Rate{}, &RateSpecError{Spec: spec, Reason: "empty"}
	}

	if nativeRatePattern.MatchString(s) {
		rate, err := limiter.NewRateFromFormatted(strings.ToUpper(s))
		if err != nil {
			return limiter.Rate{}, &RateSpecError{Spec: spec, Reason: err.Error()}
		}
		return rate, nil
	}

	m := textRatePattern.FindStringSubmatch(s)
	if m == nil {
		return limiter.Rate{}, &RateSpecError{Spec: spec, Reason: `expected "<count>/<unit>" or "<count> per <unit>"`}
	}

	limit, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil || limit <= 0 {
		return limiter.Rate{}, &RateSpecError{Spec: spec, Reason: "count must be a positive integer"}
	}

	multiple := int64(1)
	if m[2] != "" {
		multiple, err = strconv.ParseInt(m[2], 10, 64)
		if err != nil || multiple <= 0 {
			return limiter.Rate{}, &RateSpecError{Spec: spec, Reason: "window multiple must be a positive integer"}
		}
	}

	unit, ok := units[strings.ToLower(m[3])]
	if !ok {
		return limiter.Rate{}, &RateSpecError{Spec: spec, Reason: fmt.Sprintf("unknown unit %q", m[3])}
	}

	if multiple > math.MaxInt64/int64(unit) {
		return limiter.Rate{}, &RateSpecError{Spec: spec, Reason: "window is too long"}
	}

	return limiter.Rate{
		Formatted: s,
		Period:    time.Duration(multiple) * unit,
		Limit:     limit,
	}, nil
}

// ParseRates parses one or more rates separated by ";", "," or "|", e.g.
// "10/second;100/minute". Every rate must parse.
func ParseRates(spec string) ([]limiter.Rate, error) {
	if strings.TrimSpace(spec) == "" {
		return nil, &RateSpecError{Spec: spec, Reason: "empty"}
	}
	parts := rateSeparators.Split(spec, -1)
	rates := make([]limiter.Rate, 0, len(parts))
	for _, part := range parts {
		rate, err := ParseRate(part)
		if err != nil {
			return nil, err
		}
		rates = append(rates, rate)
	}
	return rates, nil
}

// RetryAfterSeconds is the window size of rate in whole seconds, at least 1.
func RetryAfterSeconds(rate limiter.Rate) int {
	secs := int(math.Ceil(rate.Period.Seconds()))
	if secs < 1 {
		return 1
	}
	return secs
}
