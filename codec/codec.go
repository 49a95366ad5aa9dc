// Package codec provides Transform functions that turn configuration strings
// into richer Go values. Each function is meant for dsl's Transform combinator:
//
//	g.Bind("TIMEOUT").String().Default("5s").Transform(codec.Duration())
//
// Values that already have the target type pass through unchanged, so the
// same field can be fed from YAML (which may decode timestamps and lists
// natively) and from the environment.
package codec

import (
	"context"
	"net/url"
	"strings"
	"time"

	envskema "github.com/reoring/envskema"
	"github.com/reoring/envskema/i18n"
)

// Func is the signature accepted by dsl Transform.
type Func = func(ctx context.Context, v any) (any, error)

// TimeRFC3339 converts an RFC 3339 string (fractional seconds optional) to
// time.Time.
func TimeRFC3339() Func {
	return func(_ context.Context, v any) (any, error) {
		switch t := v.(type) {
		case time.Time:
			return t, nil
		case string:
			tm, err := parseRFC3339(t)
			if err != nil {
				return nil, formatIssue("RFC3339 time", err)
			}
			return tm, nil
		}
		return nil, formatIssue("RFC3339 time", nil)
	}
}

// Duration converts a string such as "1m30s" to time.Duration.
func Duration() Func {
	return func(_ context.Context, v any) (any, error) {
		switch t := v.(type) {
		case time.Duration:
			return t, nil
		case string:
			d, err := time.ParseDuration(strings.TrimSpace(t))
			if err != nil {
				return nil, formatIssue("duration", err)
			}
			return d, nil
		}
		return nil, formatIssue("duration", nil)
	}
}

// List splits a string on sep into a []string, trimming spaces and dropping
// empty items. A YAML sequence of strings is accepted as is.
func List(sep string) Func {
	return func(_ context.Context, v any) (any, error) {
		switch t := v.(type) {
		case []string:
			return t, nil
		case []any:
			out := make([]string, 0, len(t))
			for _, it := range t {
				s, ok := it.(string)
				if !ok {
					return nil, formatIssue("list of strings", nil)
				}
				out = append(out, s)
			}
			return out, nil
		case string:
			out := []string{}
			for _, part := range strings.Split(t, sep) {
				if part = strings.TrimSpace(part); part != "" {
					out = append(out, part)
				}
			}
			return out, nil
		}
		return nil, formatIssue("list of strings", nil)
	}
}

// URL parses an absolute URL (scheme and host required) into *url.URL.
func URL() Func {
	return func(_ context.Context, v any) (any, error) {
		switch t := v.(type) {
		case *url.URL:
			return t, nil
		case string:
			u, err := url.Parse(strings.TrimSpace(t))
			if err != nil {
				return nil, formatIssue("absolute URL", err)
			}
			if u.Scheme == "" || u.Host == "" {
				return nil, formatIssue("absolute URL", nil)
			}
			return u, nil
		}
		return nil, formatIssue("absolute URL", nil)
	}
}

func formatIssue(format string, cause error) envskema.Issues {
	return envskema.Issues{{
		Path:    "/",
		Code:    envskema.CodeInvalidFormat,
		Message: i18n.T(envskema.CodeInvalidFormat, map[string]string{"format": format}),
		Cause:   cause,
		Params:  map[string]any{"format": format},
	}}
}

func parseRFC3339(s string) (time.Time, error) {
	// RFC3339Nano also accepts inputs without fractional seconds
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		if t2, err2 := time.Parse(time.RFC3339, s); err2 == nil {
			return t2, nil
		}
		return time.Time{}, err
	}
	return t, nil
}
