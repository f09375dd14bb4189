package http

import (
	"net/url"
	"time"

	"github.com/labstack/echo/v4"

	xutil "InsideX/pkg/util"
)

// ParseIntDefault parses string to int or returns default if empty/invalid.
func ParseIntDefault(s string, def int) int { return xutil.ParseIntDefault(s, def) }

// ParseDate accepts YYYY-MM-DD, RFC3339 or unix seconds.
func ParseDate(s string) (time.Time, bool) { return xutil.ParseDate(s) }

// PathParam returns a route parameter decoded exactly once. Echo routes on
// the decoded path unless the request carries a distinct RawPath (an escaped
// "/" for instance), in which case the value is still escaped.
func PathParam(c echo.Context, name string) (string, error) {
	v := c.Param(name)
	if c.Request().URL.RawPath == "" {
		return v, nil
	}
	return url.PathUnescape(v)
}
