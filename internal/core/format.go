package core

import (
	"net/url"
	"strconv"
	"strings"
	"time"
)

// FormatDate renders a webhook creation time like "Jan 2, 03:04 PM".
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("Jan 2, 03:04 PM")
}

// FormatUserDate renders t as a full date-time in loc, including the zone
// abbreviation. A nil loc means the local zone.
func FormatUserDate(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return "-"
	}
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format("1/2/2006, 3:04:05 PM MST")
}

// FormatResponseTime renders an optional response time in milliseconds.
func FormatResponseTime(ms *float64) string {
	if ms == nil {
		return "-ms"
	}
	return strconv.FormatFloat(*ms, 'f', -1, 64) + "ms"
}

// Plural returns "1 webhook" / "2 webhooks".
func Plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return strconv.Itoa(n) + " " + noun + "s"
}

// PublicURL derives the public capture URL for an endpoint from the API base
// URL by removing the first "api" path segment and appending
// /webhook/<endpoint>.
func PublicURL(apiBase, endpoint string) string {
	return publicBase(apiBase) + "/webhook/" + endpoint
}

func publicBase(apiBase string) string {
	u, err := url.Parse(apiBase)
	if err != nil || u.Host == "" {
		return strings.TrimRight(strings.Replace(apiBase, "/api", "", 1), "/")
	}

	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i, seg := range segments {
		if seg == "api" {
			segments = append(segments[:i], segments[i+1:]...)
			break
		}
	}
	u.Path = strings.Join(segments, "/")
	if u.Path != "" {
		u.Path = "/" + u.Path
	}
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return strings.TrimRight(u.String(), "/")
}
