package processor

import (
	"net/url"
	"strings"
)

// fragmentKey is the URL fragment parameter carrying the payload
const fragmentKey = "report"

// ShareURL appends the payload to baseURL as "#report=<payload>"
func ShareURL(baseURL, payload string) string {
	base := strings.SplitN(baseURL, "#", 2)[0]
	return base + "#" + fragmentKey + "=" + url.QueryEscape(payload)
}

// ParseShareFragment extracts the payload from a share URL, a bare fragment
// ("#report=..." or "report=...") or the payload itself. Percent-encoding is undone.
func ParseShareFragment(input string) string {
	s := strings.TrimSpace(input)
	if i := strings.Index(s, "#"); i >= 0 {
		s = s[i+1:]
	}
	if values, err := url.ParseQuery(s); err == nil {
		if payload := values.Get(fragmentKey); payload != "" {
			return payload
		}
	}
	if unescaped, err := url.QueryUnescape(s); err == nil {
		return unescaped
	}
	return s
}
