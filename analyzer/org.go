package analyzer

import (
	"net/url"
	"strings"
)

const hostingDomain = "github.com"

// ExtractOrg resolves a free-form GitHub org URL to a login. Accepts bare
// hosts without a scheme and trailing slashes; anything unparsable or not on
// github.com yields ok=false.
func ExtractOrg(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	s = strings.TrimRight(s, "/")
	if s == "" {
		return "", false
	}
	if !strings.Contains(s, "://") {
		s = "https://" + s
	}

	u, err := url.Parse(s)
	if err != nil {
		return "", false
	}
	if !strings.Contains(u.Host, hostingDomain) {
		return "", false
	}
	for _, seg := range strings.Split(u.Path, "/") {
		if seg != "" {
			return seg, true
		}
	}
	return "", false
}
