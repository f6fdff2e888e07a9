package espn

import (
	"fmt"
	"net/url"
	"strings"
)

// ExtractCookies pulls the ESPN_S2 and SWID values out of a raw browser
// cookie string ("name=value; name=value; ..."). Cookie names are matched
// case-insensitively because browsers report espn_s2 in lowercase.
func ExtractCookies(cookieString string) (espnS2, swid string, err error) {
	for _, cookie := range strings.Split(cookieString, ";") {
		cookie = strings.TrimSpace(cookie)
		name, value, found := strings.Cut(cookie, "=")
		if !found {
			continue
		}
		switch {
		case strings.EqualFold(name, "ESPN_S2"):
			espnS2 = value
		case strings.EqualFold(name, "SWID"):
			swid = value
		}
	}

	if espnS2 == "" || swid == "" {
		return "", "", fmt.Errorf("cookie string does not contain both ESPN_S2 and SWID")
	}
	return espnS2, swid, nil
}

// decodeCookie reverses URL encoding that browsers apply to cookie values.
// An undecodable value is passed through unchanged.
func decodeCookie(value string) string {
	decoded, err := url.QueryUnescape(value)
	if err != nil {
		return value
	}
	return decoded
}
