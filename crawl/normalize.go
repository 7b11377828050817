package crawl

import (
	"net/url"
	"strings"

	"github.com/fwojciec/webcompare"
)

// NormalizeURL strips the query string and fragment from rawURL. The rest
// of the URL is kept byte for byte, so prefix checks against the origin
// base stay exact.
func NormalizeURL(rawURL string) string {
	if i := strings.IndexAny(rawURL, "?#"); i != -1 {
		return rawURL[:i]
	}
	return rawURL
}

// TargetURL derives the target URL for originURL by replacing the first
// occurrence of originBase with targetBase. It returns EINTERNAL if the
// result is identical to originURL.
func TargetURL(originURL, originBase, targetBase string) (string, error) {
	target := strings.Replace(originURL, originBase, targetBase, 1)
	if target == originURL {
		return "", webcompare.Errorf(webcompare.EINTERNAL, "target url %q is the same as the origin url", target)
	}
	return target, nil
}

// validateBase checks that base is an absolute http(s) URL.
func validateBase(name, base string) error {
	if base == "" {
		return webcompare.Errorf(webcompare.EINVALID, "%s url required", name)
	}
	u, err := url.Parse(base)
	if err != nil {
		return webcompare.Errorf(webcompare.EINVALID, "invalid %s url %q: %v", name, base, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return webcompare.Errorf(webcompare.EINVALID, "%s url %q must use http or https", name, base)
	}
	if u.Host == "" {
		return webcompare.Errorf(webcompare.EINVALID, "%s url %q has no host", name, base)
	}
	return nil
}
