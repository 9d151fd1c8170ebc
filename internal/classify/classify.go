// Package classify maps input URLs onto supported platforms and content IDs.
// It is pure pattern matching with no network or subprocess access.
package classify

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/iconidentify/grabba/internal/domain"
)

// matcher binds one URL pattern to the platform and content kind it implies.
// The capture group is the content ID. hosts limits the pattern to its own
// domains so it cannot fire on a look-alike host.
type matcher struct {
	hosts    []string
	pattern  *regexp.Regexp
	platform domain.Platform
	kind     domain.ContentKind
}

// matchers are checked in order; the first match wins. More specific patterns
// (e.g. /status/) come before catch-alls for the same platform.
var matchers = []matcher{
	{[]string{"instagram.com"}, regexp.MustCompile(`instagram\.com/p/([^/?#]+)`), domain.PlatformInstagram, domain.KindPost},
	{[]string{"instagram.com"}, regexp.MustCompile(`instagram\.com/reels?/([^/?#]+)`), domain.PlatformInstagram, domain.KindReel},
	{[]string{"instagram.com"}, regexp.MustCompile(`instagram\.com/tv/([^/?#]+)`), domain.PlatformInstagram, domain.KindVideo},

	{[]string{"twitter.com", "x.com"}, regexp.MustCompile(`(?:twitter|x)\.com/\w+/status/(\d+)`), domain.PlatformTwitter, domain.KindTweet},
	{[]string{"twitter.com", "x.com"}, regexp.MustCompile(`(?:twitter|x)\.com/\w+/(\d+)`), domain.PlatformTwitter, domain.KindTweet},

	{[]string{"youtube.com"}, regexp.MustCompile(`youtube\.com/watch\?(?:[^#]*&)?v=([\w-]+)`), domain.PlatformYouTube, domain.KindVideo},
	{[]string{"youtube.com"}, regexp.MustCompile(`youtube\.com/shorts/([\w-]+)`), domain.PlatformYouTube, domain.KindVideo},
	{[]string{"youtu.be"}, regexp.MustCompile(`youtu\.be/([\w-]+)`), domain.PlatformYouTube, domain.KindVideo},

	{[]string{"tiktok.com"}, regexp.MustCompile(`tiktok\.com/@[\w.-]+/video/(\d+)`), domain.PlatformTikTok, domain.KindVideo},
	{[]string{"vm.tiktok.com"}, regexp.MustCompile(`vm\.tiktok\.com/(\w+)`), domain.PlatformTikTok, domain.KindVideo},

	{[]string{"twitch.tv"}, regexp.MustCompile(`twitch\.tv/videos/(\d+)`), domain.PlatformTwitch, domain.KindVideo},
	{[]string{"clips.twitch.tv"}, regexp.MustCompile(`clips\.twitch\.tv/([\w-]+)`), domain.PlatformTwitch, domain.KindVideo},
	{[]string{"twitch.tv"}, regexp.MustCompile(`twitch\.tv/\w+/clip/([\w-]+)`), domain.PlatformTwitch, domain.KindVideo},
}

// Classify parses raw and determines the platform and content ID. It fails
// closed: a PlatformRef is only returned for a syntactically valid URL that
// matches a known pattern.
func Classify(raw string) (domain.PlatformRef, error) {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return domain.PlatformRef{}, domain.ErrUnsupportedURL
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return domain.PlatformRef{}, domain.ErrUnsupportedURL
	}

	host := strings.ToLower(u.Hostname())
	for _, m := range matchers {
		if !m.matchesHost(host) {
			continue
		}
		if match := m.pattern.FindStringSubmatch(raw); match != nil {
			return domain.PlatformRef{
				Platform:  m.platform,
				ContentID: match[1],
				Kind:      m.kind,
			}, nil
		}
	}

	return domain.PlatformRef{}, domain.ErrUnsupportedURL
}

func (m matcher) matchesHost(host string) bool {
	for _, h := range m.hosts {
		if host == h || strings.HasSuffix(host, "."+h) {
			return true
		}
	}
	return false
}
