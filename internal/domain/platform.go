package domain

// Platform identifies a supported social-media platform.
type Platform string

const (
	PlatformInstagram Platform = "instagram"
	PlatformYouTube   Platform = "youtube"
	PlatformTwitter   Platform = "twitter"
	PlatformTikTok    Platform = "tiktok"
	PlatformTwitch    Platform = "twitch"
)

// String returns the string representation of the Platform.
func (p Platform) String() string {
	return string(p)
}

// Valid reports whether p is one of the supported platforms.
func (p Platform) Valid() bool {
	switch p {
	case PlatformInstagram, PlatformYouTube, PlatformTwitter, PlatformTikTok, PlatformTwitch:
		return true
	}
	return false
}

// ContentKind describes what kind of content a URL points at.
type ContentKind string

const (
	KindPost    ContentKind = "post"
	KindReel    ContentKind = "reel"
	KindVideo   ContentKind = "video"
	KindTweet   ContentKind = "tweet"
	KindUnknown ContentKind = "unknown"
)

// PlatformRef is the result of classifying an input URL. It is derived once
// per request and never constructed for an unrecognized URL.
type PlatformRef struct {
	Platform  Platform
	ContentID string
	Kind      ContentKind
}
