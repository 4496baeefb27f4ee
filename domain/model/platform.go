package model

import "strings"

// Platform identifies a social network a tenant can connect.
type Platform string

const (
	PlatformFacebook  Platform = "facebook"
	PlatformInstagram Platform = "instagram"
	PlatformLinkedIn  Platform = "linkedin"
	PlatformGoogle    Platform = "google"
)

// KnownPlatforms lists every platform a connect flow exists for.
var KnownPlatforms = []Platform{PlatformFacebook, PlatformInstagram, PlatformLinkedIn, PlatformGoogle}

func ParsePlatform(s string) (Platform, bool) {
	p := Platform(strings.ToLower(strings.TrimSpace(s)))
	for _, k := range KnownPlatforms {
		if p == k {
			return p, true
		}
	}
	return "", false
}

// PostType is the content shape of a publish request.
type PostType string

const (
	PostTypeImage    PostType = "image"
	PostTypeVideo    PostType = "video"
	PostTypeCarousel PostType = "carousel"
	PostTypeText     PostType = "text"
)

func ParsePostType(s string) (PostType, bool) {
	t := PostType(strings.ToLower(strings.TrimSpace(s)))
	switch t {
	case PostTypeImage, PostTypeVideo, PostTypeCarousel, PostTypeText:
		return t, true
	}
	return "", false
}

// AdapterKey selects a publish adapter for one platform/content-shape pair.
type AdapterKey struct {
	Platform Platform
	PostType PostType
}

var videoExtensions = map[string]struct{}{
	".mp4": {}, ".mov": {}, ".m4v": {}, ".webm": {},
}

// IsVideoURL guesses image vs video from the URL's file extension. It is a
// heuristic, not a content-type probe; unknown extensions count as images.
func IsVideoURL(mediaURL string) bool {
	u := mediaURL
	if i := strings.IndexAny(u, "?#"); i >= 0 {
		u = u[:i]
	}
	if i := strings.LastIndex(u, "."); i >= 0 {
		_, ok := videoExtensions[strings.ToLower(u[i:])]
		return ok
	}
	return false
}
