package app

import (
	"net/url"
	"strings"
)

// YouTube host names accepted by the script-generation flow.
const (
	hostYouTube       = "youtube.com"
	hostYouTubeWWW    = "www.youtube.com"
	hostYouTubeMobile = "m.youtube.com"
	hostYouTubeShort  = "youtu.be"
)

// IsYouTubeURL reports whether raw points at a YouTube video. Accepted forms
// are the watch page, the youtu.be share link, and the embed and shorts
// paths. The scheme may be omitted; anything other than http or https is
// rejected.
func IsYouTubeURL(raw string) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false
	}

	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return false
	}

	switch strings.ToLower(parsed.Hostname()) {
	case hostYouTube, hostYouTubeWWW, hostYouTubeMobile:
		return hasVideoPath(parsed)
	case hostYouTubeShort:
		return strings.Trim(parsed.Path, "/") != ""
	default:
		return false
	}
}

// hasVideoPath checks the youtube.com path variants that identify a single
// video.
func hasVideoPath(parsed *url.URL) bool {
	if parsed.Path == "/watch" {
		return parsed.Query().Get("v") != ""
	}

	for _, prefix := range []string{"/embed/", "/shorts/", "/live/"} {
		if strings.HasPrefix(parsed.Path, prefix) && len(parsed.Path) > len(prefix) {
			return true
		}
	}

	return false
}
