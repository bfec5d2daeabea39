// Package content turns a YouTube or website URL into plain text ready for
// summarisation.
package content

import (
	"errors"
	"net/url"
	"strings"
)

// ErrUnsupportedURL is returned for input that is not an http(s) URL, or a
// YouTube URL without a recognisable video ID.
var ErrUnsupportedURL = errors.New("unsupported URL")

// Kind says where a Document came from.
type Kind string

const (
	KindYouTube Kind = "youtube"
	KindWebsite Kind = "website"
)

func (k Kind) String() string {
	if k == KindYouTube {
		return "YouTube video"
	}
	return "website"
}

// IsYouTubeURL reports whether raw points at youtube.com or youtu.be.
func IsYouTubeURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Host)
	return strings.Contains(host, "youtube.com") || strings.Contains(host, "youtu.be")
}

// ExtractVideoID returns the video ID of a YouTube URL, or "" when none can be
// found. Handles youtu.be/<id>, /watch?v=<id>, /embed/<id>, /v/<id> and
// /shorts/<id>.
func ExtractVideoID(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	host := strings.TrimPrefix(strings.ToLower(u.Host), "www.")
	host = strings.TrimPrefix(host, "m.")

	switch host {
	case "youtu.be":
		return firstSegment(strings.TrimPrefix(u.Path, "/"))
	case "youtube.com":
		if u.Path == "/watch" {
			return u.Query().Get("v")
		}
		for _, prefix := range []string{"/embed/", "/v/", "/shorts/"} {
			if rest, ok := strings.CutPrefix(u.Path, prefix); ok {
				return firstSegment(rest)
			}
		}
	}
	return ""
}

func firstSegment(p string) string {
	seg, _, _ := strings.Cut(p, "/")
	return seg
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}
