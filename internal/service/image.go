package service

import (
	"regexp"
	"strings"
)

const placeholderImage = "/images/nft-placeholder.png"

var bareImageName = regexp.MustCompile(`(?i)^\w+\.(png|jpe?g|gif|webp)$`)

// NormalizeImageURL rewrites backend image references onto the /images
// proxy path. Absolute URLs pass through untouched.
func NormalizeImageURL(raw string) string {
	switch {
	case raw == "":
		return placeholderImage
	case strings.HasPrefix(raw, "http://"), strings.HasPrefix(raw, "https://"):
		return raw
	case strings.HasPrefix(raw, "/static/"):
		return "/images/" + strings.TrimPrefix(raw, "/static/")
	case strings.HasPrefix(raw, "static/"):
		return "/images/" + strings.TrimPrefix(raw, "static/")
	case strings.HasPrefix(raw, "/images/"):
		return raw
	case bareImageName.MatchString(raw):
		return "/images/" + raw
	}
	return raw
}
