// Package imageurl rewrites marketplace image URLs to a canonical resolution
// and derives local filenames from them.
//
// Image URLs encode their resolution in the last path segment, for example
// https://i.example.com/iap_75x75.12345.jpg. The segment prefix identifies the
// family of the image and each family has one canonical size:
//
//	/iap_   review photos   640x640
//	/il_    listing images  570x456
//	/iusa_  user avatars    400x400
//
// Normalize and Filename are pure and never fail.
package imageurl

import (
	"regexp"
	"strconv"
	"strings"
)

// Family describes one resolution-encoding convention
type Family struct {
	Name   string
	Marker string
	Width  int
	Height int

	pattern     *regexp.Regexp
	replacement string
}

// Families are mutually exclusive: each marker includes the leading path separator.
var Families = []Family{
	newFamily("review_photo", "/iap_", 640, 640),
	newFamily("listing_image", "/il_", 570, 456),
	newFamily("user_avatar", "/iusa_", 400, 400),
}

func newFamily(name, marker string, width, height int) Family {
	return Family{
		Name:        name,
		Marker:      marker,
		Width:       width,
		Height:      height,
		pattern:     regexp.MustCompile(regexp.QuoteMeta(marker) + `\d+x\d+`),
		replacement: marker + strconv.Itoa(width) + "x" + strconv.Itoa(height),
	}
}

// FamilyOf returns the family whose marker appears in the path of rawURL.
// The query string is not consulted.
func FamilyOf(rawURL string) (Family, bool) {
	path := stripQuery(rawURL)
	for _, f := range Families {
		if strings.Contains(path, f.Marker) {
			return f, true
		}
	}
	return Family{}, false
}

func stripQuery(rawURL string) string {
	if i := strings.IndexAny(rawURL, "?#"); i >= 0 {
		return rawURL[:i]
	}
	return rawURL
}

// Normalize rewrites the first dimension token of a recognised family to the
// family's canonical size. Unrecognised URLs, and recognised ones without a
// well-formed WxH token in the path, are returned unchanged.
func Normalize(rawURL string) string {
	f, ok := FamilyOf(rawURL)
	if !ok {
		return rawURL
	}
	loc := f.pattern.FindStringIndex(stripQuery(rawURL))
	if loc == nil {
		return rawURL
	}
	return rawURL[:loc[0]] + f.replacement + rawURL[loc[1]:]
}

// Filename returns the last path segment of rawURL with any query string removed.
// The result is not sanitised.
func Filename(rawURL string) string {
	name := rawURL
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.Index(name, "?"); i >= 0 {
		name = name[:i]
	}
	return name
}
