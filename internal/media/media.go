// Package media holds the upload constraints derived from the instance
// configuration: accepted file extensions, size ceilings, and the list of
// enabled transcoding heights.
package media

import "github.com/yanizio/siteconf/internal/settings"

// Size ceilings in bytes for the fixed upload kinds.
const (
	MaxAvatarSize  = 2 * 1024 * 1024
	MaxImageSize   = 2 * 1024 * 1024
	MaxCaptionSize = 2 * 1024 * 1024
)

var (
	baseVideoExtensions = []string{".mp4", ".ogv", ".webm"}

	// Containers accepted only when the instance transcodes everything it
	// ingests into a web-playable format.
	additionalVideoExtensions = []string{".flv", ".mkv"}

	imageExtensions   = []string{".png", ".jpg", ".jpeg"}
	captionExtensions = []string{".vtt", ".srt"}
)

// VideoExtensions returns the accepted upload extensions.  The base set is
// extended when allowAdditional is true.
func VideoExtensions(allowAdditional bool) []string {
	out := make([]string, 0, len(baseVideoExtensions)+len(additionalVideoExtensions))
	out = append(out, baseVideoExtensions...)
	if allowAdditional {
		out = append(out, additionalVideoExtensions...)
	}
	return out
}

// ImageExtensions applies to avatars and video thumbnails.
func ImageExtensions() []string { return clone(imageExtensions) }

func CaptionExtensions() []string { return clone(captionExtensions) }

// EnabledResolutions lists the enabled transcoding heights in ascending
// order.
func EnabledResolutions(r settings.Resolutions) []int {
	out := make([]int, 0, 5)
	for _, res := range []struct {
		height int
		on     bool
	}{
		{240, r.R240p},
		{360, r.R360p},
		{480, r.R480p},
		{720, r.R720p},
		{1080, r.R1080p},
	} {
		if res.on {
			out = append(out, res.height)
		}
	}
	return out
}

func clone(s []string) []string { return append([]string(nil), s...) }
