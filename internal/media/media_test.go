package media

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanizio/siteconf/internal/settings"
)

func TestVideoExtensions(t *testing.T) {
	base := VideoExtensions(false)
	require.Len(t, base, 3)
	require.ElementsMatch(t, []string{".mp4", ".webm", ".ogv"}, base)

	ext := VideoExtensions(true)
	require.ElementsMatch(t, []string{".mp4", ".webm", ".ogv", ".flv", ".mkv"}, ext)
}

func TestVideoExtensions_NoAliasing(t *testing.T) {
	a := VideoExtensions(false)
	a[0] = ".exe"
	require.Equal(t, ".mp4", VideoExtensions(false)[0])
}

func TestEnabledResolutions(t *testing.T) {
	require.Equal(t, []int{240, 360, 480, 720, 1080},
		EnabledResolutions(settings.Defaults().Transcoding.Resolutions))

	require.Equal(t, []int{360, 480},
		EnabledResolutions(settings.Resolutions{R360p: true, R480p: true}))

	require.Empty(t, EnabledResolutions(settings.Resolutions{}))
}
