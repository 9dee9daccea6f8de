package settings_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/yanizio/siteconf/internal/settings"
	"github.com/yanizio/siteconf/internal/settings/settingstest"
)

var ptr = settingstest.Ptr[bool]

func TestDefaults_ObservedValues(t *testing.T) {
	d := settings.Defaults()

	require.Equal(t, "PeerTube", d.Instance.Name)
	require.Equal(t, "Welcome to this PeerTube instance!", d.Instance.Description)
	require.Equal(t, "No terms for now.", d.Instance.Terms)
	require.Equal(t, "/videos/trending", d.Instance.DefaultClientRoute)
	require.Equal(t, settings.NSFWPolicyDisplay, d.Instance.DefaultNSFWPolicy)
	require.Empty(t, d.Instance.Customizations.CSS)
	require.Equal(t, "@Chocobozzz", d.Services.Twitter.Username)
	require.Equal(t, 1, d.Cache.Previews.Size)
	require.Equal(t, 1, d.Cache.Captions.Size)
	require.True(t, d.Signup.Enabled)
	require.Equal(t, 4, d.Signup.Limit)
	require.Equal(t, "admin1@example.com", d.Admin.Email)
	require.True(t, d.ContactForm.Enabled)
	require.Equal(t, int64(5242880), d.User.VideoQuota)
	require.Equal(t, int64(-1), d.User.VideoQuotaDaily)
	require.False(t, d.Transcoding.Enabled)
	require.Equal(t, 2, d.Transcoding.Threads)
	require.True(t, d.Transcoding.Resolutions.R1080p)
	require.True(t, d.Transcoding.HLS.Enabled)
	require.True(t, d.Import.Videos.Torrent.Enabled)
}

func TestMerge_NoOverridesIsDefaults(t *testing.T) {
	got := settings.Merge(settings.Defaults(), settings.Overrides{})
	if diff := cmp.Diff(settings.Defaults(), got); diff != "" {
		t.Fatalf("merge of empty overrides changed defaults (-want +got):\n%s", diff)
	}
}

func TestMerge_FullUpdate(t *testing.T) {
	got := settings.Merge(settings.Defaults(), settingstest.FullUpdate())
	if diff := cmp.Diff(settingstest.FullUpdateConfig(), got); diff != "" {
		t.Fatalf("merged tree mismatch (-want +got):\n%s", diff)
	}
}

func TestMerge_DoesNotMutateDefaults(t *testing.T) {
	defaults := settings.Defaults()
	_ = settings.Merge(defaults, settingstest.FullUpdate())
	require.Equal(t, settings.Defaults(), defaults)
}

func TestMerge_ResolutionLeavesAreIndependent(t *testing.T) {
	ov := settings.Overrides{
		Transcoding: &settings.TranscodingOverrides{
			Resolutions: &settings.ResolutionsOverrides{R1080p: ptr(false)},
		},
	}
	r := settings.Merge(settings.Defaults(), ov).Transcoding.Resolutions

	require.False(t, r.R1080p)
	require.True(t, r.R240p)
	require.True(t, r.R360p)
	require.True(t, r.R480p)
	require.True(t, r.R720p)
}

func TestOverlay_KeepsPreviouslyOverriddenSiblings(t *testing.T) {
	base := settings.Overrides{
		Transcoding: &settings.TranscodingOverrides{
			Resolutions: &settings.ResolutionsOverrides{R720p: ptr(false)},
		},
	}
	next := settings.Overrides{
		Transcoding: &settings.TranscodingOverrides{
			Resolutions: &settings.ResolutionsOverrides{R1080p: ptr(false)},
		},
	}

	r := settings.Merge(settings.Defaults(), settings.Overlay(base, next)).Transcoding.Resolutions

	require.False(t, r.R720p, "720p override from base must survive")
	require.False(t, r.R1080p)
	require.True(t, r.R240p)
}

func TestOverlay_ResultSharesNoPointers(t *testing.T) {
	base := settingstest.FullUpdate()
	out := settings.Overlay(base, settings.Overrides{})

	*out.Instance.Name = "changed"
	*out.Transcoding.Resolutions.R360p = false

	require.Equal(t, "PeerTube updated", *base.Instance.Name)
	require.True(t, *base.Transcoding.Resolutions.R360p)
}

func TestOverlay_NextWins(t *testing.T) {
	base := settingstest.FullUpdate()
	next := settings.Overrides{
		Instance: &settings.InstanceOverrides{Name: settingstest.Ptr("again")},
	}

	got := settings.Merge(settings.Defaults(), settings.Overlay(base, next))

	want := settingstest.FullUpdateConfig()
	want.Instance.Name = "again"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("overlay mismatch (-want +got):\n%s", diff)
	}
}

func TestOverlay_EmptySectionsDropped(t *testing.T) {
	in := settings.Overrides{Instance: &settings.InstanceOverrides{}}
	require.Nil(t, in.Clone().Instance)
	require.Zero(t, in.Len())
}

func TestDiff(t *testing.T) {
	a := settings.Defaults()
	b := a
	b.Signup.Limit = 10
	b.Transcoding.Resolutions.R480p = false

	require.Equal(t, []string{"signup.limit", "transcoding.resolutions.480p"}, settings.Diff(a, b))
	require.Empty(t, settings.Diff(a, a))
}
