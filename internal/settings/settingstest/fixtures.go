// Package settingstest provides override trees shared by tests across
// packages.
package settingstest

import "github.com/yanizio/siteconf/internal/settings"

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T { return &v }

// FullUpdate returns a complete update tree that changes nearly every leaf
// away from its default.
func FullUpdate() settings.Overrides {
	return settings.Overrides{
		Instance: &settings.InstanceOverrides{
			Name:               Ptr("PeerTube updated"),
			ShortDescription:   Ptr("my short description"),
			Description:        Ptr("my super description"),
			Terms:              Ptr("my super terms"),
			DefaultClientRoute: Ptr("/videos/recently-added"),
			IsNSFW:             Ptr(true),
			DefaultNSFWPolicy:  Ptr(settings.NSFWPolicyBlur),
			Customizations: &settings.CustomizationsOverrides{
				JavaScript: Ptr(`alert("coucou")`),
				CSS:        Ptr("body { background-color: red; }"),
			},
		},
		Services: &settings.ServicesOverrides{
			Twitter: &settings.TwitterOverrides{
				Username:    Ptr("@Kuja"),
				Whitelisted: Ptr(true),
			},
		},
		Cache: &settings.CacheOverrides{
			Previews: &settings.CacheSizeOverrides{Size: Ptr(2)},
			Captions: &settings.CacheSizeOverrides{Size: Ptr(3)},
		},
		Signup: &settings.SignupOverrides{
			Enabled:                   Ptr(false),
			Limit:                     Ptr(5),
			RequiresEmailVerification: Ptr(false),
		},
		Admin:       &settings.AdminOverrides{Email: Ptr("superadmin1@example.com")},
		ContactForm: &settings.ToggleOverrides{Enabled: Ptr(false)},
		User: &settings.UserOverrides{
			VideoQuota:      Ptr(int64(5242881)),
			VideoQuotaDaily: Ptr(int64(318742)),
		},
		Transcoding: &settings.TranscodingOverrides{
			Enabled:                   Ptr(true),
			AllowAdditionalExtensions: Ptr(true),
			Threads:                   Ptr(1),
			Resolutions: &settings.ResolutionsOverrides{
				R240p:  Ptr(false),
				R360p:  Ptr(true),
				R480p:  Ptr(true),
				R720p:  Ptr(false),
				R1080p: Ptr(false),
			},
			HLS: &settings.ToggleOverrides{Enabled: Ptr(false)},
		},
		Import: &settings.ImportOverrides{
			Videos: &settings.ImportVideosOverrides{
				HTTP:    &settings.ToggleOverrides{Enabled: Ptr(false)},
				Torrent: &settings.ToggleOverrides{Enabled: Ptr(false)},
			},
		},
	}
}

// FullUpdateConfig is the merged tree FullUpdate produces over the
// defaults.
func FullUpdateConfig() settings.CustomConfig {
	c := settings.Defaults()
	c.Instance = settings.Instance{
		Name:               "PeerTube updated",
		ShortDescription:   "my short description",
		Description:        "my super description",
		Terms:              "my super terms",
		DefaultClientRoute: "/videos/recently-added",
		IsNSFW:             true,
		DefaultNSFWPolicy:  settings.NSFWPolicyBlur,
		Customizations: settings.Customizations{
			JavaScript: `alert("coucou")`,
			CSS:        "body { background-color: red; }",
		},
	}
	c.Services.Twitter = settings.Twitter{Username: "@Kuja", Whitelisted: true}
	c.Cache.Previews.Size = 2
	c.Cache.Captions.Size = 3
	c.Signup = settings.Signup{Enabled: false, Limit: 5, RequiresEmailVerification: false}
	c.Admin.Email = "superadmin1@example.com"
	c.ContactForm.Enabled = false
	c.User = settings.User{VideoQuota: 5242881, VideoQuotaDaily: 318742}
	c.Transcoding = settings.Transcoding{
		Enabled:                   true,
		AllowAdditionalExtensions: true,
		Threads:                   1,
		Resolutions: settings.Resolutions{
			R240p: false, R360p: true, R480p: true, R720p: false, R1080p: false,
		},
		HLS: settings.Toggle{Enabled: false},
	}
	c.Import.Videos.HTTP.Enabled = false
	c.Import.Videos.Torrent.Enabled = false
	return c
}
