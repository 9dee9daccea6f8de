package settings

// Defaults returns the compiled-in configuration.  Each call returns a fresh
// value so callers can never mutate the table.
func Defaults() CustomConfig {
	return CustomConfig{
		Instance: Instance{
			Name: "PeerTube",
			ShortDescription: "PeerTube, a federated (ActivityPub) video streaming platform using P2P " +
				"(BitTorrent) directly in the web browser with WebTorrent and Angular.",
			Description:        "Welcome to this PeerTube instance!",
			Terms:              "No terms for now.",
			DefaultClientRoute: "/videos/trending",
			IsNSFW:             false,
			DefaultNSFWPolicy:  NSFWPolicyDisplay,
		},
		Services: Services{
			Twitter: Twitter{Username: "@Chocobozzz"},
		},
		Cache: Cache{
			Previews: CacheSize{Size: 1},
			Captions: CacheSize{Size: 1},
		},
		Signup: Signup{
			Enabled: true,
			Limit:   4,
		},
		Admin:       Admin{Email: "admin1@example.com"},
		ContactForm: ContactForm{Enabled: true},
		User: User{
			VideoQuota:      5242880,
			VideoQuotaDaily: -1,
		},
		Transcoding: Transcoding{
			Threads: 2,
			Resolutions: Resolutions{
				R240p:  true,
				R360p:  true,
				R480p:  true,
				R720p:  true,
				R1080p: true,
			},
			HLS: Toggle{Enabled: true},
		},
		Import: Import{
			Videos: ImportVideos{
				HTTP:    Toggle{Enabled: true},
				Torrent: Toggle{Enabled: true},
			},
		},
	}
}
