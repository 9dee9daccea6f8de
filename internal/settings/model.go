// internal/settings/model.go
//
// Typed model of the instance configuration tree.
//
// Context
// -------
// Two parallel shapes describe the same schema:
//
//   - `CustomConfig` is the fully populated tree.  Every leaf holds a value,
//     either the compiled-in default or an override.
//   - `Overrides` mirrors it with every section and every leaf optional.  A
//     nil pointer means "not overridden", so merge-by-absence is explicit in
//     the type rather than implied by missing map keys.
//
// JSON tags define the dotted leaf paths (`instance.defaultNSFWPolicy`,
// `transcoding.resolutions.1080p`, …) used by the API, the override store,
// and `Lookup`.  Validation rules live on the `Overrides` leaves because
// that is the shape proposed by callers.
//
// Notes
// -----
//   - Keep both shapes in lockstep.  `paths_test.go` fails when a leaf is
//     added to one but not the other.
//   - Oxford commas, two spaces after periods.
package settings

// NSFW display policies accepted by instance.defaultNSFWPolicy.
const (
	NSFWPolicyDoNotList = "do_not_list"
	NSFWPolicyBlur      = "blur"
	NSFWPolicyDisplay   = "display"
)

//
// Fully populated tree
//

// CustomConfig is the merged configuration served to the admin surface.
type CustomConfig struct {
	Instance    Instance    `json:"instance"`
	Services    Services    `json:"services"`
	Cache       Cache       `json:"cache"`
	Signup      Signup      `json:"signup"`
	Admin       Admin       `json:"admin"`
	ContactForm ContactForm `json:"contactForm"`
	User        User        `json:"user"`
	Transcoding Transcoding `json:"transcoding"`
	Import      Import      `json:"import"`
}

type Instance struct {
	Name               string         `json:"name"`
	ShortDescription   string         `json:"shortDescription"`
	Description        string         `json:"description"`
	Terms              string         `json:"terms"`
	DefaultClientRoute string         `json:"defaultClientRoute"`
	IsNSFW             bool           `json:"isNSFW"`
	DefaultNSFWPolicy  string         `json:"defaultNSFWPolicy"`
	Customizations     Customizations `json:"customizations"`
}

type Customizations struct {
	JavaScript string `json:"javascript"`
	CSS        string `json:"css"`
}

type Services struct {
	Twitter Twitter `json:"twitter"`
}

type Twitter struct {
	Username    string `json:"username"`
	Whitelisted bool   `json:"whitelisted"`
}

type Cache struct {
	Previews CacheSize `json:"previews"`
	Captions CacheSize `json:"captions"`
}

// CacheSize is the number of entries kept on disk for one cache kind.
type CacheSize struct {
	Size int `json:"size"`
}

type Signup struct {
	Enabled                   bool `json:"enabled"`
	Limit                     int  `json:"limit"` // -1 = unlimited
	RequiresEmailVerification bool `json:"requiresEmailVerification"`
}

type Admin struct {
	Email string `json:"email"`
}

type ContactForm struct {
	Enabled bool `json:"enabled"`
}

// User holds per-user upload quotas in bytes.  -1 disables the quota.
type User struct {
	VideoQuota      int64 `json:"videoQuota"`
	VideoQuotaDaily int64 `json:"videoQuotaDaily"`
}

type Transcoding struct {
	Enabled                   bool        `json:"enabled"`
	AllowAdditionalExtensions bool        `json:"allowAdditionalExtensions"`
	Threads                   int         `json:"threads"`
	Resolutions               Resolutions `json:"resolutions"`
	HLS                       Toggle      `json:"hls"`
}

// Resolutions is the per-height transcoding switch board.
type Resolutions struct {
	R240p  bool `json:"240p"`
	R360p  bool `json:"360p"`
	R480p  bool `json:"480p"`
	R720p  bool `json:"720p"`
	R1080p bool `json:"1080p"`
}

// Toggle is a section whose only leaf is an on/off switch.
type Toggle struct {
	Enabled bool `json:"enabled"`
}

type Import struct {
	Videos ImportVideos `json:"videos"`
}

type ImportVideos struct {
	HTTP    Toggle `json:"http"`
	Torrent Toggle `json:"torrent"`
}

//
// Optional-per-leaf tree
//

// Overrides is a proposed or persisted set of overridden leaves.  The zero
// value is the empty set ("fully defaulted").
type Overrides struct {
	Instance    *InstanceOverrides    `json:"instance,omitempty"`
	Services    *ServicesOverrides    `json:"services,omitempty"`
	Cache       *CacheOverrides       `json:"cache,omitempty"`
	Signup      *SignupOverrides      `json:"signup,omitempty"`
	Admin       *AdminOverrides       `json:"admin,omitempty"`
	ContactForm *ToggleOverrides      `json:"contactForm,omitempty"`
	User        *UserOverrides        `json:"user,omitempty"`
	Transcoding *TranscodingOverrides `json:"transcoding,omitempty"`
	Import      *ImportOverrides      `json:"import,omitempty"`
}

type InstanceOverrides struct {
	Name               *string                  `json:"name,omitempty"               validate:"omitempty,min=1,max=120"`
	ShortDescription   *string                  `json:"shortDescription,omitempty"   validate:"omitempty,max=250"`
	Description        *string                  `json:"description,omitempty"`
	Terms              *string                  `json:"terms,omitempty"`
	DefaultClientRoute *string                  `json:"defaultClientRoute,omitempty" validate:"omitempty,startswith=/"`
	IsNSFW             *bool                    `json:"isNSFW,omitempty"`
	DefaultNSFWPolicy  *string                  `json:"defaultNSFWPolicy,omitempty"  validate:"omitempty,oneof=do_not_list blur display"`
	Customizations     *CustomizationsOverrides `json:"customizations,omitempty"`
}

type CustomizationsOverrides struct {
	JavaScript *string `json:"javascript,omitempty"`
	CSS        *string `json:"css,omitempty"`
}

type ServicesOverrides struct {
	Twitter *TwitterOverrides `json:"twitter,omitempty"`
}

type TwitterOverrides struct {
	Username    *string `json:"username,omitempty"`
	Whitelisted *bool   `json:"whitelisted,omitempty"`
}

type CacheOverrides struct {
	Previews *CacheSizeOverrides `json:"previews,omitempty"`
	Captions *CacheSizeOverrides `json:"captions,omitempty"`
}

type CacheSizeOverrides struct {
	Size *int `json:"size,omitempty" validate:"omitempty,min=0"`
}

type SignupOverrides struct {
	Enabled                   *bool `json:"enabled,omitempty"`
	Limit                     *int  `json:"limit,omitempty" validate:"omitempty,min=-1"`
	RequiresEmailVerification *bool `json:"requiresEmailVerification,omitempty"`
}

type AdminOverrides struct {
	Email *string `json:"email,omitempty" validate:"omitempty,email"`
}

type ToggleOverrides struct {
	Enabled *bool `json:"enabled,omitempty"`
}

type UserOverrides struct {
	VideoQuota      *int64 `json:"videoQuota,omitempty"      validate:"omitempty,min=-1"`
	VideoQuotaDaily *int64 `json:"videoQuotaDaily,omitempty" validate:"omitempty,min=-1"`
}

type TranscodingOverrides struct {
	Enabled                   *bool                 `json:"enabled,omitempty"`
	AllowAdditionalExtensions *bool                 `json:"allowAdditionalExtensions,omitempty"`
	Threads                   *int                  `json:"threads,omitempty" validate:"omitempty,min=1"`
	Resolutions               *ResolutionsOverrides `json:"resolutions,omitempty"`
	HLS                       *ToggleOverrides      `json:"hls,omitempty"`
}

type ResolutionsOverrides struct {
	R240p  *bool `json:"240p,omitempty"`
	R360p  *bool `json:"360p,omitempty"`
	R480p  *bool `json:"480p,omitempty"`
	R720p  *bool `json:"720p,omitempty"`
	R1080p *bool `json:"1080p,omitempty"`
}

type ImportOverrides struct {
	Videos *ImportVideosOverrides `json:"videos,omitempty"`
}

type ImportVideosOverrides struct {
	HTTP    *ToggleOverrides `json:"http,omitempty"`
	Torrent *ToggleOverrides `json:"torrent,omitempty"`
}
