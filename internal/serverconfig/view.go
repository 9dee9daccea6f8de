// internal/serverconfig/view.go
//
// Read-only projections of the merged configuration.
//
//   - ServerConfigView – the public `GET config` payload.  Adds values that
//     are not stored anywhere: the signup-allowed flag, the server version,
//     enabled transcoding heights, and upload constraints.
//   - AboutView        – instance name, descriptions, and terms.
package serverconfig

import (
	"github.com/yanizio/siteconf/internal/media"
	"github.com/yanizio/siteconf/internal/settings"
)

type ServerConfigView struct {
	Instance      InstanceView         `json:"instance"`
	ServerVersion string               `json:"serverVersion"`
	Signup        SignupView           `json:"signup"`
	ContactForm   settings.ContactForm `json:"contactForm"`
	Transcoding   TranscodingView      `json:"transcoding"`
	Import        settings.Import      `json:"import"`
	Avatar        UploadView           `json:"avatar"`
	Video         VideoView            `json:"video"`
	VideoCaption  UploadView           `json:"videoCaption"`
	User          settings.User        `json:"user"`
}

type InstanceView struct {
	Name               string                  `json:"name"`
	ShortDescription   string                  `json:"shortDescription"`
	DefaultClientRoute string                  `json:"defaultClientRoute"`
	IsNSFW             bool                    `json:"isNSFW"`
	DefaultNSFWPolicy  string                  `json:"defaultNSFWPolicy"`
	Customizations     settings.Customizations `json:"customizations"`
}

type SignupView struct {
	Allowed                   bool `json:"allowed"`
	RequiresEmailVerification bool `json:"requiresEmailVerification"`
}

type TranscodingView struct {
	EnabledResolutions []int           `json:"enabledResolutions"`
	HLS                settings.Toggle `json:"hls"`
}

type SizeLimit struct {
	Max int64 `json:"max"`
}

// FileConstraints bounds one kind of upload.
type FileConstraints struct {
	Size       SizeLimit `json:"size"`
	Extensions []string  `json:"extensions"`
}

type UploadView struct {
	File FileConstraints `json:"file"`
}

type VideoView struct {
	Image FileConstraints `json:"image"`
	File  VideoFileView   `json:"file"`
}

type VideoFileView struct {
	Extensions []string `json:"extensions"`
}

type AboutView struct {
	Instance AboutInstance `json:"instance"`
}

type AboutInstance struct {
	Name             string `json:"name"`
	ShortDescription string `json:"shortDescription"`
	Description      string `json:"description"`
	Terms            string `json:"terms"`
}

// SignupAllowed applies the registration policy to the current user count.
// The root account counts toward the limit.
func SignupAllowed(s settings.Signup, users int64) bool {
	if !s.Enabled {
		return false
	}
	if s.Limit == -1 {
		return true
	}
	return users < int64(s.Limit)
}

func newServerConfigView(c settings.CustomConfig, version string, signupAllowed bool) ServerConfigView {
	return ServerConfigView{
		Instance: InstanceView{
			Name:               c.Instance.Name,
			ShortDescription:   c.Instance.ShortDescription,
			DefaultClientRoute: c.Instance.DefaultClientRoute,
			IsNSFW:             c.Instance.IsNSFW,
			DefaultNSFWPolicy:  c.Instance.DefaultNSFWPolicy,
			Customizations:     c.Instance.Customizations,
		},
		ServerVersion: version,
		Signup: SignupView{
			Allowed:                   signupAllowed,
			RequiresEmailVerification: c.Signup.RequiresEmailVerification,
		},
		ContactForm: c.ContactForm,
		Transcoding: TranscodingView{
			EnabledResolutions: media.EnabledResolutions(c.Transcoding.Resolutions),
			HLS:                c.Transcoding.HLS,
		},
		Import: c.Import,
		Avatar: UploadView{File: FileConstraints{
			Size:       SizeLimit{Max: media.MaxAvatarSize},
			Extensions: media.ImageExtensions(),
		}},
		Video: VideoView{
			Image: FileConstraints{
				Size:       SizeLimit{Max: media.MaxImageSize},
				Extensions: media.ImageExtensions(),
			},
			File: VideoFileView{
				Extensions: media.VideoExtensions(c.Transcoding.AllowAdditionalExtensions),
			},
		},
		VideoCaption: UploadView{File: FileConstraints{
			Size:       SizeLimit{Max: media.MaxCaptionSize},
			Extensions: media.CaptionExtensions(),
		}},
		User: c.User,
	}
}

func newAboutView(c settings.CustomConfig) AboutView {
	return AboutView{Instance: AboutInstance{
		Name:             c.Instance.Name,
		ShortDescription: c.Instance.ShortDescription,
		Description:      c.Instance.Description,
		Terms:            c.Instance.Terms,
	}}
}
