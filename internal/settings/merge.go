// internal/settings/merge.go
//
// Merge and Overlay: the two pure combinators of the configuration overlay.
//
// Context
// -------
//   - `Merge(defaults, overrides)` produces the fully populated tree.  It is
//     total: every leaf comes from the override when present, otherwise
//     from the defaults.  Nested sections, including the resolution map,
//     are merged leaf by leaf, never as whole objects.
//   - `Overlay(base, next)` combines two override sets.  Leaves present in
//     `next` win, leaves absent from `next` keep the value from `base`.  The
//     result shares no pointers with either input.
//
// Neither function mutates its arguments.
package settings

import "reflect"

func pick[T any](def T, ov *T) T {
	if ov != nil {
		return *ov
	}
	return def
}

// Merge overlays ov onto defaults.  CustomConfig holds only values, so the
// copy made on entry is already independent of the caller's tree.
func Merge(defaults CustomConfig, ov Overrides) CustomConfig {
	out := defaults

	if s := ov.Instance; s != nil {
		in := &out.Instance
		in.Name = pick(in.Name, s.Name)
		in.ShortDescription = pick(in.ShortDescription, s.ShortDescription)
		in.Description = pick(in.Description, s.Description)
		in.Terms = pick(in.Terms, s.Terms)
		in.DefaultClientRoute = pick(in.DefaultClientRoute, s.DefaultClientRoute)
		in.IsNSFW = pick(in.IsNSFW, s.IsNSFW)
		in.DefaultNSFWPolicy = pick(in.DefaultNSFWPolicy, s.DefaultNSFWPolicy)
		if c := s.Customizations; c != nil {
			in.Customizations.JavaScript = pick(in.Customizations.JavaScript, c.JavaScript)
			in.Customizations.CSS = pick(in.Customizations.CSS, c.CSS)
		}
	}

	if s := ov.Services; s != nil && s.Twitter != nil {
		tw := &out.Services.Twitter
		tw.Username = pick(tw.Username, s.Twitter.Username)
		tw.Whitelisted = pick(tw.Whitelisted, s.Twitter.Whitelisted)
	}

	if s := ov.Cache; s != nil {
		if s.Previews != nil {
			out.Cache.Previews.Size = pick(out.Cache.Previews.Size, s.Previews.Size)
		}
		if s.Captions != nil {
			out.Cache.Captions.Size = pick(out.Cache.Captions.Size, s.Captions.Size)
		}
	}

	if s := ov.Signup; s != nil {
		out.Signup.Enabled = pick(out.Signup.Enabled, s.Enabled)
		out.Signup.Limit = pick(out.Signup.Limit, s.Limit)
		out.Signup.RequiresEmailVerification = pick(out.Signup.RequiresEmailVerification, s.RequiresEmailVerification)
	}

	if s := ov.Admin; s != nil {
		out.Admin.Email = pick(out.Admin.Email, s.Email)
	}

	if s := ov.ContactForm; s != nil {
		out.ContactForm.Enabled = pick(out.ContactForm.Enabled, s.Enabled)
	}

	if s := ov.User; s != nil {
		out.User.VideoQuota = pick(out.User.VideoQuota, s.VideoQuota)
		out.User.VideoQuotaDaily = pick(out.User.VideoQuotaDaily, s.VideoQuotaDaily)
	}

	if s := ov.Transcoding; s != nil {
		tc := &out.Transcoding
		tc.Enabled = pick(tc.Enabled, s.Enabled)
		tc.AllowAdditionalExtensions = pick(tc.AllowAdditionalExtensions, s.AllowAdditionalExtensions)
		tc.Threads = pick(tc.Threads, s.Threads)
		if r := s.Resolutions; r != nil {
			tc.Resolutions.R240p = pick(tc.Resolutions.R240p, r.R240p)
			tc.Resolutions.R360p = pick(tc.Resolutions.R360p, r.R360p)
			tc.Resolutions.R480p = pick(tc.Resolutions.R480p, r.R480p)
			tc.Resolutions.R720p = pick(tc.Resolutions.R720p, r.R720p)
			tc.Resolutions.R1080p = pick(tc.Resolutions.R1080p, r.R1080p)
		}
		if s.HLS != nil {
			tc.HLS.Enabled = pick(tc.HLS.Enabled, s.HLS.Enabled)
		}
	}

	if s := ov.Import; s != nil && s.Videos != nil {
		if s.Videos.HTTP != nil {
			out.Import.Videos.HTTP.Enabled = pick(out.Import.Videos.HTTP.Enabled, s.Videos.HTTP.Enabled)
		}
		if s.Videos.Torrent != nil {
			out.Import.Videos.Torrent.Enabled = pick(out.Import.Videos.Torrent.Enabled, s.Videos.Torrent.Enabled)
		}
	}

	return out
}

// Overlay returns base with every leaf present in next replaced.
func Overlay(base, next Overrides) Overrides {
	var out Overrides
	overlayStruct(reflect.ValueOf(&out).Elem(), reflect.ValueOf(base), reflect.ValueOf(next))
	return out
}

// Clone returns a deep copy of o.
func (o Overrides) Clone() Overrides { return Overlay(Overrides{}, o) }

// overlayStruct fills dst field by field.  Every field of an Overrides
// section is a pointer: pointers to structs are sections, anything else is
// a leaf.  Empty sections are dropped.
func overlayStruct(dst, base, next reflect.Value) bool {
	set := false
	for i := 0; i < dst.NumField(); i++ {
		f := dst.Field(i)
		b, n := field(base, i), field(next, i)

		if f.Type().Elem().Kind() == reflect.Struct {
			sec := reflect.New(f.Type().Elem())
			if overlayStruct(sec.Elem(), deref(b), deref(n)) {
				f.Set(sec)
				set = true
			}
			continue
		}

		src := n
		if !src.IsValid() || src.IsNil() {
			src = b
		}
		if src.IsValid() && !src.IsNil() {
			leaf := reflect.New(f.Type().Elem())
			leaf.Elem().Set(src.Elem())
			f.Set(leaf)
			set = true
		}
	}
	return set
}

// field returns the i-th field of v, or the zero Value when v is absent.
func field(v reflect.Value, i int) reflect.Value {
	if !v.IsValid() {
		return reflect.Value{}
	}
	return v.Field(i)
}

func deref(v reflect.Value) reflect.Value {
	if !v.IsValid() || v.IsNil() {
		return reflect.Value{}
	}
	return v.Elem()
}
