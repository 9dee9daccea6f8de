// internal/pipeline/policy.go
//
// Media pipeline policy derived from the live configuration.
//
// Context
// -------
// Upload handlers, the transcoding scheduler, and the import workers all
// read the same handful of settings on every job.  Rather than each of them
// re-deriving resolution heights and extension lists from the merged tree,
// `Holder` keeps one precomputed `Policy` and replaces it from a
// serverconfig change hook.
//
// Usage
// -----
//
//	h := pipeline.NewHolder(svc.Custom())
//	svc.OnChange(h.Apply)
//	…
//	if h.Policy().AcceptsVideo(".mkv") { … }
//
// Notes
// -----
//   - Apply swaps an atomic pointer; readers never block.
//   - Oxford commas, two spaces after periods.
package pipeline

import (
	"context"
	"slices"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/yanizio/siteconf/internal/media"
	"github.com/yanizio/siteconf/internal/serverconfig"
	"github.com/yanizio/siteconf/internal/settings"
)

// Policy is an immutable view of the pipeline settings.
type Policy struct {
	TranscodingEnabled bool     `json:"transcodingEnabled"`
	Threads            int      `json:"threads"`
	Resolutions        []int    `json:"resolutions"`
	HLS                bool     `json:"hls"`
	VideoExtensions    []string `json:"videoExtensions"`
	ImportHTTP         bool     `json:"importHttp"`
	ImportTorrent      bool     `json:"importTorrent"`
}

// FromConfig derives a Policy from a merged tree.
func FromConfig(c settings.CustomConfig) Policy {
	t := c.Transcoding
	return Policy{
		TranscodingEnabled: t.Enabled,
		Threads:            t.Threads,
		Resolutions:        media.EnabledResolutions(t.Resolutions),
		HLS:                t.HLS.Enabled,
		VideoExtensions:    media.VideoExtensions(t.AllowAdditionalExtensions),
		ImportHTTP:         c.Import.Videos.HTTP.Enabled,
		ImportTorrent:      c.Import.Videos.Torrent.Enabled,
	}
}

// AcceptsVideo reports whether an upload with extension ext is allowed.
// The comparison ignores case.
func (p Policy) AcceptsVideo(ext string) bool {
	return slices.Contains(p.VideoExtensions, strings.ToLower(ext))
}

// Holder publishes the current Policy.
type Holder struct {
	cur     atomic.Pointer[Policy]
	applied atomic.Uint64
}

// NewHolder seeds the holder from c.
func NewHolder(c settings.CustomConfig) *Holder {
	h := &Holder{}
	p := FromConfig(c)
	h.cur.Store(&p)
	return h
}

// Policy returns the current policy.
func (h *Holder) Policy() Policy { return *h.cur.Load() }

// Applied counts the snapshots installed through Apply.
func (h *Holder) Applied() uint64 { return h.applied.Load() }

// Apply is a serverconfig.Hook.
func (h *Holder) Apply(_ context.Context, c serverconfig.Change) {
	p := FromConfig(c.New.Config)
	h.cur.Store(&p)
	h.applied.Add(1)
	zap.S().Debugw("pipeline policy applied",
		"generation", c.New.Generation,
		"transcoding", p.TranscodingEnabled,
		"resolutions", p.Resolutions,
		"threads", p.Threads)
}
