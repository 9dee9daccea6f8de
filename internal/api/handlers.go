package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/yanizio/siteconf/internal/auth"
	"github.com/yanizio/siteconf/internal/pipeline"
	"github.com/yanizio/siteconf/internal/settings"
)

// maxBody caps PUT bodies.  Custom CSS and JavaScript are the only large
// leaves.
const maxBody = 1 << 20

type handlers struct {
	svc      ConfigService
	pipeline PolicySource
}

type pipelineView struct {
	Policy  pipeline.Policy `json:"policy"`
	Applied uint64          `json:"applied"`
	Accepts *bool           `json:"accepts,omitempty"`
}

func (h *handlers) getConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Config(r.Context()))
}

func (h *handlers) getAbout(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.About())
}

func (h *handlers) getCustom(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Custom())
}

func (h *handlers) getLeaf(w http.ResponseWriter, r *http.Request) {
	v, err := h.svc.Lookup(chi.URLParam(r, "path"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// getPipeline reports the policy the media pipeline runs with.  With
// `?ext=.mkv` it also answers whether that upload extension is accepted.
func (h *handlers) getPipeline(w http.ResponseWriter, r *http.Request) {
	p := h.pipeline.Policy()
	out := pipelineView{Policy: p, Applied: h.pipeline.Applied()}
	if ext := r.URL.Query().Get("ext"); ext != "" {
		ok := p.AcceptsVideo(ext)
		out.Accepts = &ok
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *handlers) putCustom(w http.ResponseWriter, r *http.Request) {
	body, err := decodeOverrides(http.MaxBytesReader(w, r.Body, maxBody))
	if err != nil {
		writeError(w, r, err)
		return
	}
	snap, err := h.svc.Update(r.Context(), body)
	if err != nil {
		writeError(w, r, err)
		return
	}
	who, _ := auth.Admin(r.Context())
	zap.S().Infow("custom config updated via api", "admin", who, "generation", snap.Generation)
	writeJSON(w, http.StatusOK, snap.Config)
}

func (h *handlers) deleteCustom(w http.ResponseWriter, r *http.Request) {
	snap, err := h.svc.Delete(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	who, _ := auth.Admin(r.Context())
	zap.S().Infow("custom config deleted via api", "admin", who, "generation", snap.Generation)
	w.WriteHeader(http.StatusNoContent)
}

// decodeOverrides parses a PUT body strictly.  Unknown keys and type
// mismatches come back as a *settings.ValidationError so clients see one
// error shape.
func decodeOverrides(rd io.Reader) (settings.Overrides, error) {
	var ov settings.Overrides
	dec := json.NewDecoder(rd)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&ov); err != nil {
		return ov, decodeViolation(err)
	}
	if dec.More() {
		return ov, decodeViolation(errors.New("unexpected data after the JSON object"))
	}
	return ov, nil
}

func decodeViolation(err error) error {
	v := settings.Violation{Rule: "json", Message: err.Error()}
	var te *json.UnmarshalTypeError
	var mbe *http.MaxBytesError
	switch {
	case errors.As(err, &te):
		v.Path, v.Rule = te.Field, "type"
		v.Message = fmt.Sprintf("%s must be a %s", te.Field, te.Type)
	case errors.As(err, &mbe):
		v.Rule = "size"
		v.Message = fmt.Sprintf("body exceeds %d bytes", mbe.Limit)
	case errors.Is(err, io.EOF):
		v.Message = "empty body"
	}
	return &settings.ValidationError{Violations: []settings.Violation{v}}
}
