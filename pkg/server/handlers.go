package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/rectgroup/pkg/buildinfo"
	"github.com/matzehuels/rectgroup/pkg/cache"
	errs "github.com/matzehuels/rectgroup/pkg/errors"
	"github.com/matzehuels/rectgroup/pkg/geometry"
	"github.com/matzehuels/rectgroup/pkg/group"
	"github.com/matzehuels/rectgroup/pkg/httputil"
	"github.com/matzehuels/rectgroup/pkg/pipeline"
	"github.com/matzehuels/rectgroup/pkg/render/nodelink"
	"github.com/matzehuels/rectgroup/pkg/scene"
	"github.com/matzehuels/rectgroup/pkg/script"
	"github.com/matzehuels/rectgroup/pkg/session"
)

var contentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatPDF:  "application/pdf",
	pipeline.FormatJSON: "application/json",
}

// State is the JSON view of a session's group.
type State struct {
	ID        string            `json:"id"`
	Count     int               `json:"count"`
	Width     float64           `json:"width"`
	Height    float64           `json:"height"`
	Position  geometry.Point    `json:"position"`
	Rotation  geometry.Rotation `json:"rotation"`
	Coords    geometry.Quad     `json:"coords"`
	Attached  bool              `json:"attached"`
	ExpiresAt time.Time         `json:"expires_at"`
}

// ScriptResponse is returned by POST /groups/{id}/script.
type ScriptResponse struct {
	State
	Ops      string `json:"ops"`
	Duration string `json:"duration"`
}

type health struct {
	Status   string         `json:"status"`
	Build    buildinfo.Info `json:"build"`
	Sessions int            `json:"sessions"`
}

type createRequest struct {
	Ops []pipeline.Op `json:"ops"`
}

type addRequest struct {
	Count int `json:"count"`
}

type positionRequest struct {
	X *float64 `json:"x"`
	Y *float64 `json:"y"`
}

type rotationRequest struct {
	Angle *float64 `json:"angle"`
}

type opsRequest struct {
	Ops string `json:"ops"`
}

// stateOf must run inside Session.Do; the expiry is filled in afterwards
// since ExpiresAt takes the session lock.
func stateOf(sess *session.Session, g *group.Group) State {
	return State{
		ID:       sess.ID,
		Count:    g.Count(),
		Width:    g.GroupWidth(),
		Height:   g.GroupHeight(),
		Position: g.Position(),
		Rotation: g.Rotation(),
		Coords:   g.GroupCoordinates(),
		Attached: g.Container().Parent() != nil,
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, health{Status: "ok", Build: buildinfo.Get(), Sessions: s.store.Len()})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := httputil.DecodeJSON(r, &req, true); err != nil {
		httputil.WriteError(w, err)
		return
	}

	sc := scene.New(s.cfg.Frame.Width, s.cfg.Frame.Height)
	sess := session.New(sc, s.cfg.GroupDefaults(), s.store.TTL())

	var st State
	err := sess.Do(func(_ *scene.Scene, g *group.Group) error {
		if err := s.apply(r.Context(), g, req.Ops); err != nil {
			return err
		}
		st = stateOf(sess, g)
		return nil
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	st.ExpiresAt = sess.ExpiresAt()
	if err := s.store.Set(r.Context(), sess); err != nil {
		httputil.WriteError(w, errs.Wrap(errs.ErrCodeInternal, err, "store session"))
		return
	}
	s.logger.Info("session created", "id", sess.ID, "ops", len(req.Ops))
	w.Header().Set("Location", "/groups/"+sess.ID)
	httputil.WriteJSON(w, http.StatusCreated, st)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	s.withGroup(w, r, func(*group.Group) error { return nil })
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := s.store.Delete(r.Context(), sess.ID); err != nil {
		httputil.WriteError(w, errs.Wrap(errs.ErrCodeInternal, err, "delete session"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAddRectangles(w http.ResponseWriter, r *http.Request) {
	req := addRequest{Count: 1}
	if err := httputil.DecodeJSON(r, &req, true); err != nil {
		httputil.WriteError(w, err)
		return
	}
	if req.Count < 1 || req.Count > pipeline.MaxAdd {
		httputil.WriteError(w, errs.New(errs.ErrCodeInvalidInput, "count must be between 1 and %d", pipeline.MaxAdd))
		return
	}
	ops := make([]pipeline.Op, req.Count)
	for i := range ops {
		ops[i] = pipeline.Add()
	}
	s.applyOps(w, r, ops)
}

func (s *Server) handlePosition(w http.ResponseWriter, r *http.Request) {
	var req positionRequest
	if err := httputil.DecodeJSON(r, &req, false); err != nil {
		httputil.WriteError(w, err)
		return
	}
	s.applyOps(w, r, []pipeline.Op{{Kind: pipeline.OpPosition, X: req.X, Y: req.Y}})
}

func (s *Server) handleRotation(w http.ResponseWriter, r *http.Request) {
	var req rotationRequest
	if err := httputil.DecodeJSON(r, &req, false); err != nil {
		httputil.WriteError(w, err)
		return
	}
	if req.Angle == nil {
		httputil.WriteError(w, errs.New(errs.ErrCodeInvalidInput, "angle is required"))
		return
	}
	s.applyOps(w, r, []pipeline.Op{pipeline.Rotate(*req.Angle)})
}

func (s *Server) handleSimple(kind pipeline.OpKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.applyOps(w, r, []pipeline.Op{{Kind: kind}})
	}
}

func (s *Server) handleOps(w http.ResponseWriter, r *http.Request) {
	var req opsRequest
	if err := httputil.DecodeJSON(r, &req, false); err != nil {
		httputil.WriteError(w, err)
		return
	}
	ops, err := pipeline.ParseOps(req.Ops)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	s.applyOps(w, r, ops)
}

func (s *Server) handleScript(w http.ResponseWriter, r *http.Request) {
	src, err := io.ReadAll(io.LimitReader(r.Body, httputil.MaxBodyBytes))
	if err != nil {
		httputil.WriteError(w, errs.Wrap(errs.ErrCodeInvalidInput, err, "read script"))
		return
	}
	sess, err := s.session(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var resp ScriptResponse
	err = s.do(sess, func(g *group.Group) error {
		res, err := script.Run(r.Context(), src, g, script.WithLogger(s.logger))
		if err != nil {
			return err
		}
		resp.Ops = pipeline.FormatOps(res.Ops)
		resp.Duration = res.Duration.String()
		resp.State = stateOf(sess, g)
		return nil
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	resp.ExpiresAt = sess.ExpiresAt()
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	opts, err := s.renderOptions(r, format)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	sess, err := s.session(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var frame scene.Frame
	err = s.doScene(sess, func(sc *scene.Scene, _ *group.Group) error {
		f, err := sc.Snapshot()
		if err != nil {
			return errs.Wrap(errs.ErrCodeInternal, err, "snapshot scene")
		}
		frame = f
		return nil
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	runner := pipeline.NewRunner(s.cache, cache.NewScopedKeyer(s.keyer, "session:"+sess.ID+":"), s.logger)
	artifacts, hit, err := runner.RenderWithCacheInfo(r.Context(), frame, opts)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("X-Cache", map[bool]string{true: "HIT", false: "MISS"}[hit])
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(artifacts[format])
}

// handleTree serves the scene tree behind the group as Graphviz DOT or as
// an SVG laid out from it. ?detailed=true lists every node attribute.
func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if format != "dot" && format != "svg" {
		httputil.WriteError(w, errs.New(errs.ErrCodeInvalidFormat, "invalid tree format: %q (must be dot or svg)", format))
		return
	}
	detailed, err := queryBool(r, "detailed")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	sess, err := s.session(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var dot string
	err = s.doScene(sess, func(sc *scene.Scene, _ *group.Group) error {
		dot = nodelink.ToDOT(sc.Root(), nodelink.Options{Detailed: detailed})
		return nil
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if format == "dot" {
		w.Header().Set("Content-Type", "text/vnd.graphviz")
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, dot)
		return
	}
	svg, err := nodelink.RenderSVG(r.Context(), dot)
	if err != nil {
		httputil.WriteError(w, errs.Wrap(errs.ErrCodeRenderFailed, err, "render scene tree"))
		return
	}
	w.Header().Set("Content-Type", contentTypes["svg"])
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(svg)
}

func queryBool(r *http.Request, name string) (bool, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, errs.New(errs.ErrCodeInvalidInput, "%s must be a boolean", name)
	}
	return b, nil
}

// renderOptions reads style, fill, stroke, corners, background, scale and
// refresh from the query on top of the configured render defaults.
func (s *Server) renderOptions(r *http.Request, format string) (pipeline.Options, error) {
	if err := pipeline.ValidateFormat(format); err != nil {
		return pipeline.Options{}, err
	}
	opts := s.cfg.PipelineOptions()
	opts.Formats = []string{format}
	opts.Logger = s.logger

	q := r.URL.Query()
	if v := q.Get("style"); v != "" {
		opts.Style = v
	}
	if v := q.Get("fill"); v != "" {
		opts.Fill = v
	}
	if v := q.Get("stroke"); v != "" {
		opts.Stroke = v
	}
	for name, dst := range map[string]*bool{"corners": &opts.Corners, "background": &opts.Background, "refresh": &opts.Refresh} {
		if q.Get(name) == "" {
			continue
		}
		b, err := queryBool(r, name)
		if err != nil {
			return pipeline.Options{}, err
		}
		*dst = b
	}
	if v := q.Get("scale"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return pipeline.Options{}, errs.New(errs.ErrCodeInvalidInput, "scale must be a number")
		}
		opts.Scale = f
	}
	if err := opts.ValidateForRender(); err != nil {
		return pipeline.Options{}, err
	}
	return opts, nil
}

// applyOps runs ops on the addressed session and writes the new state.
func (s *Server) applyOps(w http.ResponseWriter, r *http.Request, ops []pipeline.Op) {
	s.withGroup(w, r, func(g *group.Group) error {
		return s.apply(r.Context(), g, ops)
	})
}

func (s *Server) apply(ctx context.Context, g *group.Group, ops []pipeline.Op) error {
	runner := pipeline.NewRunner(nil, nil, s.logger)
	return runner.Apply(ctx, g, ops)
}

// withGroup runs fn on the addressed session and writes the resulting state.
func (s *Server) withGroup(w http.ResponseWriter, r *http.Request, fn func(*group.Group) error) {
	sess, err := s.session(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	var st State
	err = s.do(sess, func(g *group.Group) error {
		if err := fn(g); err != nil {
			return err
		}
		st = stateOf(sess, g)
		return nil
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	st.ExpiresAt = sess.ExpiresAt()
	httputil.WriteJSON(w, http.StatusOK, st)
}

func (s *Server) session(r *http.Request) (*session.Session, error) {
	id := chi.URLParam(r, "id")
	sess, err := s.store.Get(r.Context(), id)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInternal, err, "load session")
	}
	if sess == nil {
		return nil, errs.New(errs.ErrCodeSessionNotFound, "session %q not found", id)
	}
	return sess, nil
}

func (s *Server) do(sess *session.Session, fn func(*group.Group) error) error {
	return s.doScene(sess, func(_ *scene.Scene, g *group.Group) error { return fn(g) })
}

// doScene wraps Session.Do, mapping expiry to SESSION_NOT_FOUND.
func (s *Server) doScene(sess *session.Session, fn func(*scene.Scene, *group.Group) error) error {
	err := sess.Do(fn)
	if errors.Is(err, session.ErrExpired) {
		return errs.New(errs.ErrCodeSessionNotFound, "session %q expired", sess.ID)
	}
	return err
}
