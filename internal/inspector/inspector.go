// Package inspector serves a JSON view of a running engine over HTTP and
// accepts live edits to entities, lights and the active camera.
//
// Reads are served from the snapshot the engine publishes after each frame and
// never touch the scene. Edits are submitted through Engine.Do so they run on
// the frame loop goroutine.
package inspector

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/Carmen-Shannon/contraption/engine"
	"github.com/Carmen-Shannon/contraption/engine/light"
	"github.com/Carmen-Shannon/contraption/engine/scene"
	"github.com/Carmen-Shannon/contraption/internal/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

const defaultEditTimeout = 2 * time.Second

// EntityPatch is the body of PATCH /entities/{id}. Nil fields are left unchanged.
type EntityPatch struct {
	Position *mgl32.Vec3 `json:"position,omitempty"`
	Rotation *mgl32.Vec3 `json:"rotation,omitempty"`
	Scale    *mgl32.Vec3 `json:"scale,omitempty"`
	Enabled  *bool       `json:"enabled,omitempty"`
	Mesh     *string     `json:"mesh,omitempty"`
}

// LightPatch is the body of PATCH /lights/{id}. Nil fields are left unchanged.
type LightPatch struct {
	Enabled     *bool       `json:"enabled,omitempty"`
	Position    *mgl32.Vec3 `json:"position,omitempty"`
	Direction   *mgl32.Vec3 `json:"direction,omitempty"`
	Color       *mgl32.Vec3 `json:"color,omitempty"`
	Intensity   *float32    `json:"intensity,omitempty"`
	Range       *float32    `json:"range,omitempty"`
	SpotFalloff *float32    `json:"spotFalloff,omitempty"`
}

// CameraSelect is the body of PUT /cameras/active.
type CameraSelect struct {
	Index int `json:"index"`
}

type errorBody struct {
	Error string `json:"error"`
}

// Server routes inspector requests to an engine.
type Server struct {
	engine      engine.Engine
	metrics     *metrics.Metrics
	logger      *slog.Logger
	editTimeout time.Duration
	router      chi.Router
}

// NewServer creates a Server for e.
//
// Parameters:
//   - e: the engine to inspect
//   - options: functional options to configure the server
//
// Returns:
//   - *Server: the newly created server
func NewServer(e engine.Engine, options ...ServerBuilderOption) *Server {
	if e == nil {
		panic("inspector: nil engine")
	}
	s := &Server{
		engine:      e,
		logger:      slog.New(slog.DiscardHandler),
		editTimeout: defaultEditTimeout,
	}
	for _, opt := range options {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.health)
	r.Get("/scene", s.getScene)
	r.Get("/frame", s.getFrame)
	r.Get("/entities/{id}", s.getEntity)
	r.Patch("/entities/{id}", s.patchEntity)
	r.Patch("/lights/{id}", s.patchLight)
	r.Put("/cameras/active", s.putActiveCamera)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}
	s.router = r
	return s
}

// Handler returns the HTTP handler serving every inspector route.
//
// Returns:
//   - http.Handler: the router
func (s *Server) Handler() http.Handler {
	return s.router
}

// observe records one request metric per response, labelled with the matched
// route pattern rather than the raw path.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		s.metrics.ObserveRequest(route, status)
		s.logger.Debug("inspector request", "method", r.Method, "route", route, "status", status, "elapsed", time.Since(start))
	})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "frames": s.engine.Frames()})
}

func (s *Server) getScene(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.engine.Snapshot()
	if !ok {
		writeError(w, http.StatusServiceUnavailable, "no frame rendered yet")
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) getFrame(w http.ResponseWriter, r *http.Request) {
	info, ok := s.engine.LastFrame()
	if !ok {
		writeError(w, http.StatusServiceUnavailable, "no frame rendered yet")
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (s *Server) getEntity(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	snap, ok := s.engine.Snapshot()
	if !ok {
		writeError(w, http.StatusServiceUnavailable, "no frame rendered yet")
		return
	}
	for _, es := range snap.Entities {
		if es.ID == id {
			writeJSON(w, http.StatusOK, es)
			return
		}
	}
	writeError(w, http.StatusNotFound, scene.ErrUnknownEntity.Error())
}

func (s *Server) patchEntity(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var patch EntityPatch
	if !decode(w, r, &patch) {
		return
	}

	err := s.edit(r.Context(), func(sc scene.Scene) error {
		e, err := sc.Get(id)
		if err != nil {
			return err
		}
		t := e.Transform()
		if patch.Position != nil {
			t.SetPositionV(*patch.Position)
		}
		if patch.Rotation != nil {
			t.SetEulerRotationV(*patch.Rotation)
		}
		if patch.Scale != nil {
			t.SetScaleV(*patch.Scale)
		}
		if patch.Enabled != nil {
			e.SetEnabled(*patch.Enabled)
		}
		if patch.Mesh != nil {
			e.SetMesh(*patch.Mesh)
		}
		return nil
	})
	if err != nil {
		s.writeEditError(w, err)
		return
	}
	s.logger.Info("entity edited", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) patchLight(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var patch LightPatch
	if !decode(w, r, &patch) {
		return
	}

	err := s.edit(r.Context(), func(sc scene.Scene) error {
		return sc.UpdateLight(light.ID(id), func(l light.Light) {
			if patch.Enabled != nil {
				l.SetEnabled(*patch.Enabled)
			}
			if v := patch.Position; v != nil {
				l.SetPosition(v.X(), v.Y(), v.Z())
			}
			if v := patch.Direction; v != nil {
				l.SetDirection(v.X(), v.Y(), v.Z())
			}
			if v := patch.Color; v != nil {
				l.SetColor(v.X(), v.Y(), v.Z())
			}
			if patch.Intensity != nil {
				l.SetIntensity(*patch.Intensity)
			}
			if patch.Range != nil {
				l.SetRange(*patch.Range)
			}
			if patch.SpotFalloff != nil {
				l.SetSpotFalloff(*patch.SpotFalloff)
			}
		})
	})
	if err != nil {
		s.writeEditError(w, err)
		return
	}
	s.logger.Info("light edited", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) putActiveCamera(w http.ResponseWriter, r *http.Request) {
	var body CameraSelect
	if !decode(w, r, &body) {
		return
	}
	err := s.edit(r.Context(), func(sc scene.Scene) error {
		return sc.SetActiveCamera(body.Index)
	})
	if err != nil {
		s.writeEditError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) edit(ctx context.Context, fn func(scene.Scene) error) error {
	ctx, cancel := context.WithTimeout(ctx, s.editTimeout)
	defer cancel()
	return s.engine.Do(ctx, fn)
}

func (s *Server) writeEditError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, scene.ErrUnknownEntity),
		errors.Is(err, scene.ErrUnknownLight),
		errors.Is(err, scene.ErrUnknownCamera):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, engine.ErrQueueFull), errors.Is(err, engine.ErrStopped):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusGatewayTimeout, err.Error())
	default:
		s.logger.Error("inspector edit failed", "err", err)
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func pathID(w http.ResponseWriter, r *http.Request) (uint64, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}
