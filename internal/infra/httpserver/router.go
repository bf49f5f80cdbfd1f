package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	appinspect "github.com/bryanwahyu/tvp-inspect/internal/application/inspection"
	domain "github.com/bryanwahyu/tvp-inspect/internal/domain/inspection"
	"github.com/bryanwahyu/tvp-inspect/internal/middleware"
)

// Deps are the cross-cutting pieces the router mounts around the service.
// Nil fields fall back to no-ops.
type Deps struct {
	Logger   *zap.Logger
	Metrics  *middleware.Metrics
	APIKeys  map[string]string
	Limiter  *middleware.RateLimiter
	Checkers map[string]middleware.HealthChecker
}

type Router struct {
	svc     *appinspect.Service
	logger  *zap.Logger
	metrics *middleware.Metrics
}

func NewRouter(svc *appinspect.Service, deps Deps) http.Handler {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Metrics == nil {
		deps.Metrics = middleware.NewMetrics()
	}
	r := &Router{svc: svc, logger: deps.Logger, metrics: deps.Metrics}

	mux := chi.NewRouter()
	mux.Use(middleware.RequestLogger(deps.Logger))
	mux.Use(deps.Metrics.Middleware)
	// the form front-end is served from another origin on the plant network
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))
	mux.Use(middleware.APIKeyAuth(deps.APIKeys))
	if deps.Limiter != nil {
		mux.Use(middleware.RateLimitMiddleware(deps.Limiter))
	}

	mux.Get("/health", middleware.HealthHandler(deps.Checkers))
	mux.Get("/ready", middleware.ReadinessHandler)
	mux.Get("/live", middleware.LivenessHandler)
	mux.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())

	mux.Route("/v1", func(rt chi.Router) {
		rt.Get("/catalog", r.wrap(r.handleCatalog))
		rt.Get("/overview", r.wrap(r.handleOverview))
		rt.Route("/areas/{area}", func(ar chi.Router) {
			ar.Post("/readings", r.wrap(r.handleSubmit))
			ar.Delete("/readings", r.wrap(r.handleClear))
			ar.Get("/progress", r.wrap(r.handleProgress))
			ar.Post("/export", r.wrap(r.handleExport))
		})
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

// badRequest marks caller mistakes.
type badRequest struct{ msg string }

func (e badRequest) Error() string { return e.msg }

func badRequestf(format string, args ...any) error {
	return badRequest{msg: fmt.Sprintf(format, args...)}
}

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		err := h(w, req)
		if err == nil {
			return
		}
		var br badRequest
		switch {
		case errors.As(err, &br):
			http.Error(w, br.msg, http.StatusBadRequest)
		case errors.Is(err, domain.ErrTagNotFound),
			errors.Is(err, domain.ErrUnknownArea),
			errors.Is(err, domain.ErrNoColumnForToday):
			http.Error(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, domain.ErrAuthFailure):
			http.Error(w, err.Error(), http.StatusUnauthorized)
		case errors.Is(err, domain.ErrStoreNotFound),
			errors.Is(err, domain.ErrBackendUnavailable):
			r.logger.Warn("backend failure",
				zap.String("request_id", middleware.GetRequestIDFromContext(req.Context())),
				zap.Error(err))
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
		case errors.Is(err, appinspect.ErrExportDisabled):
			http.Error(w, err.Error(), http.StatusNotImplemented)
		default:
			r.logger.Error("request failed",
				zap.String("request_id", middleware.GetRequestIDFromContext(req.Context())),
				zap.Error(err))
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	return json.NewEncoder(w).Encode(v)
}

type pointView struct {
	Name    string     `json:"name"`
	Tag     domain.Tag `json:"tag"`
	Boolean bool       `json:"boolean"`
	Min     *float64   `json:"min,omitempty"`
	Max     *float64   `json:"max,omitempty"`
	Range   string     `json:"range,omitempty"`
}

type categoryView struct {
	Name   string      `json:"name"`
	Points []pointView `json:"points"`
}

// GET /v1/catalog
func (r *Router) handleCatalog(w http.ResponseWriter, req *http.Request) error {
	catalog := r.svc.Catalog()
	out := make([]categoryView, 0, len(catalog.Categories()))
	for _, name := range catalog.Categories() {
		cv := categoryView{Name: name}
		for _, p := range catalog.Points(name) {
			pv := pointView{Name: p.Name, Tag: p.Tag(), Boolean: p.IsBoolean()}
			if p.Range != nil {
				lo, hi := p.Range.Min, p.Range.Max
				pv.Min, pv.Max, pv.Range = &lo, &hi, p.Range.String()
			}
			cv.Points = append(cv.Points, pv)
		}
		out = append(out, cv)
	}
	return writeJSON(w, http.StatusOK, map[string]any{
		"areas":      r.svc.Areas(),
		"categories": out,
	})
}

// GET /v1/overview
func (r *Router) handleOverview(w http.ResponseWriter, req *http.Request) error {
	list, err := r.svc.Overview(req.Context())
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, map[string]any{"date": r.svc.Today(), "areas": list})
}

type submitBody struct {
	Category  string `json:"category"`
	Point     string `json:"point"`
	Value     string `json:"value"`
	Status    string `json:"status"`
	Note      string `json:"note"`
	Submitter string `json:"submitter"`
}

// POST /v1/areas/{area}/readings
// Body: {"category": "...", "point": "...", "value": "58.2"} for ranged points,
// "status": "normal"|"abnormal" (or free text in "value") for boolean ones.
func (r *Router) handleSubmit(w http.ResponseWriter, req *http.Request) error {
	var body submitBody
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return badRequestf("invalid body: %v", err)
	}
	body.Category = middleware.SanitizeString(body.Category)
	body.Point = middleware.SanitizeString(body.Point)
	body.Value = middleware.SanitizeString(body.Value)
	body.Note = middleware.SanitizeString(body.Note)
	body.Submitter = middleware.SanitizeString(body.Submitter)
	if body.Submitter == "" {
		body.Submitter = middleware.GetOperatorFromContext(req.Context())
	}

	for _, check := range []error{
		middleware.ValidateRequired("category", body.Category),
		middleware.ValidateRequired("point", body.Point),
		middleware.ValidateValue(body.Value),
		middleware.ValidateNote(body.Note),
		middleware.ValidateOperator(body.Submitter),
	} {
		if check != nil {
			return badRequest{msg: check.Error()}
		}
	}

	point, err := r.svc.Catalog().Lookup(body.Category, body.Point)
	if err != nil {
		return err
	}
	reading, err := readingFor(point, body)
	if err != nil {
		return err
	}

	receipt, err := r.svc.Submit(req.Context(), appinspect.Submission{
		Area:      chi.URLParam(req, "area"),
		Category:  body.Category,
		Point:     body.Point,
		Reading:   reading,
		Note:      body.Note,
		Submitter: body.Submitter,
	})
	if err != nil {
		return err
	}
	r.metrics.ObserveSubmission(string(receipt.Area), receipt.Judgment.Anomalous)
	return writeJSON(w, http.StatusCreated, receipt)
}

// readingFor turns request fields into a Reading. Free text is only
// interpreted here, at the edge.
func readingFor(p domain.InspectionPoint, body submitBody) (domain.Reading, error) {
	if !p.IsBoolean() {
		if body.Value == "" {
			return domain.Reading{}, badRequestf("value is required for %s", p.Tag())
		}
		return domain.Reading{Value: body.Value}, nil
	}
	if body.Status != "" {
		st := domain.Status(strings.ToLower(strings.TrimSpace(body.Status)))
		if !st.Valid() {
			return domain.Reading{}, badRequestf("status must be %q or %q", domain.StatusNormal, domain.StatusAbnormal)
		}
		return domain.Reading{Status: st}, nil
	}
	if body.Value == "" {
		return domain.Reading{}, badRequestf("status is required for %s", p.Tag())
	}
	return domain.ReadingFromText(p, body.Value), nil
}

// GET /v1/areas/{area}/progress
func (r *Router) handleProgress(w http.ResponseWriter, req *http.Request) error {
	rep, err := r.svc.Progress(req.Context(), chi.URLParam(req, "area"))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, map[string]any{
		"report":  rep,
		"ratio":   rep.Ratio(),
		"missing": rep.Missing(),
	})
}

// DELETE /v1/areas/{area}/readings?tag=<category - point>
// Also accepts {"tag": "..."} or {"category": "...", "point": "..."} as body.
func (r *Router) handleClear(w http.ResponseWriter, req *http.Request) error {
	tag := middleware.SanitizeString(req.URL.Query().Get("tag"))
	if tag == "" && req.Body != nil && req.ContentLength != 0 {
		var body struct {
			Tag      string `json:"tag"`
			Category string `json:"category"`
			Point    string `json:"point"`
		}
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			return badRequestf("invalid body: %v", err)
		}
		tag = middleware.SanitizeString(body.Tag)
		if tag == "" && body.Category != "" && body.Point != "" {
			tag = string(domain.MakeTag(middleware.SanitizeString(body.Category), middleware.SanitizeString(body.Point)))
		}
	}
	if tag == "" {
		return badRequestf("tag is required")
	}

	area := chi.URLParam(req, "area")
	if err := r.svc.Clear(req.Context(), area, domain.Tag(tag)); err != nil {
		return err
	}
	if a, err := r.svc.ParseArea(area); err == nil {
		r.metrics.ObserveClear(string(a))
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

// POST /v1/areas/{area}/export
func (r *Router) handleExport(w http.ResponseWriter, req *http.Request) error {
	snap, err := r.svc.Export(req.Context(), chi.URLParam(req, "area"))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusCreated, snap)
}
