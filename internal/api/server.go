// Package api exposes the generator, the CEP lookups and the run store
// over HTTP.
package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/ptbr-tools/sampler-cli/internal/address"
	"github.com/ptbr-tools/sampler-cli/internal/model"
	"github.com/ptbr-tools/sampler-cli/internal/person"
	"github.com/ptbr-tools/sampler-cli/internal/sampler"
	"github.com/ptbr-tools/sampler-cli/internal/store"
)

// maxQty bounds a single request so one caller cannot monopolize the
// lookup workers.
const maxQty = 1000

// Server routes HTTP requests to the sample generator. The store is
// optional; run endpoints return 404 when tracking is disabled.
type Server struct {
	gen      *sampler.Generator
	pipeline *address.Pipeline
	store    store.Store
}

// New creates a server. st may be nil.
func New(gen *sampler.Generator, pipeline *address.Pipeline, st store.Store) *Server {
	return &Server{gen: gen, pipeline: pipeline, store: st}
}

// Router builds the chi handler tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/samples", s.handleSamples)
		r.Get("/cep/{code}", s.handleCEP)

		if s.store != nil {
			r.Get("/runs", s.handleListRuns)
			r.Get("/runs/{id}", s.handleGetRun)
			r.Get("/runs/{id}/samples", s.handleRunSamples)
		}
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// sampleRequest is the POST /api/samples body.
type sampleRequest struct {
	Qty    int  `json:"qty"`
	Online bool `json:"online"`

	Name         bool   `json:"name"`
	NamePeriod   string `json:"name_period"`
	OneSurname   bool   `json:"one_surname"`
	AlwaysMiddle bool   `json:"always_middle"`

	CPF   bool `json:"cpf"`
	RG    bool `json:"rg"`
	CNPJ  bool `json:"cnpj"`
	PIS   bool `json:"pis"`
	CEI   bool `json:"cei"`
	Phone bool `json:"phone"`
}

type sampleResponse struct {
	RunID    string         `json:"run_id,omitempty"`
	Samples  []model.Sample `json:"samples"`
	Degraded int            `json:"degraded"`
}

func (s *Server) handleSamples(w http.ResponseWriter, r *http.Request) {
	var req sampleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Qty < 1 || req.Qty > maxQty {
		writeError(w, http.StatusBadRequest, "qty must be between 1 and "+strconv.Itoa(maxQty))
		return
	}

	opts := sampler.Options{
		Qty:         req.Qty,
		Online:      req.Online,
		IncludeName: req.Name,
		Name: person.Options{
			Period:       person.TimePeriod(req.NamePeriod),
			OneSurname:   req.OneSurname,
			AlwaysMiddle: req.AlwaysMiddle,
		},
		IncludeCPF:   req.CPF,
		IncludeRG:    req.RG,
		IncludeCNPJ:  req.CNPJ,
		IncludePIS:   req.PIS,
		IncludeCEI:   req.CEI,
		IncludePhone: req.Phone,
	}

	ctx := r.Context()

	var runID string
	if s.store != nil {
		run, err := s.store.CreateRun(ctx, opts.Qty, opts.Online)
		if err != nil {
			zap.L().Error("api: create run", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "store error")
			return
		}
		runID = run.ID
		if err := s.store.UpdateRunStatus(ctx, runID, model.RunStatusRunning); err != nil {
			zap.L().Error("api: mark run running", zap.Error(err))
		}
	}

	result, err := s.gen.Generate(ctx, opts)
	if err != nil {
		if s.store != nil {
			if ferr := s.store.FailRun(ctx, runID, err.Error()); ferr != nil {
				zap.L().Warn("api: record run failure", zap.Error(ferr))
			}
		}
		zap.L().Error("api: generate", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "generation failed")
		return
	}

	if s.store != nil {
		if err := s.store.SaveSamples(ctx, runID, result.Samples); err != nil {
			zap.L().Error("api: save samples", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "store error")
			return
		}
		if err := s.store.CompleteRun(ctx, runID, len(result.Samples), result.Degraded); err != nil {
			zap.L().Error("api: complete run", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "store error")
			return
		}
	}

	writeJSON(w, http.StatusOK, sampleResponse{
		RunID:    runID,
		Samples:  result.Samples,
		Degraded: result.Degraded,
	})
}

func (s *Server) handleCEP(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	records, err := s.pipeline.Enrich(r.Context(), []address.Input{{Code: code}}, address.ModeOnline)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, records[0])
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	filter := store.RunFilter{
		Status: model.RunStatus(r.URL.Query().Get("status")),
		Limit:  queryInt(r, "limit", 50),
		Offset: queryInt(r, "offset", 0),
	}

	runs, err := s.store.ListRuns(r.Context(), filter)
	if err != nil {
		zap.L().Error("api: list runs", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "store error")
		return
	}
	if runs == nil {
		runs = []model.Run{}
	}

	writeJSON(w, http.StatusOK, runs)
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	run, err := s.store.GetRun(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "run not found")
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func (s *Server) handleRunSamples(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := s.store.GetRun(r.Context(), id); err != nil {
		writeError(w, http.StatusNotFound, "run not found")
		return
	}

	samples, err := s.store.ListSamples(r.Context(), id)
	if err != nil {
		zap.L().Error("api: list samples", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "store error")
		return
	}
	if samples == nil {
		samples = []model.Sample{}
	}

	writeJSON(w, http.StatusOK, samples)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("api: write response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func queryInt(r *http.Request, key string, def int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return def
	}
	return n
}
