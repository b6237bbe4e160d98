package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"logistics-sim/internal/adapters/render"
	"logistics-sim/internal/api/dto"
	"logistics-sim/internal/domain"
	"logistics-sim/internal/platform/obs"
	"logistics-sim/internal/ports"
	"logistics-sim/internal/services"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

const (
	maxBodyBytes = 1 << 20
	maxGridSide  = 500
	maxEntities  = 2000
)

// Runner executes one simulation.
type Runner interface {
	Run(ctx context.Context, req services.RunRequest) (*domain.RunReport, error)
}

type SimulationHandler struct {
	Runner   Runner
	Repo     ports.RunRepository
	Defaults domain.ScenarioParams
	// Server-side dispatch settings; requests may lower MaxTicks but not raise it.
	Termination    services.Termination
	MaxTicks       int
	StallWarnTicks int
	FrameLimit     int
	// Bounds concurrent simulations. Nil means unbounded.
	Slots *semaphore.Weighted
	Log   *zap.Logger
}

// Create runs a simulation synchronously and returns its report.
func (h *SimulationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.SimulationRequest

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	runReq, err := h.buildRequest(req)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	var frames *render.FrameRecorder
	if req.Frames {
		frames = render.NewFrameRecorder(h.FrameLimit)
		runReq.Options.Observer = frames
	}

	if h.Slots != nil {
		if !h.Slots.TryAcquire(1) {
			writeError(w, r, http.StatusServiceUnavailable, "too many simulations running, retry later")
			return
		}
		defer h.Slots.Release(1)
	}

	ctx := r.Context()
	done := obs.Time(ctx, h.logger(), "simulations.Create")
	report, runErr := h.Runner.Run(ctx, runReq)
	done(&runErr)

	switch {
	case report == nil && errors.Is(runErr, domain.ErrUndeliverablePackage):
		writeError(w, r, http.StatusUnprocessableEntity, runErr.Error())
		return
	case report == nil && runErr != nil:
		writeError(w, r, http.StatusBadRequest, runErr.Error())
		return
	case errors.Is(runErr, domain.ErrInvariantViolation):
		writeError(w, r, http.StatusInternalServerError, "simulation halted on an invariant violation")
		return
	case runErr != nil && !errors.Is(runErr, services.ErrTickLimit):
		writeError(w, r, http.StatusInternalServerError, "simulation failed")
		return
	}

	res := dto.SimulationResponse{Run: report}
	if frames != nil {
		res.Frames = frames.Frames()
		res.FramesDropped = frames.Dropped()
	}
	writeJSON(w, r, http.StatusCreated, res)
}

// List returns stored runs, newest first. ?limit= caps the result.
func (h *SimulationHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 500 {
			writeError(w, r, http.StatusBadRequest, "limit must be between 1 and 500")
			return
		}
		limit = n
	}

	runs, err := h.Repo.ListRuns(r.Context(), limit)
	if err != nil {
		h.logger().Error("list runs failed", zap.String("req_id", obs.RequestID(r.Context())), zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "failed to list simulations")
		return
	}

	res := dto.ListSimulationsResponse{Runs: make([]dto.RunSummary, 0, len(runs))}
	for _, run := range runs {
		res.Runs = append(res.Runs, dto.RunSummary{
			ID:        run.ID,
			CreatedAt: run.CreatedAt,
			Outcome:   run.Outcome,
			Ticks:     run.Ticks,
			Packages:  run.Packages,
			Delivered: run.Delivered,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}

func (h *SimulationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	run, err := h.Repo.GetRun(r.Context(), id)
	if errors.Is(err, ports.ErrRunNotFound) {
		writeError(w, r, http.StatusNotFound, "simulation not found")
		return
	}
	if err != nil {
		h.logger().Error("get run failed", zap.String("id", id), zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "failed to load simulation")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.SimulationResponse{Run: run})
}

func (h *SimulationHandler) buildRequest(req dto.SimulationRequest) (services.RunRequest, error) {
	p := h.Defaults
	p.Seed = req.Seed
	setInt(&p.Width, req.Width)
	setInt(&p.Height, req.Height)
	setInt(&p.Packages, req.Packages)
	setInt(&p.Trucks, req.Trucks)
	setInt(&p.Garages, req.Garages)
	setInt(&p.TruckRange, req.TruckRange)
	if req.Noise != nil {
		p.Noise = *req.Noise
	}

	out := services.RunRequest{Params: p, Spec: req.Scenario}

	if req.Scenario == nil {
		if err := services.ValidateParams(p); err != nil {
			return out, err
		}
		if p.Width > maxGridSide || p.Height > maxGridSide {
			return out, fmt.Errorf("grid sides must be at most %d", maxGridSide)
		}
		if p.Packages > maxEntities || p.Trucks > maxEntities || p.Garages > maxEntities {
			return out, fmt.Errorf("packages, trucks and garages must be at most %d", maxEntities)
		}
	}

	term := h.Termination
	if req.Termination != "" {
		t, err := services.ParseTermination(req.Termination)
		if err != nil {
			return out, err
		}
		term = t
	}

	maxTicks := h.MaxTicks
	if req.MaxTicks < 0 {
		return out, errors.New("max_ticks must not be negative")
	}
	if req.MaxTicks > 0 && (maxTicks == 0 || req.MaxTicks < maxTicks) {
		maxTicks = req.MaxTicks
	}

	out.Options = services.DispatchOptions{
		Termination:    term,
		MaxTicks:       maxTicks,
		StallWarnTicks: h.StallWarnTicks,
	}
	return out, nil
}

func (h *SimulationHandler) logger() *zap.Logger {
	if h.Log == nil {
		return zap.NewNop()
	}
	return h.Log
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}
