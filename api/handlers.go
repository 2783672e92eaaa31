/*
handlers.go - HTTP handlers for the gamification engine

PURPOSE:
  The administrative and read surface around the batch engine. The engine
  itself runs through the Recompute Orchestrator; these handlers trigger it,
  expose the derived rows (summaries, ledgers, badges, leaderboard), and
  manage configuration (badge definitions, settings).

HANDLER PATTERN:
  1. Parse/validate input
  2. Call store or orchestrator
  3. Map to DTO
  4. Serialize response

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Resource not found
  - 409: Conflict (a batch run is already in progress)
  - 500: Internal errors

SECURITY NOTE:
  No authentication or authorization; the surface is expected to sit behind
  an internal gateway.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
  - scheduler.go: Periodic batch trigger
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/warp/points-engine/gamification"
	"github.com/warp/points-engine/store/sqlite"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store        *sqlite.Store
	Orchestrator *gamification.Orchestrator

	// runMu serializes batch runs within this process. The engine does not
	// provide cross-invocation mutual exclusion itself.
	runMu sync.Mutex
}

// NewHandler creates a new handler with the given store.
func NewHandler(store *sqlite.Store) *Handler {
	return &Handler{
		Store:        store,
		Orchestrator: gamification.NewOrchestrator(store),
	}
}

// RunBatch executes one full recompute run, recording it in the audit
// table. Returns ErrRunInProgress if another run holds the lock.
func (h *Handler) RunBatch(ctx context.Context) (gamification.RunReport, error) {
	if !h.runMu.TryLock() {
		return gamification.RunReport{}, gamification.ErrRunInProgress
	}
	defer h.runMu.Unlock()

	report, err := h.Orchestrator.Run(ctx)
	record := sqlite.RunRecord{
		ID:        report.RunID,
		Status:    "completed",
		Processed: report.Processed,
		Failed:    report.Failed,
		Total:     report.Total,
		StartedAt: report.StartedAt,
	}
	if err != nil {
		record.Status = "failed"
		record.Error = err.Error()
	}
	if !report.FinishedAt.IsZero() {
		f := report.FinishedAt
		record.FinishedAt = &f
	}
	if record.ID != "" {
		if saveErr := h.Store.SaveRun(ctx, record); saveErr != nil {
			log.Printf("[API] failed to record run %s: %v", record.ID, saveErr)
		}
	}
	return report, err
}

// =============================================================================
// RECOMPUTE HANDLERS
// =============================================================================

// TriggerRecompute runs the full batch now.
// POST /api/admin/recompute
func (h *Handler) TriggerRecompute(w http.ResponseWriter, r *http.Request) {
	report, err := h.RunBatch(r.Context())
	if errors.Is(err, gamification.ErrRunInProgress) {
		writeError(w, http.StatusConflict, "Recompute already in progress", err)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Recompute failed", err)
		return
	}

	dto := RunReportDTO{
		RunID:      report.RunID,
		Status:     "completed",
		Processed:  report.Processed,
		Failed:     report.Failed,
		Total:      report.Total,
		StartedAt:  report.StartedAt.UTC().Format(time.RFC3339),
		FinishedAt: report.FinishedAt.UTC().Format(time.RFC3339),
	}
	for _, rerr := range report.Errors {
		dto.Errors = append(dto.Errors, rerr.Error())
	}
	writeJSON(w, http.StatusOK, dto)
}

// RecomputeEmployee rebuilds a single employee on demand.
// POST /api/admin/recompute/{id}
func (h *Handler) RecomputeEmployee(w http.ResponseWriter, r *http.Request) {
	id := gamification.EmployeeID(chi.URLParam(r, "id"))

	result, err := h.Orchestrator.RunEmployee(r.Context(), id)
	if errors.Is(err, gamification.ErrEmployeeNotFound) {
		writeError(w, http.StatusNotFound, "Employee not found or not eligible", err)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Recompute failed", err)
		return
	}

	writeJSON(w, http.StatusOK, toSummaryDTO(result.Summary))
}

// =============================================================================
// EMPLOYEE READ HANDLERS
// =============================================================================

// ListEmployees returns the eligible roster.
// GET /api/employees
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Store.EligibleEmployees(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list employees", err)
		return
	}

	dtos := make([]EmployeeDTO, len(employees))
	for i, e := range employees {
		dtos[i] = EmployeeDTO{ID: string(e.ID), Name: e.Name}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetSummary returns the persisted summary for one employee.
// GET /api/employees/{id}/summary
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	id := gamification.EmployeeID(chi.URLParam(r, "id"))

	sum, err := h.Store.SummaryFor(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load summary", err)
		return
	}
	if sum == nil {
		writeError(w, http.StatusNotFound, "No summary for employee", nil)
		return
	}
	writeJSON(w, http.StatusOK, toSummaryDTO(*sum))
}

// GetTransactions returns the employee's ledger, chronological.
// GET /api/employees/{id}/transactions
func (h *Handler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	id := gamification.EmployeeID(chi.URLParam(r, "id"))

	txs, err := h.Store.TransactionsFor(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load transactions", err)
		return
	}

	dtos := make([]TransactionDTO, len(txs))
	for i, tx := range txs {
		dtos[i] = toTransactionDTO(tx)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetBadges returns the employee's badge awards.
// GET /api/employees/{id}/badges
func (h *Handler) GetBadges(w http.ResponseWriter, r *http.Request) {
	id := gamification.EmployeeID(chi.URLParam(r, "id"))

	badges, err := h.Store.BadgesFor(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load badges", err)
		return
	}

	dtos := make([]BadgeAwardDTO, len(badges))
	for i, b := range badges {
		dtos[i] = BadgeAwardDTO{
			BadgeID:  string(b.BadgeID),
			EarnedAt: b.EarnedAt.UTC().Format(time.RFC3339),
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// Leaderboard returns summaries ordered by total points.
// GET /api/leaderboard?limit=N
func (h *Handler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "Invalid limit", err)
			return
		}
		limit = n
	}

	summaries, err := h.Store.Leaderboard(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load leaderboard", err)
		return
	}

	dtos := make([]SummaryDTO, len(summaries))
	for i, s := range summaries {
		dtos[i] = toSummaryDTO(s)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// Levels returns the fixed level table.
// GET /api/levels
func (h *Handler) Levels(w http.ResponseWriter, r *http.Request) {
	tiers := gamification.LevelTable()
	dtos := make([]LevelTierDTO, len(tiers))
	for i, t := range tiers {
		dtos[i] = LevelTierDTO{Level: t.Level, Name: t.Name, MinPoints: t.MinPoints.String()}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// BADGE DEFINITION HANDLERS
// =============================================================================

// ListBadgeDefinitions returns all badge definitions.
// GET /api/badges
func (h *Handler) ListBadgeDefinitions(w http.ResponseWriter, r *http.Request) {
	defs, err := h.Store.BadgeDefinitions(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list badges", err)
		return
	}

	dtos := make([]BadgeDefinitionDTO, len(defs))
	for i, def := range defs {
		dtos[i] = toBadgeDefinitionDTO(def)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateBadgeDefinition creates or updates a badge definition. The new
// definition takes effect on the next recompute.
// POST /api/badges
func (h *Handler) CreateBadgeDefinition(w http.ResponseWriter, r *http.Request) {
	var req CreateBadgeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.ID == "" || req.Name == "" || req.Condition == "" {
		writeError(w, http.StatusBadRequest, "id, name, and condition_type are required", nil)
		return
	}
	if req.Threshold < 0 {
		writeError(w, http.StatusBadRequest, "condition_value must not be negative", nil)
		return
	}

	reward := decimal.Zero
	if req.PointsReward != "" {
		var err error
		reward, err = decimal.NewFromString(req.PointsReward)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid points_reward", err)
			return
		}
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	def := gamification.BadgeDefinition{
		ID:           gamification.BadgeID(req.ID),
		Name:         req.Name,
		Condition:    gamification.ConditionType(req.Condition),
		Threshold:    req.Threshold,
		PointsReward: reward,
		Tier:         req.Tier,
		Active:       active,
	}
	if err := h.Store.SaveBadgeDefinition(r.Context(), def); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save badge", err)
		return
	}

	writeJSON(w, http.StatusCreated, toBadgeDefinitionDTO(def))
}

// =============================================================================
// SETTINGS HANDLERS
// =============================================================================

// GetSettings returns the raw key/value configuration.
// GET /api/settings
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.Store.Settings(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load settings", err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

// UpdateSettings upserts the provided keys. Unknown keys are stored but
// ignored by the engine; malformed values fall back to defaults at run time.
// PUT /api/settings
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req map[string]string
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	for key, value := range req {
		if err := h.Store.SetSetting(r.Context(), key, value); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to save setting", err)
			return
		}
	}

	settings, err := h.Store.Settings(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reload settings", err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

// =============================================================================
// RUN AUDIT HANDLERS
// =============================================================================

// ListRuns returns recent batch runs, newest first.
// GET /api/runs?limit=N
func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "Invalid limit", err)
			return
		}
		limit = n
	}

	runs, err := h.Store.ListRuns(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list runs", err)
		return
	}

	dtos := make([]RunReportDTO, len(runs))
	for i, run := range runs {
		dtos[i] = toRunReportDTO(run)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
