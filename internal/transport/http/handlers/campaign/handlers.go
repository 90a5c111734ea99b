package campaignhandler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"reviewhub/internal/domain/audit"
	"reviewhub/internal/domain/auth"
	"reviewhub/internal/domain/campaign"
	"reviewhub/internal/domain/evaluation"
	"reviewhub/internal/transport/http/api"
	"reviewhub/internal/transport/http/middleware"
	"reviewhub/internal/transport/http/shared"
)

type Service interface {
	Create(ctx context.Context, orgID, name, strategy string, rules evaluation.Rules, workloadThreshold int) (campaign.Campaign, error)
	Get(ctx context.Context, orgID, campaignID string) (campaign.Campaign, error)
	List(ctx context.Context, orgID string) ([]campaign.Campaign, error)
	SetStrategy(ctx context.Context, orgID, campaignID, strategy string) (evaluation.Strategy, error)
	SetRules(ctx context.Context, orgID, campaignID string, rules evaluation.Rules, workloadThreshold int) error
	SetParticipants(ctx context.Context, orgID, campaignID string, employeeIDs []string) error
	SetEvaluators(ctx context.Context, orgID, campaignID string, ev evaluation.Evaluatee) error
	Preview(ctx context.Context, orgID, campaignID string) (campaign.Preview, error)
	Validate(ctx context.Context, orgID, campaignID string) (evaluation.Report, error)
	Activate(ctx context.Context, orgID, campaignID string, confirmed bool) (campaign.Activation, error)
	Sessions(ctx context.Context, orgID, campaignID string) ([]campaign.Session, error)
	ExportData(ctx context.Context, orgID, campaignID string) (campaign.ExportData, error)
}

type Handler struct {
	Service Service
	Audit   shared.AuditRecorder
	Perms   middleware.PermissionChecker
}

func NewHandler(service Service, auditor shared.AuditRecorder, perms middleware.PermissionChecker) *Handler {
	return &Handler{Service: service, Audit: auditor, Perms: perms}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	read := middleware.RequirePermission(auth.PermCampaignRead, h.Perms)
	write := middleware.RequirePermission(auth.PermCampaignWrite, h.Perms)
	r.Route("/campaigns", func(r chi.Router) {
		r.With(read).Get("/", h.handleList)
		r.With(write).Post("/", h.handleCreate)
		r.Route("/{campaignID}", func(r chi.Router) {
			r.With(read).Get("/", h.handleGet)
			r.With(write).Put("/strategy", h.handleSetStrategy)
			r.With(write).Put("/rules", h.handleSetRules)
			r.With(write).Put("/participants", h.handleSetParticipants)
			r.With(write).Put("/participants/{employeeID}/evaluators", h.handleSetEvaluators)
			r.With(read).Get("/preview", h.handlePreview)
			r.With(read).Get("/validation", h.handleValidation)
			r.With(middleware.RequirePermission(auth.PermCampaignLaunch, h.Perms)).Post("/activate", h.handleActivate)
			r.With(read).Get("/sessions", h.handleSessions)
			r.Route("/export", func(r chi.Router) {
				r.Use(middleware.RequirePermission(auth.PermExportRead, h.Perms))
				r.Get("/assignments.csv", h.handleExportAssignments)
				r.Get("/workload.csv", h.handleExportWorkload)
				r.Get("/coverage.csv", h.handleExportCoverage)
				r.Get("/workload.pdf", h.handleExportWorkloadPDF)
			})
		})
	})
}

type createRequest struct {
	Name              string           `json:"name"`
	Strategy          string           `json:"strategy"`
	Rules             evaluation.Rules `json:"rules"`
	WorkloadThreshold int              `json:"workloadThreshold"`
}

type strategyRequest struct {
	Strategy string `json:"strategy"`
}

type rulesRequest struct {
	Rules             evaluation.Rules `json:"rules"`
	WorkloadThreshold int              `json:"workloadThreshold"`
}

type participantsRequest struct {
	EmployeeIDs []string `json:"employeeIds"`
}

type evaluatorsRequest struct {
	CustomEvaluators      evaluation.CustomEvaluators `json:"customEvaluators"`
	SkipManagerEvaluation bool                        `json:"skipManagerEvaluation"`
}

type activateRequest struct {
	Confirm bool `json:"confirm"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	requestID := middleware.GetRequestID(r.Context())

	var payload createRequest
	if !shared.DecodeJSON(w, r, &payload, requestID) {
		return
	}
	v := shared.NewValidator()
	v.Required("name", payload.Name, "is required")
	v.Required("strategy", payload.Strategy, "is required")
	v.NonNegative("workloadThreshold", payload.WorkloadThreshold)
	if v.Reject(w, requestID) {
		return
	}

	c, err := h.Service.Create(r.Context(), user.OrgID, payload.Name, payload.Strategy, payload.Rules, payload.WorkloadThreshold)
	if err != nil {
		writeError(w, r, err)
		return
	}
	shared.RecordAudit(r, h.Audit, audit.Entry{
		OrgID:      user.OrgID,
		ActorID:    user.UserID,
		Action:     audit.ActionCampaignCreate,
		EntityType: audit.EntityCampaign,
		EntityID:   c.ID,
		CampaignID: c.ID,
		After:      c,
	})
	api.Created(w, c, requestID)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	campaigns, err := h.Service.List(r.Context(), user.OrgID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if campaigns == nil {
		campaigns = []campaign.Campaign{}
	}
	api.Success(w, campaigns, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	c, err := h.Service.Get(r.Context(), user.OrgID, chi.URLParam(r, "campaignID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	api.Success(w, c, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleSetStrategy(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	requestID := middleware.GetRequestID(r.Context())
	campaignID := chi.URLParam(r, "campaignID")

	var payload strategyRequest
	if !shared.DecodeJSON(w, r, &payload, requestID) {
		return
	}
	v := shared.NewValidator()
	v.Required("strategy", payload.Strategy, "is required")
	if v.Reject(w, requestID) {
		return
	}

	strategy, err := h.Service.SetStrategy(r.Context(), user.OrgID, campaignID, payload.Strategy)
	if err != nil {
		writeError(w, r, err)
		return
	}
	shared.RecordAudit(r, h.Audit, audit.Entry{
		OrgID:      user.OrgID,
		ActorID:    user.UserID,
		Action:     audit.ActionStrategyUpdate,
		EntityType: audit.EntityCampaign,
		EntityID:   campaignID,
		CampaignID: campaignID,
		After:      map[string]evaluation.Strategy{"strategy": strategy},
	})
	api.Success(w, map[string]evaluation.Strategy{"strategy": strategy}, requestID)
}

func (h *Handler) handleSetRules(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	requestID := middleware.GetRequestID(r.Context())
	campaignID := chi.URLParam(r, "campaignID")

	var payload rulesRequest
	if !shared.DecodeJSON(w, r, &payload, requestID) {
		return
	}
	v := shared.NewValidator()
	v.NonNegative("workloadThreshold", payload.WorkloadThreshold)
	if v.Reject(w, requestID) {
		return
	}

	if err := h.Service.SetRules(r.Context(), user.OrgID, campaignID, payload.Rules, payload.WorkloadThreshold); err != nil {
		writeError(w, r, err)
		return
	}
	shared.RecordAudit(r, h.Audit, audit.Entry{
		OrgID:      user.OrgID,
		ActorID:    user.UserID,
		Action:     audit.ActionRulesUpdate,
		EntityType: audit.EntityCampaign,
		EntityID:   campaignID,
		CampaignID: campaignID,
		After:      payload,
	})
	api.Success(w, payload, requestID)
}

func (h *Handler) handleSetParticipants(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	requestID := middleware.GetRequestID(r.Context())
	campaignID := chi.URLParam(r, "campaignID")

	var payload participantsRequest
	if !shared.DecodeJSON(w, r, &payload, requestID) {
		return
	}
	v := shared.NewValidator()
	v.IDs("employeeIds", payload.EmployeeIDs)
	if v.Reject(w, requestID) {
		return
	}

	if err := h.Service.SetParticipants(r.Context(), user.OrgID, campaignID, payload.EmployeeIDs); err != nil {
		writeError(w, r, err)
		return
	}
	shared.RecordAudit(r, h.Audit, audit.Entry{
		OrgID:      user.OrgID,
		ActorID:    user.UserID,
		Action:     audit.ActionParticipants,
		EntityType: audit.EntityCampaign,
		EntityID:   campaignID,
		CampaignID: campaignID,
		After:      payload,
	})
	api.Success(w, map[string]int{"participants": len(payload.EmployeeIDs)}, requestID)
}

func (h *Handler) handleSetEvaluators(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	requestID := middleware.GetRequestID(r.Context())
	campaignID := chi.URLParam(r, "campaignID")
	employeeID := chi.URLParam(r, "employeeID")

	var payload evaluatorsRequest
	if !shared.DecodeJSON(w, r, &payload, requestID) {
		return
	}

	ev := evaluation.Evaluatee{
		ID:                    employeeID,
		Custom:                payload.CustomEvaluators,
		SkipManagerEvaluation: payload.SkipManagerEvaluation,
	}
	if err := h.Service.SetEvaluators(r.Context(), user.OrgID, campaignID, ev); err != nil {
		writeError(w, r, err)
		return
	}
	shared.RecordAudit(r, h.Audit, audit.Entry{
		OrgID:      user.OrgID,
		ActorID:    user.UserID,
		Action:     audit.ActionOverrideUpdate,
		EntityType: audit.EntityParticipant,
		EntityID:   employeeID,
		CampaignID: campaignID,
		After:      ev,
	})
	api.Success(w, ev, requestID)
}

func (h *Handler) handlePreview(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	preview, err := h.Service.Preview(r.Context(), user.OrgID, chi.URLParam(r, "campaignID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	api.Success(w, preview, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleValidation(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	report, err := h.Service.Validate(r.Context(), user.OrgID, chi.URLParam(r, "campaignID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	api.Success(w, report, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleActivate(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	requestID := middleware.GetRequestID(r.Context())
	campaignID := chi.URLParam(r, "campaignID")

	// An omitted body is an unconfirmed launch.
	var payload activateRequest
	if !shared.DecodeOptionalJSON(w, r, &payload, requestID) {
		return
	}

	activation, err := h.Service.Activate(r.Context(), user.OrgID, campaignID, payload.Confirm)
	if errors.Is(err, evaluation.ErrLaunchBlocked) || errors.Is(err, evaluation.ErrConfirmationRequired) {
		shared.RecordAudit(r, h.Audit, audit.Entry{
			OrgID:      user.OrgID,
			ActorID:    user.UserID,
			Action:     audit.ActionActivateBlocked,
			EntityType: audit.EntityCampaign,
			EntityID:   campaignID,
			CampaignID: campaignID,
			After:      activation.Report,
		})
		code := "launch_blocked"
		if errors.Is(err, evaluation.ErrConfirmationRequired) {
			code = "confirmation_required"
		}
		api.FailWithDetails(w, http.StatusConflict, code, err.Error(), activation.Report, requestID)
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}

	shared.RecordAudit(r, h.Audit, audit.Entry{
		OrgID:      user.OrgID,
		ActorID:    user.UserID,
		Action:     audit.ActionActivate,
		EntityType: audit.EntityCampaign,
		EntityID:   campaignID,
		CampaignID: campaignID,
		After: map[string]any{
			"confirmed":       payload.Confirm,
			"fingerprint":     activation.Plan.Fingerprint,
			"sessionsCreated": activation.SessionsCreated,
			"warnings":        len(activation.Report.Warnings()),
		},
	})
	api.Success(w, activation, requestID)
}

func (h *Handler) handleSessions(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	sessions, err := h.Service.Sessions(r.Context(), user.OrgID, chi.URLParam(r, "campaignID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if sessions == nil {
		sessions = []campaign.Session{}
	}
	api.Success(w, sessions, middleware.GetRequestID(r.Context()))
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	requestID := middleware.GetRequestID(r.Context())
	switch {
	case errors.Is(err, evaluation.ErrMissingScope):
		api.Fail(w, http.StatusBadRequest, "missing_scope", "organization and campaign are required", requestID)
	case errors.Is(err, evaluation.ErrUnknownStrategy):
		shared.FailValidation(w, requestID, []shared.ValidationIssue{{Field: "strategy", Reason: "unknown strategy"}})
	case errors.Is(err, campaign.ErrInvalidName):
		shared.FailValidation(w, requestID, []shared.ValidationIssue{{Field: "name", Reason: "is required"}})
	case errors.Is(err, campaign.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "campaign not found", requestID)
	case errors.Is(err, campaign.ErrNotParticipant):
		api.Fail(w, http.StatusNotFound, "not_participant", "employee is not a participant of the campaign", requestID)
	case errors.Is(err, campaign.ErrCampaignNotDraft):
		api.Fail(w, http.StatusConflict, "campaign_not_draft", "campaign can no longer be edited", requestID)
	default:
		slog.Error("campaign request failed", "method", r.Method, "path", r.URL.Path, "requestId", requestID, "err", err)
		api.Fail(w, http.StatusInternalServerError, "campaign_failed", "campaign request failed", requestID)
	}
}
