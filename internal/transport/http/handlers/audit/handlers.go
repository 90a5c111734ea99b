package audithandler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"reviewhub/internal/domain/audit"
	"reviewhub/internal/domain/auth"
	"reviewhub/internal/transport/http/api"
	"reviewhub/internal/transport/http/middleware"
	"reviewhub/internal/transport/http/shared"
)

var auditPage = shared.PageBounds{DefaultLimit: 100, MaxLimit: 500}

type Lister interface {
	List(ctx context.Context, orgID string, filter audit.Filter, limit, offset int) ([]audit.Event, error)
}

type Handler struct {
	Service Lister
	Perms   middleware.PermissionChecker
}

func NewHandler(service Lister, perms middleware.PermissionChecker) *Handler {
	return &Handler{Service: service, Perms: perms}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.With(middleware.RequirePermission(auth.PermAuditRead, h.Perms)).Get("/audit/events", h.handleListEvents)
}

func (h *Handler) handleListEvents(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	requestID := middleware.GetRequestID(r.Context())
	v := shared.NewValidator()
	page := shared.ParsePage(r, v, auditPage)
	if v.Reject(w, requestID) {
		return
	}
	filter := audit.Filter{
		Action:     r.URL.Query().Get("action"),
		CampaignID: r.URL.Query().Get("campaignId"),
		ActorID:    r.URL.Query().Get("actorId"),
	}

	events, err := h.Service.List(r.Context(), user.OrgID, filter, page.Limit, page.Offset)
	if err != nil {
		slog.Warn("audit list failed", "orgId", user.OrgID, "err", err)
		api.Fail(w, http.StatusInternalServerError, "audit_list_failed", "failed to list audit events", requestID)
		return
	}
	if events == nil {
		events = []audit.Event{}
	}
	api.Success(w, events, requestID)
}
