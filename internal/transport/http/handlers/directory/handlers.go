package directoryhandler

import (
	"context"
	"log/slog"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"
	"gopkg.in/yaml.v3"

	"reviewhub/internal/domain/audit"
	"reviewhub/internal/domain/auth"
	"reviewhub/internal/domain/directory"
	"reviewhub/internal/transport/http/api"
	"reviewhub/internal/transport/http/middleware"
	"reviewhub/internal/transport/http/shared"
)

type Service interface {
	Import(ctx context.Context, orgID string, records []directory.RawEmployee) (int, error)
	ListEmployees(ctx context.Context, orgID string) ([]directory.Employee, error)
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
	r.Route("/directory/employees", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermDirectoryRead, h.Perms)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermDirectoryWrite, h.Perms)).Post("/", h.handleImport)
	})
}

type importRequest struct {
	Employees []directory.RawEmployee `json:"employees" yaml:"employees"`
}

func (h *Handler) handleImport(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	requestID := middleware.GetRequestID(r.Context())

	var payload importRequest
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/yaml" || mediaType == "application/x-yaml" {
		if err := yaml.NewDecoder(r.Body).Decode(&payload); err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid yaml payload", requestID)
			return
		}
	} else if !shared.DecodeJSON(w, r, &payload, requestID) {
		return
	}

	v := shared.NewValidator()
	if len(payload.Employees) == 0 {
		v.Add("employees", "must contain at least one record")
	}
	for _, raw := range payload.Employees {
		if raw.ID == "" {
			v.Add("employees.id", "is required")
			break
		}
	}
	if v.Reject(w, requestID) {
		return
	}

	imported, err := h.Service.Import(r.Context(), user.OrgID, payload.Employees)
	if err != nil {
		slog.Warn("directory import failed", "orgId", user.OrgID, "err", err)
		api.Fail(w, http.StatusInternalServerError, "directory_import_failed", "failed to import employees", requestID)
		return
	}

	shared.RecordAudit(r, h.Audit, audit.Entry{
		OrgID:      user.OrgID,
		ActorID:    user.UserID,
		Action:     audit.ActionDirectoryImport,
		EntityType: audit.EntityDirectory,
		EntityID:   user.OrgID,
		After:      map[string]int{"imported": imported},
	})
	api.Success(w, map[string]int{"imported": imported}, requestID)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	employees, err := h.Service.ListEmployees(r.Context(), user.OrgID)
	if err != nil {
		slog.Warn("directory list failed", "orgId", user.OrgID, "err", err)
		api.Fail(w, http.StatusInternalServerError, "directory_list_failed", "failed to list employees", middleware.GetRequestID(r.Context()))
		return
	}
	if employees == nil {
		employees = []directory.Employee{}
	}
	api.Success(w, employees, middleware.GetRequestID(r.Context()))
}
