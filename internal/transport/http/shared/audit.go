package shared

import (
	"context"
	"log/slog"
	"net/http"

	"reviewhub/internal/domain/audit"
	"reviewhub/internal/requestctx"
)

type AuditRecorder interface {
	Record(ctx context.Context, e audit.Entry) error
}

// RecordAudit fills request metadata into the entry and records it. Audit
// failures are logged and never fail the request.
func RecordAudit(r *http.Request, recorder AuditRecorder, e audit.Entry) {
	if recorder == nil {
		return
	}
	meta := requestctx.From(r.Context())
	e.RequestID = meta.RequestID
	e.IP = meta.ClientIP
	if e.IP == "" {
		e.IP = requestctx.ClientIP(r)
	}
	if err := recorder.Record(r.Context(), e); err != nil {
		slog.Warn("audit record failed", "action", e.Action, "entityId", e.EntityID, "err", err)
	}
}
