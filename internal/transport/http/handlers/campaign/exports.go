package campaignhandler

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"reviewhub/internal/domain/campaign"
	"reviewhub/internal/domain/export"
	"reviewhub/internal/transport/http/middleware"
)

func (h *Handler) exportData(w http.ResponseWriter, r *http.Request) (campaign.ExportData, bool) {
	user, _ := middleware.GetUser(r.Context())
	data, err := h.Service.ExportData(r.Context(), user.OrgID, chi.URLParam(r, "campaignID"))
	if err != nil {
		writeError(w, r, err)
		return campaign.ExportData{}, false
	}
	return data, true
}

// writeFile renders into a buffer first so a render failure can still be
// reported as an error response.
func writeFile(w http.ResponseWriter, r *http.Request, contentType, filename string, render func(*bytes.Buffer) error) {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		writeError(w, r, fmt.Errorf("render %s: %w", filename, err))
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Warn("export write failed", "file", filename, "err", err)
	}
}

func (h *Handler) handleExportAssignments(w http.ResponseWriter, r *http.Request) {
	data, ok := h.exportData(w, r)
	if !ok {
		return
	}
	writeFile(w, r, "text/csv", "assignments.csv", func(buf *bytes.Buffer) error {
		return export.WriteAssignmentsCSV(buf, export.AssignmentRows(data.Result.Plan, data.Roster))
	})
}

func (h *Handler) handleExportWorkload(w http.ResponseWriter, r *http.Request) {
	data, ok := h.exportData(w, r)
	if !ok {
		return
	}
	writeFile(w, r, "text/csv", "workload.csv", func(buf *bytes.Buffer) error {
		return export.WriteWorkloadCSV(buf, export.WorkloadRows(data.Result.Workload, data.Roster))
	})
}

func (h *Handler) handleExportCoverage(w http.ResponseWriter, r *http.Request) {
	data, ok := h.exportData(w, r)
	if !ok {
		return
	}
	writeFile(w, r, "text/csv", "coverage.csv", func(buf *bytes.Buffer) error {
		return export.WriteCoverageCSV(buf, export.CoverageRows(data.Result, data.Roster))
	})
}

func (h *Handler) handleExportWorkloadPDF(w http.ResponseWriter, r *http.Request) {
	data, ok := h.exportData(w, r)
	if !ok {
		return
	}
	meta := export.Report{
		CampaignName: data.Campaign.Name,
		Strategy:     string(data.Campaign.Strategy),
		Threshold:    data.Campaign.WorkloadThreshold,
		GeneratedAt:  time.Now(),
	}
	writeFile(w, r, "application/pdf", "workload.pdf", func(buf *bytes.Buffer) error {
		return export.WriteWorkloadPDF(buf, meta, export.WorkloadRows(data.Result.Workload, data.Roster), export.CoverageRows(data.Result, data.Roster))
	})
}
