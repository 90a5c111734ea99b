package shared

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sort"
	"strings"

	"reviewhub/internal/transport/http/api"
)

type ValidationIssue struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

type Validator struct {
	issues []ValidationIssue
}

func NewValidator() *Validator {
	return &Validator{issues: make([]ValidationIssue, 0, 4)}
}

func (v *Validator) Add(field, reason string) {
	if v == nil {
		return
	}
	field = strings.TrimSpace(field)
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return
	}
	v.issues = append(v.issues, ValidationIssue{
		Field:  field,
		Reason: reason,
	})
}

func (v *Validator) Required(field, value, reason string) {
	if strings.TrimSpace(value) == "" {
		v.Add(field, reason)
	}
}

func (v *Validator) NonNegative(field string, value int) {
	if value < 0 {
		v.Add(field, "must not be negative")
	}
}

// IDs flags blank entries in an id list.
func (v *Validator) IDs(field string, ids []string) {
	for _, id := range ids {
		if strings.TrimSpace(id) == "" {
			v.Add(field, "must not contain blank ids")
			return
		}
	}
}

func (v *Validator) HasIssues() bool {
	return v != nil && len(v.issues) > 0
}

func (v *Validator) Issues() []ValidationIssue {
	if v == nil || len(v.issues) == 0 {
		return nil
	}
	out := make([]ValidationIssue, len(v.issues))
	copy(out, v.issues)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Field == out[j].Field {
			return out[i].Reason < out[j].Reason
		}
		return out[i].Field < out[j].Field
	})
	return out
}

func (v *Validator) Reject(w http.ResponseWriter, requestID string) bool {
	if !v.HasIssues() {
		return false
	}
	FailValidation(w, requestID, v.Issues())
	return true
}

func FailValidation(w http.ResponseWriter, requestID string, issues []ValidationIssue) {
	api.FailWithDetails(
		w,
		http.StatusBadRequest,
		"validation_error",
		"payload validation failed",
		map[string]any{"fields": issues},
		requestID,
	)
}

// DecodeJSON decodes the body into dst and writes the failure response itself.
// It returns false when the handler should stop.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any, requestID string) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		failDecode(w, err, requestID)
		return false
	}
	return true
}

func failDecode(w http.ResponseWriter, err error, requestID string) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		api.Fail(w, http.StatusRequestEntityTooLarge, "payload_too_large", "request body too large", requestID)
		return
	}
	api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
}

// DecodeOptionalJSON is DecodeJSON for endpoints whose body may be omitted.
// An empty body leaves dst at its zero value.
func DecodeOptionalJSON(w http.ResponseWriter, r *http.Request, dst any, requestID string) bool {
	if r.Body == nil || r.Body == http.NoBody {
		return true
	}
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}
	failDecode(w, err, requestID)
	return false
}
