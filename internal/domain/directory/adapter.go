package directory

import (
	"strings"

	"golang.org/x/text/cases"
)

// Normalize collapses the aliased fields of a raw record into an Employee.
// Detection code never looks at raw field names; everything is resolved here.
func Normalize(raw RawEmployee) Employee {
	emp := Employee{
		ID:            strings.TrimSpace(raw.ID),
		Name:          strings.TrimSpace(raw.Name),
		Email:         strings.TrimSpace(raw.Email),
		ManagerIDs:    managerIDs(raw),
		ManagerEmail:  Fold(raw.ManagerEmail),
		JobFamilyID:   strings.TrimSpace(raw.JobFamilyID),
		JobFamilyName: firstNonEmpty(raw.JobFamilyName, raw.JobFamily, raw.JobFamilyNameSnake, raw.Family),
		Status:        strings.ToLower(strings.TrimSpace(raw.Status)),
	}
	if emp.Status == "" {
		emp.Status = StatusActive
	}
	return emp
}

// NormalizeAll normalizes a batch, dropping records without an id and
// keeping the first record when an id repeats.
func NormalizeAll(raws []RawEmployee) []Employee {
	out := make([]Employee, 0, len(raws))
	seen := make(map[string]struct{}, len(raws))
	for _, raw := range raws {
		emp := Normalize(raw)
		if emp.ID == "" {
			continue
		}
		if _, ok := seen[emp.ID]; ok {
			continue
		}
		seen[emp.ID] = struct{}{}
		out = append(out, emp)
	}
	return out
}

// Fold trims and case-folds a value for case-insensitive comparison of
// emails and job-family names.
func Fold(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ""
	}
	return cases.Fold().String(trimmed)
}

// SameEmail reports whether two addresses match ignoring case and surrounding space.
func SameEmail(a, b string) bool {
	fa := Fold(a)
	return fa != "" && fa == Fold(b)
}

func managerIDs(raw RawEmployee) []string {
	candidates := []string(raw.ManagerIDs)
	if len(candidates) == 0 && raw.ManagerID != "" {
		candidates = []string{raw.ManagerID}
	}
	ids := make([]string, 0, len(candidates))
	seen := make(map[string]struct{}, len(candidates))
	selfID := strings.TrimSpace(raw.ID)
	for _, candidate := range candidates {
		id := strings.TrimSpace(candidate)
		if id == "" || id == selfID {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
