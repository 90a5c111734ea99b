package shared

import (
	"net/http"
	"strconv"
)

// Page is a limit/offset window over a list endpoint.
type Page struct {
	Limit  int
	Offset int
}

// PageBounds caps list endpoints. Zero MaxLimit leaves the limit uncapped.
type PageBounds struct {
	DefaultLimit int
	MaxLimit     int
}

// ParsePage reads limit and offset from the query. Malformed values are
// reported on v instead of being silently replaced; oversized limits clamp.
func ParsePage(r *http.Request, v *Validator, bounds PageBounds) Page {
	page := Page{Limit: bounds.DefaultLimit}
	query := r.URL.Query()
	if raw := query.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			v.Add("limit", "must be a positive integer")
		} else {
			page.Limit = n
		}
	}
	if raw := query.Get("offset"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			v.Add("offset", "must be a non-negative integer")
		} else {
			page.Offset = n
		}
	}
	if bounds.MaxLimit > 0 && page.Limit > bounds.MaxLimit {
		page.Limit = bounds.MaxLimit
	}
	return page
}
