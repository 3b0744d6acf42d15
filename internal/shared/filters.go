package shared

import (
	"net/http"
	"strconv"
)

// ListFilters represents standard list endpoint filters.
type ListFilters struct {
	Page      int
	Limit     int
	Search    string
	SortBy    string
	SortDir   string
	Type      string
	Status    string
	PartyID   int64
	StartDate string
	EndDate   string
}

// Paginated reports whether the caller asked for a paginated envelope.
func (f ListFilters) Paginated() bool {
	return f.Page > 0 || f.Limit > 0
}

// ParseListFilters reads the common list parameters off the query string.
func ParseListFilters(r *http.Request) ListFilters {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	partyID, _ := strconv.ParseInt(q.Get("party_id"), 10, 64)
	return ListFilters{
		Page:      page,
		Limit:     limit,
		Search:    q.Get("search"),
		SortBy:    q.Get("sort"),
		SortDir:   q.Get("dir"),
		Type:      q.Get("type"),
		Status:    q.Get("status"),
		PartyID:   partyID,
		StartDate: q.Get("startDate"),
		EndDate:   q.Get("endDate"),
	}
}

// ListEnvelope wraps a paginated listing.
type ListEnvelope struct {
	Data       any        `json:"data"`
	Pagination Pagination `json:"pagination"`
}
