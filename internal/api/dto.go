package api

// EntryListResponse wraps entry listings.
type EntryListResponse struct {
	Entries []EntrySummary `json:"entries" validate:"required"`
	Total   int            `json:"total" example:"42" validate:"required"`
}

// TagListResponse wraps the tag listing.
type TagListResponse struct {
	Tags []TagSummary `json:"tags" validate:"required"`
}

// YearListResponse wraps the per-year grouping.
type YearListResponse struct {
	Years []YearSummary `json:"years" validate:"required"`
}
