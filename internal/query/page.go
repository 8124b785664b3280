package query

import "strconv"

const (
	defaultPage  = 1
	defaultLimit = 10
)

// PageRequest holds effective pagination values after coercion.
type PageRequest struct {
	Page  int
	Limit int
}

// ParsePage coerces raw pagination parameters. Absent or malformed values
// degrade to the defaults (1 and 10); numeric values below 1 are clamped
// to 1. Nothing here ever fails a request.
func ParsePage(pageRaw, limitRaw string) PageRequest {
	return PageRequest{
		Page:  coerceInt(pageRaw, defaultPage),
		Limit: coerceInt(limitRaw, defaultLimit),
	}
}

// Skip returns the number of records preceding the requested page.
func (p PageRequest) Skip() int64 {
	return int64(p.Page-1) * int64(p.Limit)
}

func coerceInt(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	if n < 1 {
		return 1
	}
	return n
}
