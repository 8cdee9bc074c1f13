package pagination

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// Window represents limit/offset pagination parameters.
// The admin console pages with limit/offset only, no page numbers.
type Window struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// DefaultLimit is the default number of items per window
const DefaultLimit = 10

// MaxLimit is the maximum number of items per window
const MaxLimit = 100

// GetWindow extracts limit/offset parameters from the request query
func GetWindow(c *fiber.Ctx) Window {
	limit, _ := strconv.Atoi(c.Query("limit", strconv.Itoa(DefaultLimit)))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))
	return Clamp(limit, offset)
}

// Clamp validates raw limit/offset values into a usable window
func Clamp(limit, offset int) Window {
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return Window{Limit: limit, Offset: offset}
}

// HasNext reports whether another window exists after this one
func (w Window) HasNext(total int64) bool {
	return int64(w.Offset+w.Limit) < total
}

// HasPrev reports whether a window exists before this one
func (w Window) HasPrev() bool {
	return w.Offset > 0
}
