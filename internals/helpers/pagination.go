package helper

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

const (
	DefaultLimit = 25
	MaxLimit     = 100
)

// Cursor — keyset pagination on the monotonically increasing row id.
// after_id avoids the skip/drift of offset paging under concurrent inserts.
type Cursor struct {
	AfterID uint
	Limit   int
}

// ParseCursor reads ?limit= and ?after_id= and clamps the limit to MaxLimit
// regardless of what the caller asked for.
func ParseCursor(c *fiber.Ctx) Cursor {
	cur := Cursor{Limit: DefaultLimit}

	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			cur.Limit = n
		}
	}
	if cur.Limit > MaxLimit {
		cur.Limit = MaxLimit
	}

	if raw := strings.TrimSpace(c.Query("after_id")); raw != "" {
		if n, err := strconv.ParseUint(raw, 10, 64); err == nil {
			cur.AfterID = uint(n)
		}
	}
	return cur
}

// QueryUint parses an optional numeric query param; nil when absent/invalid.
func QueryUint(c *fiber.Ctx, name string) *uint {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil
	}
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil
	}
	v := uint(n)
	return &v
}

// ParamUint parses a numeric path param.
func ParamUint(c *fiber.Ctx, name string) (uint, error) {
	n, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(n), nil
}
