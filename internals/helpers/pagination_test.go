package helper

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseOn(t *testing.T, target string) Cursor {
	t.Helper()
	app := fiber.New()
	var got Cursor
	app.Get("/x", func(c *fiber.Ctx) error {
		got = ParseCursor(c)
		return c.SendStatus(fiber.StatusOK)
	})
	resp, err := app.Test(httptest.NewRequest("GET", target, nil), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	return got
}

func TestParseCursorDefaults(t *testing.T) {
	cur := parseOn(t, "/x")
	assert.Equal(t, DefaultLimit, cur.Limit)
	assert.Equal(t, uint(0), cur.AfterID)
}

func TestParseCursorClampsLimit(t *testing.T) {
	assert.Equal(t, MaxLimit, parseOn(t, "/x?limit=1000").Limit)
	assert.Equal(t, 50, parseOn(t, "/x?limit=50").Limit)
	// Garbage and non-positive values fall back to the default.
	assert.Equal(t, DefaultLimit, parseOn(t, "/x?limit=abc").Limit)
	assert.Equal(t, DefaultLimit, parseOn(t, "/x?limit=-5").Limit)
	assert.Equal(t, DefaultLimit, parseOn(t, "/x?limit=0").Limit)
}

func TestParseCursorAfterID(t *testing.T) {
	assert.Equal(t, uint(42), parseOn(t, "/x?after_id=42").AfterID)
	assert.Equal(t, uint(0), parseOn(t, "/x?after_id=abc").AfterID)
}

func TestRandomCodeShape(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		code := RandomCode(6)
		assert.Len(t, code, 6)
		for _, r := range code {
			isUpper := r >= 'A' && r <= 'Z'
			isDigit := r >= '0' && r <= '9'
			assert.True(t, isUpper || isDigit, "unexpected rune %q", r)
		}
		seen[code] = true
	}
	// Overwhelmingly unique at this sample size.
	assert.Greater(t, len(seen), 45)
}

func TestRandomDigits(t *testing.T) {
	code := RandomDigits(4)
	assert.Len(t, code, 4)
	for _, r := range code {
		assert.True(t, r >= '0' && r <= '9')
	}
}

func TestYearCodeFormat(t *testing.T) {
	code := YearCode("STU", "AB12")
	assert.Len(t, code, 11)
	assert.Equal(t, "STU", code[:3])
	assert.Equal(t, "AB12", code[7:])
}
