package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		name          string
		limit, offset int
		want          Window
	}{
		{"defaults", 0, 0, Window{Limit: DefaultLimit, Offset: 0}},
		{"negative limit", -5, 0, Window{Limit: DefaultLimit, Offset: 0}},
		{"negative offset", 20, -1, Window{Limit: 20, Offset: 0}},
		{"over max limit", 500, 30, Window{Limit: MaxLimit, Offset: 30}},
		{"in range", 25, 50, Window{Limit: 25, Offset: 50}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Clamp(tt.limit, tt.offset))
		})
	}
}

func TestGetWindowFromQuery(t *testing.T) {
	app := fiber.New()

	var got Window
	app.Get("/", func(c *fiber.Ctx) error {
		got = GetWindow(c)
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/?limit=25&offset=50", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, Window{Limit: 25, Offset: 50}, got)

	resp, err = app.Test(httptest.NewRequest("GET", "/?limit=junk&offset=-3", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, Window{Limit: DefaultLimit, Offset: 0}, got)
}

func TestWindowNavigation(t *testing.T) {
	w := Window{Limit: 10, Offset: 0}
	assert.True(t, w.HasNext(25))
	assert.False(t, w.HasPrev())

	w = Window{Limit: 10, Offset: 20}
	assert.False(t, w.HasNext(25), "last window")
	assert.True(t, w.HasPrev())

	w = Window{Limit: 10, Offset: 10}
	assert.False(t, w.HasNext(20), "exact boundary")
}
