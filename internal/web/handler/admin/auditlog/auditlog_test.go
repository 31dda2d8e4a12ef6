package auditlog

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/chirofind/chirofind/internal/auth"
	"github.com/chirofind/chirofind/internal/config"
	"github.com/chirofind/chirofind/internal/db/controller/audit"
	"github.com/chirofind/chirofind/internal/db/controller/user"
	"github.com/chirofind/chirofind/internal/db/models"
	"github.com/chirofind/chirofind/internal/web/handler"
)

func setupTestApp(t *testing.T) (*fiber.App, *gorm.DB, string) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	err = db.AutoMigrate(&models.User{}, &models.AuditEntry{})
	require.NoError(t, err, "failed to migrate test database")

	account, err := user.Create(db, "admin@example.com", "password123", "Admin", models.RoleAdmin)
	require.NoError(t, err)

	cfg := &config.Config{
		Auth: config.Auth{
			Secret:           "test-secret-not-for-production",
			TokenExpiryHours: 1,
			CookieName:       "chirofind_token",
		},
	}

	authService := auth.NewService(db, cfg.Auth)

	token, _, err := authService.IssueToken(account)
	require.NoError(t, err)

	app := fiber.New()
	require.NoError(t, Handler.Init(app, cfg, db, authService))

	return app, db, token
}

func getPage(t *testing.T, app *fiber.App, target, token string) handler.Envelope {
	t.Helper()

	req := httptest.NewRequest(fiber.MethodGet, target, nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var envelope handler.Envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))

	return envelope
}

func totalItems(t *testing.T, envelope handler.Envelope) float64 {
	t.Helper()

	data, ok := envelope.Data.(map[string]any)
	require.True(t, ok)

	total, ok := data["totalItems"].(float64)
	require.True(t, ok)

	return total
}

func TestGetAll(t *testing.T) {
	app, db, token := setupTestApp(t)

	actorOne := uint64(1)
	actorTwo := uint64(2)
	origin := audit.Origin{IP: "203.0.113.7", UserAgent: "test-agent"}

	require.NoError(t, audit.Record(db, &actorOne,
		models.AuditActionCreate, "listing", 1, nil, fiber.Map{"name": "a"}, origin))
	require.NoError(t, audit.Record(db, &actorTwo,
		models.AuditActionUpdate, "post", 2, fiber.Map{"title": "x"}, fiber.Map{"title": "y"}, origin))

	t.Run("unfiltered", func(t *testing.T) {
		envelope := getPage(t, app, Path, token)
		assert.Equal(t, float64(2), totalItems(t, envelope))
	})

	t.Run("entity filter", func(t *testing.T) {
		envelope := getPage(t, app, Path+"?entityType=listing&entityId=1", token)
		assert.Equal(t, float64(1), totalItems(t, envelope))
	})

	t.Run("actor filter", func(t *testing.T) {
		envelope := getPage(t, app, Path+"?actorId=2", token)
		assert.Equal(t, float64(1), totalItems(t, envelope))
	})

	t.Run("negative ids mean no filter", func(t *testing.T) {
		// a negative id must not wrap into a huge uint64 that matches nothing
		envelope := getPage(t, app, Path+"?entityId=-1&actorId=-1", token)
		assert.Equal(t, float64(2), totalItems(t, envelope))
	})
}
