package settings

import (
	"bytes"
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
	"github.com/chirofind/chirofind/internal/db/controller/setting"
	"github.com/chirofind/chirofind/internal/db/controller/user"
	"github.com/chirofind/chirofind/internal/db/models"
	"github.com/chirofind/chirofind/internal/web/handler"
)

func setupTestApp(t *testing.T) (*fiber.App, *gorm.DB, string) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	err = db.AutoMigrate(&models.User{}, &models.Setting{}, &models.AuditEntry{})
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

func doJSON(t *testing.T, app *fiber.App, method, target, token string, body any) (int, handler.Envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)

	var envelope handler.Envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))

	return resp.StatusCode, envelope
}

func TestBulkUpdate(t *testing.T) {
	app, db, token := setupTestApp(t)

	t.Run("empty batch", func(t *testing.T) {
		status, envelope := doJSON(t, app, fiber.MethodPut, Path, token, fiber.Map{"settings": []any{}})
		assert.Equal(t, fiber.StatusBadRequest, status)
		require.NotNil(t, envelope.Error)
		assert.Equal(t, "ValidationFailed", envelope.Error.Kind)
	})

	t.Run("bad key reports its batch index", func(t *testing.T) {
		status, envelope := doJSON(t, app, fiber.MethodPut, Path, token, fiber.Map{
			"settings": []fiber.Map{
				{"key": "site_name", "value": "ok"},
				{"key": "Bad Key!", "value": "x"},
			},
		})
		assert.Equal(t, fiber.StatusBadRequest, status)
		require.NotNil(t, envelope.Error)
		require.NotEmpty(t, envelope.Error.Fields)
		assert.Equal(t, "settings[1].key", envelope.Error.Fields[0].Field)

		// the whole batch is refused, including the valid entry
		_, err := setting.Get(db, "site_name")
		require.ErrorIs(t, err, setting.ErrSettingNotFound)
	})

	t.Run("upserts every key with one audit entry each", func(t *testing.T) {
		status, _ := doJSON(t, app, fiber.MethodPut, Path, token, fiber.Map{
			"settings": []fiber.Map{
				{"key": "site_name", "value": "ChiroFind", "type": "text"},
				{"key": "posts_per_page", "value": "10", "type": "number"},
			},
		})
		require.Equal(t, fiber.StatusOK, status)

		stored, err := setting.Get(db, "site_name")
		require.NoError(t, err)
		assert.Equal(t, "ChiroFind", stored.Value)

		var count int64
		require.NoError(t, db.Model(&models.AuditEntry{}).Count(&count).Error)
		assert.Equal(t, int64(2), count, "one audit entry per upserted setting")
	})
}

func TestDelete(t *testing.T) {
	app, db, token := setupTestApp(t)

	_, _, err := setting.Set(db, "site_name", "ChiroFind", "", "")
	require.NoError(t, err)
	_, _, err = setting.Set(db, "custom_banner", "hello", "", "")
	require.NoError(t, err)

	t.Run("protected key is a conflict", func(t *testing.T) {
		status, envelope := doJSON(t, app, fiber.MethodDelete, Path+"/site_name", token, nil)
		assert.Equal(t, fiber.StatusConflict, status)
		require.NotNil(t, envelope.Error)
		assert.Equal(t, "Conflict", envelope.Error.Kind)

		_, err := setting.Get(db, "site_name")
		require.NoError(t, err, "protected setting must survive")
	})

	t.Run("unknown key", func(t *testing.T) {
		status, envelope := doJSON(t, app, fiber.MethodDelete, Path+"/nonexistent", token, nil)
		assert.Equal(t, fiber.StatusNotFound, status)
		require.NotNil(t, envelope.Error)
		assert.Equal(t, "NotFound", envelope.Error.Kind)
	})

	t.Run("regular key is deleted and audited", func(t *testing.T) {
		status, _ := doJSON(t, app, fiber.MethodDelete, Path+"/custom_banner", token, nil)
		require.Equal(t, fiber.StatusOK, status)

		_, err := setting.Get(db, "custom_banner")
		require.ErrorIs(t, err, setting.ErrSettingNotFound)

		var entry models.AuditEntry
		require.NoError(t, db.Where("action = ?", models.AuditActionDelete).First(&entry).Error)
		assert.Equal(t, "setting", entry.EntityType)
		assert.NotNil(t, entry.OldState)
		assert.Nil(t, entry.NewState)
	})
}
