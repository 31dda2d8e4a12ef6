package posts

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
	"github.com/chirofind/chirofind/internal/db/controller/user"
	"github.com/chirofind/chirofind/internal/db/models"
	"github.com/chirofind/chirofind/internal/web/handler"
)

func setupTestApp(t *testing.T) (*fiber.App, *gorm.DB, string) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	err = db.AutoMigrate(&models.User{}, &models.Post{})
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

	require.NoError(t, db.Create(&models.Post{
		Title: "Published Post", Slug: "published-post", Content: "x", Published: true,
	}).Error)
	require.NoError(t, db.Create(&models.Post{
		Title: "Draft Post", Slug: "draft-post", Content: "x", Published: false,
	}).Error)

	return app, db, token
}

func getJSON(t *testing.T, app *fiber.App, target, token string) (int, handler.Envelope) {
	t.Helper()

	req := httptest.NewRequest(fiber.MethodGet, target, nil)
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)

	var envelope handler.Envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))

	return resp.StatusCode, envelope
}

func TestGetAll(t *testing.T) {
	app, _, token := setupTestApp(t)

	t.Run("anonymous sees published only", func(t *testing.T) {
		status, envelope := getJSON(t, app, Path, "")
		require.Equal(t, fiber.StatusOK, status)

		data, ok := envelope.Data.(map[string]any)
		require.True(t, ok)
		assert.Equal(t, float64(1), data["totalItems"])
	})

	t.Run("the listing stays published-only for admins too", func(t *testing.T) {
		status, envelope := getJSON(t, app, Path, token)
		require.Equal(t, fiber.StatusOK, status)

		data, ok := envelope.Data.(map[string]any)
		require.True(t, ok)
		assert.Equal(t, float64(1), data["totalItems"])
	})
}

func TestGet(t *testing.T) {
	app, db, token := setupTestApp(t)

	t.Run("published post counts the view", func(t *testing.T) {
		status, envelope := getJSON(t, app, Path+"/published-post", "")
		require.Equal(t, fiber.StatusOK, status)

		data, ok := envelope.Data.(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "published-post", data["slug"])
		assert.Equal(t, float64(1), data["views"])
	})

	t.Run("draft is hidden from anonymous readers", func(t *testing.T) {
		status, envelope := getJSON(t, app, Path+"/draft-post", "")
		assert.Equal(t, fiber.StatusNotFound, status)
		require.NotNil(t, envelope.Error)
		assert.Equal(t, "NotFound", envelope.Error.Kind)
	})

	t.Run("admin previews a draft without counting a view", func(t *testing.T) {
		status, envelope := getJSON(t, app, Path+"/draft-post", token)
		require.Equal(t, fiber.StatusOK, status)

		data, ok := envelope.Data.(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "draft-post", data["slug"])
		assert.Equal(t, float64(0), data["views"])

		var stored models.Post
		require.NoError(t, db.Where("slug = ?", "draft-post").First(&stored).Error)
		assert.Zero(t, stored.Views, "a preview is not a public read")
	})

	t.Run("a bad credential is still rejected", func(t *testing.T) {
		status, envelope := getJSON(t, app, Path+"/published-post", "not-a-token")
		assert.Equal(t, fiber.StatusUnauthorized, status)
		require.NotNil(t, envelope.Error)
		assert.Equal(t, "InvalidCredential", envelope.Error.Kind)
	})
}
