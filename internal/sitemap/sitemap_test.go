package sitemap

import (
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/chirofind/chirofind/internal/db/models"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	err = db.AutoMigrate(&models.Listing{}, &models.Post{})
	require.NoError(t, err, "failed to migrate test database")

	return db
}

func TestGenerate(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, db.Create(&models.Listing{
		Name: "Visible Clinic", State: "CA", Address: "1 Main St",
		Phone: "555-0100", Email: "a@b.c", Active: true,
	}).Error)
	require.NoError(t, db.Create(&models.Listing{
		Name: "Hidden Clinic", State: "CA", Address: "2 Main St",
		Phone: "555-0101", Email: "a@b.c", Active: false,
	}).Error)

	require.NoError(t, db.Create(&models.Post{
		Title: "Published Post", Slug: "published-post", Content: "x", Published: true,
	}).Error)
	require.NoError(t, db.Create(&models.Post{
		Title: "Draft Post", Slug: "draft-post", Content: "x", Published: false,
	}).Error)

	xml, err := Generate(db, "https://chirofind.example/")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(xml, `<?xml version="1.0" encoding="UTF-8"?>`))
	assert.Contains(t, xml, "<loc>https://chirofind.example/</loc>")
	assert.Contains(t, xml, "<loc>https://chirofind.example/blog</loc>")
	assert.Contains(t, xml, "<loc>https://chirofind.example/listings/1</loc>")
	assert.Contains(t, xml, "<loc>https://chirofind.example/blog/published-post</loc>")

	// hidden content must not leak
	assert.NotContains(t, xml, "/listings/2")
	assert.NotContains(t, xml, "draft-post")

	// no double slash from the trailing base URL slash
	assert.NotContains(t, xml, "example//")
}
