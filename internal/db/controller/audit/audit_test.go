package audit

import (
	"encoding/json"
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

	err = db.AutoMigrate(&models.AuditEntry{})
	require.NoError(t, err, "failed to migrate test database")

	return db
}

func TestRecord(t *testing.T) {
	db := setupTestDB(t)

	t.Run("nil database", func(t *testing.T) {
		err := Record(nil, nil, models.AuditActionCreate, "listing", 1, nil, nil, Origin{})
		require.ErrorIs(t, err, ErrDBNil)
	})

	t.Run("snapshots are stored as JSON", func(t *testing.T) {
		actorID := uint64(3)
		before := models.Listing{ID: 9, Name: "Old Name"}
		after := models.Listing{ID: 9, Name: "New Name"}

		err := Record(db, &actorID, models.AuditActionUpdate, "listing", 9, before, after,
			Origin{IP: "203.0.113.7", UserAgent: "test-agent"})
		require.NoError(t, err)

		var entry models.AuditEntry
		require.NoError(t, db.First(&entry).Error)

		require.NotNil(t, entry.ActorID)
		assert.Equal(t, uint64(3), *entry.ActorID)
		assert.Equal(t, models.AuditActionUpdate, entry.Action)
		assert.Equal(t, "listing", entry.EntityType)
		assert.Equal(t, uint64(9), entry.EntityID)
		assert.Equal(t, "203.0.113.7", entry.IP)
		assert.Equal(t, "test-agent", entry.UserAgent)
		assert.False(t, entry.CreatedAt.IsZero())

		var old models.Listing
		require.NoError(t, json.Unmarshal(entry.OldState, &old))
		assert.Equal(t, "Old Name", old.Name)

		var updated models.Listing
		require.NoError(t, json.Unmarshal(entry.NewState, &updated))
		assert.Equal(t, "New Name", updated.Name)
	})

	t.Run("nil snapshots stay nil", func(t *testing.T) {
		err := Record(db, nil, models.AuditActionCreate, "post", 5, nil, models.Post{ID: 5}, Origin{})
		require.NoError(t, err)

		var entry models.AuditEntry
		require.NoError(t, db.Where("entity_type = ?", "post").First(&entry).Error)
		assert.Nil(t, entry.ActorID)
		assert.Nil(t, entry.OldState)
		assert.NotNil(t, entry.NewState)
	})
}

func TestGetAll(t *testing.T) {
	db := setupTestDB(t)

	actorOne := uint64(1)
	actorTwo := uint64(2)

	entries := []struct {
		actor      *uint64
		action     string
		entityType string
		entityID   uint64
	}{
		{&actorOne, models.AuditActionCreate, "listing", 10},
		{&actorOne, models.AuditActionUpdate, "listing", 10},
		{&actorTwo, models.AuditActionCreate, "post", 20},
	}

	for _, e := range entries {
		require.NoError(t, Record(db, e.actor, e.action, e.entityType, e.entityID, nil, nil, Origin{}))
	}

	testCases := []struct {
		name          string
		filter        Filter
		expectedTotal int64
	}{
		{name: "all entries", filter: Filter{}, expectedTotal: 3},
		{name: "by entity type", filter: Filter{EntityType: "listing"}, expectedTotal: 2},
		{name: "by entity", filter: Filter{EntityType: "listing", EntityID: 10}, expectedTotal: 2},
		{name: "by actor", filter: Filter{ActorID: 2}, expectedTotal: 1},
		{name: "no match", filter: Filter{EntityType: "setting"}, expectedTotal: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result, total, err := GetAll(db, tc.filter)
			require.NoError(t, err)
			assert.Equal(t, tc.expectedTotal, total)
			assert.Len(t, result, int(tc.expectedTotal))
		})
	}

	t.Run("newest first", func(t *testing.T) {
		result, _, err := GetAll(db, Filter{})
		require.NoError(t, err)
		require.Len(t, result, 3)
		assert.Equal(t, "post", result[0].EntityType)
	})

	t.Run("nil database", func(t *testing.T) {
		_, _, err := GetAll(nil, Filter{})
		require.ErrorIs(t, err, ErrDBNil)
	})
}
