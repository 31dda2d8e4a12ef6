// Package post provides CRUD operations for blog posts, including slug
// derivation and the atomic view counter.
package post

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/chirofind/chirofind/internal/db/models"
	"github.com/chirofind/chirofind/internal/slug"
)

const (
	idQueryPattern   = "id = ?"
	slugQueryPattern = "slug = ?"

	searchQueryPattern = "LOWER(title) LIKE ? OR LOWER(excerpt) LIKE ? OR LOWER(content) LIKE ?"
)

var (
	// ErrPostNotFound is returned when a post is not found or hidden by the published filter.
	ErrPostNotFound = errors.New("post not found")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Filter narrows GetAll results.
type Filter struct {
	PublishedOnly bool
	Tag           string
	Search        string
	Page          int
	PageSize      int
}

// slugExists reports whether another post already uses the candidate slug.
// excludeID skips the post being updated.
func slugExists(db *gorm.DB, excludeID uint64) slug.ExistsFunc {
	return func(candidate string) (bool, error) {
		var count int64

		tx := db.Model(&models.Post{}).Where(slugQueryPattern, candidate)
		if excludeID != 0 {
			tx = tx.Where("id <> ?", excludeID)
		}

		if err := tx.Count(&count).Error; err != nil {
			return false, err
		}

		return count > 0, nil
	}
}

// Get retrieves a post by its ID.
func Get(db *gorm.DB, id uint64, publishedOnly bool) (*models.Post, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	return one(db.Where(idQueryPattern, id), publishedOnly)
}

// GetBySlug retrieves a post by its slug.
func GetBySlug(db *gorm.DB, postSlug string, publishedOnly bool) (*models.Post, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	return one(db.Where(slugQueryPattern, postSlug), publishedOnly)
}

func one(tx *gorm.DB, publishedOnly bool) (*models.Post, error) {
	if publishedOnly {
		tx = tx.Where("published = ?", true)
	}

	var post models.Post

	result := tx.First(&post)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}

		return nil, result.Error
	}

	return &post, nil
}

// GetAll retrieves posts matching the filter, newest first, plus the
// unpaginated total.
func GetAll(db *gorm.DB, f Filter) ([]models.Post, int64, error) {
	if db == nil {
		return nil, 0, ErrDBNil
	}

	tx := db.Model(&models.Post{})

	if f.PublishedOnly {
		tx = tx.Where("published = ?", true)
	}

	if f.Tag != "" {
		// tags are stored as a JSON array, a quoted substring match is
		// exact enough for all engines in use
		tx = tx.Where("tags LIKE ?", `%"`+f.Tag+`"%`)
	}

	if f.Search != "" {
		like := "%" + strings.ToLower(f.Search) + "%"
		tx = tx.Where(searchQueryPattern, like, like, like)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if f.PageSize > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}

		tx = tx.Limit(f.PageSize).Offset((page - 1) * f.PageSize)
	}

	var posts []models.Post
	if err := tx.Order("created_at DESC, id DESC").Find(&posts).Error; err != nil {
		return nil, 0, err
	}

	return posts, total, nil
}

// Create persists a new post. The slug is derived from the title, with a
// disambiguating suffix when the plain slug is already taken.
func Create(db *gorm.DB, p *models.Post) (*models.Post, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	postSlug, err := slug.Unique(p.Title, slugExists(db, 0))
	if err != nil {
		return nil, err
	}

	p.ID = 0
	p.Slug = postSlug
	p.Views = 0

	if p.Published && p.PublishedAt == nil {
		now := time.Now()
		p.PublishedAt = &now
	}

	if result := db.Create(p); result.Error != nil {
		return nil, result.Error
	}

	return p, nil
}

// Update overwrites the mutable fields of an existing post. The slug is
// regenerated when the title changed.
func Update(db *gorm.DB, id uint64, updated models.Post) (*models.Post, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	post, err := Get(db, id, false)
	if err != nil {
		return nil, err
	}

	if updated.Title != post.Title {
		postSlug, err := slug.Unique(updated.Title, slugExists(db, id))
		if err != nil {
			return nil, err
		}

		post.Slug = postSlug
	}

	if updated.Published && !post.Published && updated.PublishedAt == nil {
		now := time.Now()
		post.PublishedAt = &now
	}

	post.Title = updated.Title
	post.Content = updated.Content
	post.Excerpt = updated.Excerpt
	post.FeaturedImage = updated.FeaturedImage
	post.MetaTitle = updated.MetaTitle
	post.MetaDescription = updated.MetaDescription
	post.Tags = updated.Tags
	post.Published = updated.Published

	if result := db.Save(post); result.Error != nil {
		return nil, result.Error
	}

	return post, nil
}

// Delete removes the post. Posts have no soft delete; callers must capture
// the prior snapshot for the audit trail.
func Delete(db *gorm.DB, id uint64) error {
	if db == nil {
		return ErrDBNil
	}

	result := db.Delete(&models.Post{}, id)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrPostNotFound
	}

	return nil
}

// IncrementViews bumps the view counter of a published post with a single
// atomic update, not a read-modify-write.
func IncrementViews(db *gorm.DB, postSlug string) error {
	if db == nil {
		return ErrDBNil
	}

	return db.Model(&models.Post{}).
		Where("slug = ? AND published = ?", postSlug, true).
		UpdateColumn("views", gorm.Expr("views + 1")).Error
}
