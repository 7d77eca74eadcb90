package posts

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"inkwell/models"
)

// ErrNotFound is returned when no post matches the requested id or slug.
var ErrNotFound = errors.New("post not found")

const (
	DefaultLimit = 10
	MaxLimit     = 200
)

// Store owns all Post persistence. The slug uniqueness probe lives here; the
// unique index on posts.slug is the authoritative guard, the probe only picks
// a candidate that is free at the time of the lookup.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// ListFilter narrows List and its matching count. Status may be a concrete
// status, "all", or empty (treated as published).
type ListFilter struct {
	Status   string
	Category string
	Tag      string
	Page     int
	Limit    int
}

func (f *ListFilter) normalize() {
	if f.Status == "" {
		f.Status = models.StatusPublished
	}
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = DefaultLimit
	}
	if f.Limit > MaxLimit {
		f.Limit = MaxLimit
	}
}

func (s *Store) filtered(f ListFilter) *gorm.DB {
	q := s.db.Model(&models.Post{})
	if f.Status != "all" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.Tag != "" {
		// tags are stored as a JSON array, so an element match is a
		// substring match on the quoted value
		q = q.Where("tags LIKE ?", `%"`+f.Tag+`"%`)
	}
	return q
}

// List returns a page of posts, newest first, plus the total count over the
// same filter.
func (s *Store) List(f ListFilter) ([]models.Post, int64, error) {
	f.normalize()

	var total int64
	if err := s.filtered(f).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count posts: %w", err)
	}

	var list []models.Post
	// id breaks created_at ties so pagination never skips or repeats rows
	err := s.filtered(f).
		Order("created_at DESC, id DESC").
		Offset((f.Page - 1) * f.Limit).
		Limit(f.Limit).
		Find(&list).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list posts: %w", err)
	}
	return list, total, nil
}

func (s *Store) GetByID(id uint) (*models.Post, error) {
	var post models.Post
	if err := s.db.First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get post by id: %w", err)
	}
	return &post, nil
}

func (s *Store) GetBySlug(slug string) (*models.Post, error) {
	var post models.Post
	if err := s.db.Where("slug = ?", slug).First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get post by slug: %w", err)
	}
	return &post, nil
}

// Create assigns the post a fresh slug derived from its title and inserts it.
// A store failure during the uniqueness probe aborts the whole write.
func (s *Store) Create(post *models.Post) error {
	slug, err := s.uniqueSlug(Slugify(post.Title), 0)
	if err != nil {
		return err
	}
	post.Slug = slug

	if err := s.db.Create(post).Error; err != nil {
		return fmt.Errorf("create post: %w", err)
	}
	return nil
}

// Update saves the post. The slug is recomputed only when titleChanged is
// set, excluding the post's own id from the collision probe so an unchanged
// base never collides with itself and a previously disambiguated slug can be
// reclaimed. The views column is left out of the write; the caller's copy may
// predate increments that landed since it was read, and views only ever moves
// through IncrementViews.
func (s *Store) Update(post *models.Post, titleChanged bool) error {
	if titleChanged {
		slug, err := s.uniqueSlug(Slugify(post.Title), post.ID)
		if err != nil {
			return err
		}
		post.Slug = slug
	}

	if err := s.db.Omit("views").Save(post).Error; err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	return nil
}

// Delete removes the post with the given slug. Deletion is unconditional and
// irreversible.
func (s *Store) Delete(slug string) error {
	result := s.db.Where("slug = ?", slug).Delete(&models.Post{})
	if result.Error != nil {
		return fmt.Errorf("delete post: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// IncrementViews bumps the view counter by one as a single-column update, so
// concurrent reads never rewrite the rest of the row.
func (s *Store) IncrementViews(id uint) error {
	err := s.db.Model(&models.Post{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", 1)).Error
	if err != nil {
		return fmt.Errorf("increment views: %w", err)
	}
	return nil
}

// Count returns the number of posts with the given status ("all" for every
// post). Used by the admin dashboard.
func (s *Store) Count(status string) (int64, error) {
	var total int64
	q := s.db.Model(&models.Post{})
	if status != "all" {
		q = q.Where("status = ?", status)
	}
	if err := q.Count(&total).Error; err != nil {
		return 0, fmt.Errorf("count posts: %w", err)
	}
	return total, nil
}

// uniqueSlug probes for the first free candidate: base, base-1, base-2, ...
// excludeID is skipped so updates never collide with the post being updated.
// Any lookup failure aborts; proceeding on error could hand out a slug that
// is already taken.
func (s *Store) uniqueSlug(base string, excludeID uint) (string, error) {
	slug := base
	for counter := 1; ; counter++ {
		q := s.db.Select("id").Where("slug = ?", slug)
		if excludeID != 0 {
			q = q.Where("id <> ?", excludeID)
		}

		var existing models.Post
		err := q.First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return slug, nil
		}
		if err != nil {
			return "", fmt.Errorf("probe slug %q: %w", slug, err)
		}
		slug = fmt.Sprintf("%s-%d", base, counter)
	}
}
