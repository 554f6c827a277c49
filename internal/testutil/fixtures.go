package testutil

import (
	"fmt"
	"sync/atomic"
	"time"

	"gorm.io/gorm"

	"github.com/critiquehub/critique/internal/models"
)

var fixtureCounter atomic.Uint64

// next returns a process-unique suffix so fixtures never trip unique
// indexes across tests.
func next() uint64 {
	return fixtureCounter.Add(1)
}

// CreateTestUser inserts a user with the given role.
func CreateTestUser(db *gorm.DB, username string, role models.Role) (*models.User, error) {
	user := &models.User{
		Username: username,
		Email:    fmt.Sprintf("%s-%d@example.com", username, next()),
		Role:     role,
	}
	if err := db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateTestCategory inserts a category with a unique name and slug.
func CreateTestCategory(db *gorm.DB, name string) (*models.Category, error) {
	n := next()
	category := &models.Category{
		Name: fmt.Sprintf("%s %d", name, n),
		Slug: fmt.Sprintf("%s-%d", name, n),
	}
	if err := db.Create(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

// CreateTestGenre inserts a genre with a unique name and slug.
func CreateTestGenre(db *gorm.DB, name string) (*models.Genre, error) {
	n := next()
	genre := &models.Genre{
		Name: fmt.Sprintf("%s %d", name, n),
		Slug: fmt.Sprintf("%s-%d", name, n),
	}
	if err := db.Create(genre).Error; err != nil {
		return nil, err
	}
	return genre, nil
}

// CreateTestTitle inserts a title, optionally attached to a category.
func CreateTestTitle(db *gorm.DB, name string, category *models.Category) (*models.Title, error) {
	year := 2000
	title := &models.Title{
		Name: name,
		Year: &year,
	}
	if category != nil {
		title.CategoryID = &category.ID
	}
	if err := db.Create(title).Error; err != nil {
		return nil, err
	}
	return title, nil
}

// CreateTestReview inserts a review by author on title. PubDate is set
// explicitly so ordering tests can space reviews apart.
func CreateTestReview(db *gorm.DB, title *models.Title, author *models.User, score int, pubDate time.Time) (*models.Review, error) {
	review := &models.Review{
		TitleID:  title.ID,
		AuthorID: author.ID,
		Text:     fmt.Sprintf("review %d", next()),
		Score:    score,
		PubDate:  pubDate,
	}
	if err := db.Create(review).Error; err != nil {
		return nil, err
	}
	return review, nil
}

// CreateTestComment inserts a comment by author on review.
func CreateTestComment(db *gorm.DB, review *models.Review, author *models.User, pubDate time.Time) (*models.Comment, error) {
	comment := &models.Comment{
		ReviewID: review.ID,
		AuthorID: author.ID,
		Text:     fmt.Sprintf("comment %d", next()),
		PubDate:  pubDate,
	}
	if err := db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}
