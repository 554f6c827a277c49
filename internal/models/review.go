package models

import (
	"time"

	"github.com/google/uuid"
)

// Review is a user's single review of a title. The composite unique index on
// (title_id, author_id) is the source of truth for the one-review-per-user
// rule; the service-level existence check is only a fast path.
type Review struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	TitleID  uint      `gorm:"not null;uniqueIndex:idx_reviews_title_author" json:"-"`
	AuthorID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_title_author" json:"-"`
	Text     string    `gorm:"type:text;not null" json:"text"`
	Score    int       `gorm:"not null;check:score >= 1 AND score <= 10" json:"score"`
	PubDate  time.Time `gorm:"autoCreateTime;index" json:"pub_date"`

	Title  Title `gorm:"foreignKey:TitleID;constraint:OnDelete:CASCADE" json:"-"`
	Author User  `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"-"`
}
