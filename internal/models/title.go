package models

// Title is a reviewable work (book, film, album). Its rating is never stored:
// it is the average review score computed at read time.
type Title struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"type:varchar(200);not null;index" json:"name"`
	Year        *int   `json:"year"`
	CategoryID  *uint  `json:"-"`
	Description string `gorm:"type:text" json:"description"`

	// Deleting a category detaches it from its titles instead of
	// deleting them.
	Category *Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL" json:"category,omitempty"`
	Genres   []Genre   `gorm:"many2many:genre_titles;constraint:OnDelete:CASCADE" json:"genre,omitempty"`
}

// GenreTitle is the explicit join record between titles and genres. Rows go
// away with either side.
type GenreTitle struct {
	ID      uint `gorm:"primaryKey" json:"-"`
	TitleID uint `gorm:"index;not null" json:"-"`
	GenreID uint `gorm:"index;not null" json:"-"`
}

func (GenreTitle) TableName() string {
	return "genre_titles"
}
