package content

import "time"

type Chapter struct {
	ID            int64  `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	BookID        string `gorm:"column:book_id;not null;uniqueIndex:idx_chapters_book_number,priority:1" json:"book_id"`
	Book          *Book  `gorm:"constraint:OnDelete:CASCADE;foreignKey:BookID;references:ID" json:"-"`
	ChapterNumber int    `gorm:"column:chapter_number;not null;uniqueIndex:idx_chapters_book_number,priority:2" json:"chapter_number"`
	Title         string `gorm:"column:title;not null;index" json:"title"`
	Content       string `gorm:"column:content;type:text" json:"content"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Chapter) TableName() string { return "chapters" }
