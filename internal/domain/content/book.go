package content

import "time"

type Book struct {
	ID     string  `gorm:"column:id;primaryKey" json:"id"`
	Title  string  `gorm:"column:title;not null;index" json:"title"`
	Author *string `gorm:"column:author" json:"author,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Book) TableName() string { return "books" }
