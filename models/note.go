package models

import "time"

// Note is a free-text study note owned by a single user. UpdatedAt is
// refreshed on every title or content change and drives list ordering.
type Note struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID    int64     `gorm:"column:user_id;not null;index" json:"user_id"`
	PublicID  string    `gorm:"column:public_id;size:100;uniqueIndex" json:"public_id"`
	Title     string    `gorm:"column:title;not null;size:200" json:"title"`
	Content   string    `gorm:"column:content;type:text" json:"content"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`

	User        User          `gorm:"foreignKey:UserID" json:"-"`
	QuizHistory []QuizHistory `gorm:"foreignKey:NoteID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Note) TableName() string {
	return "notes"
}
