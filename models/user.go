package models

import "time"

// User represents a registered account. Passwords are stored verbatim and
// compared with direct equality; see the login handler.
type User struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Username  string    `gorm:"column:username;uniqueIndex;not null;size:100" json:"username"`
	Password  string    `gorm:"column:password;not null" json:"-"`
	PhotoURI  *string   `gorm:"column:photo_uri" json:"photo_uri"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`

	Notes []Note `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (User) TableName() string {
	return "users"
}
