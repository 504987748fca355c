package models

import (
	"fmt"
	"time"
)

// Follow is a directed edge: UserID reads the posts of AuthorID in their feed.
// The pair is unique and a user cannot follow themselves.
type Follow struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	UserID    int64     `gorm:"not null;uniqueIndex:follows_user_author_ux,priority:1;column:user_id;check:user_id <> author_id" json:"user_id"`
	AuthorID  int64     `gorm:"not null;uniqueIndex:follows_user_author_ux,priority:2;index:follows_author_ix;column:author_id" json:"author_id"`
	CreatedAt time.Time `gorm:"not null;column:created_at" json:"created_at"`

	// Relationships
	User   *User `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
	Author *User `gorm:"foreignKey:AuthorID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for Follow
func (Follow) TableName() string {
	return "follows"
}

func (f Follow) String() string {
	return fmt.Sprintf("user %d follows %d", f.UserID, f.AuthorID)
}

// All lists every model managed by migrations, in dependency order
func All() []interface{} {
	return []interface{}{
		&User{},
		&Group{},
		&Post{},
		&Comment{},
		&Follow{},
		&OutboxEvent{},
	}
}
