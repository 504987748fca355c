package models

import (
	"time"
)

// excerptLen is the number of runes shown when a post or comment is summarized
const excerptLen = 20

// Group is a themed collection of posts, identified by its slug
type Group struct {
	ID          int64  `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	Title       string `gorm:"type:varchar(200);not null;column:title" json:"title"`
	Slug        string `gorm:"type:varchar(50);not null;uniqueIndex:groups_slug_ux;column:slug" json:"slug"`
	Description string `gorm:"type:text;not null;default:'';column:description" json:"description"`
}

// TableName specifies the table name for Group
func (Group) TableName() string {
	return "groups"
}

// Post represents a blog post. Author and creation time are written once.
type Post struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	Text      string    `gorm:"type:text;not null;column:text" json:"text"`
	CreatedAt time.Time `gorm:"<-:create;not null;index:posts_created_ix;column:created_at" json:"created_at"`
	AuthorID  int64     `gorm:"<-:create;not null;index:posts_author_ix;column:author_id" json:"author_id"`
	GroupID   *int64    `gorm:"index:posts_group_ix;column:group_id" json:"group_id"`
	Image     string    `gorm:"type:varchar(255);not null;default:'';column:image" json:"image,omitempty"`

	// Relationships
	Author *User  `gorm:"foreignKey:AuthorID;references:ID;constraint:OnDelete:CASCADE" json:"author,omitempty"`
	Group  *Group `gorm:"foreignKey:GroupID;references:ID;constraint:OnDelete:SET NULL" json:"group,omitempty"`
}

// TableName specifies the table name for Post
func (Post) TableName() string {
	return "posts"
}

// Excerpt returns the leading part of the post text
func (p *Post) Excerpt() string {
	return excerpt(p.Text)
}

// Comment is a reader's reply to a post. Comments are never edited.
type Comment struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	PostID    int64     `gorm:"<-:create;not null;index:comments_post_ix;column:post_id" json:"post_id"`
	AuthorID  int64     `gorm:"<-:create;not null;index:comments_author_ix;column:author_id" json:"author_id"`
	Text      string    `gorm:"type:text;not null;column:text" json:"text"`
	CreatedAt time.Time `gorm:"<-:create;not null;column:created_at" json:"created_at"`

	// Relationships
	Post   *Post `gorm:"foreignKey:PostID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
	Author *User `gorm:"foreignKey:AuthorID;references:ID;constraint:OnDelete:CASCADE" json:"author,omitempty"`
}

// TableName specifies the table name for Comment
func (Comment) TableName() string {
	return "comments"
}

// Excerpt returns the leading part of the comment text
func (c *Comment) Excerpt() string {
	return excerpt(c.Text)
}

func excerpt(s string) string {
	r := []rune(s)
	if len(r) <= excerptLen {
		return s
	}
	return string(r[:excerptLen])
}
