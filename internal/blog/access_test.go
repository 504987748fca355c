package blog

import (
	"testing"

	"github.com/yatube/yatube/internal/models"
)

func TestCanEdit(t *testing.T) {
	post := &models.Post{ID: 1, AuthorID: 7}

	tests := []struct {
		name string
		id   Identity
		post *models.Post
		want bool
	}{
		{"author", Identity{UserID: 7, Username: "leo"}, post, true},
		{"other user", Identity{UserID: 8, Username: "tolstoy"}, post, false},
		{"anonymous", Anonymous(), post, false},
		{"missing post", Identity{UserID: 7}, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanEdit(tt.id, tt.post); got != tt.want {
				t.Errorf("CanEdit() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCanFollow(t *testing.T) {
	tests := []struct {
		name   string
		id     Identity
		target int64
		want   bool
	}{
		{"other author", Identity{UserID: 1}, 2, true},
		{"self", Identity{UserID: 1}, 1, false},
		{"anonymous", Anonymous(), 2, false},
		{"unknown target", Identity{UserID: 1}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanFollow(tt.id, tt.target); got != tt.want {
				t.Errorf("CanFollow() = %v, want %v", got, tt.want)
			}
		})
	}
}
