// Package events records domain events in the outbox table and relays them to a broker.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/yatube/yatube/internal/db"
	"github.com/yatube/yatube/internal/models"
)

// FollowPayload is the body of follow and unfollow events
type FollowPayload struct {
	UserID   int64 `json:"user_id"`
	AuthorID int64 `json:"author_id"`
}

// PostPayload is the body of post events
type PostPayload struct {
	PostID   int64  `json:"post_id"`
	AuthorID int64  `json:"author_id"`
	GroupID  *int64 `json:"group_id,omitempty"`
}

// CommentPayload is the body of comment events
type CommentPayload struct {
	CommentID int64 `json:"comment_id"`
	PostID    int64 `json:"post_id"`
	AuthorID  int64 `json:"author_id"`
}

// Record writes a pending event through repo. Pass a transaction-bound
// repository so the event commits or rolls back with the change it describes.
// The key selects the broker partition.
func Record(ctx context.Context, repo *db.Repository, eventType string, key int64, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode %s event: %w", eventType, err)
	}

	ev := &models.OutboxEvent{
		Type:    eventType,
		Key:     strconv.FormatInt(key, 10),
		Payload: string(data),
		Status:  models.OutboxPending,
	}
	if err := db.NewOutboxRepository(repo).Create(ctx, ev); err != nil {
		return fmt.Errorf("failed to record %s event: %w", eventType, err)
	}
	return nil
}
