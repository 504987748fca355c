// Package blog implements posts, comments, groups and follows together with
// the rules for who may change them.
package blog

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/yatube/yatube/internal/db"
	"github.com/yatube/yatube/internal/events"
	"github.com/yatube/yatube/internal/models"
	"github.com/yatube/yatube/pkg/logging"
	"github.com/yatube/yatube/pkg/telemetry"
)

const requiredField = "This field is required."

// Service runs blog operations against the database. Every write runs in a
// single transaction together with its outbox event.
type Service struct {
	repo     *db.Repository
	pageSize int
	logger   *zap.Logger

	posts    metric.Int64Counter
	comments metric.Int64Counter
	follows  metric.Int64UpDownCounter
}

// NewService creates a blog service. A pageSize below 1 uses DefaultPageSize.
func NewService(repo *db.Repository, pageSize int) *Service {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}

	meter := telemetry.Meter()
	posts, _ := meter.Int64Counter("yatube.posts.created",
		metric.WithDescription("Posts created"))
	comments, _ := meter.Int64Counter("yatube.comments.created",
		metric.WithDescription("Comments created"))
	follows, _ := meter.Int64UpDownCounter("yatube.follows.edges",
		metric.WithDescription("Follow edges created minus removed"))

	return &Service{
		repo:     repo,
		pageSize: pageSize,
		logger:   logging.WithComponent("blog"),
		posts:    posts,
		comments: comments,
		follows:  follows,
	}
}

// PageSize returns the listing page size
func (s *Service) PageSize() int {
	return s.pageSize
}

// PostInput is the content of a new post
type PostInput struct {
	Text      string
	GroupSlug string
	Image     string
}

// PostChanges holds the fields of an edit. Nil fields are left as they are;
// an empty GroupSlug removes the post from its group.
type PostChanges struct {
	Text      *string
	GroupSlug *string
	Image     *string
}

func validateText(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", newValidationError("text", requiredField)
	}
	return text, nil
}

func resolveGroup(ctx context.Context, tx *db.Repository, slug string) (*int64, error) {
	if slug == "" {
		return nil, nil
	}
	group, err := db.NewGroupRepository(tx).GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, newValidationError("group", "Select a valid choice. That choice is not one of the available choices.")
	}
	return &group.ID, nil
}

// CreatePost publishes a post written by the caller and sends them to their profile
func (s *Service) CreatePost(ctx context.Context, id Identity, in PostInput) (Outcome, *models.Post, error) {
	ctx, span := telemetry.StartSpan(ctx, "blog.CreatePost")
	defer span.End()

	if !id.Authenticated() {
		return Outcome{}, nil, ErrUnauthenticated
	}
	text, err := validateText(in.Text)
	if err != nil {
		return Outcome{}, nil, err
	}

	post := &models.Post{
		Text:     text,
		AuthorID: id.UserID,
		Image:    in.Image,
	}
	err = s.repo.Transaction(ctx, func(tx *db.Repository) error {
		groupID, err := resolveGroup(ctx, tx, in.GroupSlug)
		if err != nil {
			return err
		}
		post.GroupID = groupID

		if err := db.NewPostRepository(tx).Create(ctx, post); err != nil {
			return err
		}
		return events.Record(ctx, tx, models.EventPost, post.AuthorID, events.PostPayload{
			PostID:   post.ID,
			AuthorID: post.AuthorID,
			GroupID:  post.GroupID,
		})
	})
	if err != nil {
		return Outcome{}, nil, translateStoreError(err)
	}

	span.SetAttributes(attribute.Int64("post.id", post.ID))
	s.posts.Add(ctx, 1)
	s.logger.Debug("Post created",
		zap.Int64("post_id", post.ID),
		zap.Int64("author_id", post.AuthorID),
		zap.String("excerpt", post.Excerpt()),
	)

	return applied(ProfileView(id.Username)), post, nil
}

// EditPost applies changes to a post. Only the author may edit; anyone else
// is sent to the post detail page and the post is left untouched.
func (s *Service) EditPost(ctx context.Context, id Identity, postID int64, changes PostChanges) (Outcome, *models.Post, error) {
	ctx, span := telemetry.StartSpan(ctx, "blog.EditPost", trace.WithAttributes(attribute.Int64("post.id", postID)))
	defer span.End()

	if !id.Authenticated() {
		return Outcome{}, nil, ErrUnauthenticated
	}

	var (
		post    *models.Post
		outcome = applied(PostDetailView(postID))
	)
	err := s.repo.Transaction(ctx, func(tx *db.Repository) error {
		posts := db.NewPostRepository(tx)

		var err error
		post, err = posts.GetByID(ctx, postID)
		if err != nil {
			return err
		}
		if post == nil {
			return ErrNotFound
		}
		if !CanEdit(id, post) {
			outcome = denied(PostDetailView(postID))
			return nil
		}

		fields := make(map[string]interface{})
		if changes.Text != nil {
			text, err := validateText(*changes.Text)
			if err != nil {
				return err
			}
			fields["text"] = text
		}
		if changes.Image != nil {
			fields["image"] = *changes.Image
		}
		if changes.GroupSlug != nil {
			groupID, err := resolveGroup(ctx, tx, *changes.GroupSlug)
			if err != nil {
				return err
			}
			fields["group_id"] = groupID
		}
		if len(fields) == 0 {
			return nil
		}

		if err := posts.UpdateFields(ctx, postID, fields); err != nil {
			return err
		}
		post, err = posts.GetByID(ctx, postID)
		return err
	})
	if err != nil {
		return Outcome{}, nil, translateStoreError(err)
	}

	if outcome.Result == Denied {
		s.logger.Info("Edit by non-author demoted to view",
			zap.Int64("post_id", postID),
			zap.Int64("user_id", id.UserID),
		)
	}
	return outcome, post, nil
}

// CreateComment adds the caller's comment to a post and sends them back to it
func (s *Service) CreateComment(ctx context.Context, id Identity, postID int64, text string) (Outcome, *models.Comment, error) {
	ctx, span := telemetry.StartSpan(ctx, "blog.CreateComment", trace.WithAttributes(attribute.Int64("post.id", postID)))
	defer span.End()

	if !id.Authenticated() {
		return Outcome{}, nil, ErrUnauthenticated
	}

	var comment *models.Comment
	err := s.repo.Transaction(ctx, func(tx *db.Repository) error {
		post, err := db.NewPostRepository(tx).GetByID(ctx, postID)
		if err != nil {
			return err
		}
		if post == nil {
			return ErrNotFound
		}

		body, err := validateText(text)
		if err != nil {
			return err
		}

		comment = &models.Comment{
			PostID:   postID,
			AuthorID: id.UserID,
			Text:     body,
		}
		if err := db.NewCommentRepository(tx).Create(ctx, comment); err != nil {
			return err
		}
		return events.Record(ctx, tx, models.EventComment, postID, events.CommentPayload{
			CommentID: comment.ID,
			PostID:    postID,
			AuthorID:  id.UserID,
		})
	})
	if err != nil {
		return Outcome{}, nil, translateStoreError(err)
	}

	s.comments.Add(ctx, 1)
	s.logger.Debug("Comment created",
		zap.Int64("comment_id", comment.ID),
		zap.Int64("post_id", postID),
		zap.String("excerpt", comment.Excerpt()),
	)
	return applied(PostDetailView(postID)), comment, nil
}
