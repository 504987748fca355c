package blog

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/yatube/yatube/internal/db"
	"github.com/yatube/yatube/internal/events"
	"github.com/yatube/yatube/internal/models"
	"github.com/yatube/yatube/pkg/telemetry"
)

// Follow makes the caller follow the named author. Following yourself or an
// author you already follow changes nothing and still lands on the profile.
func (s *Service) Follow(ctx context.Context, id Identity, username string) (Outcome, error) {
	ctx, span := telemetry.StartSpan(ctx, "blog.Follow", trace.WithAttributes(attribute.String("author.username", username)))
	defer span.End()

	if !id.Authenticated() {
		return Outcome{}, ErrUnauthenticated
	}

	outcome := applied(ProfileView(username))
	err := s.repo.Transaction(ctx, func(tx *db.Repository) error {
		author, err := db.NewUserRepository(tx).GetByUsername(ctx, username)
		if err != nil {
			return err
		}
		if author == nil {
			return ErrNotFound
		}
		if !CanFollow(id, author.ID) {
			outcome = noop(ProfileView(username))
			return nil
		}

		follows := db.NewFollowRepository(tx)
		exists, err := follows.Exists(ctx, id.UserID, author.ID)
		if err != nil {
			return err
		}
		if exists {
			outcome = noop(ProfileView(username))
			return nil
		}

		if err := follows.Create(ctx, &models.Follow{UserID: id.UserID, AuthorID: author.ID}); err != nil {
			return err
		}
		return events.Record(ctx, tx, models.EventFollow, author.ID, events.FollowPayload{
			UserID:   id.UserID,
			AuthorID: author.ID,
		})
	})
	if err != nil {
		return Outcome{}, translateStoreError(err)
	}

	if outcome.Result == Applied {
		s.follows.Add(ctx, 1)
		s.logger.Debug("Follow created", zap.Int64("user_id", id.UserID), zap.String("author", username))
	}
	return outcome, nil
}

// Unfollow removes the caller's follow edge to the named author. A missing
// edge, including one to the caller themselves, is ErrNotFound.
func (s *Service) Unfollow(ctx context.Context, id Identity, username string) (Outcome, error) {
	ctx, span := telemetry.StartSpan(ctx, "blog.Unfollow", trace.WithAttributes(attribute.String("author.username", username)))
	defer span.End()

	if !id.Authenticated() {
		return Outcome{}, ErrUnauthenticated
	}

	err := s.repo.Transaction(ctx, func(tx *db.Repository) error {
		author, err := db.NewUserRepository(tx).GetByUsername(ctx, username)
		if err != nil {
			return err
		}
		if author == nil {
			return ErrNotFound
		}

		removed, err := db.NewFollowRepository(tx).Delete(ctx, id.UserID, author.ID)
		if err != nil {
			return err
		}
		if removed == 0 {
			return ErrNotFound
		}
		return events.Record(ctx, tx, models.EventUnfollow, author.ID, events.FollowPayload{
			UserID:   id.UserID,
			AuthorID: author.ID,
		})
	})
	if err != nil {
		return Outcome{}, translateStoreError(err)
	}

	s.follows.Add(ctx, -1)
	return applied(ProfileView(username)), nil
}
