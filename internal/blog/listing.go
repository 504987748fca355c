package blog

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/yatube/yatube/internal/db"
	"github.com/yatube/yatube/internal/models"
	"github.com/yatube/yatube/pkg/telemetry"
)

type scopeKind int

const (
	scopeAll scopeKind = iota
	scopeGroup
	scopeAuthor
	scopeFollowedBy
)

// Scope selects which posts a listing shows
type Scope struct {
	kind     scopeKind
	slug     string
	username string
	userID   int64
}

// AllPosts lists every post
func AllPosts() Scope { return Scope{kind: scopeAll} }

// GroupPosts lists the posts of the group with the given slug
func GroupPosts(slug string) Scope { return Scope{kind: scopeGroup, slug: slug} }

// AuthorPosts lists the posts written by the given user
func AuthorPosts(username string) Scope { return Scope{kind: scopeAuthor, username: username} }

// FollowedBy lists the posts of every author the user follows
func FollowedBy(userID int64) Scope { return Scope{kind: scopeFollowedBy, userID: userID} }

func (s Scope) String() string {
	switch s.kind {
	case scopeGroup:
		return "group"
	case scopeAuthor:
		return "author"
	case scopeFollowedBy:
		return "followed_by"
	default:
		return "all"
	}
}

// Page is one page of posts
type Page struct {
	Posts []models.Post `json:"posts"`
	PageInfo
}

// GroupPage is a group with a page of its posts
type GroupPage struct {
	Group *models.Group `json:"group"`
	Page  *Page         `json:"page"`
}

// ProfilePage is an author with a page of their posts. Following is true
// when the viewer is signed in, is not the author and follows them.
type ProfilePage struct {
	Author    *models.User `json:"author"`
	Page      *Page        `json:"page"`
	Following bool         `json:"following"`
}

// PostDetail is a post with its comments, newest first
type PostDetail struct {
	Post        *models.Post     `json:"post"`
	Comments    []models.Comment `json:"comments"`
	AuthorPosts int64            `json:"author_posts"`
}

// ListPosts returns the requested page of posts in scope, newest first
func (s *Service) ListPosts(ctx context.Context, scope Scope, page int) (*Page, error) {
	ctx, span := telemetry.StartSpan(ctx, "blog.ListPosts", trace.WithAttributes(
		attribute.String("scope", scope.String()),
		attribute.Int("page", page),
	))
	defer span.End()

	var result *Page
	err := s.repo.Transaction(ctx, func(tx *db.Repository) error {
		filter, err := s.resolveScope(ctx, tx, scope)
		if err != nil {
			return err
		}
		result, err = s.page(ctx, tx, filter, page)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Service) resolveScope(ctx context.Context, tx *db.Repository, scope Scope) (db.PostFilter, error) {
	switch scope.kind {
	case scopeGroup:
		group, err := db.NewGroupRepository(tx).GetBySlug(ctx, scope.slug)
		if err != nil {
			return db.PostFilter{}, err
		}
		if group == nil {
			return db.PostFilter{}, ErrNotFound
		}
		return db.PostFilter{GroupID: group.ID}, nil
	case scopeAuthor:
		author, err := db.NewUserRepository(tx).GetByUsername(ctx, scope.username)
		if err != nil {
			return db.PostFilter{}, err
		}
		if author == nil {
			return db.PostFilter{}, ErrNotFound
		}
		return db.PostFilter{AuthorID: author.ID}, nil
	case scopeFollowedBy:
		if scope.userID == 0 {
			return db.PostFilter{}, ErrUnauthenticated
		}
		return db.PostFilter{FollowerID: scope.userID}, nil
	default:
		return db.PostFilter{}, nil
	}
}

func (s *Service) page(ctx context.Context, tx *db.Repository, filter db.PostFilter, requested int) (*Page, error) {
	posts := db.NewPostRepository(tx)

	total, err := posts.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	info := Paginate(total, s.pageSize, requested)

	items, err := posts.List(ctx, filter, info.Offset(), info.Size)
	if err != nil {
		return nil, err
	}
	return &Page{Posts: items, PageInfo: info}, nil
}

// GroupPage returns a group and a page of its posts
func (s *Service) GroupPage(ctx context.Context, slug string, page int) (*GroupPage, error) {
	ctx, span := telemetry.StartSpan(ctx, "blog.GroupPage", trace.WithAttributes(attribute.String("group.slug", slug)))
	defer span.End()

	var result GroupPage
	err := s.repo.Transaction(ctx, func(tx *db.Repository) error {
		group, err := db.NewGroupRepository(tx).GetBySlug(ctx, slug)
		if err != nil {
			return err
		}
		if group == nil {
			return ErrNotFound
		}
		result.Group = group
		result.Page, err = s.page(ctx, tx, db.PostFilter{GroupID: group.ID}, page)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Profile returns an author, a page of their posts and whether viewer follows them
func (s *Service) Profile(ctx context.Context, viewer Identity, username string, page int) (*ProfilePage, error) {
	ctx, span := telemetry.StartSpan(ctx, "blog.Profile", trace.WithAttributes(attribute.String("user.username", username)))
	defer span.End()

	var result ProfilePage
	err := s.repo.Transaction(ctx, func(tx *db.Repository) error {
		author, err := db.NewUserRepository(tx).GetByUsername(ctx, username)
		if err != nil {
			return err
		}
		if author == nil {
			return ErrNotFound
		}
		result.Author = author

		if CanFollow(viewer, author.ID) {
			result.Following, err = db.NewFollowRepository(tx).Exists(ctx, viewer.UserID, author.ID)
			if err != nil {
				return err
			}
		}

		result.Page, err = s.page(ctx, tx, db.PostFilter{AuthorID: author.ID}, page)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// PostDetail returns a post with its comments
func (s *Service) PostDetail(ctx context.Context, postID int64) (*PostDetail, error) {
	ctx, span := telemetry.StartSpan(ctx, "blog.PostDetail", trace.WithAttributes(attribute.Int64("post.id", postID)))
	defer span.End()

	var result PostDetail
	err := s.repo.Transaction(ctx, func(tx *db.Repository) error {
		post, err := db.NewPostRepository(tx).GetByID(ctx, postID)
		if err != nil {
			return err
		}
		if post == nil {
			return ErrNotFound
		}
		result.Post = post

		result.Comments, err = db.NewCommentRepository(tx).ListByPost(ctx, postID)
		if err != nil {
			return err
		}
		result.AuthorPosts, err = db.NewPostRepository(tx).Count(ctx, db.PostFilter{AuthorID: post.AuthorID})
		return err
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Feed returns a page of posts by the authors the caller follows
func (s *Service) Feed(ctx context.Context, id Identity, page int) (*Page, error) {
	if !id.Authenticated() {
		return nil, ErrUnauthenticated
	}
	return s.ListPosts(ctx, FollowedBy(id.UserID), page)
}
