package blog

import (
	"context"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/yatube/yatube/internal/db"
	"github.com/yatube/yatube/internal/models"
)

var slugPattern = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

// GroupInput describes a new group
type GroupInput struct {
	Title       string
	Slug        string
	Description string
}

func (in GroupInput) validate() error {
	fields := make(map[string]string)

	title := strings.TrimSpace(in.Title)
	switch {
	case title == "":
		fields["title"] = requiredField
	case utf8.RuneCountInString(title) > 200:
		fields["title"] = "Ensure this value has at most 200 characters."
	}

	switch {
	case in.Slug == "":
		fields["slug"] = requiredField
	case len(in.Slug) > 50:
		fields["slug"] = "Ensure this value has at most 50 characters."
	case !slugPattern.MatchString(in.Slug):
		fields["slug"] = "Enter a valid slug consisting of letters, numbers, underscores or hyphens."
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// CreateGroup adds a group. Groups are created by administrators.
func (s *Service) CreateGroup(ctx context.Context, in GroupInput) (*models.Group, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	group := &models.Group{
		Title:       strings.TrimSpace(in.Title),
		Slug:        in.Slug,
		Description: strings.TrimSpace(in.Description),
	}
	err := s.repo.Transaction(ctx, func(tx *db.Repository) error {
		groups := db.NewGroupRepository(tx)

		existing, err := groups.GetBySlug(ctx, in.Slug)
		if err != nil {
			return err
		}
		if existing != nil {
			return newValidationError("slug", "Group with this Slug already exists.")
		}
		return groups.Create(ctx, group)
	})
	if err != nil {
		return nil, translateStoreError(err)
	}
	return group, nil
}

// ListGroups returns every group ordered by title
func (s *Service) ListGroups(ctx context.Context) ([]models.Group, error) {
	return db.NewGroupRepository(s.repo).List(ctx)
}
