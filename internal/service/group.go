package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/bookclubapp/bookclub-server/internal/domain"
	domainerrors "github.com/bookclubapp/bookclub-server/internal/errors"
	"github.com/bookclubapp/bookclub-server/internal/graph"
	"github.com/bookclubapp/bookclub-server/internal/id"
	"github.com/bookclubapp/bookclub-server/internal/slug"
	"github.com/bookclubapp/bookclub-server/internal/store"
)

// GroupService manages book groups and their members.
type GroupService struct {
	store  store.Store
	graph  *graph.Graph
	logger *slog.Logger
}

// NewGroupService creates a new group service.
func NewGroupService(store store.Store, graph *graph.Graph, logger *slog.Logger) *GroupService {
	return &GroupService{
		store:  store,
		graph:  graph,
		logger: logger,
	}
}

// GroupRequest carries the editable fields of a group. Field order is validation precedence.
type GroupRequest struct {
	Name string `json:"name" validate:"notblank,max=100"`
	Slug string `json:"slug" validate:"slug"`
}

// AddMemberRequest identifies the user to add by email.
type AddMemberRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// Create creates a group administered by userID, who becomes its first member.
func (s *GroupService) Create(ctx context.Context, userID string, req GroupRequest) (*domain.BookGroup, error) {
	if userID == "" {
		return nil, domainerrors.Unauthorized("authentication required")
	}
	if err := validate.ValidateFirst(req); err != nil {
		return nil, err
	}
	key, err := slug.Normalize("slug", req.Slug)
	if err != nil {
		return nil, err
	}

	groupID, err := id.Generate(id.Group)
	if err != nil {
		return nil, fmt.Errorf("generate group ID: %w", err)
	}

	group := &domain.BookGroup{
		ID:        groupID,
		Slug:      key,
		Name:      strings.TrimSpace(req.Name),
		CreatorID: userID,
	}
	group.InitTimestamps()

	err = s.store.WithTx(ctx, func(q store.Queries) error {
		if err := q.CreateGroup(ctx, group); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return domainerrors.DuplicateKeyf("slug", "group slug %q is already taken", key)
			}
			return fmt.Errorf("create group: %w", err)
		}
		return q.AddMember(ctx, &domain.Membership{
			GroupID:  group.ID,
			UserID:   userID,
			JoinedAt: group.CreatedAt,
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("group created",
		"group_id", group.ID,
		"slug", group.Slug,
		"creator_id", userID,
	)
	return group, nil
}

// Get returns a group the user belongs to.
func (s *GroupService) Get(ctx context.Context, userID, groupSlug string) (*domain.BookGroup, error) {
	return groupForMember(ctx, s.store, userID, groupSlug)
}

// List returns the groups userID belongs to, oldest first.
func (s *GroupService) List(ctx context.Context, userID string) ([]*domain.BookGroup, error) {
	if userID == "" {
		return nil, domainerrors.Unauthorized("authentication required")
	}
	groups, err := s.store.ListGroupsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	return groups, nil
}

// Update renames a group. previousSlug addresses the group as it is now.
func (s *GroupService) Update(ctx context.Context, userID, previousSlug string, req GroupRequest) (*domain.BookGroup, error) {
	if err := validate.ValidateFirst(req); err != nil {
		return nil, err
	}
	key, err := slug.Normalize("slug", req.Slug)
	if err != nil {
		return nil, err
	}
	if _, err := groupForAdmin(ctx, s.store, userID, previousSlug); err != nil {
		return nil, err
	}

	return s.graph.UpdateGroup(ctx, previousSlug, graph.GroupChanges{
		Name: strings.TrimSpace(req.Name),
		Slug: key,
	})
}

// Delete removes a group with everything it owns.
func (s *GroupService) Delete(ctx context.Context, userID, groupSlug string) (*graph.DeleteResult, error) {
	group, err := groupForAdmin(ctx, s.store, userID, groupSlug)
	if err != nil {
		return nil, err
	}
	return s.graph.DeleteGroup(ctx, group.ID)
}

// Members lists the members of a group the user belongs to.
func (s *GroupService) Members(ctx context.Context, userID, groupSlug string) ([]*domain.Member, error) {
	group, err := groupForMember(ctx, s.store, userID, groupSlug)
	if err != nil {
		return nil, err
	}
	members, err := s.store.ListMembers(ctx, group.ID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	return members, nil
}

// AddMember adds the user registered under req.Email to the group.
func (s *GroupService) AddMember(ctx context.Context, userID, groupSlug string, req AddMemberRequest) (*domain.Member, error) {
	if err := validate.ValidateFirst(req); err != nil {
		return nil, err
	}
	group, err := groupForAdmin(ctx, s.store, userID, groupSlug)
	if err != nil {
		return nil, err
	}

	user, err := s.store.GetUserByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.ValidationField("email", "does not belong to a registered user")
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	m := &domain.Membership{
		GroupID:  group.ID,
		UserID:   user.ID,
		JoinedAt: time.Now(),
	}
	if err := s.store.AddMember(ctx, m); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.DuplicateKeyf("email", "%s is already a member", user.Email)
		}
		return nil, fmt.Errorf("add member: %w", err)
	}

	s.logger.Info("member added",
		"group_id", group.ID,
		"user_id", user.ID,
	)

	return &domain.Member{
		UserID:   user.ID,
		Email:    user.Email,
		Name:     user.Name,
		IsAdmin:  domain.IsGroupAdmin(group, user.ID),
		JoinedAt: m.JoinedAt,
	}, nil
}

// RemoveMember removes memberID from the group. The admin cannot be removed.
func (s *GroupService) RemoveMember(ctx context.Context, userID, groupSlug, memberID string) error {
	group, err := groupForAdmin(ctx, s.store, userID, groupSlug)
	if err != nil {
		return err
	}
	if domain.IsGroupAdmin(group, memberID) {
		return domainerrors.Conflict("the group creator cannot leave the group")
	}

	if err := s.store.RemoveMember(ctx, group.ID, memberID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("member not found")
		}
		return fmt.Errorf("remove member: %w", err)
	}

	s.logger.Info("member removed",
		"group_id", group.ID,
		"user_id", memberID,
	)
	return nil
}
