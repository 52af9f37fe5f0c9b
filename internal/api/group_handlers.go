package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/bookclubapp/bookclub-server/internal/domain"
	"github.com/bookclubapp/bookclub-server/internal/graph"
	"github.com/bookclubapp/bookclub-server/internal/service"
)

func (s *Server) registerGroupRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listGroups",
		Method:      http.MethodGet,
		Path:        "/api/v1/groups",
		Summary:     "List groups",
		Description: "Returns the groups the authenticated user belongs to",
		Tags:        []string{"Groups"},
		Security:    bearer,
	}, s.handleListGroups)

	huma.Register(s.api, huma.Operation{
		OperationID:      "createGroup",
		Method:           http.MethodPost,
		Path:             "/api/v1/groups",
		Summary:          "Create group",
		Description:      "Creates a group administered by the authenticated user",
		Tags:             []string{"Groups"},
		Security:         bearer,
		DefaultStatus:    http.StatusCreated,
		SkipValidateBody: true,
	}, s.handleCreateGroup)

	huma.Register(s.api, huma.Operation{
		OperationID: "getGroup",
		Method:      http.MethodGet,
		Path:        "/api/v1/groups/{group}",
		Summary:     "Get group",
		Description: "Returns a group the authenticated user belongs to",
		Tags:        []string{"Groups"},
		Security:    bearer,
	}, s.handleGetGroup)

	huma.Register(s.api, huma.Operation{
		OperationID:      "updateGroup",
		Method:           http.MethodPatch,
		Path:             "/api/v1/groups/{group}",
		Summary:          "Update group",
		Description:      "Renames a group or changes its slug (admin only)",
		Tags:             []string{"Groups"},
		Security:         bearer,
		SkipValidateBody: true,
	}, s.handleUpdateGroup)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteGroup",
		Method:      http.MethodDelete,
		Path:        "/api/v1/groups/{group}",
		Summary:     "Delete group",
		Description: "Deletes a group with its categories, books, opinions, memberships and own images (admin only)",
		Tags:        []string{"Groups"},
		Security:    bearer,
	}, s.handleDeleteGroup)
}

func (s *Server) registerMemberRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listMembers",
		Method:      http.MethodGet,
		Path:        "/api/v1/groups/{group}/members",
		Summary:     "List members",
		Description: "Returns the group's members with their admin flag",
		Tags:        []string{"Members"},
		Security:    bearer,
	}, s.handleListMembers)

	huma.Register(s.api, huma.Operation{
		OperationID:      "addMember",
		Method:           http.MethodPost,
		Path:             "/api/v1/groups/{group}/members",
		Summary:          "Add member",
		Description:      "Adds an existing user to the group by email (admin only)",
		Tags:             []string{"Members"},
		Security:         bearer,
		DefaultStatus:    http.StatusCreated,
		SkipValidateBody: true,
	}, s.handleAddMember)

	huma.Register(s.api, huma.Operation{
		OperationID:   "removeMember",
		Method:        http.MethodDelete,
		Path:          "/api/v1/groups/{group}/members/{userID}",
		Summary:       "Remove member",
		Description:   "Removes a member from the group (admin only). The creator cannot be removed.",
		Tags:          []string{"Members"},
		Security:      bearer,
		DefaultStatus: http.StatusNoContent,
	}, s.handleRemoveMember)
}

// GroupPath identifies a group by slug.
type GroupPath struct {
	Group string `path:"group" doc:"Group slug"`
}

// CreateGroupInput wraps the create group request for Huma.
type CreateGroupInput struct {
	Body service.GroupRequest
}

// UpdateGroupInput wraps the update group request for Huma.
type UpdateGroupInput struct {
	GroupPath
	Body service.GroupRequest
}

// AddMemberInput wraps the add member request for Huma.
type AddMemberInput struct {
	GroupPath
	Body service.AddMemberRequest
}

// RemoveMemberInput identifies the membership to remove.
type RemoveMemberInput struct {
	GroupPath
	UserID string `path:"userID" doc:"User ID"`
}

// GroupOutput wraps a group for Huma.
type GroupOutput struct {
	Body *domain.BookGroup
}

// GroupListOutput wraps a group list for Huma.
type GroupListOutput struct {
	Body []*domain.BookGroup
}

// MemberOutput wraps a member for Huma.
type MemberOutput struct {
	Body *domain.Member
}

// MemberListOutput wraps a member list for Huma.
type MemberListOutput struct {
	Body []*domain.Member
}

// DeleteOutput reports how many rows a cascading delete removed.
type DeleteOutput struct {
	Body *graph.DeleteResult
}

func (s *Server) handleListGroups(ctx context.Context, _ *struct{}) (*GroupListOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	groups, err := s.services.Group.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &GroupListOutput{Body: groups}, nil
}

func (s *Server) handleCreateGroup(ctx context.Context, input *CreateGroupInput) (*GroupOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	group, err := s.services.Group.Create(ctx, userID, input.Body)
	if err != nil {
		return nil, err
	}
	return &GroupOutput{Body: group}, nil
}

func (s *Server) handleGetGroup(ctx context.Context, input *GroupPath) (*GroupOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	group, err := s.services.Group.Get(ctx, userID, input.Group)
	if err != nil {
		return nil, err
	}
	return &GroupOutput{Body: group}, nil
}

func (s *Server) handleUpdateGroup(ctx context.Context, input *UpdateGroupInput) (*GroupOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	group, err := s.services.Group.Update(ctx, userID, input.Group, input.Body)
	if err != nil {
		return nil, err
	}
	return &GroupOutput{Body: group}, nil
}

func (s *Server) handleDeleteGroup(ctx context.Context, input *GroupPath) (*DeleteOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	result, err := s.services.Group.Delete(ctx, userID, input.Group)
	if err != nil {
		return nil, err
	}
	return &DeleteOutput{Body: result}, nil
}

func (s *Server) handleListMembers(ctx context.Context, input *GroupPath) (*MemberListOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	members, err := s.services.Group.Members(ctx, userID, input.Group)
	if err != nil {
		return nil, err
	}
	return &MemberListOutput{Body: members}, nil
}

func (s *Server) handleAddMember(ctx context.Context, input *AddMemberInput) (*MemberOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	member, err := s.services.Group.AddMember(ctx, userID, input.Group, input.Body)
	if err != nil {
		return nil, err
	}
	return &MemberOutput{Body: member}, nil
}

func (s *Server) handleRemoveMember(ctx context.Context, input *RemoveMemberInput) (*struct{}, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Group.RemoveMember(ctx, userID, input.Group, input.UserID); err != nil {
		return nil, err
	}
	return nil, nil
}
