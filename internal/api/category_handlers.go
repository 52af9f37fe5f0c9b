package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/bookclubapp/bookclub-server/internal/domain"
	"github.com/bookclubapp/bookclub-server/internal/service"
)

func (s *Server) registerCategoryRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listCategories",
		Method:      http.MethodGet,
		Path:        "/api/v1/groups/{group}/categories",
		Summary:     "List categories",
		Description: "Returns the group's categories",
		Tags:        []string{"Categories"},
		Security:    bearer,
	}, s.handleListCategories)

	huma.Register(s.api, huma.Operation{
		OperationID:      "createCategory",
		Method:           http.MethodPost,
		Path:             "/api/v1/groups/{group}/categories",
		Summary:          "Create category",
		Description:      "Adds a dormant category illustrated by an image from the group's pool (admin only)",
		Tags:             []string{"Categories"},
		Security:         bearer,
		DefaultStatus:    http.StatusCreated,
		SkipValidateBody: true,
	}, s.handleCreateCategory)

	// chi prefers the static segment, which is why "active" is a reserved category slug.
	huma.Register(s.api, huma.Operation{
		OperationID: "getActiveCategory",
		Method:      http.MethodGet,
		Path:        "/api/v1/groups/{group}/categories/active",
		Summary:     "Get active category",
		Description: "Returns the group's active category with its book and opinions",
		Tags:        []string{"Categories"},
		Security:    bearer,
	}, s.handleGetActiveCategory)

	huma.Register(s.api, huma.Operation{
		OperationID: "getCategory",
		Method:      http.MethodGet,
		Path:        "/api/v1/groups/{group}/categories/{category}",
		Summary:     "Get category",
		Description: "Returns a category with its state, book and opinions",
		Tags:        []string{"Categories"},
		Security:    bearer,
	}, s.handleGetCategory)

	huma.Register(s.api, huma.Operation{
		OperationID:      "updateCategory",
		Method:           http.MethodPatch,
		Path:             "/api/v1/groups/{group}/categories/{category}",
		Summary:          "Update category",
		Description:      "Renames a category, changes its slug or its image (admin only)",
		Tags:             []string{"Categories"},
		Security:         bearer,
		SkipValidateBody: true,
	}, s.handleUpdateCategory)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteCategory",
		Method:      http.MethodDelete,
		Path:        "/api/v1/groups/{group}/categories/{category}",
		Summary:     "Delete category",
		Description: "Deletes a category with its book and the book's opinions (admin only)",
		Tags:        []string{"Categories"},
		Security:    bearer,
	}, s.handleDeleteCategory)

	huma.Register(s.api, huma.Operation{
		OperationID: "activateCategory",
		Method:      http.MethodPost,
		Path:        "/api/v1/groups/{group}/categories/{category}/activate",
		Summary:     "Activate category",
		Description: "Makes the category active. Fails when another category is active (admin only).",
		Tags:        []string{"Categories"},
		Security:    bearer,
	}, s.handleActivateCategory)

	huma.Register(s.api, huma.Operation{
		OperationID: "deactivateCategory",
		Method:      http.MethodPost,
		Path:        "/api/v1/groups/{group}/categories/{category}/deactivate",
		Summary:     "Deactivate category",
		Description: "Ends the category's active period; it stays picked (admin only)",
		Tags:        []string{"Categories"},
		Security:    bearer,
	}, s.handleDeactivateCategory)

	huma.Register(s.api, huma.Operation{
		OperationID: "switchCategory",
		Method:      http.MethodPost,
		Path:        "/api/v1/groups/{group}/categories/{category}/switch",
		Summary:     "Switch active category",
		Description: "Deactivates the current category and activates this one atomically (admin only)",
		Tags:        []string{"Categories"},
		Security:    bearer,
	}, s.handleSwitchCategory)

	huma.Register(s.api, huma.Operation{
		OperationID: "drawCategory",
		Method:      http.MethodPost,
		Path:        "/api/v1/groups/{group}/draw",
		Summary:     "Draw category",
		Description: "Activates a random dormant category. Fails when a category is already active (admin only).",
		Tags:        []string{"Categories"},
		Security:    bearer,
	}, s.handleDrawCategory)
}

// CategoryPath identifies a category by group and category slug.
type CategoryPath struct {
	GroupPath
	Category string `path:"category" doc:"Category slug"`
}

// CreateCategoryInput wraps the create category request for Huma.
type CreateCategoryInput struct {
	GroupPath
	Body service.CategoryRequest
}

// UpdateCategoryInput wraps the update category request for Huma.
type UpdateCategoryInput struct {
	CategoryPath
	Body service.CategoryRequest
}

// CategoryOutput wraps a category for Huma.
type CategoryOutput struct {
	Body *domain.BookCategory
}

// CategoryListOutput wraps a category list for Huma.
type CategoryListOutput struct {
	Body []*domain.BookCategory
}

// CategoryDetailOutput wraps a category detail view for Huma.
type CategoryDetailOutput struct {
	Body *service.CategoryDetail
}

// SwitchOutput wraps a switch result for Huma.
type SwitchOutput struct {
	Body *service.SwitchResult
}

func (s *Server) handleListCategories(ctx context.Context, input *GroupPath) (*CategoryListOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	categories, err := s.services.Category.List(ctx, userID, input.Group)
	if err != nil {
		return nil, err
	}
	return &CategoryListOutput{Body: categories}, nil
}

func (s *Server) handleCreateCategory(ctx context.Context, input *CreateCategoryInput) (*CategoryOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	category, err := s.services.Category.Create(ctx, userID, input.Group, input.Body)
	if err != nil {
		return nil, err
	}
	return &CategoryOutput{Body: category}, nil
}

func (s *Server) handleGetActiveCategory(ctx context.Context, input *GroupPath) (*CategoryDetailOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	detail, err := s.services.Category.Active(ctx, userID, input.Group)
	if err != nil {
		return nil, err
	}
	return &CategoryDetailOutput{Body: detail}, nil
}

func (s *Server) handleGetCategory(ctx context.Context, input *CategoryPath) (*CategoryDetailOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	detail, err := s.services.Category.Get(ctx, userID, input.Group, input.Category)
	if err != nil {
		return nil, err
	}
	return &CategoryDetailOutput{Body: detail}, nil
}

func (s *Server) handleUpdateCategory(ctx context.Context, input *UpdateCategoryInput) (*CategoryOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	category, err := s.services.Category.Update(ctx, userID, input.Group, input.Category, input.Body)
	if err != nil {
		return nil, err
	}
	return &CategoryOutput{Body: category}, nil
}

func (s *Server) handleDeleteCategory(ctx context.Context, input *CategoryPath) (*DeleteOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	result, err := s.services.Category.Delete(ctx, userID, input.Group, input.Category)
	if err != nil {
		return nil, err
	}
	return &DeleteOutput{Body: result}, nil
}

func (s *Server) handleActivateCategory(ctx context.Context, input *CategoryPath) (*CategoryOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	category, err := s.services.Category.Activate(ctx, userID, input.Group, input.Category)
	if err != nil {
		return nil, err
	}
	return &CategoryOutput{Body: category}, nil
}

func (s *Server) handleDeactivateCategory(ctx context.Context, input *CategoryPath) (*CategoryOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	category, err := s.services.Category.Deactivate(ctx, userID, input.Group, input.Category)
	if err != nil {
		return nil, err
	}
	return &CategoryOutput{Body: category}, nil
}

func (s *Server) handleSwitchCategory(ctx context.Context, input *CategoryPath) (*SwitchOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	result, err := s.services.Category.Switch(ctx, userID, input.Group, input.Category)
	if err != nil {
		return nil, err
	}
	return &SwitchOutput{Body: result}, nil
}

func (s *Server) handleDrawCategory(ctx context.Context, input *GroupPath) (*CategoryOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	category, err := s.services.Category.Draw(ctx, userID, input.Group)
	if err != nil {
		return nil, err
	}
	return &CategoryOutput{Body: category}, nil
}
