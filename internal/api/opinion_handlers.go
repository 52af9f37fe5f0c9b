package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/bookclubapp/bookclub-server/internal/domain"
	"github.com/bookclubapp/bookclub-server/internal/service"
)

func (s *Server) registerOpinionRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listOpinions",
		Method:      http.MethodGet,
		Path:        bookPath + "/opinions",
		Summary:     "List opinions",
		Description: "Returns the opinions of the category's book in the order they were given",
		Tags:        []string{"Opinions"},
		Security:    bearer,
	}, s.handleListOpinions)

	huma.Register(s.api, huma.Operation{
		OperationID:      "addOpinion",
		Method:           http.MethodPost,
		Path:             bookPath + "/opinions",
		Summary:          "Add opinion",
		Description:      "Records the authenticated member's rating of the category's book",
		Tags:             []string{"Opinions"},
		Security:         bearer,
		DefaultStatus:    http.StatusCreated,
		SkipValidateBody: true,
	}, s.handleAddOpinion)
}

// OpinionBody is the client-supplied part of an opinion; the book comes from the path.
type OpinionBody struct {
	Rate        *int   `json:"rate" doc:"Rating from 0 to 10"`
	Description string `json:"description" doc:"What the member thought of the book"`
}

// AddOpinionInput wraps the add opinion request for Huma.
type AddOpinionInput struct {
	CategoryPath
	Body OpinionBody
}

// OpinionOutput wraps an opinion for Huma.
type OpinionOutput struct {
	Body *domain.OpinionView
}

// OpinionListOutput wraps an opinion list for Huma.
type OpinionListOutput struct {
	Body []*domain.OpinionView
}

func (s *Server) handleListOpinions(ctx context.Context, input *CategoryPath) (*OpinionListOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	opinions, err := s.services.Opinion.ListForBook(ctx, userID, input.Group, input.Category)
	if err != nil {
		return nil, err
	}
	return &OpinionListOutput{Body: opinions}, nil
}

func (s *Server) handleAddOpinion(ctx context.Context, input *AddOpinionInput) (*OpinionOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	book, err := s.services.Book.Get(ctx, userID, input.Group, input.Category)
	if err != nil {
		return nil, err
	}

	view, err := s.services.Opinion.Add(ctx, userID, input.Group, service.OpinionRequest{
		Rate:        input.Body.Rate,
		Description: input.Body.Description,
		BookID:      book.ID,
	})
	if err != nil {
		return nil, err
	}
	return &OpinionOutput{Body: view}, nil
}
