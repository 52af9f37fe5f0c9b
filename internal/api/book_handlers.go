package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/bookclubapp/bookclub-server/internal/domain"
	domainerrors "github.com/bookclubapp/bookclub-server/internal/errors"
	"github.com/bookclubapp/bookclub-server/internal/service"
)

const bookPath = "/api/v1/groups/{group}/categories/{category}/book"

func (s *Server) registerBookRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getBook",
		Method:      http.MethodGet,
		Path:        bookPath,
		Summary:     "Get book",
		Description: "Returns the book read in a category",
		Tags:        []string{"Books"},
		Security:    bearer,
	}, s.handleGetBook)

	huma.Register(s.api, huma.Operation{
		OperationID:      "createBook",
		Method:           http.MethodPost,
		Path:             bookPath,
		Summary:          "Create book",
		Description:      "Attaches a book to a category; its slug is derived from the title. A category holds one book.",
		Tags:             []string{"Books"},
		Security:         bearer,
		DefaultStatus:    http.StatusCreated,
		SkipValidateBody: true,
	}, s.handleCreateBook)

	huma.Register(s.api, huma.Operation{
		OperationID:      "updateBook",
		Method:           http.MethodPut,
		Path:             bookPath,
		Summary:          "Update book",
		Description:      "Replaces the category's book fields and re-derives its slug",
		Tags:             []string{"Books"},
		Security:         bearer,
		SkipValidateBody: true,
	}, s.handleUpdateBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteBook",
		Method:      http.MethodDelete,
		Path:        bookPath,
		Summary:     "Delete book",
		Description: "Deletes the category's book with its opinions (admin only)",
		Tags:        []string{"Books"},
		Security:    bearer,
	}, s.handleDeleteBook)
}

// BookInput wraps a book request for Huma.
type BookInput struct {
	CategoryPath
	Body BookBody
}

// BookBody is the wire form of service.BookRequest.
type BookBody struct {
	Title     string `json:"title"`
	Author    string `json:"author"`
	DateStart Date   `json:"date_start"`
	DateEnd   Date   `json:"date_end"`
}

// request checks the date formats and converts the body for the book service.
func (b BookBody) request() (service.BookRequest, error) {
	if b.DateStart.malformed {
		return service.BookRequest{}, domainerrors.ValidationField("date_start", dateFormatReason)
	}
	if b.DateEnd.malformed {
		return service.BookRequest{}, domainerrors.ValidationField("date_end", dateFormatReason)
	}
	return service.BookRequest{
		Title:     b.Title,
		Author:    b.Author,
		DateStart: b.DateStart.Time,
		DateEnd:   b.DateEnd.Time,
	}, nil
}

const dateFormatReason = "must be a date (2006-01-02) or an RFC 3339 timestamp"

// Date accepts a calendar date or an RFC 3339 timestamp. Calendar dates are midnight UTC.
// Anything else is remembered as malformed so the field can be named in the error.
type Date struct {
	time.Time
	malformed bool
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Date) UnmarshalJSON(data []byte) error {
	*d = Date{}
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		d.malformed = true
		return nil
	}
	if raw == "" {
		return nil
	}

	for _, layout := range []string{time.DateOnly, time.RFC3339Nano} {
		if t, err := time.Parse(layout, raw); err == nil {
			d.Time = t
			return nil
		}
	}
	d.malformed = true
	return nil
}

// Schema documents Date as a string for the OpenAPI spec.
func (Date) Schema(huma.Registry) *huma.Schema {
	return &huma.Schema{
		Type:        huma.TypeString,
		Description: "Calendar date (2006-01-02) or RFC 3339 timestamp",
		Examples:    []any{"2024-01-01"},
	}
}

// BookOutput wraps a book for Huma.
type BookOutput struct {
	Body *domain.Book
}

func (s *Server) handleGetBook(ctx context.Context, input *CategoryPath) (*BookOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	book, err := s.services.Book.Get(ctx, userID, input.Group, input.Category)
	if err != nil {
		return nil, err
	}
	return &BookOutput{Body: book}, nil
}

func (s *Server) handleCreateBook(ctx context.Context, input *BookInput) (*BookOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	req, err := input.Body.request()
	if err != nil {
		return nil, err
	}

	book, err := s.services.Book.Create(ctx, userID, input.Group, input.Category, req)
	if err != nil {
		return nil, err
	}
	return &BookOutput{Body: book}, nil
}

func (s *Server) handleUpdateBook(ctx context.Context, input *BookInput) (*BookOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	req, err := input.Body.request()
	if err != nil {
		return nil, err
	}

	book, err := s.services.Book.Update(ctx, userID, input.Group, input.Category, req)
	if err != nil {
		return nil, err
	}
	return &BookOutput{Body: book}, nil
}

func (s *Server) handleDeleteBook(ctx context.Context, input *CategoryPath) (*DeleteOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	result, err := s.services.Book.Delete(ctx, userID, input.Group, input.Category)
	if err != nil {
		return nil, err
	}
	return &DeleteOutput{Body: result}, nil
}
