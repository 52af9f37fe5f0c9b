package api

import (
	"context"
	"encoding/json"
	"mime"
	"net/http"
	"strconv"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"

	"github.com/bookclubapp/bookclub-server/internal/domain"
	domainerrors "github.com/bookclubapp/bookclub-server/internal/errors"
	"github.com/bookclubapp/bookclub-server/internal/http/response"
	"github.com/bookclubapp/bookclub-server/internal/logger"
	"github.com/bookclubapp/bookclub-server/internal/media/images"
	"github.com/bookclubapp/bookclub-server/internal/service"
)

func (s *Server) registerImageRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listImages",
		Method:      http.MethodGet,
		Path:        "/api/v1/groups/{group}/images",
		Summary:     "List images",
		Description: "Returns the images the group's categories may use: the shared pool and the group's uploads",
		Tags:        []string{"Images"},
		Security:    bearer,
	}, s.handleListImages)

	upload := huma.Operation{
		OperationID: "uploadImage",
		Method:      http.MethodPost,
		Path:        "/api/v1/groups/{group}/images",
		Summary:     "Upload image",
		Description: "Adds an image to the group's pool (admin only). Send the raw image bytes, " +
			`or JSON {"data_url": "data:image/png;base64,...", "alt_text": "..."}.`,
		Tags:          []string{"Images"},
		Security:      bearer,
		DefaultStatus: http.StatusCreated,
	}
	if s.opts.MaxUploadBytes > 0 {
		// Room for base64 expansion of the largest accepted image.
		upload.MaxBodyBytes = s.opts.MaxUploadBytes*4/3 + 4096
	}
	huma.Register(s.api, upload, s.handleUploadImage)

	huma.Register(s.api, huma.Operation{
		OperationID:   "deleteImage",
		Method:        http.MethodDelete,
		Path:          "/api/v1/groups/{group}/images/{imageID}",
		Summary:       "Delete image",
		Description:   "Deletes one of the group's images. Images used by a category cannot be deleted (admin only).",
		Tags:          []string{"Images"},
		Security:      bearer,
		DefaultStatus: http.StatusNoContent,
	}, s.handleDeleteImage)
}

// UploadImageInput carries an image upload. The body is read raw so both image
// bytes and the JSON data URL form can be accepted.
type UploadImageInput struct {
	GroupPath
	ContentType string `header:"Content-Type"`
	AltText     string `query:"alt_text" doc:"Alternative text for raw uploads"`
	RawBody     []byte
}

// DeleteImageInput identifies the image to delete.
type DeleteImageInput struct {
	GroupPath
	ImageID string `path:"imageID" doc:"Image ID"`
}

// ImageOutput wraps an image for Huma.
type ImageOutput struct {
	Body *domain.Image
}

// ImageListOutput wraps an image list for Huma.
type ImageListOutput struct {
	Body []*domain.Image
}

func (s *Server) handleListImages(ctx context.Context, input *GroupPath) (*ImageListOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	imgs, err := s.services.Image.List(ctx, userID, input.Group)
	if err != nil {
		return nil, err
	}
	return &ImageListOutput{Body: imgs}, nil
}

func (s *Server) handleUploadImage(ctx context.Context, input *UploadImageInput) (*ImageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	req, err := uploadRequest(input)
	if err != nil {
		return nil, err
	}

	img, err := s.services.Image.Upload(ctx, userID, input.Group, req)
	if err != nil {
		return nil, err
	}
	return &ImageOutput{Body: img}, nil
}

// uploadRequest decodes the raw upload body according to its content type.
func uploadRequest(input *UploadImageInput) (service.UploadRequest, error) {
	req := service.UploadRequest{AltText: input.AltText}

	mediaType, _, _ := mime.ParseMediaType(input.ContentType)
	if mediaType != "application/json" {
		req.Data = input.RawBody
		return req, nil
	}

	if err := json.Unmarshal(input.RawBody, &req); err != nil {
		return req, domainerrors.ValidationField("data_url", "is not valid JSON")
	}
	if req.AltText == "" {
		req.AltText = input.AltText
	}
	if req.DataURL == "" {
		return req, domainerrors.ValidationField("data_url", "is required")
	}
	return req, nil
}

func (s *Server) handleDeleteImage(ctx context.Context, input *DeleteImageInput) (*struct{}, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Image.Delete(ctx, userID, input.Group, input.ImageID); err != nil {
		return nil, err
	}
	return nil, nil
}

// handleCategoryImage serves image bytes. Image IDs never change and their bytes
// are never rewritten, so responses are cacheable forever.
func (s *Server) handleCategoryImage(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context(), s.logger)

	img, data, err := s.services.Image.Open(r.Context(), chi.URLParam(r, "imageID"))
	if err != nil {
		response.HandleError(w, err, log)
		return
	}

	etag := images.ETag(data)
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")

	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", img.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	if _, err := w.Write(data); err != nil {
		log.Debug("Image write aborted", "image_id", img.ID, "error", err)
	}
}
