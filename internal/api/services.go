package api

import (
	"github.com/bookclubapp/bookclub-server/internal/service"
)

// Services groups all business logic services used by the API server.
// This reduces the parameter count for NewServer and improves testability.
type Services struct {
	Auth     *service.AuthService
	Group    *service.GroupService    // Groups and memberships
	Category *service.CategoryService // Categories and the activation state machine
	Book     *service.BookService
	Opinion  *service.OpinionService
	Image    *service.ImageService // Image pool and category image bytes
}
