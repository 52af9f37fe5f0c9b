package providers

import (
	"github.com/samber/do/v2"

	"github.com/bookclubapp/bookclub-server/internal/auth"
	"github.com/bookclubapp/bookclub-server/internal/graph"
	"github.com/bookclubapp/bookclub-server/internal/logger"
	"github.com/bookclubapp/bookclub-server/internal/media/images"
	"github.com/bookclubapp/bookclub-server/internal/service"
)

// ProvideAuthService provides the authentication service.
func ProvideAuthService(i do.Injector) (*service.AuthService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokenService := do.MustInvoke[*auth.TokenService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAuthService(storeHandle.Store, tokenService, log.Logger), nil
}

// ProvideGroupService provides the group and membership service.
func ProvideGroupService(i do.Injector) (*service.GroupService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	g := do.MustInvoke[*graph.Graph](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewGroupService(storeHandle.Store, g, log.Logger), nil
}

// ProvideCategoryService provides the category service.
func ProvideCategoryService(i do.Injector) (*service.CategoryService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	g := do.MustInvoke[*graph.Graph](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewCategoryService(storeHandle.Store, g, log.Logger), nil
}

// ProvideBookService provides the book service.
func ProvideBookService(i do.Injector) (*service.BookService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	g := do.MustInvoke[*graph.Graph](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewBookService(storeHandle.Store, g, log.Logger), nil
}

// ProvideOpinionService provides the opinion service.
func ProvideOpinionService(i do.Injector) (*service.OpinionService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewOpinionService(storeHandle.Store, log.Logger), nil
}

// ProvideImageService provides the image pool service.
func ProvideImageService(i do.Injector) (*service.ImageService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	g := do.MustInvoke[*graph.Graph](i)
	blobs := do.MustInvoke[*ImageStorage](i)
	processor := do.MustInvoke[*images.Processor](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewImageService(storeHandle.Store, g, blobs.Storage, processor, log.Logger), nil
}
