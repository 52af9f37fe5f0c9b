// Package di provides dependency injection configuration for the book-club server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/bookclubapp/bookclub-server/internal/auth"
	"github.com/bookclubapp/bookclub-server/internal/config"
	"github.com/bookclubapp/bookclub-server/internal/di/providers"
	"github.com/bookclubapp/bookclub-server/internal/graph"
	"github.com/bookclubapp/bookclub-server/internal/logger"
	"github.com/bookclubapp/bookclub-server/internal/media/images"
	"github.com/bookclubapp/bookclub-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideAuthKey)

	// Database layer
	do.Provide(injector, providers.ProvideStore)

	// Storage layer
	do.Provide(injector, providers.ProvideImageStorage)
	do.Provide(injector, providers.ProvideImageProcessor)
	do.Provide(injector, providers.ProvideGraph)

	// Auth layer
	do.Provide(injector, providers.ProvideTokenService)

	// Business services
	do.Provide(injector, providers.ProvideAuthService)
	do.Provide(injector, providers.ProvideGroupService)
	do.Provide(injector, providers.ProvideCategoryService)
	do.Provide(injector, providers.ProvideBookService)
	do.Provide(injector, providers.ProvideOpinionService)
	do.Provide(injector, providers.ProvideImageService)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services in dependency order. Provider failures are
// returned instead of panicking so main can report them.
func Bootstrap(injector *do.RootScope) error {
	steps := []func(do.Injector) error{
		touch[*config.Config],
		touch[*logger.Logger],
		touch[providers.AuthKey],
		touch[*providers.StoreHandle],
		touch[*providers.ImageStorage],
		touch[*images.Processor],
		touch[*graph.Graph],
		touch[*auth.TokenService],

		// Business services
		touch[*service.AuthService],
		touch[*service.GroupService],
		touch[*service.CategoryService],
		touch[*service.BookService],
		touch[*service.OpinionService],
		touch[*service.ImageService],

		// Server
		touch[*providers.HTTPServerHandle],
	}

	for _, step := range steps {
		if err := step(injector); err != nil {
			return err
		}
	}
	return nil
}

// touch resolves a service so its provider runs.
func touch[T any](i do.Injector) error {
	_, err := do.Invoke[T](i)
	return err
}
