// Package handlers exposes the storefront services over HTTP.
package handlers

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/frostmart/storefront-service/internal/assistant"
	"github.com/frostmart/storefront-service/internal/auth"
	"github.com/frostmart/storefront-service/internal/cart"
	"github.com/frostmart/storefront-service/internal/catalog"
	"github.com/frostmart/storefront-service/internal/settings"
	"github.com/frostmart/storefront-service/internal/translation"
)

// StatusChecker is implemented by stores that can report backend
// connectivity (the Postgres store). The local store has nothing to
// check.
type StatusChecker interface {
	Status(ctx context.Context) error
}

// Handlers holds the service dependencies shared by all routes.
type Handlers struct {
	Catalog     *catalog.Service
	Translation *translation.Service
	Cart        *cart.Service
	Assistant   *assistant.Service
	Auth        *auth.Service
	Settings    *settings.Service
	Status      StatusChecker
	Logger      zerolog.Logger
}
