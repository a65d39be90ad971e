// Package settings persists the shopper's preferences: the selected
// theme and whether catalog translation is enabled.
package settings

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/frostmart/storefront-service/internal/kvstore"
)

// Themes the storefront ships with.
const (
	ThemeLight  = "light"
	ThemeDark   = "dark"
	ThemeSystem = "system"
)

// DefaultTheme applies when nothing has been persisted yet.
const DefaultTheme = ThemeSystem

// Service reads and writes preferences. Writes are best-effort, like
// every other preference store in the app.
type Service struct {
	store  kvstore.Store
	logger zerolog.Logger
}

// NewService creates a settings service.
func NewService(store kvstore.Store, logger zerolog.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger.With().Str("component", "settings").Logger(),
	}
}

// Theme returns the persisted theme, or the default.
func (s *Service) Theme(ctx context.Context) string {
	value, found, err := s.store.Get(ctx, kvstore.KeyTheme)
	if err != nil || !found {
		return DefaultTheme
	}
	switch value {
	case ThemeLight, ThemeDark, ThemeSystem:
		return value
	}
	return DefaultTheme
}

// SetTheme persists the theme. Unknown values are rejected silently
// in favor of the current value.
func (s *Service) SetTheme(ctx context.Context, theme string) {
	switch theme {
	case ThemeLight, ThemeDark, ThemeSystem:
	default:
		s.logger.Warn().Str("theme", theme).Msg("Ignoring unknown theme")
		return
	}
	if err := s.store.Set(ctx, kvstore.KeyTheme, theme); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to persist theme")
	}
}

// TranslationsEnabled reports whether catalog translation is on.
// Defaults to false.
func (s *Service) TranslationsEnabled(ctx context.Context) bool {
	value, found, err := s.store.Get(ctx, kvstore.KeyTranslationsEnabled)
	if err != nil || !found {
		return false
	}
	return value == "true"
}

// SetTranslationsEnabled persists the translation toggle.
func (s *Service) SetTranslationsEnabled(ctx context.Context, enabled bool) {
	value := "false"
	if enabled {
		value = "true"
	}
	if err := s.store.Set(ctx, kvstore.KeyTranslationsEnabled, value); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to persist translation toggle")
	}
}
