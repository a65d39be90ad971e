package settings

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/frostmart/storefront-service/internal/kvstore"
)

func TestThemeDefaultsToSystem(t *testing.T) {
	svc := NewService(kvstore.NewMemory(), zerolog.Nop())
	assert.Equal(t, ThemeSystem, svc.Theme(context.Background()))
}

func TestSetTheme(t *testing.T) {
	svc := NewService(kvstore.NewMemory(), zerolog.Nop())
	ctx := context.Background()

	svc.SetTheme(ctx, ThemeDark)
	assert.Equal(t, ThemeDark, svc.Theme(ctx))

	// Unknown themes are ignored.
	svc.SetTheme(ctx, "neon")
	assert.Equal(t, ThemeDark, svc.Theme(ctx))
}

func TestTranslationsToggle(t *testing.T) {
	svc := NewService(kvstore.NewMemory(), zerolog.Nop())
	ctx := context.Background()

	assert.False(t, svc.TranslationsEnabled(ctx))

	svc.SetTranslationsEnabled(ctx, true)
	assert.True(t, svc.TranslationsEnabled(ctx))

	svc.SetTranslationsEnabled(ctx, false)
	assert.False(t, svc.TranslationsEnabled(ctx))
}
