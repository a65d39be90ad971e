// Package kvstore provides the opaque key-value store backing all
// persisted client state (cart snapshots, settings, user registry,
// caches). Values are JSON text blobs; the store itself does not
// interpret them.
package kvstore

import "context"

// Well-known keys for persisted state.
const (
	KeyCart                = "cart"
	KeyTheme               = "theme"
	KeyTranslationsEnabled = "translations_enabled"
	KeyRegisteredUsers     = "registered_users"
	KeyCurrentUser         = "current_user"
	KeyCatalogCache        = "catalog_cache"
	KeyTranslationCache    = "translation_cache"
)

// Store is the key-value contract. Get reports found=false for a
// missing key rather than an error.
type Store interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}
