package port

import "context"

// DraftStore is a key-value slot holding serialized wizard drafts.
// Load returns domain.ErrDraftNotFound when the slot is empty.
type DraftStore interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
}
