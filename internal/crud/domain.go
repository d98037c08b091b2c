// Package crud implements the list/create/read/update/delete/stats surface
// shared by every business resource.
package crud

import (
	"context"

	"github.com/tillpoint/tillpoint/internal/platform/httpx"
	"github.com/tillpoint/tillpoint/internal/shared"
)

// Entity is a persisted record with a numeric identifier.
type Entity interface {
	EntityID() int64
}

// Input is a create/update payload. Struct tags are checked first; Record
// then performs cross-field checks and builds the record to persist.
type Input[T any] interface {
	Record() (T, error)
}

// Normalizer is implemented by inputs that clean themselves up (trimming,
// case folding) before their struct tags are checked.
type Normalizer[I any] interface {
	Normalize() I
}

// Repository persists one resource collection.
type Repository[T any] interface {
	List(ctx context.Context, filters httpx.ListFilters) ([]T, int, error)
	Get(ctx context.Context, id int64) (T, error)
	Create(ctx context.Context, rec T) (T, error)
	Update(ctx context.Context, id int64, rec T) (T, error)
	Delete(ctx context.Context, id int64) error
	CountByStatus(ctx context.Context) (map[string]int, int, error)
}

// Auditor records mutations.
type Auditor interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Idempotency guards create requests carrying an Idempotency-Key header.
type Idempotency interface {
	CheckAndInsert(ctx context.Context, key, module string) error
	Delete(ctx context.Context, key, module string) error
}

// StatsCache memoizes stats payloads per namespace.
type StatsCache interface {
	FetchJSON(ctx context.Context, namespace, key string, dest any, loader func(context.Context) (any, error)) error
	Bump(ctx context.Context, namespace string) error
}

// Stats summarizes a collection by status.
type Stats struct {
	Total    int            `json:"total"`
	ByStatus map[string]int `json:"by_status"`
}
