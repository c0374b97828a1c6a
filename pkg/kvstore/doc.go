package kvstore

import (
	"context"
	"errors"

	pkgerrors "github.com/angelmondragon/dryfruit-backend/pkg/errors"
)

// Doc is a typed view over one snapshot key.
type Doc[T any] struct {
	store  Store
	locker Locker
	key    string
	seed   func() T
}

// NewDoc binds a key to a store. seed provides the value used before the first save.
func NewDoc[T any](store Store, locker Locker, key string, seed func() T) (*Doc[T], error) {
	if store == nil {
		return nil, errors.New("snapshot store is required")
	}
	if locker == nil {
		return nil, errors.New("snapshot locker is required")
	}
	if key == "" {
		return nil, errors.New("snapshot key is required")
	}
	if seed == nil {
		seed = func() T {
			var zero T
			return zero
		}
	}
	return &Doc[T]{store: store, locker: locker, key: key, seed: seed}, nil
}

func (d *Doc[T]) Key() string { return d.key }

// Get returns the stored value, or the seed when nothing was saved yet.
func (d *Doc[T]) Get(ctx context.Context) (T, error) {
	var value T
	found, err := d.store.Load(ctx, d.key, &value)
	if err != nil {
		var zero T
		return zero, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to load "+d.key)
	}
	if !found {
		return d.seed(), nil
	}
	return value, nil
}

// Update runs fn against the current value under the key's lock and saves the
// result. Nothing is saved when fn fails; its error is returned unchanged.
func (d *Doc[T]) Update(ctx context.Context, fn func(T) (T, error)) (T, error) {
	var zero T
	unlock, err := d.locker.Lock(ctx, d.key)
	if err != nil {
		return zero, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to lock "+d.key)
	}
	defer func() { _ = unlock(context.WithoutCancel(ctx)) }()

	current, err := d.Get(ctx)
	if err != nil {
		return zero, err
	}
	next, err := fn(current)
	if err != nil {
		return zero, err
	}
	if err := d.store.Save(ctx, d.key, next); err != nil {
		return zero, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to save "+d.key)
	}
	return next, nil
}

// Reset deletes the snapshot so the next Get returns the seed.
func (d *Doc[T]) Reset(ctx context.Context) error {
	if err := d.store.Delete(ctx, d.key); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to reset "+d.key)
	}
	return nil
}
