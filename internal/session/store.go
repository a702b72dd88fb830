// Package session persists the authenticated identity of the device.
package session

import (
	"context"
	"fmt"

	"procurement/internal/models"
)

const (
	KeyToken    = "jwt-token"
	KeyUserId   = "user_id"
	KeyEmail    = "email"
	KeyDeviceId = "device_id"
)

// Store is a small key/value store. Every call returns once the value is durable.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// Save writes the identity returned by a login, token first.
func Save(ctx context.Context, store Store, user models.User) error {
	values := [][2]string{
		{KeyToken, user.Token},
		{KeyUserId, user.UserId.String()},
		{KeyEmail, user.Email},
	}
	for _, kv := range values {
		if err := store.Set(ctx, kv[0], kv[1]); err != nil {
			return fmt.Errorf("session.Save: %w", err)
		}
	}
	return nil
}

// Clear removes the identity fields. The device id survives a logout.
func Clear(ctx context.Context, store Store) error {
	for _, key := range []string{KeyToken, KeyUserId, KeyEmail} {
		if err := store.Remove(ctx, key); err != nil {
			return fmt.Errorf("session.Clear: %w", err)
		}
	}
	return nil
}

// Current loads the stored identity. ok is false when no token is stored.
func Current(ctx context.Context, store Store) (user models.User, ok bool, err error) {
	user.Token, ok, err = store.Get(ctx, KeyToken)
	if err != nil || !ok {
		return user, false, wrapErr("session.Current", err)
	}

	id, _, err := store.Get(ctx, KeyUserId)
	if err != nil {
		return user, false, wrapErr("session.Current", err)
	}
	user.UserId = models.ID(id)

	user.Email, _, err = store.Get(ctx, KeyEmail)
	if err != nil {
		return user, false, wrapErr("session.Current", err)
	}

	return user, true, nil
}

func wrapErr(where string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", where, err)
}
