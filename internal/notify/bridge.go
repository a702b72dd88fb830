// Package notify registers the device for push notifications once per process.
package notify

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"sync"

	"procurement/internal/logger"
	"procurement/internal/session"

	"github.com/google/uuid"
)

var (
	ErrOffline           = errors.New("device is offline")
	ErrPermissionDenied  = errors.New("notification permission not granted")
	ErrAlreadyRegistered = errors.New("notifications already registered")
)

type Connectivity interface {
	Online(ctx context.Context) bool
}

type Permissions interface {
	Granted() bool
}

type Registrar interface {
	Register(ctx context.Context, deviceId, platform string) error
}

// Bridge owns the process-wide registration state. Init registers at most once;
// a run blocked by a missing precondition or a failed request can be retried.
type Bridge struct {
	mu           sync.Mutex
	registered   bool
	connectivity Connectivity
	permissions  Permissions
	registrar    Registrar
	store        session.Store
	log          *logger.Logger
}

func NewBridge(c Connectivity, p Permissions, r Registrar, store session.Store, log *logger.Logger) *Bridge {
	if log == nil {
		log = logger.Discard()
	}
	return &Bridge{
		connectivity: c,
		permissions:  p,
		registrar:    r,
		store:        store,
		log:          log,
	}
}

func (b *Bridge) Registered() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.registered
}

func (b *Bridge) Init(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.registered {
		return ErrAlreadyRegistered
	}
	if !b.connectivity.Online(ctx) {
		return ErrOffline
	}
	if !b.permissions.Granted() {
		return ErrPermissionDenied
	}

	deviceId, err := b.deviceId(ctx)
	if err != nil {
		return fmt.Errorf("notify.Bridge.Init: %w", err)
	}

	err = b.registrar.Register(ctx, deviceId, runtime.GOOS)
	if err != nil {
		return fmt.Errorf("notify.Bridge.Init: %w", err)
	}

	b.registered = true
	b.log.Infof("push notifications registered for device %s", deviceId)
	return nil
}

// deviceId returns the stored device id, generating one on first use.
func (b *Bridge) deviceId(ctx context.Context) (string, error) {
	id, ok, err := b.store.Get(ctx, session.KeyDeviceId)
	if err != nil {
		return "", err
	}
	if ok && len(id) > 0 {
		return id, nil
	}

	id = uuid.NewString()
	if err = b.store.Set(ctx, session.KeyDeviceId, id); err != nil {
		return "", err
	}
	return id, nil
}

// StaticPermission is a permission answer fixed by configuration.
type StaticPermission bool

func (p StaticPermission) Granted() bool {
	return bool(p)
}

func ParsePermission(s string) StaticPermission {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "granted", "true", "yes":
		return true
	default:
		return false
	}
}

type ConnectivityFunc func(ctx context.Context) bool

func (f ConnectivityFunc) Online(ctx context.Context) bool {
	return f(ctx)
}

type RegistrarFunc func(ctx context.Context, deviceId, platform string) error

func (f RegistrarFunc) Register(ctx context.Context, deviceId, platform string) error {
	return f(ctx, deviceId, platform)
}
