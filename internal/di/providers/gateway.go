package providers

import (
	"context"
	"fmt"
	"time"

	"github.com/samber/do/v2"

	"github.com/catability/menu-rouletti/internal/config"
	"github.com/catability/menu-rouletti/internal/logger"
	"github.com/catability/menu-rouletti/internal/store"
	"github.com/catability/menu-rouletti/internal/store/badgerstore"
	"github.com/catability/menu-rouletti/internal/store/memstore"
	"github.com/catability/menu-rouletti/internal/store/surreal"
)

const connectTimeout = 10 * time.Second

// GatewayHandle wraps the document store gateway with shutdown capability.
type GatewayHandle struct {
	store.Gateway
}

// Shutdown implements do.Shutdowner.
func (h *GatewayHandle) Shutdown() error {
	return h.Close()
}

// ProvideGateway provides the document store gateway selected by the
// configured backend.
func ProvideGateway(i do.Injector) (*GatewayHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	switch cfg.Store.Backend {
	case config.BackendMemory:
		log.Info("using in-memory store")
		return &GatewayHandle{Gateway: memstore.New()}, nil

	case config.BackendBadger:
		gw, err := badgerstore.New(cfg.Store.BadgerPath, log.Logger)
		if err != nil {
			return nil, fmt.Errorf("open badger store: %w", err)
		}
		log.Info("using badger store", "path", cfg.Store.BadgerPath)
		return &GatewayHandle{Gateway: gw}, nil

	case config.BackendSurreal:
		gw := surreal.New(surreal.Config{
			Host:      cfg.Surreal.Host,
			Port:      cfg.Surreal.Port,
			User:      cfg.Surreal.User,
			Password:  cfg.Surreal.Password,
			Namespace: cfg.Surreal.Namespace,
			Database:  cfg.Surreal.Database,
		}, log.Logger)

		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()
		if err := gw.Connect(ctx); err != nil {
			return nil, fmt.Errorf("connect to surrealdb: %w", err)
		}
		log.Info("using surrealdb store", "host", cfg.Surreal.Host, "namespace", cfg.Surreal.Namespace)
		return &GatewayHandle{Gateway: gw}, nil

	default:
		return nil, fmt.Errorf("unknown store backend: %s", cfg.Store.Backend)
	}
}
