// Package di provides dependency injection configuration for the core.
package di

import (
	"github.com/samber/do/v2"

	"github.com/catability/menu-rouletti/internal/auth"
	"github.com/catability/menu-rouletti/internal/config"
	"github.com/catability/menu-rouletti/internal/di/providers"
	"github.com/catability/menu-rouletti/internal/logger"
	"github.com/catability/menu-rouletti/internal/menus"
	"github.com/catability/menu-rouletti/internal/registry"
	"github.com/catability/menu-rouletti/internal/roulette"
	"github.com/catability/menu-rouletti/internal/tags"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideValidator)
	do.Provide(injector, providers.ProvideAuthProvider)

	// Store layer
	do.Provide(injector, providers.ProvideGateway)

	// Domain components
	do.Provide(injector, providers.ProvideRegistry)
	do.Provide(injector, providers.ProvideTagStore)
	do.Provide(injector, providers.ProvideMenuIndex)
	do.Provide(injector, providers.ProvideRouletteEngine)

	return injector
}

// Bootstrap triggers lazy initialization of every core component, so
// misconfiguration surfaces at startup rather than on first use.
func Bootstrap(injector *do.RootScope) error {
	if _, err := do.Invoke[*config.Config](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*logger.Logger](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*auth.StaticProvider](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*providers.GatewayHandle](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*registry.Registry](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*tags.Store](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*menus.Index](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*roulette.Engine](injector); err != nil {
		return err
	}
	return nil
}
