package providers

import (
	"github.com/samber/do/v2"

	"github.com/catability/menu-rouletti/internal/auth"
	"github.com/catability/menu-rouletti/internal/logger"
	"github.com/catability/menu-rouletti/internal/menus"
	"github.com/catability/menu-rouletti/internal/registry"
	"github.com/catability/menu-rouletti/internal/roulette"
	"github.com/catability/menu-rouletti/internal/tags"
	"github.com/catability/menu-rouletti/internal/validation"
)

// ProvideAuthProvider provides the identity source. The embedding shell
// signs the user in and out on this provider after its own auth flow.
func ProvideAuthProvider(i do.Injector) (*auth.StaticProvider, error) {
	return auth.NewStaticProvider(), nil
}

// ProvideRegistry provides the shared shop catalog.
func ProvideRegistry(i do.Injector) (*registry.Registry, error) {
	gateway := do.MustInvoke[*GatewayHandle](i)
	log := do.MustInvoke[*logger.Logger](i)
	return registry.New(gateway, log.Logger), nil
}

// ProvideTagStore provides the per-user tag store.
func ProvideTagStore(i do.Injector) (*tags.Store, error) {
	gateway := do.MustInvoke[*GatewayHandle](i)
	provider := do.MustInvoke[*auth.StaticProvider](i)
	log := do.MustInvoke[*logger.Logger](i)
	return tags.New(gateway, provider, log.Logger), nil
}

// ProvideMenuIndex provides the menu entry index.
func ProvideMenuIndex(i do.Injector) (*menus.Index, error) {
	gateway := do.MustInvoke[*GatewayHandle](i)
	tagStore := do.MustInvoke[*tags.Store](i)
	reg := do.MustInvoke[*registry.Registry](i)
	provider := do.MustInvoke[*auth.StaticProvider](i)
	validate := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)
	return menus.New(gateway, tagStore, reg, provider, validate, log.Logger), nil
}

// ProvideRouletteEngine provides the dish roulette engine.
func ProvideRouletteEngine(i do.Injector) (*roulette.Engine, error) {
	index := do.MustInvoke[*menus.Index](i)
	log := do.MustInvoke[*logger.Logger](i)
	return roulette.New(index, log.Logger), nil
}
