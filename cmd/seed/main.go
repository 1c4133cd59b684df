// Package main provides a tool to seed the store with sample bookmark data.
//
// It goes through the real components, so seeded data has the same shape as
// data written by the application: shops land in the shared catalog, tags
// get created on first use, and entries reference both.
//
// Usage:
//
//	STORE_BACKEND=badger go run ./cmd/seed
//	go run ./cmd/seed --user demo-user
package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/samber/do/v2"

	"github.com/catability/menu-rouletti/internal/auth"
	"github.com/catability/menu-rouletti/internal/di"
	"github.com/catability/menu-rouletti/internal/domain"
	"github.com/catability/menu-rouletti/internal/menus"
	"github.com/catability/menu-rouletti/internal/roulette"
)

var userID = flag.String("user", "demo-user", "User id to seed data under")

type sample struct {
	shop domain.Shop
	menu string
	tag  string
	memo string
}

var samples = []sample{
	{domain.Shop{ID: "1234567890", Name: "Halmae Kimchi Stew", Address: "Gangnam-daero 396", X: 127.0276, Y: 37.4979}, "kimchi stew", "Gangnam", "go early, queues by noon"},
	{domain.Shop{ID: "1234567891", Name: "Yeonnam Noodle Bar", Address: "Yeonnam-ro 27", X: 126.9227, Y: 37.5665}, "cold noodles", "Hongdae", ""},
	{domain.Shop{ID: "1234567892", Name: "Rice Bowl House", Address: "Teheran-ro 152", X: 127.0357, Y: 37.5006}, "bibimbap", "Gangnam", ""},
	{domain.Shop{ID: "1234567890", Name: "Halmae Kimchi Stew", Address: "Gangnam-daero 396", X: 127.0276, Y: 37.4979}, "pork belly", "Gangnam", "dinner only"},
}

func main() {
	flag.Parse()

	injector := di.NewContainer()
	if err := di.Bootstrap(injector); err != nil {
		log.Fatalf("Failed to bootstrap: %v", err)
	}
	defer func() {
		if err := injector.Shutdown(); err != nil {
			log.Printf("Shutdown: %v", err)
		}
	}()

	provider := do.MustInvoke[*auth.StaticProvider](injector)
	provider.SignIn(auth.Identity{UserID: *userID, DisplayName: "Demo User"})

	index := do.MustInvoke[*menus.Index](injector)
	ctx := context.Background()

	for _, s := range samples {
		entry, err := index.Save(ctx, s.shop, menus.AddInput{
			MenuName:    s.menu,
			LocationTag: s.tag,
			Memo:        s.memo,
		})
		if err != nil {
			log.Fatalf("Failed to seed %q at %s: %v", s.menu, s.shop.Name, err)
		}
		fmt.Printf("Seeded entry %s: %s @ %s [%s]\n", entry.ID, entry.MenuName, s.shop.Name, entry.LocationTag)
	}

	// Quick sanity spin over the seeded data.
	engine := do.MustInvoke[*roulette.Engine](injector)
	pool, err := engine.SelectTag(ctx, "Gangnam")
	if err != nil {
		log.Fatalf("Failed to select tag: %v", err)
	}
	winner, err := engine.Spin()
	if err != nil {
		log.Fatalf("Failed to spin: %v", err)
	}
	fmt.Printf("Roulette over %d dishes picked: %s\n", len(pool), winner)
}
