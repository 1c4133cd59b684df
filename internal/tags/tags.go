// Package tags owns the per-user ordered tag list embedded in the user
// document. Every mutation rewrites the whole embedded array; there is no
// per-tag document to update in place.
package tags

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/catability/menu-rouletti/internal/auth"
	"github.com/catability/menu-rouletti/internal/domain"
	domainerrors "github.com/catability/menu-rouletti/internal/errors"
	"github.com/catability/menu-rouletti/internal/store"
)

// Store manages location tags for the signed-in user.
type Store struct {
	gateway store.Gateway
	auth    auth.Provider
	logger  *slog.Logger
}

// New creates a tag store.
func New(gateway store.Gateway, authProvider auth.Provider, logger *slog.Logger) *Store {
	return &Store{gateway: gateway, auth: authProvider, logger: logger}
}

// List returns the signed-in user's tags ordered ascending by Order.
// A user with no document yet, or a document without tags, gets an empty
// list rather than an error.
func (s *Store) List(ctx context.Context) ([]domain.LocationTag, error) {
	identity, err := auth.RequireUser(ctx, s.auth)
	if err != nil {
		return nil, err
	}

	user, _, err := s.loadUser(ctx, identity.UserID)
	if err != nil {
		return nil, err
	}
	return user.SortedTags(), nil
}

// Ensure returns the tag with the given name, creating it at the end of the
// list when absent. Matching is exact and case-sensitive; repeated calls
// with the same name return the identical tag. A freshly created tag has no
// geographic anchor.
func (s *Store) Ensure(ctx context.Context, name string) (domain.LocationTag, error) {
	identity, err := auth.RequireUser(ctx, s.auth)
	if err != nil {
		return domain.LocationTag{}, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return domain.LocationTag{}, domainerrors.Validation("tag name cannot be empty")
	}

	user, found, err := s.loadUser(ctx, identity.UserID)
	if err != nil {
		return domain.LocationTag{}, err
	}
	if existing := user.TagByName(name); existing != nil {
		return *existing, nil
	}

	tag := domain.LocationTag{
		ID:    uuid.NewString(),
		Name:  name,
		Order: len(user.Locations),
	}
	user.AppendTag(tag)

	if !found {
		user.ID = identity.UserID
		user.DisplayName = identity.DisplayName
		if err := s.createUser(ctx, &user); err != nil {
			return domain.LocationTag{}, err
		}
	} else if err := s.saveLocations(ctx, &user); err != nil {
		return domain.LocationTag{}, err
	}

	s.logger.Info("tag created", "user_id", identity.UserID, "tag_id", tag.ID, "name", tag.Name)
	return tag, nil
}

// Update applies a partial change to the tag with the given id. Order is
// never touched here. Renaming does not rewrite menu entries that reference
// the old name; they simply stop matching.
func (s *Store) Update(ctx context.Context, tagID string, patch domain.TagPatch) (domain.LocationTag, error) {
	identity, err := auth.RequireUser(ctx, s.auth)
	if err != nil {
		return domain.LocationTag{}, err
	}

	user, found, err := s.loadUser(ctx, identity.UserID)
	if err != nil {
		return domain.LocationTag{}, err
	}
	if !found {
		return domain.LocationTag{}, domainerrors.TagNotFoundf("tag %s not found", tagID)
	}

	tag := user.TagByID(tagID)
	if tag == nil {
		return domain.LocationTag{}, domainerrors.TagNotFoundf("tag %s not found", tagID)
	}
	patch.Apply(tag)

	if err := s.saveLocations(ctx, &user); err != nil {
		return domain.LocationTag{}, err
	}

	s.logger.Info("tag updated", "user_id", identity.UserID, "tag_id", tagID)
	return *tag, nil
}

// Delete removes the tag with the given id and compacts the remaining Order
// values. Menu entries referencing the deleted tag's name are left in place;
// they become unreachable through tag navigation but still appear in the
// flat list.
func (s *Store) Delete(ctx context.Context, tagID string) error {
	identity, err := auth.RequireUser(ctx, s.auth)
	if err != nil {
		return err
	}

	user, found, err := s.loadUser(ctx, identity.UserID)
	if err != nil {
		return err
	}
	if !found || !user.RemoveTag(tagID) {
		return domainerrors.TagNotFoundf("tag %s not found", tagID)
	}

	if err := s.saveLocations(ctx, &user); err != nil {
		return err
	}

	s.logger.Info("tag deleted", "user_id", identity.UserID, "tag_id", tagID)
	return nil
}

// Reorder rewrites the Order values to match the given id sequence, which
// must be a permutation of the user's current tag ids.
func (s *Store) Reorder(ctx context.Context, tagIDs []string) error {
	identity, err := auth.RequireUser(ctx, s.auth)
	if err != nil {
		return err
	}

	user, found, err := s.loadUser(ctx, identity.UserID)
	if err != nil {
		return err
	}
	if !found && len(tagIDs) == 0 {
		return nil
	}
	if len(tagIDs) != len(user.Locations) {
		return domainerrors.Validationf("reorder lists %d tags, user has %d", len(tagIDs), len(user.Locations))
	}

	position := make(map[string]int, len(tagIDs))
	for i, id := range tagIDs {
		if _, dup := position[id]; dup {
			return domainerrors.Validationf("duplicate tag id %s in reorder", id)
		}
		position[id] = i
	}
	for i := range user.Locations {
		order, ok := position[user.Locations[i].ID]
		if !ok {
			return domainerrors.TagNotFoundf("tag %s not found in reorder", user.Locations[i].ID)
		}
		user.Locations[i].Order = order
	}

	if err := s.saveLocations(ctx, &user); err != nil {
		return err
	}

	s.logger.Info("tags reordered", "user_id", identity.UserID, "count", len(tagIDs))
	return nil
}

// loadUser fetches the user document. An absent document is not an error;
// found reports whether it exists.
func (s *Store) loadUser(ctx context.Context, userID string) (domain.User, bool, error) {
	doc, err := s.gateway.Get(ctx, store.CollectionUsers, userID)
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return domain.User{ID: userID}, false, nil
		}
		return domain.User{}, false, domainerrors.Storef(err, "get user %s", userID)
	}

	var user domain.User
	if err := store.Decode(doc, &user); err != nil {
		return domain.User{}, false, domainerrors.Storef(err, "decode user %s", userID)
	}
	return user, true, nil
}

// createUser writes a fresh user document in full.
func (s *Store) createUser(ctx context.Context, user *domain.User) error {
	user.Touch()
	user.CreatedAt = user.UpdatedAt

	doc, err := store.Encode(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	if err := s.gateway.Set(ctx, store.CollectionUsers, user.ID, doc); err != nil {
		return domainerrors.Storef(err, "create user %s", user.ID)
	}
	return nil
}

// saveLocations persists the embedded tag list by overwriting the whole
// locations array on the existing user document.
func (s *Store) saveLocations(ctx context.Context, user *domain.User) error {
	user.Touch()

	doc, err := store.Encode(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	partial := store.Document{
		"locations":  doc["locations"],
		"updated_at": doc["updated_at"],
	}
	if err := s.gateway.Update(ctx, store.CollectionUsers, user.ID, partial); err != nil {
		return domainerrors.Storef(err, "update tags for user %s", user.ID)
	}
	return nil
}
