// Package session owns the locally persisted sign-in state. Two stores hold
// it: a persistent one used when the user asked to be remembered and a
// session-scoped one that does not survive a reboot. The persistent store
// always wins when both carry a user id.
package session

import (
	"encoding/json"

	"github.com/alexisbeaulieu97/libaas/internal/domain"
	"github.com/alexisbeaulieu97/libaas/internal/events"
	"github.com/alexisbeaulieu97/libaas/internal/logger"
	"github.com/alexisbeaulieu97/libaas/internal/storage"
	liberrors "github.com/alexisbeaulieu97/libaas/pkg/errors"
)

const (
	keyUserID = "userId"
	keyUser   = "user"
)

// KVStore is the subset of storage.Store the repository needs.
type KVStore interface {
	Name() string
	Get(key string) (string, bool)
	Set(key, value string)
	Delete(key string)
	Load() error
	Save() error
}

var _ KVStore = (*storage.Store)(nil)

// Repository resolves and mutates the sign-in state.
type Repository struct {
	remember KVStore
	scoped   KVStore
	bus      *events.Bus
	log      *logger.Logger
}

// NewRepository returns a repository reading remember before scoped.
func NewRepository(remember, scoped KVStore, bus *events.Bus, log *logger.Logger) *Repository {
	return &Repository{remember: remember, scoped: scoped, bus: bus, log: log.Component("session")}
}

func (r *Repository) ordered() []KVStore {
	return []KVStore{r.remember, r.scoped}
}

// Current returns the signed-in session. Placeholder ids count as absent.
func (r *Repository) Current() (domain.Session, bool) {
	store, id := r.owner()
	if store == nil {
		return domain.Session{}, false
	}

	sess := domain.Session{UserID: id}
	if cached, ok := r.cachedUser(); ok {
		sess.CachedName = cached.CachedName
		sess.CachedImageURL = cached.CachedImageURL
	}
	return sess, true
}

// UserID returns the signed-in user id, or "" when nobody is signed in.
func (r *Repository) UserID() string {
	_, id := r.owner()
	return id
}

// Reload re-reads both stores from disk, picking up sign-ins made by other
// processes.
func (r *Repository) Reload() {
	for _, store := range r.ordered() {
		if err := store.Load(); err != nil {
			r.log.WithFields(map[string]any{"store": store.Name()}).Debug("session store not reloaded: " + err.Error())
		}
	}
}

// SignIn records sess in the persistent store when remember is set and in
// the session-scoped store otherwise, then announces the change.
func (r *Repository) SignIn(sess domain.Session, remember bool) error {
	if !sess.Valid() {
		return liberrors.NewValidationError("user_id", "sign-in returned no usable user id", nil)
	}

	target, other := r.scoped, r.remember
	if remember {
		target, other = r.remember, r.scoped
	}

	// A previous sign-in in the other store would shadow or outlive this one.
	other.Delete(keyUserID)
	other.Delete(keyUser)
	if err := other.Save(); err != nil {
		return liberrors.NewSessionError(other.Name(), "save", err)
	}

	if err := writeUser(target, sess); err != nil {
		return err
	}

	r.log.WithFields(map[string]any{"store": target.Name()}).Info("signed in")
	r.bus.Publish(events.TopicAuthChange)
	return nil
}

// UpdateCache refreshes the cached display name and photo in the store that
// owns the current session.
func (r *Repository) UpdateCache(name, imageURL string) error {
	store, id := r.owner()
	if store == nil {
		return nil
	}
	return writeUser(store, domain.Session{UserID: id, CachedName: name, CachedImageURL: imageURL})
}

// SignOut clears both stores and announces the change.
func (r *Repository) SignOut() error {
	var firstErr error
	for _, store := range r.ordered() {
		store.Delete(keyUserID)
		store.Delete(keyUser)
		if err := store.Save(); err != nil && firstErr == nil {
			firstErr = liberrors.NewSessionError(store.Name(), "save", err)
		}
	}

	r.log.Info("signed out")
	r.bus.Publish(events.TopicAuthChange)
	return firstErr
}

func (r *Repository) owner() (KVStore, string) {
	for _, store := range r.ordered() {
		if id, ok := store.Get(keyUserID); ok && domain.UsableUserID(id) {
			return store, id
		}
	}
	return nil, ""
}

func (r *Repository) cachedUser() (domain.Session, bool) {
	for _, store := range r.ordered() {
		raw, ok := store.Get(keyUser)
		if !ok || raw == "" {
			continue
		}
		var cached domain.Session
		if err := json.Unmarshal([]byte(raw), &cached); err != nil {
			r.log.WithFields(map[string]any{"store": store.Name()}).Warn("ignoring unreadable cached user")
			continue
		}
		return cached, true
	}
	return domain.Session{}, false
}

func writeUser(store KVStore, sess domain.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return liberrors.NewSessionError(store.Name(), "encode", err)
	}
	store.Set(keyUserID, sess.UserID)
	store.Set(keyUser, string(data))
	if err := store.Save(); err != nil {
		return liberrors.NewSessionError(store.Name(), "save", err)
	}
	return nil
}
