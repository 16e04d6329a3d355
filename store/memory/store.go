// Package memory provides an in-memory store.
package memory

import (
	"context"
	"time"

	"emperror.dev/errors"
	"github.com/ReneKroon/ttlcache/v2"
	"github.com/neushore/proxima/store"
)

var _ store.CooldownStore = (*Store)(nil)

type Store struct {
	cooldowns *ttlcache.Cache
}

func New() *Store {
	c := ttlcache.NewCache()
	// the stored expiry is what matters, reads shouldn't push it back
	c.SkipTTLExtensionOnHit(true)

	return &Store{cooldowns: c}
}

func (s *Store) Cooldown(_ context.Context, key string) (time.Duration, error) {
	v, err := s.cooldowns.Get(key)
	if err != nil {
		if errors.Is(err, ttlcache.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}

	expires, ok := v.(time.Time)
	if !ok {
		return 0, nil
	}

	left := time.Until(expires)
	if left < 0 {
		return 0, nil
	}
	return left, nil
}

func (s *Store) SetCooldown(_ context.Context, key string, d time.Duration) error {
	if d <= 0 {
		err := s.cooldowns.Remove(key)
		if errors.Is(err, ttlcache.ErrNotFound) {
			return nil
		}
		return err
	}

	return s.cooldowns.SetWithTTL(key, time.Now().Add(d), d)
}

func (s *Store) Close() error {
	return s.cooldowns.Close()
}
