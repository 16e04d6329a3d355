package redis

import (
	"context"
	"strconv"
	"time"

	"emperror.dev/errors"
	"github.com/mediocregopher/radix/v4"
	"github.com/neushore/proxima/store"
)

var _ store.CooldownStore = (*Store)(nil)

type Store struct {
	client radix.Client
}

func New(url string) (*Store, error) {
	client, err := (&radix.PoolConfig{}).New(context.Background(), "tcp", url)
	if err != nil {
		return nil, errors.Wrap(err, "creating radix client")
	}

	return &Store{client: client}, nil
}

func (s *Store) Cooldown(ctx context.Context, key string) (time.Duration, error) {
	var ms int64
	// PTTL returns -2 if the key doesn't exist and -1 if it has no expiry
	err := s.client.Do(ctx, radix.Cmd(&ms, "PTTL", key))
	if err != nil {
		return 0, err
	}

	if ms <= 0 {
		return 0, nil
	}
	return time.Duration(ms) * time.Millisecond, nil
}

func (s *Store) SetCooldown(ctx context.Context, key string, d time.Duration) error {
	if d <= 0 {
		return s.client.Do(ctx, radix.Cmd(nil, "DEL", key))
	}

	ms := d.Milliseconds()
	if ms == 0 {
		ms = 1
	}

	return s.client.Do(ctx, radix.Cmd(nil, "SET", key, "1", "PX", strconv.FormatInt(ms, 10)))
}

func (s *Store) Close() error {
	return s.client.Close()
}
