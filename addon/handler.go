package addon

import (
	"context"

	"emperror.dev/errors"
	"github.com/getsentry/sentry-go"
	"github.com/neushore/proxima/bot"
	"github.com/neushore/proxima/common/log"
	"go.uber.org/zap"
)

// Handler loads addons into a registry.
type Handler struct {
	manager      *bot.Bot
	registry     *Registry
	env          Env
	constructors []Constructor

	log *zap.SugaredLogger
}

// NewHandler creates a handler for the given constructors.
func NewHandler(manager *bot.Bot, registry *Registry, env Env, constructors ...Constructor) (*Handler, error) {
	if manager == nil {
		return nil, ErrNoManager
	}
	if registry == nil {
		return nil, ErrNoRegistry
	}
	if len(constructors) == 0 {
		return nil, ErrNoConstructors
	}

	return &Handler{
		manager:      manager,
		registry:     registry,
		env:          env,
		constructors: constructors,
		log:          log.Named("addons"),
	}, nil
}

// Initialize loads every addon, one at a time, in order.
// If no constructors are given, the ones passed to NewHandler are used.
//
// An addon that fails to load is logged and, if it has a name, registered as Failed;
// it never stops the remaining addons from loading.
func (h *Handler) Initialize(ctx context.Context, constructors ...Constructor) (loaded, failed int) {
	if len(constructors) == 0 {
		constructors = h.constructors
	}

	for i, c := range constructors {
		a, err := h.load(ctx, c)
		if err == nil {
			loaded++
			continue
		}
		failed++

		name := "unknown"
		if a != nil && a.Name != "" {
			name = a.Name
		}
		h.log.Errorf("An error has occurred executing addon %v (#%d): %v", name, i+1, err)
		h.report(name, err)
	}

	return loaded, failed
}

func (h *Handler) load(ctx context.Context, c Constructor) (a *Addon, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("panic: %v", r)
			if a != nil && a.State() != Failed {
				a.fail(err)
				_ = h.registry.add(a)
			}
		}
	}()

	if c == nil {
		return nil, errors.New("nil addon constructor")
	}

	a, err = c(h.env)
	if err != nil {
		return a, errors.Wrap(err, "constructing addon")
	}
	if a == nil {
		return nil, errors.New("addon constructor returned nil")
	}

	if !validName(a.Name) {
		err = errors.Wrapf(ErrInvalidName, "%q", a.Name)
		a.fail(err)
		return a, err
	}

	if _, ok := h.registry.Get(a.Name); ok {
		err = errors.Wrapf(ErrDuplicate, "%q", a.Name)
		a.fail(err)
		return a, err
	}

	err = a.Validate()
	if err == nil {
		err = a.Execute(ctx, h.manager)
	}
	if err != nil {
		_ = h.registry.add(a)
		return a, err
	}

	for _, line := range a.log {
		h.log.Info(line)
	}
	return a, h.registry.add(a)
}

func (h *Handler) report(name string, err error) {
	hub := sentry.CurrentHub().Clone()
	hub.ConfigureScope(func(scope *sentry.Scope) {
		scope.SetTag("addon", name)
	})
	hub.CaptureException(err)
}
