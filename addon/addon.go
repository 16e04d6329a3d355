// Package addon implements the addon lifecycle: descriptors that are validated once,
// executed once against the bot, and recorded in a Registry.
package addon

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"emperror.dev/errors"
	"github.com/neushore/proxima/bot"
	"github.com/neushore/proxima/common"
)

// DefaultVersion is used when an addon is created without a version.
const DefaultVersion = "1.0"

// ExecuteFunc is called once when the addon is loaded.
// It typically registers commands, modal handlers, or gateway handlers on b.
type ExecuteFunc func(ctx context.Context, b *bot.Bot) error

func noop(context.Context, *bot.Bot) error { return nil }

// Constructor builds an addon. Addons are compiled in and listed in a static slice of constructors.
type Constructor func(env Env) (*Addon, error)

// Developer is the credit and support information for an addon.
type Developer struct {
	Name       string `json:"name"`
	Discord    string `json:"discord,omitempty"`
	Docs       string `json:"docs,omitempty"`
	Additional string `json:"additional,omitempty"`
}

// State is where an addon is in its lifecycle.
type State int

const (
	Constructed State = iota
	Validated
	Executing
	Executed
	Failed
)

func (s State) String() string {
	switch s {
	case Constructed:
		return "constructed"
	case Validated:
		return "validated"
	case Executing:
		return "executing"
	case Executed:
		return "executed"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses a state name.
func (s *State) UnmarshalText(b []byte) error {
	for st := Constructed; st <= Failed; st++ {
		if st.String() == string(b) {
			*s = st
			return nil
		}
	}
	return errors.Errorf("unknown addon state %q", b)
}

// Addon is an addon descriptor. The setters return the same Addon, so they can be chained.
type Addon struct {
	Name      string
	Version   string
	Developer Developer

	env     Env
	execute ExecuteFunc
	log     []string
	configs map[string]any

	mu    sync.RWMutex
	state State
	err   error
}

// New creates an addon that stores its config under DefaultConfigDir.
func New(name, version string) *Addon {
	return Env{}.New(name, version)
}

func (a *Addon) SetDeveloper(name string) *Addon {
	a.Developer.Name = name
	return a
}

// SetDiscord sets the developer's Discord invite, or any general link.
func (a *Addon) SetDiscord(link string) *Addon {
	a.Developer.Discord = link
	return a
}

func (a *Addon) SetDocs(link string) *Addon {
	a.Developer.Docs = link
	return a
}

func (a *Addon) SetAdditional(text string) *Addon {
	a.Developer.Additional = text
	return a
}

func (a *Addon) SetExecute(fn ExecuteFunc) *Addon {
	a.execute = fn
	return a
}

// SetLog sets the lines logged once the addon has been executed.
func (a *Addon) SetLog(lines ...string) *Addon {
	a.log = lines
	return a
}

// Log returns the addon's log lines.
func (a *Addon) Log() []string {
	return append([]string(nil), a.log...)
}

// State returns the addon's current state.
func (a *Addon) State() State {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.state
}

// Err returns the error that made the addon fail, if any.
func (a *Addon) Err() error {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.err
}

// Validate checks that all required fields are set.
// It can only be called on a freshly constructed addon; a failed validation is final.
func (a *Addon) Validate() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.state != Constructed {
		return errors.Wrapf(ErrInvalidState, "addon %q is %v, can't validate", a.Name, a.state)
	}

	var err error
	switch {
	case !validName(a.Name):
		err = errors.Wrapf(ErrInvalidName, "%q", a.Name)
	case a.Developer.Name == "":
		err = errors.Wrapf(ErrMissingDeveloper, "addon %q", a.Name)
	case a.execute == nil:
		err = errors.Wrapf(ErrMissingExecute, "addon %q", a.Name)
	}

	if err != nil {
		a.state, a.err = Failed, err
		return err
	}

	a.state = Validated
	return nil
}

// Execute runs the addon's execute function. It must be called exactly once, after Validate.
// A panic in the execute function is returned as an error.
func (a *Addon) Execute(ctx context.Context, b *bot.Bot) (err error) {
	a.mu.Lock()
	if a.state != Validated {
		state := a.state
		a.mu.Unlock()
		return errors.Wrapf(ErrInvalidState, "addon %q is %v, can't execute", a.Name, state)
	}
	a.state = Executing
	a.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("addon %q panicked: %v", a.Name, r)
		}

		a.mu.Lock()
		if err != nil {
			a.state, a.err = Failed, err
		} else {
			a.state = Executed
		}
		a.mu.Unlock()
	}()

	err = a.execute(ctx, b)
	if err != nil {
		err = errors.Wrapf(err, "executing addon %q", a.Name)
	}
	return err
}

// fail marks the addon as failed without running it.
func (a *Addon) fail(err error) {
	a.mu.Lock()
	a.state, a.err = Failed, err
	a.mu.Unlock()
}

// Info is a snapshot of an addon.
type Info struct {
	Name      string    `json:"name"`
	Version   string    `json:"version"`
	Developer Developer `json:"developer"`
	State     State     `json:"state"`
	Error     string    `json:"error,omitempty"`
	Log       []string  `json:"log,omitempty"`
	Sections  []string  `json:"config_sections,omitempty"`
}

// Info returns a snapshot of the addon.
func (a *Addon) Info() Info {
	a.mu.RLock()
	defer a.mu.RUnlock()

	i := Info{
		Name:      a.Name,
		Version:   a.Version,
		Developer: a.Developer,
		State:     a.state,
		Log:       append([]string(nil), a.log...),
		Sections:  common.SortedKeys(a.configs),
	}
	if a.err != nil {
		i.Error = a.err.Error()
	}
	return i
}

// validName reports whether s can be used as an addon name or config section name.
// Both are used as path elements.
func validName(s string) bool {
	if strings.TrimSpace(s) == "" || s == "." || s == ".." {
		return false
	}
	return !strings.ContainsAny(s, `/\`)
}
