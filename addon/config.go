package addon

import (
	"os"
	"path/filepath"

	"emperror.dev/errors"
	"github.com/neushore/proxima/common"
	"github.com/neushore/proxima/store/yamlfile"
)

// DefaultConfigDir is where addon config files are stored if no directory is configured.
const DefaultConfigDir = "data/addon_configs"

// Env is passed to every addon constructor.
type Env struct {
	// ConfigDir is the root directory for addon configs. Each addon gets a subdirectory named after it.
	ConfigDir string
	// ResetConfigs overwrites every config file with its defaults.
	ResetConfigs bool
}

// New creates an addon bound to this environment.
func (e Env) New(name, version string) *Addon {
	if version == "" {
		version = DefaultVersion
	}

	return &Addon{
		Name:    name,
		Version: version,
		env:     e,
		execute: noop,
	}
}

func (e Env) configDir() string {
	if e.ConfigDir == "" {
		return DefaultConfigDir
	}
	return e.ConfigDir
}

// ConfigDir returns the directory the addon's config files are stored in.
func (a *Addon) ConfigDir() string {
	return filepath.Join(a.env.configDir(), a.Name)
}

// CustomConfig binds every section to <config dir>/<addon name>/<section>.yml.
// Each file is created with the section's default value if it doesn't exist,
// or overwritten with it if configs are being reset.
//
// The returned values have the same type as their defaults.
// Keys missing from a file keep their default value.
func (a *Addon) CustomConfig(sections map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(sections))

	for _, name := range common.SortedKeys(sections) {
		v, err := a.loadSection(name, sections[name])
		if err != nil {
			return nil, err
		}
		out[name] = v
	}

	return out, nil
}

// ConfigSection loads a single config section into the type of its defaults.
func ConfigSection[T any](a *Addon, section string, defaults T) (T, error) {
	var zero T

	v, err := a.loadSection(section, defaults)
	if err != nil {
		return zero, err
	}

	t, ok := v.(T)
	if !ok {
		return zero, errors.Errorf("config section %q decoded to %T", section, v)
	}
	return t, nil
}

func (a *Addon) loadSection(section string, defaults any) (any, error) {
	if !validName(a.Name) {
		return nil, errors.Wrapf(ErrInvalidName, "%q", a.Name)
	}
	if !validName(section) {
		return nil, errors.Wrapf(ErrInvalidSection, "%q", section)
	}

	dir := a.ConfigDir()
	err := os.MkdirAll(dir, 0o755)
	if err != nil {
		return nil, errors.Wrapf(err, "creating config directory for %q", a.Name)
	}

	f := yamlfile.New(filepath.Join(dir, section+".yml"), defaults)

	var v any
	if a.env.ResetConfigs {
		v, err = f.Reset()
	} else {
		v, err = f.Load()
	}
	if err != nil {
		return nil, errors.Wrapf(err, "loading config section %q of %q from %v", section, a.Name, f.Path())
	}

	a.mu.Lock()
	if a.configs == nil {
		a.configs = make(map[string]any)
	}
	a.configs[section] = defaults
	a.mu.Unlock()

	return v, nil
}
