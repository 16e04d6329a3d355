// Package yamlfile stores a single configuration value as a YAML file on disk.
// The value on disk is decoded over a copy of the declared defaults,
// so keys missing from the file keep their default values.
package yamlfile

import (
	"os"
	"path/filepath"
	"reflect"

	"emperror.dev/errors"
	"gopkg.in/yaml.v3"
)

const ErrNilDefaults = errors.Sentinel("defaults must not be nil")

// File is a YAML file bound to a path and a default value.
type File struct {
	path     string
	defaults any
}

// New returns a File for the given path. Nothing is read or written until Load or Reset is called.
func New(path string, defaults any) *File {
	return &File{path: path, defaults: defaults}
}

// Path returns the file's path.
func (f *File) Path() string {
	return f.path
}

// Exists returns true if the file exists on disk.
func (f *File) Exists() bool {
	_, err := os.Stat(f.path)
	return err == nil
}

// Reset writes the defaults to disk, replacing the file if it exists,
// and returns a copy of the defaults.
func (f *File) Reset() (any, error) {
	if f.defaults == nil {
		return nil, ErrNilDefaults
	}

	b, err := yaml.Marshal(f.defaults)
	if err != nil {
		return nil, errors.Wrap(err, "marshal defaults")
	}

	err = os.MkdirAll(filepath.Dir(f.path), 0o755)
	if err != nil {
		return nil, errors.Wrap(err, "create config directory")
	}

	err = os.WriteFile(f.path, b, 0o644)
	if err != nil {
		return nil, errors.Wrapf(err, "write %v", f.path)
	}

	return f.decode(nil)
}

// Load reads the file and returns its value.
// If the file does not exist yet, the defaults are written first.
func (f *File) Load() (any, error) {
	if f.defaults == nil {
		return nil, ErrNilDefaults
	}

	b, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return f.Reset()
	}
	if err != nil {
		return nil, errors.Wrapf(err, "read %v", f.path)
	}

	return f.decode(b)
}

// decode deep copies the defaults by round-tripping them through YAML,
// then decodes src over the copy. The result has the same type as the defaults.
func (f *File) decode(src []byte) (any, error) {
	def, err := yaml.Marshal(f.defaults)
	if err != nil {
		return nil, errors.Wrap(err, "marshal defaults")
	}

	t := reflect.TypeOf(f.defaults)
	isPtr := t.Kind() == reflect.Pointer
	if isPtr {
		t = t.Elem()
	}

	v := reflect.New(t)
	err = yaml.Unmarshal(def, v.Interface())
	if err != nil {
		return nil, errors.Wrap(err, "copy defaults")
	}

	if len(src) > 0 {
		err = yaml.Unmarshal(src, v.Interface())
		if err != nil {
			return nil, errors.Wrapf(err, "decode %v", f.path)
		}
	}

	if isPtr {
		return v.Interface(), nil
	}
	return v.Elem().Interface(), nil
}
