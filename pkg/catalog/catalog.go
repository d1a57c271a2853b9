// Package catalog holds the static object tables that populate the scale
// registry.
//
// A catalog is a list of [Object] entries read from TOML or YAML. The default
// tour (proton to observable universe) is embedded in the binary. [Build]
// turns a catalog into a [scale.Registry] whose render handles are [*Body]
// values.
package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/cosmicscale/pkg/core/scale"
	errs "github.com/matzehuels/cosmicscale/pkg/errors"
)

//go:embed cosmos.toml
var defaultCatalog []byte

// Supported catalog formats.
const (
	FormatTOML = "toml"
	FormatYAML = "yaml"
)

// Object is one catalog entry.
type Object struct {
	Name        string  `toml:"name" yaml:"name" json:"name"`
	Exponent    float64 `toml:"exponent" yaml:"exponent" json:"exponent"`
	Description string  `toml:"description" yaml:"description" json:"description"`
	Kind        Kind    `toml:"kind" yaml:"kind" json:"kind"`
	Color       string  `toml:"color" yaml:"color" json:"color"`
}

// RGBA parses Color ("#rrggbb" or "rrggbb"). An empty color yields the
// kind's fallback magenta.
func (o Object) RGBA() (color.RGBA, error) {
	if o.Color == "" {
		return fallbackColor, nil
	}
	return ParseColor(o.Color)
}

// file is the on-disk layout shared by both formats.
type file struct {
	Objects []Object `toml:"object" yaml:"objects"`
}

// Default returns the embedded catalog of ten objects.
func Default() []Object {
	objs, err := Parse(defaultCatalog, FormatTOML)
	if err != nil {
		panic(fmt.Sprintf("catalog: embedded catalog is invalid: %v", err))
	}
	return objs
}

// Load reads a catalog file. The format is chosen by extension:
// .toml, or .yaml/.yml.
func Load(path string) ([]Object, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "catalog %s", path)
		}
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return Parse(data, format)
}

// FormatFromPath maps a file extension to a catalog format.
func FormatFromPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", errs.New(errs.ErrCodeInvalidFormat, "unsupported catalog extension %q (want .toml, .yaml or .yml)", filepath.Ext(path))
	}
}

// Parse decodes catalog data and validates every entry.
func Parse(data []byte, format string) ([]Object, error) {
	var f file
	switch format {
	case FormatTOML:
		if _, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&f); err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidCatalog, err, "decode TOML catalog")
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidCatalog, err, "decode YAML catalog")
		}
	default:
		return nil, errs.New(errs.ErrCodeInvalidFormat, "unsupported catalog format %q", format)
	}

	if err := Validate(f.Objects); err != nil {
		return nil, err
	}
	return f.Objects, nil
}

// Validate checks every entry: name and exponent invariants, a parseable
// color, and a known (or empty) kind.
func Validate(objs []Object) error {
	for i, o := range objs {
		if err := errs.ValidateEntityName(o.Name); err != nil {
			return errs.Wrap(errs.ErrCodeValidation, err, "object %d", i)
		}
		if err := errs.ValidateExponent(o.Exponent); err != nil {
			return errs.Wrap(errs.ErrCodeValidation, err, "object %d (%s)", i, o.Name)
		}
		if _, err := o.RGBA(); err != nil {
			return errs.Wrap(errs.ErrCodeInvalidCatalog, err, "object %d (%s)", i, o.Name)
		}
		if o.Kind != "" && !o.Kind.Known() {
			return errs.New(errs.ErrCodeInvalidCatalog, "object %d (%s): unknown kind %q", i, o.Name, o.Kind)
		}
	}
	return nil
}

// Build registers every object, in order, in a new registry. Each entity's
// handle is a fresh [*Body].
func Build(objs []Object) (*scale.Registry, error) {
	reg := scale.NewRegistry()
	for i, o := range objs {
		e, err := scale.NewEntity(o.Name, o.Exponent, o.Description, NewBody(o))
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeValidation, err, "object %d", i)
		}
		if err := reg.Register(e); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// Encode writes objs in the given format.
func Encode(objs []Object, format string) ([]byte, error) {
	var buf bytes.Buffer
	switch format {
	case FormatTOML:
		if err := toml.NewEncoder(&buf).Encode(file{Objects: objs}); err != nil {
			return nil, err
		}
	case FormatYAML:
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(file{Objects: objs}); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
	default:
		return nil, errs.New(errs.ErrCodeInvalidFormat, "unsupported catalog format %q", format)
	}
	return buf.Bytes(), nil
}

// ParseColor parses "#rrggbb" or "rrggbb".
func ParseColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q", s)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}
