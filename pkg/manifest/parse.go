// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/cpputils/buildplan/pkg/cueutil"
)

const (
	// FormatCUE is a CUE manifest (.cue).
	FormatCUE Format = "cue"
	// FormatJSON is a JSON manifest (.json).
	FormatJSON Format = "json"
	// FormatYAML is a YAML manifest (.yaml, .yml).
	FormatYAML Format = "yaml"
	// FormatTOML is a TOML manifest (.toml).
	FormatTOML Format = "toml"
)

var (
	//go:embed manifest_schema.cue
	manifestSchema []byte

	// ErrInvalidManifest is the sentinel wrapped by every manifest parse failure.
	ErrInvalidManifest = errors.New("invalid manifest")
	// ErrUnsupportedFormat is returned for file extensions no decoder handles.
	ErrUnsupportedFormat = errors.New("unsupported manifest format")
)

type (
	// Format identifies the serialization of a manifest file.
	Format string

	// InvalidManifestError reports why a manifest could not be turned into a Package.
	// It matches both ErrInvalidManifest and the underlying cause with errors.Is.
	InvalidManifestError struct {
		Path string
		Err  error
	}
)

// Error implements the error interface.
func (e *InvalidManifestError) Error() string {
	var verr *cueutil.ValidationError
	if errors.As(e.Err, &verr) {
		// The validation error already carries the file path.
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

// Unwrap returns the sentinel and the underlying cause.
func (e *InvalidManifestError) Unwrap() []error {
	return []error{ErrInvalidManifest, e.Err}
}

// Formats returns every supported manifest format.
func Formats() []Format {
	return []Format{FormatCUE, FormatJSON, FormatYAML, FormatTOML}
}

// Extensions returns the file extensions recognized for the format.
func (f Format) Extensions() []string {
	switch f {
	case FormatCUE:
		return []string{".cue"}
	case FormatJSON:
		return []string{".json"}
	case FormatYAML:
		return []string{".yaml", ".yml"}
	case FormatTOML:
		return []string{".toml"}
	default:
		return nil
	}
}

// FormatFromFilename picks the manifest format from the file extension.
func FormatFromFilename(name string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(name))
	for _, f := range Formats() {
		for _, e := range f.Extensions() {
			if e == ext {
				return f, nil
			}
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
}

// ParseFile reads and parses the manifest at path.
func ParseFile(path string) (*Package, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest at %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse decodes manifest content. The format is taken from the extension of
// filename; the content is then unified with the manifest schema and checked
// with Package.Validate.
func Parse(data []byte, filename string) (*Package, error) {
	format, err := FormatFromFilename(filename)
	if err != nil {
		return nil, &InvalidManifestError{Path: filename, Err: err}
	}
	return ParseFormat(data, format, filename)
}

// ParseFormat decodes manifest content in an explicit format.
func ParseFormat(data []byte, format Format, filename string) (*Package, error) {
	if err := cueutil.CheckFileSize(data, cueutil.DefaultMaxFileSize, filename); err != nil {
		return nil, &InvalidManifestError{Path: filename, Err: err}
	}

	doc, err := document(data, format)
	if err != nil {
		return nil, &InvalidManifestError{Path: filename, Err: err}
	}

	result, err := cueutil.ParseAndDecode[Package](manifestSchema, "#Package", doc, cueutil.WithFilename(filename))
	if err != nil {
		return nil, &InvalidManifestError{Path: filename, Err: err}
	}

	pkg := result.Value
	pkg.FilePath = filename
	pkg.applyDefaults()

	if err := pkg.Validate(); err != nil {
		return nil, &InvalidManifestError{Path: filename, Err: err}
	}
	return pkg, nil
}

func document(data []byte, format Format) (cueutil.Document, error) {
	switch format {
	case FormatCUE, FormatJSON:
		return cueutil.Bytes(data), nil
	case FormatYAML:
		var raw map[string]any
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to decode YAML: %w", err)
		}
		return cueutil.GoValue(raw), nil
	case FormatTOML:
		var raw map[string]any
		if err := toml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to decode TOML: %w", err)
		}
		return cueutil.GoValue(raw), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// applyDefaults fills defaults the schema cannot express for decoded data.
func (p *Package) applyDefaults() {
	for i := range p.Tests {
		p.Tests[i].Kind = p.Tests[i].EffectiveKind()
	}
}

// Validate checks the field-level rules of the schema for descriptors
// assembled in Go: identifiers, enumerations, required fields and external
// package URLs. Graph level rules (duplicates, dangling references, cycles)
// belong to the build graph. All problems are joined into one error.
func (p *Package) Validate() error {
	var errs []error
	if err := validateIdentifier("package name", p.Name); err != nil {
		errs = append(errs, err)
	}
	for _, pl := range p.Platforms {
		if err := pl.Name.Validate(); err != nil {
			errs = append(errs, err)
		}
		if pl.Minimum == "" {
			errs = append(errs, fmt.Errorf("platform %s: minimum version is required", pl.Name))
		}
	}
	if s := p.LanguageStandards.C; s != "" {
		if err := s.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	if s := p.LanguageStandards.Cxx; s != "" {
		if err := s.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	for _, ext := range p.ExternalPackages {
		if err := validateIdentifier("external package name", ext.Name); err != nil {
			errs = append(errs, err)
			continue
		}
		if !slices.ContainsFunc(urlPrefixes, func(prefix string) bool { return strings.HasPrefix(ext.URL, prefix) }) {
			errs = append(errs, fmt.Errorf("external package %q: url %q must start with one of %s",
				ext.Name, ext.URL, strings.Join(urlPrefixes, ", ")))
		}
		if ext.Version == "" {
			errs = append(errs, fmt.Errorf("external package %q: version is required", ext.Name))
		}
	}
	for _, pr := range p.Products {
		if err := validateIdentifier("product name", pr.Name); err != nil {
			errs = append(errs, err)
			continue
		}
		if len(pr.Modules) == 0 {
			errs = append(errs, fmt.Errorf("product %q: at least one module is required", pr.Name))
		}
		for _, m := range pr.Modules {
			if err := validateIdentifier("module name", m); err != nil {
				errs = append(errs, fmt.Errorf("product %q: %w", pr.Name, err))
			}
		}
	}
	for _, m := range p.Modules {
		if err := validateIdentifier("module name", m.Name); err != nil {
			errs = append(errs, err)
			continue
		}
		if err := m.Kind.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("module %q: %w", m.Name, err))
		}
		for _, d := range m.Dependencies {
			if err := d.validate(); err != nil {
				errs = append(errs, fmt.Errorf("module %q: %w", m.Name, err))
			}
		}
		if err := m.Settings.validate(); err != nil {
			errs = append(errs, fmt.Errorf("module %q: %w", m.Name, err))
		}
	}
	for _, t := range p.Tests {
		if err := validateIdentifier("test module name", t.Name); err != nil {
			errs = append(errs, err)
			continue
		}
		if err := t.EffectiveKind().Validate(); err != nil {
			errs = append(errs, fmt.Errorf("test module %q: %w", t.Name, err))
		}
		if err := validateIdentifier("dependency", t.Dependency); err != nil {
			errs = append(errs, fmt.Errorf("test module %q: %w", t.Name, err))
		}
		if err := t.Settings.validate(); err != nil {
			errs = append(errs, fmt.Errorf("test module %q: %w", t.Name, err))
		}
	}
	return errors.Join(errs...)
}

func (d Dependency) validate() error {
	if err := validateIdentifier("dependency name", d.Name); err != nil {
		return err
	}
	if d.Package != "" {
		if err := validateIdentifier("dependency package", d.Package); err != nil {
			return fmt.Errorf("dependency %q: %w", d.Name, err)
		}
	}
	return nil
}

func (s Settings) validate() error {
	var errs []error
	if s.CStandard != "" {
		if err := s.CStandard.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	if s.CxxStandard != "" {
		if err := s.CxxStandard.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	for _, d := range slices.Concat(s.C.Defines, s.Cxx.Defines) {
		if d.Name == "" {
			errs = append(errs, errors.New("define name is required"))
		}
	}
	return errors.Join(errs...)
}
