// SPDX-License-Identifier: MPL-2.0

package buildgraph

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/cpputils/buildplan/pkg/manifest"
)

type (
	// PackageSource supplies already materialized descriptors of external
	// packages. Find returns (nil, nil) when the descriptor is not available,
	// in which case the package is resolved out of band.
	PackageSource interface {
		Find(ext manifest.ExternalPackage) (*manifest.Package, error)
	}

	// Target is the platform a build plan is requested for.
	Target struct {
		Platform manifest.PlatformName `json:"platform" yaml:"platform" toml:"platform"`
		// Version is the requested minimum OS version. Empty checks the platform only.
		Version string `json:"version,omitempty" yaml:"version,omitempty" toml:"version,omitempty"`
	}

	// Option configures Load.
	Option func(*loadOptions)

	loadOptions struct {
		target *Target
		source PackageSource
		logger *log.Logger
	}
)

func defaultLoadOptions() loadOptions {
	return loadOptions{
		logger: log.New(io.Discard),
	}
}

// WithTarget makes Load reject descriptors that do not support platform at
// version. An empty platform disables the check.
func WithTarget(platform manifest.PlatformName, version string) Option {
	return func(o *loadOptions) {
		if platform == "" {
			o.target = nil
			return
		}
		o.target = &Target{Platform: platform, Version: version}
	}
}

// WithPackageSource sets where descriptors of external packages come from.
// Without a source every external package is resolved out of band.
func WithPackageSource(src PackageSource) Option {
	return func(o *loadOptions) {
		o.source = src
	}
}

// WithLogger sets the logger used for debug output while loading.
func WithLogger(logger *log.Logger) Option {
	return func(o *loadOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}
