// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cpputils/buildplan/internal/issue"
	"github.com/cpputils/buildplan/internal/planout"
	"github.com/cpputils/buildplan/pkg/buildgraph"
	"github.com/cpputils/buildplan/pkg/manifest"
)

// manifestBaseName is the file name searched for when no manifest is given.
const manifestBaseName = "package"

var errManifestNotFound = errors.New("no manifest found")

type (
	// descriptorOptions are the flags shared by commands that load a descriptor.
	descriptorOptions struct {
		revision       int
		targetPlatform string
		targetVersion  string
		externalDirs   []string
	}

	// formatOption is the --format flag.
	formatOption struct {
		value string
	}

	// loadedDescriptor is a resolved graph plus a label for messages.
	loadedDescriptor struct {
		graph    *buildgraph.Graph
		resource string
	}
)

func (o *descriptorOptions) register(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&o.revision, "revision", "r", 0, "use a bundled cpp-utils revision instead of a manifest file")
	o.registerResolution(cmd)
}

// registerResolution adds the flags that steer resolution but not the source.
func (o *descriptorOptions) registerResolution(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.targetPlatform, "target-platform", "", "check support for this platform (macOS, iOS, macCatalyst, tvOS, watchOS, visionOS, linux)")
	cmd.Flags().StringVar(&o.targetVersion, "target-version", "", "deployment version for --target-platform")
	cmd.Flags().StringSliceVar(&o.externalDirs, "external-dir", nil, "directory holding external package descriptors (repeatable)")
}

func (o *formatOption) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.value, "format", "f", "", "output format: text, json, yaml, toml (default from config)")
	_ = cmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions(planout.Names(), cobra.ShellCompDirectiveNoFileComp))
}

// resolve returns the flag value, else the configured format.
func (o *formatOption) resolve(s *session) (planout.Format, error) {
	if o.value == "" {
		return s.cfg.OutputFormat, nil
	}
	f, err := planout.Parse(o.value)
	if err != nil {
		return "", usageError(err)
	}
	return f, nil
}

// load reads the descriptor named by path (or the bundled revision, or the
// manifest in the current directory) and resolves its graph.
func (o *descriptorOptions) load(cmd *cobra.Command, s *session, path string) (*loadedDescriptor, error) {
	if o.revision != 0 && path != "" {
		return nil, usageError(fmt.Errorf("--revision cannot be combined with manifest path %q", path))
	}

	opts, err := o.graphOptions(s)
	if err != nil {
		return nil, err
	}

	var (
		pkg      *manifest.Package
		resource string
	)
	switch {
	case o.revision != 0:
		resource = fmt.Sprintf("revision %d", o.revision)
		pkg, err = manifest.Revision(o.revision)
	default:
		resource, err = findManifest(path)
		if err == nil {
			pkg, err = manifest.ParseFile(resource)
		}
	}
	if err != nil {
		return nil, s.fail(cmd, err, "load manifest", resource)
	}
	s.logger.Debug("descriptor parsed", "resource", resource, "package", pkg.Name, "modules", len(pkg.Modules))

	g, err := buildgraph.Load(pkg, opts...)
	if err != nil {
		return nil, s.fail(cmd, err, "resolve module graph", resource)
	}
	return &loadedDescriptor{graph: g, resource: resource}, nil
}

// graphOptions turns flags and configuration into resolver options. Flags
// override the configuration.
func (o *descriptorOptions) graphOptions(s *session) ([]buildgraph.Option, error) {
	opts := []buildgraph.Option{buildgraph.WithLogger(s.logger)}

	platform, version := o.targetPlatform, o.targetVersion
	if platform == "" {
		platform = string(s.cfg.Target.Platform)
		if version == "" {
			version = s.cfg.Target.Version
		}
	}
	if platform == "" && version != "" {
		return nil, usageError(errors.New("--target-version requires --target-platform"))
	}
	if platform != "" {
		name := manifest.PlatformName(platform)
		if err := name.Validate(); err != nil {
			return nil, usageError(err)
		}
		opts = append(opts, buildgraph.WithTarget(name, version))
	}

	dirs := o.externalDirs
	if len(dirs) == 0 {
		dirs = s.cfg.Dirs()
	}
	if len(dirs) > 0 {
		s.logger.Debug("external package directories", "dirs", dirs)
		opts = append(opts, buildgraph.WithPackageSource(manifest.DirSource{Dirs: dirs}))
	}
	return opts, nil
}

// findManifest resolves path to a manifest file. A directory (or an empty
// path, meaning the current directory) is searched for package.<ext>.
func findManifest(path string) (string, error) {
	dir := path
	if path != "" {
		info, err := os.Stat(path)
		if err != nil {
			return path, fmt.Errorf("failed to read manifest at %s: %w", path, err)
		}
		if !info.IsDir() {
			return path, nil
		}
	} else {
		dir = "."
	}

	for _, f := range manifest.Formats() {
		for _, ext := range f.Extensions() {
			candidate := filepath.Join(dir, manifestBaseName+ext)
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				return candidate, nil
			}
		}
	}

	return dir, issue.NewErrorContext().
		WithOperation("find manifest").
		WithResource(dir).
		WithSuggestion("Pass the manifest path explicitly").
		WithSuggestion("Use --revision to load a bundled cpp-utils revision").
		WithIssue(issue.ManifestNotFoundId).
		Wrap(errManifestNotFound).
		BuildError()
}

// looksLikeManifest reports whether arg names an existing file or directory
// rather than a module.
func looksLikeManifest(arg string) bool {
	if _, err := manifest.FormatFromFilename(arg); err == nil {
		return true
	}
	info, err := os.Stat(arg)
	return err == nil && info.IsDir()
}
