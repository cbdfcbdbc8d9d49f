// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"slices"
	"strings"

	"github.com/charmbracelet/glamour"
)

const (
	ManifestNotFoundId Id = iota + 1
	ManifestParseErrorId
	DuplicateNameId
	UnresolvedDependencyId
	DependencyCycleId
	InvalidProductReferenceId
	UnsupportedPlatformId
	UnknownModuleId
	UnknownRevisionId
	ConfigLoadFailedId
)

type (
	// Id identifies a catalog entry.
	Id int

	// MarkdownMsg is Markdown guidance rendered for the terminal.
	MarkdownMsg string

	// HttpLink is a documentation link.
	HttpLink string

	// Issue is a catalog entry: a slug for 'buildplan explain <slug>' and
	// Markdown guidance for one class of failure.
	Issue struct {
		id       Id
		slug     string
		mdMsg    MarkdownMsg
		extLinks []HttpLink
	}
)

// Id returns the catalog id.
func (i *Issue) Id() Id { return i.id }

// Slug returns the short name used on the command line.
func (i *Issue) Slug() string { return i.slug }

// MarkdownMsg returns the raw guidance.
func (i *Issue) MarkdownMsg() MarkdownMsg { return i.mdMsg }

// ExtLinks returns a copy of the external links.
func (i *Issue) ExtLinks() []HttpLink { return slices.Clone(i.extLinks) }

// Title returns the first heading of the guidance.
func (i *Issue) Title() string {
	for line := range strings.Lines(string(i.mdMsg)) {
		if title, ok := strings.CutPrefix(strings.TrimSpace(line), "# "); ok {
			return title
		}
	}
	return i.slug
}

// Render renders the guidance with the glamour style at stylePath
// ("auto", "dark", "light", "notty" or a JSON style file).
func (i *Issue) Render(stylePath string) (string, error) {
	md := string(i.mdMsg)
	if len(i.extLinks) > 0 {
		md += "\n\n## See also\n"
		for _, link := range i.extLinks {
			md += "\n- " + string(link)
		}
	}
	return render(md, stylePath)
}

var (
	render = glamour.Render

	manifestNotFoundIssue = &Issue{
		id:   ManifestNotFoundId,
		slug: "manifest-not-found",
		mdMsg: `
# Manifest not found

No manifest was given and none was found in the current directory.

## Search order
1. The path given on the command line
2. ` + "`package.cue`, `package.json`, `package.yaml`, `package.yml`, `package.toml`" + ` in the current directory

## Things you can try
- Pass the manifest explicitly:
~~~
$ buildplan validate path/to/package.cue
~~~
- Use one of the bundled cpp-utils revisions:
~~~
$ buildplan order --revision 3
~~~`,
	}

	manifestParseErrorIssue = &Issue{
		id:   ManifestParseErrorId,
		slug: "manifest-parse-error",
		mdMsg: `
# Manifest does not match the schema

The manifest could not be decoded or violates the manifest schema. The error
names the file and the JSON path of the offending value.

## Common causes
- Unknown field names (the schema is closed)
- A module ` + "`kind`" + ` other than c, cxx or objcxx
- A language standard spelled like a compiler flag (use ` + "`gnucxx20`, not `gnu++20`" + `)
- Unquoted versions in YAML or TOML (` + "`minimum: \"14.0\"`" + `)

## Example module
~~~cue
modules: [{
	name: "cpp-utils"
	kind: "objcxx"
	dependencies: [{name: "objc-utils"}]
	cxx: unsafeFlags: ["-fcxx-modules"]
}]
~~~`,
	}

	duplicateNameIssue = &Issue{
		id:   DuplicateNameId,
		slug: "duplicate-name",
		mdMsg: `
# Name declared twice

Module names must be unique within a revision. Test modules share the
namespace with production modules, so a test cannot reuse a module name.
Products, external packages and platforms must be unique as well.

## Things you can try
- Rename one of the declarations
- Remove the copy left over from moving a module into an external package`,
	}

	unresolvedDependencyIssue = &Issue{
		id:   UnresolvedDependencyId,
		slug: "unresolved-dependency",
		mdMsg: `
# Dependency cannot be resolved

A dependency names a module that is neither declared in this revision nor
exported by a declared external package.

## Resolution rules
- ` + "`{name: \"x\"}`" + ` binds the module x of the same revision; if there is none,
  the single materialized external package exporting a product x
- ` + "`{name: \"x\", package: \"p\"}`" + ` binds product x of external package p
- Test modules can never be dependencies

## Things you can try
- Declare the missing module, or qualify the dependency with its package
- Declare the external package under ` + "`externalPackages`" + `
- Point ` + "`--external-dir`" + ` at the directory holding the package's descriptor
- Check that the descriptor's version satisfies the declared constraint`,
	}

	dependencyCycleIssue = &Issue{
		id:   DependencyCycleId,
		slug: "dependency-cycle",
		mdMsg: `
# Dependency cycle

Modules depend on each other in a loop, so no build order exists. The error
lists the cycle in traversal order, ending with the module it started from.

## Things you can try
- Move the shared code into a new module both sides depend on
- Drop the dependency that points back up the graph`,
	}

	invalidProductReferenceIssue = &Issue{
		id:   InvalidProductReferenceId,
		slug: "invalid-product-reference",
		mdMsg: `
# Product lists an unknown module

Every module a product lists must be a production module of the same
revision. Test modules cannot be exported.

## Things you can try
- Fix the module name in the product
- Remove modules that moved to an external package from the product`,
	}

	unsupportedPlatformIssue = &Issue{
		id:   UnsupportedPlatformId,
		slug: "unsupported-platform",
		mdMsg: `
# Platform not supported

The requested target platform is not declared by the package, or the
requested version is below the declared minimum.

## Things you can try
- Raise ` + "`--target-version`" + ` to at least the declared minimum
- Pick a platform from the package's ` + "`platforms`" + ` list
- Use an older revision with a lower platform floor:
~~~
$ buildplan revisions
~~~`,
	}

	unknownModuleIssue = &Issue{
		id:   UnknownModuleId,
		slug: "unknown-module",
		mdMsg: `
# Unknown module

The requested module is not a production or test module of the package.

## Things you can try
- List the modules in build order:
~~~
$ buildplan order
~~~`,
	}

	unknownRevisionIssue = &Issue{
		id:   UnknownRevisionId,
		slug: "unknown-revision",
		mdMsg: `
# Unknown revision

Only the bundled cpp-utils revisions can be selected with ` + "`--revision`" + `.

## Things you can try
~~~
$ buildplan revisions
~~~`,
	}

	configLoadFailedIssue = &Issue{
		id:   ConfigLoadFailedId,
		slug: "config-load-failed",
		mdMsg: `
# Configuration could not be loaded

The configuration file is not valid CUE or does not match the configuration
schema.

## Example configuration
~~~cue
output_format: "yaml"
target: {
	platform: "macOS"
	version:  "14.0"
}
external_dirs: ["./vendor/packages"]
ui: verbose: false
~~~

## Things you can try
- Print the effective configuration:
~~~
$ buildplan config show
~~~
- Write a fresh default file:
~~~
$ buildplan config init
~~~`,
		extLinks: []HttpLink{"https://cuelang.org/docs/"},
	}

	issues = map[Id]*Issue{
		manifestNotFoundIssue.Id():        manifestNotFoundIssue,
		manifestParseErrorIssue.Id():      manifestParseErrorIssue,
		duplicateNameIssue.Id():           duplicateNameIssue,
		unresolvedDependencyIssue.Id():    unresolvedDependencyIssue,
		dependencyCycleIssue.Id():         dependencyCycleIssue,
		invalidProductReferenceIssue.Id(): invalidProductReferenceIssue,
		unsupportedPlatformIssue.Id():     unsupportedPlatformIssue,
		unknownModuleIssue.Id():           unknownModuleIssue,
		unknownRevisionIssue.Id():         unknownRevisionIssue,
		configLoadFailedIssue.Id():        configLoadFailedIssue,
	}
)

// Values returns every catalog entry ordered by id.
func Values() []*Issue {
	out := make([]*Issue, 0, len(issues))
	for _, i := range issues {
		out = append(out, i)
	}
	slices.SortFunc(out, func(a, b *Issue) int { return int(a.id) - int(b.id) })
	return out
}

// Get returns the entry for id, or nil.
func Get(id Id) *Issue {
	return issues[id]
}

// Lookup returns the entry whose slug is slug.
func Lookup(slug string) (*Issue, bool) {
	for _, i := range issues {
		if i.slug == slug {
			return i, true
		}
	}
	return nil, false
}
