// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"slices"
	"strings"
	"testing"
)

func TestValues_OrderedAndComplete(t *testing.T) {
	values := Values()
	if len(values) != len(issues) {
		t.Fatalf("Values() returned %d entries, want %d", len(values), len(issues))
	}
	for i, v := range values {
		if v.Id() != Id(i+1) {
			t.Errorf("Values()[%d].Id() = %d, want %d", i, v.Id(), i+1)
		}
	}
}

func TestGet(t *testing.T) {
	tests := []struct {
		id    Id
		title string
	}{
		{ManifestNotFoundId, "Manifest not found"},
		{ManifestParseErrorId, "Manifest does not match the schema"},
		{DuplicateNameId, "Name declared twice"},
		{UnresolvedDependencyId, "Dependency cannot be resolved"},
		{DependencyCycleId, "Dependency cycle"},
		{InvalidProductReferenceId, "Product lists an unknown module"},
		{UnsupportedPlatformId, "Platform not supported"},
		{UnknownModuleId, "Unknown module"},
		{UnknownRevisionId, "Unknown revision"},
		{ConfigLoadFailedId, "Configuration could not be loaded"},
	}
	for _, tt := range tests {
		i := Get(tt.id)
		if i == nil {
			t.Errorf("Get(%d) = nil", tt.id)
			continue
		}
		if got := i.Title(); got != tt.title {
			t.Errorf("Get(%d).Title() = %q, want %q", tt.id, got, tt.title)
		}
	}
	if Get(Id(9999)) != nil {
		t.Error("Get(9999) should return nil")
	}
}

func TestLookup(t *testing.T) {
	i, ok := Lookup("dependency-cycle")
	if !ok || i.Id() != DependencyCycleId {
		t.Fatalf("Lookup(dependency-cycle) = %v, %v", i, ok)
	}
	if _, ok := Lookup("no-such-issue"); ok {
		t.Error("Lookup should fail for an unknown slug")
	}

	seen := map[string]bool{}
	for _, v := range Values() {
		if v.Slug() == "" || seen[v.Slug()] {
			t.Errorf("slug %q is empty or duplicated", v.Slug())
		}
		seen[v.Slug()] = true
	}
}

func TestIssue_ExtLinksIsCopy(t *testing.T) {
	i := Get(ConfigLoadFailedId)
	links := i.ExtLinks()
	if len(links) == 0 {
		t.Fatal("config-load-failed should carry a link")
	}
	links[0] = "mutated"
	if slices.Contains(i.ExtLinks(), "mutated") {
		t.Error("ExtLinks() should return a clone")
	}
}

func TestIssue_RenderAppendsLinks(t *testing.T) {
	originalRender := render
	defer func() { render = originalRender }()

	var gotStyle string
	render = func(in, stylePath string) (string, error) {
		gotStyle = stylePath
		return in, nil
	}

	out, err := Get(ConfigLoadFailedId).Render("dark")
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if gotStyle != "dark" {
		t.Errorf("style = %q, want dark", gotStyle)
	}
	if !strings.Contains(out, "## See also") || !strings.Contains(out, "https://cuelang.org/docs/") {
		t.Errorf("Render() should append links, got:\n%s", out)
	}

	out, err = Get(DependencyCycleId).Render("dark")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out, "See also") {
		t.Error("entry without links should not render a See also section")
	}
}

func TestAllIssuesAreRenderable(t *testing.T) {
	for _, i := range Values() {
		out, err := i.Render("notty")
		if err != nil {
			t.Errorf("%s: Render() error = %v", i.Slug(), err)
			continue
		}
		if !strings.Contains(out, i.Title()) {
			t.Errorf("%s: rendered output does not contain title %q", i.Slug(), i.Title())
		}
	}
}
