package feature_test

import (
	"testing"

	"github.com/deevus/nexus-tui/internal/feature"
)

func TestRegistry_VisibleSortedAndFiltered(t *testing.T) {
	r := feature.NewRegistry()
	r.Register(
		feature.Feature{Path: "/Support/System Information", View: "sysinfo", Visible: func() bool { return true }},
		feature.Feature{Path: "/Browse/Storage", View: "storage"},
		feature.Feature{Path: "/Admin/Hidden", View: "hidden", Visible: func() bool { return false }},
	)

	got := r.Visible()
	if len(got) != 2 {
		t.Fatalf("expected 2 visible features, got %d", len(got))
	}
	if got[0].View != "storage" || got[1].View != "sysinfo" {
		t.Errorf("expected sorted by path, got %v", got)
	}
	if r.Len() != 3 {
		t.Errorf("expected 3 registered, got %d", r.Len())
	}
}

func TestRegistry_VisibilityEvaluatedLazily(t *testing.T) {
	allowed := false
	r := feature.NewRegistry()
	r.Register(feature.Feature{Path: "/Support/System Information", View: "sysinfo", Visible: func() bool { return allowed }})

	if len(r.Visible()) != 0 {
		t.Fatal("expected feature hidden")
	}
	allowed = true
	if len(r.Visible()) != 1 {
		t.Fatal("expected feature visible after grant")
	}
}

func TestRegistry_Lookup(t *testing.T) {
	r := feature.NewRegistry()
	r.Register(feature.Feature{Path: "/Support/System Information", View: "sysinfo"})

	f, ok := r.Lookup("sysinfo")
	if !ok {
		t.Fatal("expected lookup to succeed")
	}
	if f.Title() != "System Information" {
		t.Errorf("expected title System Information, got %q", f.Title())
	}
	if _, ok := r.Lookup("missing"); ok {
		t.Error("expected lookup of unknown view to fail")
	}
}

func TestPermissions_Check(t *testing.T) {
	p := feature.NewPermissions([]string{"nexus:atlas:read", "nexus:repositories:*", "*:browse", "garbage", "trailing:"})

	tests := []struct {
		resource, action string
		want             bool
	}{
		{"nexus:atlas", "read", true},
		{"nexus:atlas", "update", false},
		{"nexus:repositories", "read", true},
		{"nexus:repositories", "delete", true},
		{"nexus:users", "browse", true},
		{"nexus:users", "read", false},
		{"garbage", "", false},
	}
	for _, tc := range tests {
		if got := p.Check(tc.resource, tc.action); got != tc.want {
			t.Errorf("Check(%q, %q) = %v, want %v", tc.resource, tc.action, got, tc.want)
		}
	}
}

func TestPermissions_NilDeniesAll(t *testing.T) {
	var p *feature.Permissions
	if p.Check("nexus:atlas", "read") {
		t.Error("expected nil permissions to deny")
	}
}
