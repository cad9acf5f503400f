package documents_test

import (
	"testing"

	"github.com/goliatone/go-server-docs/documents"
)

func TestParseTier(t *testing.T) {
	cases := []struct {
		input string
		want  documents.Tier
	}{
		{"host_admin", documents.TierHostAdmin},
		{"server_admin", documents.TierServerAdmin},
		{"server_mod", documents.TierServerMod},
		{"player", documents.TierPlayer},
		{"admin", documents.TierLegacyAdmin},
		{"  Server_Admin ", documents.TierServerAdmin},
		{"", documents.TierPlayer},
		{"moderator", documents.TierPlayer},
	}

	for _, tc := range cases {
		if got := documents.ParseTier(tc.input); got != tc.want {
			t.Fatalf("ParseTier(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestLegacyAdminRanksWithServerAdmin(t *testing.T) {
	if documents.TierLegacyAdmin.Level() != documents.TierServerAdmin.Level() {
		t.Fatalf("legacy admin level %d, server admin level %d",
			documents.TierLegacyAdmin.Level(), documents.TierServerAdmin.Level())
	}
}

func TestResolveAllowedTiersRules(t *testing.T) {
	cases := []struct {
		name   string
		viewer documents.Viewer
		want   []documents.Tier
	}{
		{
			name:   "global admin sees everything",
			viewer: documents.Viewer{IsGlobalAdmin: true},
			want: []documents.Tier{
				documents.TierHostAdmin,
				documents.TierServerAdmin,
				documents.TierLegacyAdmin,
				documents.TierServerMod,
				documents.TierPlayer,
			},
		},
		{
			name:   "scope owner",
			viewer: documents.Viewer{OwnsScope: true},
			want: []documents.Tier{
				documents.TierServerAdmin,
				documents.TierLegacyAdmin,
				documents.TierServerMod,
				documents.TierPlayer,
			},
		},
		{
			name:   "manage capability matches owner",
			viewer: documents.Viewer{HasScopeManageCapability: true},
			want: []documents.Tier{
				documents.TierServerAdmin,
				documents.TierLegacyAdmin,
				documents.TierServerMod,
				documents.TierPlayer,
			},
		},
		{
			name:   "control capability",
			viewer: documents.Viewer{HasAnyControlCapability: true},
			want: []documents.Tier{
				documents.TierServerMod,
				documents.TierPlayer,
			},
		},
		{
			name:   "no capabilities",
			viewer: documents.Viewer{},
			want:   []documents.Tier{documents.TierPlayer},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := documents.ResolveAllowedTiers(tc.viewer)
			if len(got) != len(tc.want) {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Fatalf("position %d: got %q, want %q", i, got[i], tc.want[i])
				}
			}
		})
	}
}

// Granting an additional capability must never shrink the allowed set.
func TestResolveAllowedTiersMonotonic(t *testing.T) {
	base := []documents.Viewer{
		{},
		{HasAnyControlCapability: true},
		{HasScopeManageCapability: true},
		{OwnsScope: true},
	}
	grants := []func(documents.Viewer) documents.Viewer{
		func(v documents.Viewer) documents.Viewer { v.IsGlobalAdmin = true; return v },
		func(v documents.Viewer) documents.Viewer { v.OwnsScope = true; return v },
		func(v documents.Viewer) documents.Viewer { v.HasScopeManageCapability = true; return v },
		func(v documents.Viewer) documents.Viewer { v.HasAnyControlCapability = true; return v },
	}

	for _, viewer := range base {
		before := documents.ResolveAllowedTiers(viewer)
		for _, grant := range grants {
			after := documents.ResolveAllowedTiers(grant(viewer))
			for _, tier := range before {
				if !documents.TierAllowed(after, tier) {
					t.Fatalf("granting a capability removed tier %q (before %v, after %v)",
						tier, before, after)
				}
			}
		}
	}
}

func TestGlobalAdminTiersAreSuperset(t *testing.T) {
	admin := documents.ResolveAllowedTiers(documents.Viewer{IsGlobalAdmin: true})
	others := []documents.Viewer{
		{},
		{OwnsScope: true},
		{HasScopeManageCapability: true},
		{HasAnyControlCapability: true},
		{OwnsScope: true, HasAnyControlCapability: true},
	}

	for _, viewer := range others {
		for _, tier := range documents.ResolveAllowedTiers(viewer) {
			if !documents.TierAllowed(admin, tier) {
				t.Fatalf("global admin missing tier %q held by %+v", tier, viewer)
			}
		}
	}
}

func TestControlCapabilityVisibilityExample(t *testing.T) {
	allowed := documents.ResolveAllowedTiers(documents.Viewer{HasAnyControlCapability: true})

	if documents.TierAllowed(allowed, documents.TierServerAdmin) {
		t.Fatal("control capability must not see server admin documents")
	}
	if !documents.TierAllowed(allowed, documents.TierPlayer) {
		t.Fatal("control capability must see player documents")
	}
}
