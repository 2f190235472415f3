package artifact

import (
	"errors"
	"testing"

	"github.com/ZebulonRouseFrantzich/clusterfetch/internal/platform"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name      string
		component Component
		req       Request
		want      string
		wantErr   error
	}{
		{
			name:      "node_linux_amd64",
			component: ComponentNode,
			req:       Request{Version: "10.1.2", OS: platform.OSLinux, Arch: platform.ArchAMD64},
			want:      "https://github.com/IntersectMBO/cardano-node/releases/download/10.1.2/cardano-node-10.1.2-linux.tar.gz",
		},
		{
			name:      "node_macos_arm64",
			component: ComponentNode,
			req:       Request{Version: "10.1.2", OS: platform.OSMacOS, Arch: platform.ArchARM64},
			want:      "https://github.com/IntersectMBO/cardano-node/releases/download/10.1.2/cardano-node-10.1.2-macos.tar.gz",
		},
		{
			name:      "node_unsupported_os",
			component: ComponentNode,
			req:       Request{Version: "10.1.2", OS: platform.OSUnsupported, Arch: platform.ArchAMD64},
			wantErr:   ErrUnsupportedPlatform,
		},
		{
			name:      "node_unknown_arch_is_irrelevant",
			component: ComponentNode,
			req:       Request{Version: "10.1.2", OS: platform.OSLinux},
			want:      "https://github.com/IntersectMBO/cardano-node/releases/download/10.1.2/cardano-node-10.1.2-linux.tar.gz",
		},
		{
			name:      "yaci_store_any_platform",
			component: ComponentYaciStore,
			req:       Request{Version: "0.1.0", OS: platform.OSUnsupported},
			want:      "https://github.com/bloxbean/yaci-store/releases/download/v0.1.0/yaci-store-all-0.1.0.jar",
		},
		{
			name:      "ogmios_amd64",
			component: ComponentOgmios,
			req:       Request{Version: "6.9.0", OS: platform.OSLinux, Arch: platform.ArchAMD64},
			want:      "https://github.com/CardanoSolutions/ogmios/releases/download/v6.9.0/ogmios-v6.9.0-x86_64-linux.zip",
		},
		{
			name:      "ogmios_arm64",
			component: ComponentOgmios,
			req:       Request{Version: "6.9.0", OS: platform.OSLinux, Arch: platform.ArchARM64},
			want:      "https://github.com/CardanoSolutions/ogmios/releases/download/v6.9.0/ogmios-v6.9.0-aarch64-linux.zip",
		},
		{
			name:      "ogmios_unknown_arch",
			component: ComponentOgmios,
			req:       Request{Version: "6.9.0", OS: platform.OSLinux, Arch: ""},
			wantErr:   ErrUnsupportedPlatform,
		},
		{
			name:      "kupo_three_part_version",
			component: ComponentKupo,
			req:       Request{Version: "2.9.0", OS: platform.OSLinux, Arch: platform.ArchAMD64},
			want:      "https://github.com/CardanoSolutions/kupo/releases/download/v2.9/kupo-2.9.0-amd64-Linux.tar.gz",
		},
		{
			name:      "kupo_two_part_version",
			component: ComponentKupo,
			req:       Request{Version: "2.9", OS: platform.OSLinux, Arch: platform.ArchAMD64},
			want:      "https://github.com/CardanoSolutions/kupo/releases/download/v2.9/kupo-2.9-amd64-Linux.tar.gz",
		},
		{
			name:      "kupo_macos_arm64",
			component: ComponentKupo,
			req:       Request{Version: "2.9.0", OS: platform.OSMacOS, Arch: platform.ArchARM64},
			want:      "https://github.com/CardanoSolutions/kupo/releases/download/v2.9/kupo-2.9.0-arm64-Darwin.tar.gz",
		},
		{
			name:      "kupo_unsupported_os",
			component: ComponentKupo,
			req:       Request{Version: "2.9.0", OS: platform.OSUnsupported, Arch: platform.ArchAMD64},
			wantErr:   ErrUnsupportedPlatform,
		},
		{
			name:      "explicit_url_wins",
			component: ComponentKupo,
			req:       Request{URL: "https://mirror.example/kupo.tgz", Version: "2.9.0", OS: platform.OSLinux, Arch: platform.ArchAMD64},
			want:      "https://mirror.example/kupo.tgz",
		},
		{
			name:      "explicit_url_without_version",
			component: ComponentNode,
			req:       Request{URL: "file:///not a url at all", OS: platform.OSUnsupported},
			want:      "file:///not a url at all",
		},
		{
			name:      "explicit_url_with_malformed_version",
			component: ComponentKupo,
			req:       Request{URL: "https://mirror.example/kupo.tgz", Version: "..not..a..version"},
			want:      "https://mirror.example/kupo.tgz",
		},
		{
			name:      "missing_version_and_url",
			component: ComponentNode,
			req:       Request{OS: platform.OSLinux, Arch: platform.ArchAMD64},
			wantErr:   ErrMissingConfiguration,
		},
		{
			name:      "missing_version_checked_before_os",
			component: ComponentKupo,
			req:       Request{OS: platform.OSUnsupported},
			wantErr:   ErrMissingConfiguration,
		},
		{
			name:      "unknown_component",
			component: Component("db-sync"),
			req:       Request{Version: "1.0.0", OS: platform.OSLinux},
			wantErr:   ErrUnknownComponent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.component, tt.req)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Resolve() error = %v, want %v", err, tt.wantErr)
				}
				if got != "" {
					t.Errorf("Resolve() = %q, want empty URL on error", got)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("URL mismatch:\ngot:  %s\nwant: %s", got, tt.want)
			}
		})
	}
}

func TestResolutionErrorCarriesComponent(t *testing.T) {
	_, err := Resolve(ComponentOgmios, Request{OS: platform.OSLinux})

	var resErr *ResolutionError
	if !errors.As(err, &resErr) {
		t.Fatalf("expected *ResolutionError, got %T", err)
	}
	if resErr.Component != ComponentOgmios {
		t.Errorf("Component = %s, want ogmios", resErr.Component)
	}
}

func TestMajorMinor(t *testing.T) {
	tests := []struct {
		version string
		want    string
	}{
		{"2.9.0", "2.9"},
		{"10.11.12", "10.11"},
		{"2.9", "2.9"},
		{"2", "2"},
		{"1.2.3.4", "1.2.3.4"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			if got := majorMinor(tt.version); got != tt.want {
				t.Errorf("majorMinor(%q) = %q, want %q", tt.version, got, tt.want)
			}
		})
	}
}

func TestResolverSpecsUsePerComponentTokens(t *testing.T) {
	// The same host spells differently for each upstream project.
	req := Request{Version: "1.2.3", OS: platform.OSMacOS, Arch: platform.ArchARM64}

	node, err := Resolve(ComponentNode, req)
	if err != nil {
		t.Fatalf("node: %v", err)
	}
	kupo, err := Resolve(ComponentKupo, req)
	if err != nil {
		t.Fatalf("kupo: %v", err)
	}

	if want := "cardano-node-1.2.3-macos.tar.gz"; node[len(node)-len(want):] != want {
		t.Errorf("node URL %s does not end with %s", node, want)
	}
	if want := "kupo-1.2.3-arm64-Darwin.tar.gz"; kupo[len(kupo)-len(want):] != want {
		t.Errorf("kupo URL %s does not end with %s", kupo, want)
	}
}

func TestParseComponent(t *testing.T) {
	for _, c := range Components {
		got, err := ParseComponent(c.String())
		if err != nil {
			t.Errorf("ParseComponent(%q) error = %v", c, err)
		}
		if got != c {
			t.Errorf("ParseComponent(%q) = %q", c, got)
		}
	}

	if _, err := ParseComponent("cardano-db-sync"); !errors.Is(err, ErrUnknownComponent) {
		t.Errorf("expected ErrUnknownComponent, got %v", err)
	}
}

func TestComponentConfigPrefix(t *testing.T) {
	tests := map[Component]string{
		ComponentNode:      "node",
		ComponentYaciStore: "yaci.store",
		ComponentOgmios:    "ogmios",
		ComponentKupo:      "kupo",
	}
	for c, want := range tests {
		if got := c.ConfigPrefix(); got != want {
			t.Errorf("%s.ConfigPrefix() = %q, want %q", c, got, want)
		}
	}
}
