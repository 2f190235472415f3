package artifact

import (
	"fmt"
	"strings"

	"github.com/ZebulonRouseFrantzich/clusterfetch/internal/platform"
)

// Template placeholders.
const (
	phVersion     = "{version}"
	phPathVersion = "{path_version}"
	phOS          = "{os}"
	phArch        = "{arch}"
)

// ResolverSpec is the URL naming convention of one upstream project.
// OS and architecture tokens are per project: the same host may be "macos"
// for one release page and "Darwin" for another.
type ResolverSpec struct {
	Component Component
	// Template is the download URL with {version}, {path_version}, {os} and
	// {arch} placeholders.
	Template string
	// OSTokens maps OS families to the project's spelling. Only consulted
	// when Template contains {os}.
	OSTokens map[platform.OSFamily]string
	// ArchTokens maps architecture families to the project's spelling. Only
	// consulted when Template contains {arch}.
	ArchTokens map[string]string
	// PathVersion derives the release tag segment from the version. Nil
	// means the version is used unchanged.
	PathVersion func(version string) string
}

// Request holds the inputs of a single resolution.
type Request struct {
	// URL is an explicit override; when set it is returned verbatim.
	URL     string
	Version string
	OS      platform.OSFamily
	// Arch is a normalized architecture family (platform.ArchAMD64 or
	// platform.ArchARM64); empty when the host architecture is unsupported.
	Arch string
}

// Resolve produces the download URL for a request.
func (s ResolverSpec) Resolve(req Request) (string, error) {
	if req.URL != "" {
		return req.URL, nil
	}

	if req.Version == "" {
		return "", &ResolutionError{
			Component: s.Component,
			Reason:    ErrMissingConfiguration,
			Detail:    "no version or url set",
		}
	}

	pathVersion := req.Version
	if s.PathVersion != nil {
		pathVersion = s.PathVersion(req.Version)
	}

	replacements := []string{
		phVersion, req.Version,
		phPathVersion, pathVersion,
	}

	if strings.Contains(s.Template, phOS) {
		token, ok := s.OSTokens[req.OS]
		if !ok {
			return "", &ResolutionError{
				Component: s.Component,
				Reason:    ErrUnsupportedPlatform,
				Detail:    fmt.Sprintf("unsupported OS: %s", req.OS),
			}
		}
		replacements = append(replacements, phOS, token)
	}

	if strings.Contains(s.Template, phArch) {
		token, ok := s.ArchTokens[req.Arch]
		if !ok {
			return "", &ResolutionError{
				Component: s.Component,
				Reason:    ErrUnsupportedPlatform,
				Detail:    fmt.Sprintf("unsupported architecture: %q", req.Arch),
			}
		}
		replacements = append(replacements, phArch, token)
	}

	return strings.NewReplacer(replacements...).Replace(s.Template), nil
}

// majorMinor trims a three-part X.Y.Z version to X.Y. Versions with any
// other number of parts are returned unchanged.
func majorMinor(version string) string {
	parts := strings.Split(version, ".")
	if len(parts) != 3 {
		return version
	}
	return parts[0] + "." + parts[1]
}

// Upstream release pages.
const (
	NodeDownloadURL      = "https://github.com/IntersectMBO/cardano-node/releases/download"
	YaciStoreDownloadURL = "https://github.com/bloxbean/yaci-store/releases/download"
	OgmiosDownloadURL    = "https://github.com/CardanoSolutions/ogmios/releases/download"
	KupoDownloadURL      = "https://github.com/CardanoSolutions/kupo/releases/download"
)

// DefaultResolverSpecs holds the naming convention of every component.
var DefaultResolverSpecs = map[Component]ResolverSpec{
	// https://github.com/IntersectMBO/cardano-node/releases/download/{v}/cardano-node-{v}-{linux|macos}.tar.gz
	ComponentNode: {
		Component: ComponentNode,
		Template:  NodeDownloadURL + "/{path_version}/cardano-node-{version}-{os}.tar.gz",
		OSTokens: map[platform.OSFamily]string{
			platform.OSLinux: "linux",
			platform.OSMacOS: "macos",
		},
	},
	// https://github.com/bloxbean/yaci-store/releases/download/v{v}/yaci-store-all-{v}.jar
	ComponentYaciStore: {
		Component: ComponentYaciStore,
		Template:  YaciStoreDownloadURL + "/v{path_version}/yaci-store-all-{version}.jar",
	},
	// https://github.com/CardanoSolutions/ogmios/releases/download/v{v}/ogmios-v{v}-{x86_64|aarch64}-linux.zip
	// Only Linux builds are published; the OS is fixed in the name.
	ComponentOgmios: {
		Component: ComponentOgmios,
		Template:  OgmiosDownloadURL + "/v{path_version}/ogmios-v{version}-{arch}-linux.zip",
		ArchTokens: map[string]string{
			platform.ArchAMD64: "x86_64",
			platform.ArchARM64: "aarch64",
		},
	},
	// https://github.com/CardanoSolutions/kupo/releases/download/v{X.Y}/kupo-{X.Y.Z}-{amd64|arm64}-{Linux|Darwin}.tar.gz
	ComponentKupo: {
		Component: ComponentKupo,
		Template:  KupoDownloadURL + "/v{path_version}/kupo-{version}-{arch}-{os}.tar.gz",
		OSTokens: map[platform.OSFamily]string{
			platform.OSLinux: "Linux",
			platform.OSMacOS: "Darwin",
		},
		ArchTokens: map[string]string{
			platform.ArchAMD64: "amd64",
			platform.ArchARM64: "arm64",
		},
		PathVersion: majorMinor,
	},
}

// Resolve builds the download URL for component using its default spec.
func Resolve(component Component, req Request) (string, error) {
	spec, ok := DefaultResolverSpecs[component]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownComponent, component)
	}
	return spec.Resolve(req)
}
