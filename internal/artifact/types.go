package artifact

import (
	"fmt"
	"strings"

	"github.com/ZebulonRouseFrantzich/clusterfetch/internal/platform"
)

// Component identifies an external component of the local cluster.
type Component string

const (
	// ComponentNode is the node distribution (node, cli and submit-api).
	ComponentNode Component = "node"
	// ComponentYaciStore is the yaci-store indexer, shipped as a bare jar.
	ComponentYaciStore Component = "yaci-store"
	// ComponentOgmios is the ogmios bridge service.
	ComponentOgmios Component = "ogmios"
	// ComponentKupo is the kupo chain-index service.
	ComponentKupo Component = "kupo"
)

// Components lists every component in install order.
var Components = []Component{
	ComponentNode,
	ComponentYaciStore,
	ComponentOgmios,
	ComponentKupo,
}

// String returns the string representation of the component.
func (c Component) String() string {
	return string(c)
}

// ConfigPrefix returns the configuration key prefix for the component's
// version and url settings, e.g. "yaci.store" for "yaci.store.version".
func (c Component) ConfigPrefix() string {
	return strings.ReplaceAll(string(c), "-", ".")
}

// ParseComponent returns the component with the given name.
func ParseComponent(name string) (Component, error) {
	for _, c := range Components {
		if string(c) == name {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownComponent, name)
}

// ArchiveKind is the packaging format of a downloaded artifact.
type ArchiveKind int

const (
	// ArchiveNone means the download is the installed artifact.
	ArchiveNone ArchiveKind = iota
	// ArchiveTarGz is a gzip-compressed tar archive.
	ArchiveTarGz
	// ArchiveZip is a zip archive.
	ArchiveZip
)

// String returns the string representation of the archive kind.
func (k ArchiveKind) String() string {
	switch k {
	case ArchiveNone:
		return "none"
	case ArchiveTarGz:
		return "tar.gz"
	case ArchiveZip:
		return "zip"
	default:
		return "unknown"
	}
}

// Source is the configured origin of a component: an explicit download URL,
// a version to build the URL from, or both (the URL wins).
type Source struct {
	Version string
	URL     string
}

// Descriptor describes where and how a component is installed.
type Descriptor struct {
	Component Component
	// Name is the human-readable name used in status lines.
	Name string
	// Dir is both the download directory and the extraction target.
	Dir string
	// FileName is the local name of the downloaded file inside Dir.
	FileName string
	Archive  ArchiveKind
	// Artifact is the path, relative to Dir, whose presence means the
	// component is installed.
	Artifact string
	// Executables are paths, relative to Dir, made runnable after extraction.
	Executables []string
	// Platforms restricts installation to the listed OS families; empty
	// means any supported family.
	Platforms []platform.OSFamily
}

// State is a step of the per-component install state machine.
type State int

const (
	StateNotStarted State = iota
	StateAlreadyPresent
	StateDownloading
	StateExtracting
	StateExecutableConfigured
	StateInstalled
	StateFailed
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not-started"
	case StateAlreadyPresent:
		return "already-present"
	case StateDownloading:
		return "downloading"
	case StateExtracting:
		return "extracting"
	case StateExecutableConfigured:
		return "executable-configured"
	case StateInstalled:
		return "installed"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome is the terminal result of installing one component.
type Outcome struct {
	Component Component
	State     State
	// Path is the canonical artifact path.
	Path string
	// Err is nil only when State is StateInstalled.
	Err error
}

// OK reports whether the component was installed by this call.
func (o Outcome) OK() bool {
	return o.State == StateInstalled
}

// Skipped reports whether the install stopped because the artifact was
// already present.
func (o Outcome) Skipped() bool {
	return o.State == StateAlreadyPresent
}
