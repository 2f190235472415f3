// Package platform detects the host operating system and CPU architecture
// and reduces them to the small set of families release artifacts are
// published for.
//
// Linux distribution details are detected with gopsutil and are informational
// only; artifact URL resolution depends on the OS family and the architecture
// family alone. The same information is exposed to Lua configuration files as
// a read-only "platform" table.
package platform

import "context"

// OSFamily is the operating-system family an artifact is published for.
type OSFamily string

const (
	OSLinux       OSFamily = "linux"
	OSMacOS       OSFamily = "macos"
	OSUnsupported OSFamily = "unsupported"
)

// String returns the family name.
func (f OSFamily) String() string {
	return string(f)
}

// Normalized CPU architecture families. An empty Arch means the host
// architecture is not one of these.
const (
	ArchAMD64 = "amd64"
	ArchARM64 = "arm64"
)

// Linux distribution family constants.
const (
	FamilyDebian  = "debian"  // Debian, Ubuntu, Linux Mint
	FamilyRHEL    = "rhel"    // RHEL, CentOS, Rocky Linux, AlmaLinux
	FamilyFedora  = "fedora"  // Fedora
	FamilySUSE    = "suse"    // openSUSE, SLES
	FamilyArch    = "arch"    // Arch Linux, Manjaro
	FamilyAlpine  = "alpine"  // Alpine Linux
	FamilyGentoo  = "gentoo"  // Gentoo
	FamilyUnknown = "unknown" // Unrecognized distributions
)

// Info contains platform detection information.
type Info struct {
	OS         string // GOOS: "linux", "darwin", "windows"
	Arch       string // normalized: "amd64", "arm64", or "" when unsupported
	ArchRaw    string // original GOARCH
	KernelArch string // uname-style machine name (e.g. "x86_64"); may be empty
	Platform   string // distro ID (Linux only, e.g. "ubuntu")
	Family     string // canonical distro family (e.g. "debian")
	Version    string // distro version (Linux only, e.g. "22.04")
}

// OSFamily maps the GOOS value onto the families artifacts are published for.
func (i *Info) OSFamily() OSFamily {
	switch i.OS {
	case "linux":
		return OSLinux
	case "darwin":
		return OSMacOS
	default:
		return OSUnsupported
	}
}

// IsLinux returns true if the platform is Linux.
func (i *Info) IsLinux() bool {
	return i.OS == "linux"
}

// IsMacOS returns true if the platform is macOS.
func (i *Info) IsMacOS() bool {
	return i.OS == "darwin"
}

// IsAMD64 returns true if the architecture is amd64.
func (i *Info) IsAMD64() bool {
	return i.Arch == ArchAMD64
}

// IsARM64 returns true if the architecture is arm64.
func (i *Info) IsARM64() bool {
	return i.Arch == ArchARM64
}

// HasDistro reports whether Linux distribution details were detected.
func (i *Info) HasDistro() bool {
	return i.IsLinux() && i.Platform != ""
}

// Detector is the interface for platform detection.
type Detector interface {
	Detect(ctx context.Context) (*Info, error)
}

// StaticDetector returns a fixed Info. It is used when the platform is
// supplied by configuration rather than detected, and in tests.
type StaticDetector struct {
	Info *Info
}

// Detect returns a copy of the configured Info.
func (d StaticDetector) Detect(ctx context.Context) (*Info, error) {
	if d.Info == nil {
		return nil, errNoInfo
	}
	info := *d.Info
	return &info, nil
}
