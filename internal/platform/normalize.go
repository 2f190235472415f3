package platform

import (
	"strings"
)

// familyMap maps distribution names to their canonical family names.
var familyMap = map[string]string{
	"debian":   FamilyDebian,
	"ubuntu":   FamilyDebian,
	"rhel":     FamilyRHEL,
	"centos":   FamilyRHEL,
	"rocky":    FamilyRHEL,
	"fedora":   FamilyFedora,
	"suse":     FamilySUSE,
	"opensuse": FamilySUSE,
	"arch":     FamilyArch,
	"manjaro":  FamilyArch,
	"alpine":   FamilyAlpine,
	"gentoo":   FamilyGentoo,
}

// NormalizeArch reduces a GOARCH or uname machine name to an architecture
// family. Any ARM flavour ("arm", "armv7l", "aarch64") is treated as arm64,
// since upstream projects only publish 64-bit ARM builds.
func NormalizeArch(arch string) (string, bool) {
	a := strings.ToLower(strings.TrimSpace(arch))
	switch {
	case a == "amd64" || a == "x86_64" || a == "x64":
		return ArchAMD64, true
	case strings.HasPrefix(a, "aarch") || strings.HasPrefix(a, "arm"):
		return ArchARM64, true
	default:
		return "", false
	}
}

// normalizePlatform converts platform IDs to lowercase for consistency.
func normalizePlatform(platform string) string {
	return strings.ToLower(strings.TrimSpace(platform))
}

// mapFamily maps distribution family strings to canonical family names.
func mapFamily(family string) string {
	normalized := strings.ToLower(strings.TrimSpace(family))
	if canonical, ok := familyMap[normalized]; ok {
		return canonical
	}
	return FamilyUnknown
}
