package artifact

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/ZebulonRouseFrantzich/clusterfetch/internal/platform"
)

// Config holds configuration for the install manager.
type Config struct {
	// Home is the cluster home; the node archive is extracted into it.
	Home string
	// StoreBinDir holds the yaci-store jar. Default: <Home>/yaci-store.
	StoreBinDir string
	// OgmiosHome is the ogmios extraction root. Default: <Home>/ogmios.
	OgmiosHome string
	// KupoHome is the kupo extraction root. Default: <Home>/kupo.
	KupoHome string

	// Sources holds the configured version and URL per component.
	Sources map[Component]Source

	// Platform contains OS and architecture information.
	Platform *platform.Info

	// Optional collaborators; nil values get defaults.
	Reporter   Reporter
	Logger     Logger
	HTTPClient *http.Client
}

// Manager orchestrates resolution, download, extraction and permission
// setup for each component. Installs run sequentially on the calling
// goroutine.
type Manager struct {
	descriptors map[Component]Descriptor
	sources     map[Component]Source
	specs       map[Component]ResolverSpec
	platform    *platform.Info
	reporter    Reporter
	logger      Logger
	downloader  *Downloader
}

// NewManager creates a new install manager.
func NewManager(config Config) (*Manager, error) {
	if config.Home == "" {
		return nil, fmt.Errorf("Home is required")
	}

	if config.Platform == nil {
		return nil, fmt.Errorf("Platform is required")
	}

	if config.StoreBinDir == "" {
		config.StoreBinDir = filepath.Join(config.Home, "yaci-store")
	}
	if config.OgmiosHome == "" {
		config.OgmiosHome = filepath.Join(config.Home, "ogmios")
	}
	if config.KupoHome == "" {
		config.KupoHome = filepath.Join(config.Home, "kupo")
	}

	reporter := config.Reporter
	if reporter == nil {
		reporter = noopReporter{}
	}
	logger := config.Logger
	if logger == nil {
		logger = noopLogger{}
	}

	sources := make(map[Component]Source, len(config.Sources))
	for c, s := range config.Sources {
		sources[c] = s
	}

	return &Manager{
		descriptors: defaultDescriptors(config),
		sources:     sources,
		specs:       DefaultResolverSpecs,
		platform:    config.Platform,
		reporter:    reporter,
		logger:      logger,
		downloader:  NewDownloader(config.HTTPClient, reporter, logger),
	}, nil
}

func defaultDescriptors(config Config) map[Component]Descriptor {
	return map[Component]Descriptor{
		ComponentNode: {
			Component: ComponentNode,
			Name:      "cardano-node",
			Dir:       config.Home,
			FileName:  "cardano-node.tar.gz",
			Archive:   ArchiveTarGz,
			Artifact:  filepath.Join("bin", "cardano-node"),
			Executables: []string{
				filepath.Join("bin", "cardano-node"),
				filepath.Join("bin", "cardano-cli"),
				filepath.Join("bin", "cardano-submit-api"),
			},
		},
		ComponentYaciStore: {
			Component: ComponentYaciStore,
			Name:      "yaci-store",
			Dir:       config.StoreBinDir,
			FileName:  "yaci-store.jar",
			Archive:   ArchiveNone,
			Artifact:  "yaci-store.jar",
		},
		ComponentOgmios: {
			Component:   ComponentOgmios,
			Name:        "ogmios",
			Dir:         config.OgmiosHome,
			FileName:    "ogmios.zip",
			Archive:     ArchiveZip,
			Artifact:    filepath.Join("bin", "ogmios"),
			Executables: []string{filepath.Join("bin", "ogmios")},
			Platforms:   []platform.OSFamily{platform.OSLinux},
		},
		ComponentKupo: {
			Component:   ComponentKupo,
			Name:        "kupo",
			Dir:         config.KupoHome,
			FileName:    "kupo.tar.gz",
			Archive:     ArchiveTarGz,
			Artifact:    filepath.Join("bin", "kupo"),
			Executables: []string{filepath.Join("bin", "kupo")},
		},
	}
}

// Descriptor returns the install descriptor of a component.
func (m *Manager) Descriptor(component Component) (Descriptor, error) {
	d, ok := m.descriptors[component]
	if !ok {
		return Descriptor{}, fmt.Errorf("%w: %q", ErrUnknownComponent, component)
	}
	return d, nil
}

// ArtifactPath returns the canonical installed path of a component.
func (m *Manager) ArtifactPath(component Component) string {
	d, ok := m.descriptors[component]
	if !ok {
		return ""
	}
	return filepath.Join(d.Dir, d.Artifact)
}

// IsInstalled checks whether the component's canonical artifact exists.
func (m *Manager) IsInstalled(component Component) (bool, error) {
	path := m.ArtifactPath(component)
	if path == "" {
		return false, fmt.Errorf("%w: %q", ErrUnknownComponent, component)
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("stat artifact: %w", err)
	}

	return true, nil
}

// Install installs one component. Every failure is reported through the
// Reporter and returned in the Outcome.
func (m *Manager) Install(ctx context.Context, component Component, overwrite bool) Outcome {
	d, err := m.Descriptor(component)
	if err != nil {
		m.reporter.Error("%v", err)
		return Outcome{Component: component, State: StateFailed, Err: err}
	}

	o := &Outcome{
		Component: component,
		State:     StateNotStarted,
		Path:      filepath.Join(d.Dir, d.Artifact),
	}

	m.run(ctx, d, overwrite, o)

	if o.State != StateFailed && o.State != StateAlreadyPresent {
		m.transition(o, StateInstalled)
		m.reporter.Success("%s installed at %s", d.Name, o.Path)
	}

	return *o
}

// InstallAll installs every component in order. A failure in one component
// does not prevent the others from being attempted.
func (m *Manager) InstallAll(ctx context.Context, overwrite bool) []Outcome {
	outcomes := make([]Outcome, 0, len(Components))
	for _, c := range Components {
		outcomes = append(outcomes, m.Install(ctx, c, overwrite))
	}
	return outcomes
}

func (m *Manager) run(ctx context.Context, d Descriptor, overwrite bool, o *Outcome) {
	family := m.platform.OSFamily()
	if len(d.Platforms) > 0 && !slices.Contains(d.Platforms, family) {
		m.reporter.Error("%s is supported only on %s. Skipping!!!", d.Name, joinFamilies(d.Platforms))
		m.fail(o, fmt.Errorf("%w: %s is not available for %s", ErrUnsupportedPlatform, d.Name, family))
		return
	}

	installed, err := m.IsInstalled(d.Component)
	if err != nil {
		m.reporter.Error("Could not check existing %s: %v", d.Name, err)
		m.fail(o, err)
		return
	}

	if installed && !overwrite {
		m.reporter.Info("%s already exists in %s", d.Name, o.Path)
		m.reporter.Info("Use --overwrite to overwrite the existing %s", d.Name)
		o.Err = fmt.Errorf("%s: %w", o.Path, ErrAlreadyExists)
		m.transition(o, StateAlreadyPresent)
		return
	}

	url, err := m.resolve(d.Component)
	if err != nil {
		m.reportResolutionError(d, err)
		m.fail(o, err)
		return
	}

	m.transition(o, StateDownloading)
	downloaded, err := m.downloader.Download(ctx, d.Name, url, d.Dir, d.FileName)
	if err != nil {
		m.reporter.Error("Download failed for %s: %v", d.Name, err)
		m.fail(o, err)
		return
	}

	if d.Archive == ArchiveNone {
		return
	}

	m.transition(o, StateExtracting)
	if err := m.extract(d, downloaded); err != nil {
		m.reporter.Error("Error extracting %s: %v", d.Name, err)
		m.fail(o, err)
		return
	}

	for _, exe := range d.Executables {
		if err := SetExecutable(filepath.Join(d.Dir, exe)); err != nil {
			m.reporter.Error("Could not make %s executable: %v", exe, err)
			m.fail(o, err)
			return
		}
	}
	m.transition(o, StateExecutableConfigured)
}

func (m *Manager) resolve(component Component) (string, error) {
	spec, ok := m.specs[component]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownComponent, component)
	}

	src := m.sources[component]
	return spec.Resolve(Request{
		URL:     src.URL,
		Version: src.Version,
		OS:      m.platform.OSFamily(),
		Arch:    m.platform.Arch,
	})
}

func (m *Manager) reportResolutionError(d Descriptor, err error) {
	prefix := d.Component.ConfigPrefix()
	switch {
	case errors.Is(err, ErrMissingConfiguration):
		m.reporter.Error("%s version is not set. Please set the %s version (%s.version) or %s download url (%s.url)",
			d.Name, d.Name, prefix, d.Name, prefix)
	case errors.Is(err, ErrUnsupportedPlatform):
		m.reporter.Error("Download URL for %s could not be resolved: %v", d.Name, err)
	default:
		m.reporter.Error("%v", err)
	}
}

func (m *Manager) extract(d Descriptor, archivePath string) error {
	extractor, err := NewExtractor(d.Archive, m.reporter, m.logger)
	if err != nil {
		return err
	}
	return extractor.Extract(archivePath, d.Dir)
}

func (m *Manager) transition(o *Outcome, next State) {
	m.logger.Debug("install state", "component", o.Component, "from", o.State, "to", next)
	o.State = next
}

func (m *Manager) fail(o *Outcome, err error) {
	o.Err = err
	m.transition(o, StateFailed)
}

func joinFamilies(families []platform.OSFamily) string {
	names := make([]string, len(families))
	for i, f := range families {
		names[i] = f.String()
	}
	return strings.Join(names, ", ")
}

// SetExecutable sets permissions 0755 on path. A missing file is not an
// error: upstream archive layouts drift between releases.
func SetExecutable(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("stat %s: %w", path, err)
	}

	if err := os.Chmod(path, 0755); err != nil {
		return fmt.Errorf("set executable: %w", err)
	}
	return nil
}
