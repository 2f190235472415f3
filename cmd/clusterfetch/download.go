package main

import (
	"context"
	"fmt"

	"github.com/ZebulonRouseFrantzich/clusterfetch/internal/artifact"
	"github.com/ZebulonRouseFrantzich/clusterfetch/internal/config"
	"github.com/ZebulonRouseFrantzich/clusterfetch/internal/console"
	"github.com/spf13/cobra"
)

func newDownloadCommand(a *app) *cobra.Command {
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "download <node|yaci-store|ogmios|kupo|all>",
		Short: "Download and install cluster components",
		Long: `Download and install one component, or all of them in order.

An installed component is left untouched unless --overwrite is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Components with subcommands never reach here; only unknown names do.
			component, err := artifact.ParseComponent(args[0])
			if err != nil {
				return err
			}
			return a.install(cmd.Context(), []artifact.Component{component}, overwrite)
		},
	}
	cmd.PersistentFlags().BoolVar(&overwrite, "overwrite", false, "replace an existing installation")

	for _, c := range artifact.Components {
		cmd.AddCommand(newComponentCommand(a, c, &overwrite))
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "all",
		Short: "Download and install every component",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.install(cmd.Context(), artifact.Components, overwrite)
		},
	})

	return cmd
}

func newComponentCommand(a *app, c artifact.Component, overwrite *bool) *cobra.Command {
	prefix := c.ConfigPrefix()

	cmd := &cobra.Command{
		Use:   c.String(),
		Short: fmt.Sprintf("Download and install %s", c),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.install(cmd.Context(), []artifact.Component{c}, *overwrite)
		},
	}

	cmd.Flags().String("version", "", fmt.Sprintf("%s version (overrides %s.version)", c, prefix))
	cmd.Flags().String("url", "", fmt.Sprintf("explicit download URL (overrides %s.url)", prefix))
	a.mustBind(prefix+".version", cmd.Flags().Lookup("version"))
	a.mustBind(prefix+".url", cmd.Flags().Lookup("url"))

	return cmd
}

// install loads the configuration and installs components in order. Every
// component is attempted; the command fails if any of them failed.
// Components that were already present do not count as failures.
func (a *app) install(ctx context.Context, components []artifact.Component, overwrite bool) error {
	out := console.New(a.stdout)

	cfg, err := a.loader.Load(ctx, a.configFile)
	if err != nil {
		out.Error("%s", config.FormatError(err, a.verbose))
		return &ExitError{Code: 1, Err: err}
	}

	info, err := a.detector.Detect(ctx)
	if err != nil {
		out.Error("Platform detection failed: %v", err)
		return &ExitError{Code: 1, Err: err}
	}

	manager, err := artifact.NewManager(artifact.Config{
		Home:        cfg.Home,
		StoreBinDir: cfg.StoreBinDir,
		OgmiosHome:  cfg.OgmiosHome,
		KupoHome:    cfg.KupoHome,
		Sources:     sourcesFrom(cfg),
		Platform:    info,
		Reporter:    out,
		Logger:      a.logger,
		HTTPClient:  a.httpClient,
	})
	if err != nil {
		return err
	}

	failed := 0
	for _, c := range components {
		outcome := manager.Install(ctx, c, overwrite)
		a.logger.Debug("install finished", "component", c, "state", outcome.State, "path", outcome.Path)
		if !outcome.OK() && !outcome.Skipped() {
			failed++
		}
	}

	if failed > 0 {
		return &ExitError{Code: 1, Err: fmt.Errorf("%d of %d components failed", failed, len(components))}
	}
	return nil
}

func sourcesFrom(cfg *config.Config) map[artifact.Component]artifact.Source {
	return map[artifact.Component]artifact.Source{
		artifact.ComponentNode:      artifact.Source(cfg.Node),
		artifact.ComponentYaciStore: artifact.Source(cfg.YaciStore),
		artifact.ComponentOgmios:    artifact.Source(cfg.Ogmios),
		artifact.ComponentKupo:      artifact.Source(cfg.Kupo),
	}
}
