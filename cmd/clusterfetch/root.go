package main

import (
	"io"
	"net/http"

	"github.com/ZebulonRouseFrantzich/clusterfetch/internal/config"
	"github.com/ZebulonRouseFrantzich/clusterfetch/internal/platform"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// app holds the collaborators shared by every command.
type app struct {
	stdout io.Writer
	stderr io.Writer

	detector   platform.Detector
	httpClient *http.Client // nil uses the downloader default

	loader *config.Loader
	logger *charmLogger

	configFile string
	verbose    bool
}

func newRootCommand(a *app) *cobra.Command {
	a.loader = config.NewLoader(a.detector)

	root := &cobra.Command{
		Use:   "clusterfetch",
		Short: "Fetch and install the components of a local devnet",
		Long: `clusterfetch downloads release artifacts for a local devnet and installs
them into the cluster home: the node distribution, the yaci-store jar, ogmios
and kupo.

Versions and download URLs come from a config file (--config), from
CLUSTERFETCH_* environment variables or from command-line flags.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			a.logger = newLogger(a.stderr, a.verbose)
			a.loader.WithLogger(a.logger)
		},
	}
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "config file (.lua, .properties, .yaml, .toml or .json)")
	flags.String("home", "", "cluster home directory (default is $HOME/"+config.DefaultHomeDirName+")")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")
	a.mustBind(config.KeyHome, flags.Lookup("home"))

	root.AddCommand(newDownloadCommand(a))
	root.AddCommand(newPlatformCommand(a))

	return root
}

// mustBind binds a flag that was just defined; failure is a programming error.
func (a *app) mustBind(key string, flag *pflag.Flag) {
	if err := a.loader.BindFlag(key, flag); err != nil {
		panic(err)
	}
}
