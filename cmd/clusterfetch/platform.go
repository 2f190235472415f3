package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newPlatformCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "platform",
		Short: "Show the detected OS and architecture",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := a.detector.Detect(cmd.Context())
			if err != nil {
				return fmt.Errorf("platform detection failed: %w", err)
			}

			arch := info.Arch
			if arch == "" {
				arch = "unsupported"
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "os:           %s (%s)\n", info.OS, info.OSFamily())
			fmt.Fprintf(w, "arch:         %s (%s)\n", info.ArchRaw, arch)
			if info.KernelArch != "" {
				fmt.Fprintf(w, "kernel arch:  %s\n", info.KernelArch)
			}
			if info.HasDistro() {
				fmt.Fprintf(w, "distro:       %s %s (%s)\n", info.Platform, info.Version, info.Family)
			}
			return nil
		},
	}
}
