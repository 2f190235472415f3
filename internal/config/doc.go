// Package config loads the cluster installation settings: where the cluster
// home and the per-component directories live, and which version or explicit
// download URL to use for each component.
//
// # Sources
//
// Settings are merged from, lowest precedence first:
//   - built-in defaults (home = ~/.clusterfetch, component dirs below it)
//   - a config file
//   - CLUSTERFETCH_* environment variables (CLUSTERFETCH_KUPO_VERSION, ...)
//   - command-line flags bound with Loader.BindFlag
//
// # File formats
//
// Java properties files use the dotted keys directly:
//
//	home=/srv/devnet
//	node.version=10.1.2
//	yaci.store.version=0.1.0
//	kupo.url=https://mirror.example/kupo.tar.gz
//
// YAML, TOML and JSON files use the same keys as nested tables and are read
// through viper.
//
// Lua files are evaluated with gopher-lua in a sandbox (no os, io, debug or
// code loading) with the read-only platform table injected, so a config can
// branch on the host:
//
//	cluster = {
//	  home = "~/devnet",
//	  node = { version = "10.1.2" },
//	  kupo = { version = "2.9.0" },
//	  ogmios = platform.is_linux and { version = "6.9.0" } or nil,
//	}
//
// Lua evaluation is bounded by the caller's context, or by
// DefaultParseTimeout when the context has no deadline.
//
// HCL files use attributes for the directories and one labeled block per
// component:
//
//	home = "~/devnet"
//
//	component "yaci-store" {
//	  version = "0.1.0"
//	}
//
// # Errors
//
// Lua and HCL failures are returned as *ParseError; FormatError renders them for the
// terminal. Invalid merged settings are returned as *ValidationError.
package config
