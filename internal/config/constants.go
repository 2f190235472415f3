package config

// Setting keys. The same dotted names are used in properties files, in
// YAML/TOML/JSON (as nested tables) and, upper-cased with "_" separators and
// the CLUSTERFETCH_ prefix, in the environment.
const (
	KeyHome        = "home"
	KeyStoreBinDir = "store.bin.dir"
	KeyOgmiosHome  = "ogmios.home"
	KeyKupoHome    = "kupo.home"

	KeyNodeVersion      = "node.version"
	KeyNodeURL          = "node.url"
	KeyYaciStoreVersion = "yaci.store.version"
	KeyYaciStoreURL     = "yaci.store.url"
	KeyOgmiosVersion    = "ogmios.version"
	KeyOgmiosURL        = "ogmios.url"
	KeyKupoVersion      = "kupo.version"
	KeyKupoURL          = "kupo.url"
)

// EnvPrefix is prepended to environment overrides, e.g. CLUSTERFETCH_KUPO_VERSION.
const EnvPrefix = "CLUSTERFETCH"

// DefaultHomeDirName is the cluster home created under the user's home
// directory when none is configured.
const DefaultHomeDirName = ".clusterfetch"

// Lua schema field names and globals
const (
	luaGlobalCluster    = "cluster"
	luaFieldHome        = "home"
	luaFieldStoreBinDir = "store_bin_dir"
	luaFieldOgmiosHome  = "ogmios_home"
	luaFieldKupoHome    = "kupo_home"
	luaFieldNode        = "node"
	luaFieldYaciStore   = "yaci_store"
	luaFieldOgmios      = "ogmios"
	luaFieldKupo        = "kupo"
	luaFieldVersion     = "version"
	luaFieldURL         = "url"
)
