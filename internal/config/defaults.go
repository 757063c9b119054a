package config

// NewDefaults returns a Config populated with all default values. A missing
// ecm.toml yields a fully workable local setup: file-backed snapshots under
// .ecm/drafts and every optional flow step enabled.
func NewDefaults() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend:    "file",
			Dir:        ".ecm/drafts",
			SQLitePath: ".ecm/drafts.db",
		},
		Registry: RegistryConfig{
			TokenEnv:        "ECM_REGISTRY_TOKEN",
			TimeoutSeconds:  30,
			PushConcurrency: 3,
		},
		Flows: FlowsConfig{
			TransportStep:   true,
			LabAnalysisStep: true,
			EvidenceStep:    true,
		},
	}
}

// applyDefaults fills zero-valued fields of cfg from the defaults. Booleans
// in [flows] cannot be distinguished from "unset" once decoded, so they are
// defaulted by seeding the decode target instead (see Load).
func applyDefaults(cfg *Config) {
	def := NewDefaults()

	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = def.Storage.Backend
	}
	if cfg.Storage.Dir == "" {
		cfg.Storage.Dir = def.Storage.Dir
	}
	if cfg.Storage.SQLitePath == "" {
		cfg.Storage.SQLitePath = def.Storage.SQLitePath
	}
	if cfg.Registry.TokenEnv == "" {
		cfg.Registry.TokenEnv = def.Registry.TokenEnv
	}
	if cfg.Registry.TimeoutSeconds == 0 {
		cfg.Registry.TimeoutSeconds = def.Registry.TimeoutSeconds
	}
	if cfg.Registry.PushConcurrency == 0 {
		cfg.Registry.PushConcurrency = def.Registry.PushConcurrency
	}
}
