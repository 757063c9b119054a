package config

// Config is the top-level configuration structure mapping to ecm.toml.
type Config struct {
	Project  ProjectConfig  `toml:"project"`
	Storage  StorageConfig  `toml:"storage"`
	Registry RegistryConfig `toml:"registry"`
	Flows    FlowsConfig    `toml:"flows"`
}

// ProjectConfig maps to the [project] section in ecm.toml.
type ProjectConfig struct {
	Name       string `toml:"name"`
	FacilityID string `toml:"facility_id"`
	Operator   string `toml:"operator"`
}

// StorageConfig maps to the [storage] section in ecm.toml. It selects the
// snapshot store backend that makes entry flows resumable.
type StorageConfig struct {
	// Backend is "file" or "sqlite".
	Backend string `toml:"backend"`
	// Dir is the snapshot directory for the file backend.
	Dir string `toml:"dir"`
	// SQLitePath is the database path for the sqlite backend.
	SQLitePath string `toml:"sqlite_path"`
}

// RegistryConfig maps to the [registry] section in ecm.toml and describes
// the external registry API completed entries are submitted to.
type RegistryConfig struct {
	// BaseURL is the registry API root, e.g. "https://registry.example.com".
	BaseURL string `toml:"base_url"`
	// TokenEnv names the environment variable holding the API token. The
	// token itself never lives in the config file.
	TokenEnv string `toml:"token_env"`
	// TimeoutSeconds bounds each submission request.
	TimeoutSeconds int `toml:"timeout_seconds"`
	// PushConcurrency bounds how many drafts `ecm push` submits in parallel.
	PushConcurrency int `toml:"push_concurrency"`
}

// FlowsConfig maps to the [flows] section in ecm.toml. The toggles include
// or drop the optional steps of each entry flow, for deployments that do
// not capture that data.
type FlowsConfig struct {
	TransportStep   bool `toml:"transport_step"`
	LabAnalysisStep bool `toml:"lab_analysis_step"`
	EvidenceStep    bool `toml:"evidence_step"`
}
