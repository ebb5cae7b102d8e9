package config

// DefaultAPIBaseURL is the production Story API endpoint.
const DefaultAPIBaseURL = "https://story-api.dicoding.dev/v1"

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BaseDir: DefaultBaseDir(),

		API: APIConfig{
			BaseURL:   DefaultAPIBaseURL,
			RateLimit: 60,
		},

		Sync: SyncConfig{
			ProbeIntervalSeconds: 30,
			AutoSync:             true,
		},
	}
}
