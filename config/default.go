package config

// New returns the default configuration. Extra properties in the actual
// document are tolerated unless strict mode is enabled.
func New() *Config {
	return &Config{
		Compare: Compare{
			IgnoreExtraProperties: true,
		},
	}
}
