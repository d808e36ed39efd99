// Package config provides configuration structures for the application.
package config

import "go.datamatch.io/engine/pkg/models"

type Config struct {
	Debug      bool    `json:"debug" yaml:"debug" mapstructure:"debug"`
	ConfigPath string  `json:"configPath" yaml:"configPath" mapstructure:"configPath"`
	ReportPath string  `json:"reportPath" yaml:"reportPath" mapstructure:"reportPath"`
	Compare    Compare `json:"compare" yaml:"compare" mapstructure:"compare"`
}

// Compare mirrors models.CompareOptions plus the ambient time context so a
// whole comparison run can be driven from datamatch.yaml.
type Compare struct {
	StrictMode            bool         `json:"strictMode" yaml:"strictMode" mapstructure:"strictMode"`
	IgnoreExtraProperties bool         `json:"ignoreExtraProperties" yaml:"ignoreExtraProperties" mapstructure:"ignoreExtraProperties"`
	MaxDepth              int          `json:"maxDepth" yaml:"maxDepth" mapstructure:"maxDepth"`
	MaxErrors             int          `json:"maxErrors" yaml:"maxErrors" mapstructure:"maxErrors"`
	IgnorePaths           []IgnorePath `json:"ignorePaths" yaml:"ignorePaths" mapstructure:"ignorePaths"`
	StartTimeTest         string       `json:"startTimeTest" yaml:"startTimeTest" mapstructure:"startTimeTest"`
	StartTimeScript       string       `json:"startTimeScript" yaml:"startTimeScript" mapstructure:"startTimeScript"`
}

type IgnorePath struct {
	Path []string `json:"path" yaml:"path" mapstructure:"path"`
	Doc  []string `json:"doc" yaml:"doc" mapstructure:"doc"`
}

// Options converts the configured comparison settings into engine options.
func (c *Config) Options() models.CompareOptions {
	opts := models.CompareOptions{
		StrictMode:            c.Compare.StrictMode,
		IgnoreExtraProperties: c.Compare.IgnoreExtraProperties,
		MaxDepth:              c.Compare.MaxDepth,
		MaxErrors:             c.Compare.MaxErrors,
	}
	for _, p := range c.Compare.IgnorePaths {
		opts.IgnorePaths = append(opts.IgnorePaths, models.IgnorePathConfig{Path: p.Path, Doc: p.Doc})
	}
	return opts
}

// Context extracts the ambient comparison context.
func (c *Config) Context() models.CompareContext {
	ctx := models.CompareContext{}
	if c.Compare.StartTimeTest != "" {
		ctx.StartTimeTest = c.Compare.StartTimeTest
	}
	if c.Compare.StartTimeScript != "" {
		ctx.StartTimeScript = c.Compare.StartTimeScript
	}
	return ctx
}
