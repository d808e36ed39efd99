// Package cli wires the datamatch commands.
package cli

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"go.datamatch.io/engine/config"
	"go.datamatch.io/engine/utils"
	"go.datamatch.io/engine/utils/log"
)

// Root builds the datamatch root command with all subcommands attached.
func Root(logger *zap.Logger, conf *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "datamatch",
		Short:        "datamatch validates actual data against an expected pattern with embedded match directives",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return loadConfig(logger, cmd, conf)
		},
	}

	cmd.PersistentFlags().Bool("debug", conf.Debug, "Run in debug mode")
	cmd.PersistentFlags().String("config-path", conf.ConfigPath, "Path to the directory holding the datamatch configuration file")
	cmd.PersistentFlags().Bool("strict", conf.Compare.StrictMode, "Enable exact-property matching for every object")
	cmd.PersistentFlags().Bool("ignore-extra", conf.Compare.IgnoreExtraProperties, "Tolerate properties present in the actual data but absent from the expected pattern")
	cmd.PersistentFlags().Int("max-depth", conf.Compare.MaxDepth, "Stop descending below this depth (0 means unlimited)")
	cmd.PersistentFlags().Int("max-errors", conf.Compare.MaxErrors, "Stop recording checks after this many errors (0 means unlimited)")
	cmd.PersistentFlags().String("start-time-test", conf.Compare.StartTimeTest, "Base time for temporal directives (ISO-8601 or unix timestamp)")
	cmd.PersistentFlags().String("start-time-script", conf.Compare.StartTimeScript, "Fallback base time for temporal directives")

	if err := viper.BindPFlags(cmd.PersistentFlags()); err != nil {
		utils.LogError(logger, err, "failed to bind flags to config")
	}

	cmd.AddCommand(Compare(logger, conf))
	cmd.AddCommand(Lint(logger, conf))
	cmd.AddCommand(Directives(logger))
	return cmd
}

// loadConfig merges datamatch.yaml (if present) and flag values into conf.
func loadConfig(logger *zap.Logger, cmd *cobra.Command, conf *config.Config) error {
	configPath, err := cmd.Flags().GetString("config-path")
	if err != nil {
		return err
	}
	if configPath == "" {
		configPath = "."
	}
	viper.SetConfigName("datamatch")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configPath)
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			utils.LogError(logger, err, "failed to read the configuration file")
			return err
		}
	} else if err := viper.Unmarshal(conf); err != nil {
		utils.LogError(logger, err, "failed to decode the configuration file")
		return err
	}

	// Flags win over the config file, but only when set explicitly.
	cmd.Flags().Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "debug":
			conf.Debug = viper.GetBool("debug")
		case "strict":
			conf.Compare.StrictMode = viper.GetBool("strict")
		case "ignore-extra":
			conf.Compare.IgnoreExtraProperties = viper.GetBool("ignore-extra")
		case "max-depth":
			conf.Compare.MaxDepth = viper.GetInt("max-depth")
		case "max-errors":
			conf.Compare.MaxErrors = viper.GetInt("max-errors")
		}
	})
	if conf.Debug {
		log.SetLevel(zap.DebugLevel)
	}
	if v := viper.GetString("start-time-test"); v != "" {
		conf.Compare.StartTimeTest = v
	}
	if v := viper.GetString("start-time-script"); v != "" {
		conf.Compare.StartTimeScript = v
	}
	return nil
}

// Execute runs the root command.
func Execute(logger *zap.Logger, conf *config.Config) {
	if err := Root(logger, conf).Execute(); err != nil {
		os.Exit(1)
	}
}
