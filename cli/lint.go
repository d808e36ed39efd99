package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"go.datamatch.io/engine/config"
	"go.datamatch.io/engine/pkg/matcher"
	"go.datamatch.io/engine/utils"
)

// Lint builds the lint command: it walks an expected JSON pattern and checks
// that every embedded directive parses and resolves in the registry, without
// running a comparison.
func Lint(logger *zap.Logger, _ *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "lint <expected>",
		Short: "Validate every directive embedded in an expected pattern document",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				utils.LogError(logger, err, "failed to read the pattern document")
				return err
			}
			if !gjson.ValidBytes(data) {
				return fmt.Errorf("%s is not valid JSON", args[0])
			}
			registry := matcher.DefaultRegistry()
			err = lintValue(registry, gjson.ParseBytes(data), "root")
			if err != nil {
				for _, e := range multierr.Errors(err) {
					logger.Error("invalid directive", zap.Error(e))
				}
				return fmt.Errorf("%d invalid directives in %s", len(multierr.Errors(err)), args[0])
			}
			logger.Info("all directives are valid", zap.String("path", args[0]))
			return nil
		},
	}
}

func lintValue(registry *matcher.Registry, value gjson.Result, path string) error {
	var errs error
	switch {
	case value.IsObject():
		value.ForEach(func(key, v gjson.Result) bool {
			errs = multierr.Append(errs, lintValue(registry, v, path+"."+key.String()))
			return true
		})
	case value.IsArray():
		i := 0
		value.ForEach(func(_, v gjson.Result) bool {
			errs = multierr.Append(errs, lintValue(registry, v, fmt.Sprintf("%s[%d]", path, i)))
			i++
			return true
		})
	case value.Type == gjson.String:
		for _, directive := range matcher.FindDirectives(value.String()) {
			d, err := matcher.Parse(directive)
			if err != nil {
				errs = multierr.Append(errs, fmt.Errorf("%s: %w", path, err))
				continue
			}
			if matcher.IsKeyword(d.Action) && len(d.Args) == 0 {
				continue
			}
			if !registry.HasDirective(d.Action) {
				errs = multierr.Append(errs, fmt.Errorf("%s: unknown directive %q", path, d.Action))
			}
		}
	}
	return errs
}
