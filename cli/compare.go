package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/7sDream/geko"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/wI2L/jsondiff"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"go.datamatch.io/engine/config"
	"go.datamatch.io/engine/pkg/matcher"
	"go.datamatch.io/engine/pkg/models"
	"go.datamatch.io/engine/utils"
)

// comparePairWorkers bounds the concurrent comparisons in directory mode.
const comparePairWorkers = 4

// Report is the JSON document written by --report.
type Report struct {
	ID      string         `json:"id"`
	Results []ReportResult `json:"results"`
}

type ReportResult struct {
	Name   string               `json:"name"`
	Result models.CompareResult `json:"result"`
}

// Compare builds the compare command. It accepts two files, or two
// directories whose entries are paired by file name.
func Compare(logger *zap.Logger, conf *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare <expected> <actual>",
		Short: "Compare an actual document against an expected pattern",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			reportPath, err := cmd.Flags().GetString("report")
			if err != nil {
				return err
			}
			showDiff, err := cmd.Flags().GetBool("diff")
			if err != nil {
				return err
			}
			return runCompare(logger, conf, args[0], args[1], reportPath, showDiff)
		},
	}
	cmd.Flags().String("report", conf.ReportPath, "Write a JSON report of all comparisons to this file")
	cmd.Flags().Bool("diff", false, "Print a JSON Patch of the structural differences on failure")
	return cmd
}

func runCompare(logger *zap.Logger, conf *config.Config, expectedPath, actualPath, reportPath string, showDiff bool) error {
	pairs, err := collectPairs(expectedPath, actualPath)
	if err != nil {
		utils.LogError(logger, err, "failed to collect comparison pairs")
		return err
	}

	engine := matcher.NewEngine(logger, nil)
	opts := conf.Options()
	ctx := conf.Context()

	var (
		mu      sync.Mutex
		results = make([]ReportResult, len(pairs))
		failed  bool
	)
	g := new(errgroup.Group)
	g.SetLimit(comparePairWorkers)
	for i, pair := range pairs {
		i, pair := i, pair
		g.Go(func() error {
			expected, err := loadDocument(pair.expected)
			if err != nil {
				return fmt.Errorf("failed to load expected document %s: %w", pair.expected, err)
			}
			actual, err := loadDocument(pair.actual)
			if err != nil {
				return fmt.Errorf("failed to load actual document %s: %w", pair.actual, err)
			}
			result := engine.Compare(matcher.CompareRequest{
				Expected: expected,
				Actual:   actual,
				Context:  ctx,
				Options:  &opts,
			})

			mu.Lock()
			defer mu.Unlock()
			results[i] = ReportResult{Name: pair.name, Result: result}
			if !result.Success {
				failed = true
			}
			printer := matcher.NewResultPrinter(pair.name)
			if err := printer.Render(result); err != nil {
				utils.LogError(logger, err, "failed to render the comparison result")
			}
			if showDiff && !result.Success {
				renderJSONDiff(logger, expected, actual)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		utils.LogError(logger, err, "comparison run aborted")
		return err
	}

	if reportPath != "" {
		if err := writeReport(logger, reportPath, results); err != nil {
			return err
		}
	}
	if failed {
		return fmt.Errorf("comparison failed")
	}
	return nil
}

type comparePair struct {
	name     string
	expected string
	actual   string
}

// collectPairs resolves the two arguments into comparison pairs. Directory
// arguments are paired entry-by-entry on the file name.
func collectPairs(expectedPath, actualPath string) ([]comparePair, error) {
	expInfo, err := os.Stat(expectedPath)
	if err != nil {
		return nil, err
	}
	actInfo, err := os.Stat(actualPath)
	if err != nil {
		return nil, err
	}
	if expInfo.IsDir() != actInfo.IsDir() {
		return nil, fmt.Errorf("%s and %s must both be files or both be directories", expectedPath, actualPath)
	}
	if !expInfo.IsDir() {
		name := fmt.Sprintf("%s vs %s", filepath.Base(expectedPath), filepath.Base(actualPath))
		return []comparePair{{name: name, expected: expectedPath, actual: actualPath}}, nil
	}

	entries, err := os.ReadDir(expectedPath)
	if err != nil {
		return nil, err
	}
	var pairs []comparePair
	for _, entry := range entries {
		if entry.IsDir() || !isDocument(entry.Name()) {
			continue
		}
		actual := filepath.Join(actualPath, entry.Name())
		if _, err := os.Stat(actual); err != nil {
			return nil, fmt.Errorf("no actual document for %s: %w", entry.Name(), err)
		}
		pairs = append(pairs, comparePair{
			name:     entry.Name(),
			expected: filepath.Join(expectedPath, entry.Name()),
			actual:   actual,
		})
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].name < pairs[j].name })
	if len(pairs) == 0 {
		return nil, fmt.Errorf("no documents found in %s", expectedPath)
	}
	return pairs, nil
}

func isDocument(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json", ".yaml", ".yml":
		return true
	}
	return false
}

// loadDocument reads a JSON or YAML tree. JSON goes through geko so object
// key order survives into the comparison details.
func loadDocument(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var doc any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
		return doc, nil
	default:
		doc, err := geko.JSONUnmarshal(data)
		if err != nil {
			return nil, err
		}
		return doc, nil
	}
}

// renderJSONDiff prints a raw RFC 6902 patch between the two documents. It
// complements the engine's report with a directive-unaware structural view.
func renderJSONDiff(logger *zap.Logger, expected, actual any) {
	patch, err := jsondiff.Compare(expected, actual)
	if err != nil {
		utils.LogError(logger, err, "failed to compute the json diff")
		return
	}
	out, err := json.MarshalIndent(patch, "", "  ")
	if err != nil {
		utils.LogError(logger, err, "failed to marshal the json diff")
		return
	}
	fmt.Printf("structural diff (JSON Patch):\n%s\n", out)
}

func writeReport(logger *zap.Logger, path string, results []ReportResult) error {
	report := Report{
		ID:      uuid.New().String(),
		Results: results,
	}
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		utils.LogError(logger, err, "failed to marshal the report")
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		utils.LogError(logger, err, "failed to write the report file")
		return err
	}
	logger.Info("report written", zap.String("path", path), zap.String("id", report.ID))
	return nil
}
