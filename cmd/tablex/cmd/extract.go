package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/MeKo-Tech/tablex/internal/config"
	"github.com/MeKo-Tech/tablex/internal/pipeline"
	"github.com/spf13/cobra"
)

// extractCmd represents the extract command.
var extractCmd = &cobra.Command{
	Use:   "extract [file]",
	Short: "Materialize PDF pages and report their table geometry",
	Long: `Materialize the selected pages of a PDF as upright single-page
documents, analyze their text layout and report the geometry table
detection works from.

The input may be a local file or an http(s) URL.

Examples:
  tablex extract report.pdf
  tablex extract report.pdf --pages 1,3-5 --password secret
  tablex extract report.pdf --flavor stream --format json`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE:         runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().String("pages", "", "page selection (e.g. '1,3-5', '2-end', 'all')")
	extractCmd.Flags().StringP("password", "p", "", "password for encrypted PDFs")
	extractCmd.Flags().String("flavor", "", "extraction flavor (lattice, stream)")
	extractCmd.Flags().Int("dpi", 0, "raster resolution for page images (lattice only)")
	extractCmd.Flags().StringP("format", "f", "", "output format (text, json)")
	extractCmd.Flags().StringP("output", "o", "", "output file (default: stdout)")
}

// extractConfig holds the resolved configuration for one extract run.
type extractConfig struct {
	pages      string
	password   string
	flavor     pipeline.Flavor
	dpi        int
	format     string
	outputFile string
	central    *config.Config
}

// configToExtractConfig maps centralized configuration to extractConfig.
// CLI flags override config file values.
func configToExtractConfig(centralCfg *config.Config, cmd *cobra.Command) (*extractConfig, error) {
	setStringWithFlag := func(configValue, flagName string, target *string) {
		*target = configValue
		if cmd.Flags().Changed(flagName) {
			*target, _ = cmd.Flags().GetString(flagName)
		}
	}
	setIntWithFlag := func(configValue int, flagName string, target *int) {
		*target = configValue
		if cmd.Flags().Changed(flagName) {
			*target, _ = cmd.Flags().GetInt(flagName)
		}
	}

	cfg := &extractConfig{central: centralCfg}
	setStringWithFlag(centralCfg.Extract.Pages, "pages", &cfg.pages)
	setStringWithFlag(centralCfg.Extract.Password, "password", &cfg.password)
	setStringWithFlag(centralCfg.Output.Format, "format", &cfg.format)
	setStringWithFlag(centralCfg.Output.File, "output", &cfg.outputFile)
	setIntWithFlag(centralCfg.Render.DPI, "dpi", &cfg.dpi)

	flavorName := centralCfg.Extract.Flavor
	if cmd.Flags().Changed("flavor") {
		flavorName, _ = cmd.Flags().GetString("flavor")
	}
	flavor, err := pipeline.ParseFlavor(flavorName)
	if err != nil {
		return nil, err
	}
	cfg.flavor = flavor

	validFormats := []string{"text", "json"}
	found := false
	for _, f := range validFormats {
		if cfg.format == f {
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("invalid output format: %s (must be one of: %s)",
			cfg.format, strings.Join(validFormats, ", "))
	}

	return cfg, nil
}

// runExtract handles the main extraction logic.
func runExtract(cmd *cobra.Command, args []string) error {
	centralCfg := GetConfig()

	cfg, err := configToExtractConfig(centralCfg, cmd)
	if err != nil {
		return err
	}

	handler, err := pipeline.NewHandler(args[0], &pipeline.HandlerConfig{
		Pages:    cfg.pages,
		Password: cfg.password,
	})
	if err != nil {
		return err
	}
	defer func() { _ = handler.Close() }()

	parser := &pipeline.SummaryParser{}
	result, err := handler.Parse(pipeline.ParseOptions{
		Flavor:    cfg.flavor,
		Layout:    centralCfg.ToLayoutOptions(),
		RenderDPI: float64(cfg.dpi),
	}, parser)
	if err != nil {
		return err
	}

	report := buildReport(args[0], result, parser.Summaries)
	return writeReport(cmd, report, cfg.format, cfg.outputFile)
}

// pageReport is one page of the extract report.
type pageReport struct {
	pipeline.PageSummary
	Rotation string `json:"rotation"`
}

// extractReport is the full output of one extract run.
type extractReport struct {
	File  string       `json:"file"`
	Pages []pageReport `json:"pages"`
}

// buildReport joins per-page summaries with the rotation corrections the
// materializer recorded.
func buildReport(file string, result *pipeline.Result, summaries []pipeline.PageSummary) *extractReport {
	rotations := make(map[int]string, len(result.Pages))
	for _, info := range result.Pages {
		rotations[info.Page] = info.Rotation.String()
	}

	report := &extractReport{File: file}
	for _, s := range summaries {
		report.Pages = append(report.Pages, pageReport{
			PageSummary: s,
			Rotation:    rotations[s.Page],
		})
	}
	return report
}

// writeReport formats and outputs the extract report.
func writeReport(cmd *cobra.Command, report *extractReport, format, outputFile string) error {
	var output string
	switch format {
	case "json":
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to format output: %w", err)
		}
		output = string(data) + "\n"
	default: // text
		output = formatReportText(report)
	}

	if outputFile != "" {
		if err := os.WriteFile(outputFile, []byte(output), 0o600); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Results written to %s\n", outputFile)
		return nil
	}
	fmt.Fprint(cmd.OutOrStdout(), output)
	return nil
}

// formatReportText formats the report as plain text.
func formatReportText(report *extractReport) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "File: %s\n", report.File)
	fmt.Fprintf(&sb, "Pages processed: %d\n\n", len(report.Pages))

	for _, page := range report.Pages {
		fmt.Fprintf(&sb, "Page %d (%.0fx%.0f):\n", page.Page, page.Width, page.Height)
		fmt.Fprintf(&sb, "  characters: %d\n", page.Chars)
		fmt.Fprintf(&sb, "  horizontal lines: %d\n", page.HorizontalLines)
		fmt.Fprintf(&sb, "  vertical lines: %d\n", page.VerticalLines)
		fmt.Fprintf(&sb, "  rotation: %s\n", page.Rotation)
		fmt.Fprintln(&sb)
	}
	return sb.String()
}
