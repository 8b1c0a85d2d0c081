package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/custodia-labs/codeg-cli/internal/adapters/driving/present"
	"github.com/custodia-labs/codeg-cli/internal/core/domain"
	"github.com/custodia-labs/codeg-cli/internal/core/ports/driving"
	"github.com/custodia-labs/codeg-cli/internal/logger"
)

// maxConcurrentDeep bounds the deep analyses started by one command.
const maxConcurrentDeep = 4

var (
	analyzeRegion   string
	analyzeKeywords []string
	analyzeDeep     []string
	analyzeJSON     bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Find funding notices that fit the company profile",
	Long: `Sends the stored company profile to the analysis service and lists the
matching notices with their G-Score.

The profile needs an industry. Use --region and --keyword to narrow the
search, and --deep with a notice URL from the results to fetch its full
analysis (repeat --deep for several notices; they run concurrently).`,
	Args: cobra.NoArgs,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeRegion, "region", "r", "", "region filter, e.g. 서울 (default from settings)")
	analyzeCmd.Flags().StringSliceVarP(&analyzeKeywords, "keyword", "k", nil, "extra search keyword (repeatable)")
	analyzeCmd.Flags().StringSliceVar(&analyzeDeep, "deep", nil, "notice URL to analyze in depth (repeatable)")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	if err := requireProfileService(); err != nil {
		return err
	}
	if resultSet == nil {
		return errors.New("analysis service not configured")
	}

	ctx := commandContext(cmd)
	profile := profileService.Get(ctx)
	filters := domain.AnalyzeFilters{
		Region:   resolveRegion(cmd),
		Keywords: analyzeKeywords,
	}

	if !analyzeJSON {
		cmd.PrintErrln(filtersDescription(filters))
	}

	if err := resultSet.RunAnalyze(ctx, profile, filters); err != nil {
		if errors.Is(err, domain.ErrValidation) {
			return fmt.Errorf("%w\nRun 'codeg profile set --industry <name>' first", err)
		}
		return fmt.Errorf("analysis failed: %w", err)
	}

	if len(analyzeDeep) > 0 {
		runDeepAnalyses(ctx, cmd, analyzeDeep)
	}

	snapshot := resultSet.Snapshot()
	if analyzeJSON {
		return outputAnalyzeJSON(cmd, snapshot)
	}
	outputAnalyzeTable(cmd, snapshot)
	return nil
}

// resolveRegion returns the --region flag, or the configured default.
func resolveRegion(cmd *cobra.Command) string {
	if cmd.Flags().Changed("region") {
		return analyzeRegion
	}
	if settingsService != nil {
		if settings, err := settingsService.Get(); err == nil {
			return settings.Analyze.Region
		}
	}
	return domain.DefaultRegion
}

func filtersDescription(f domain.AnalyzeFilters) string {
	desc := "Analyzing notices"
	if f.Region != "" {
		desc += " in " + f.Region
	}
	if len(f.Keywords) > 0 {
		desc += " for " + formatKeywords(f.Keywords)
	}
	return desc + "..."
}

// runDeepAnalyses fetches the deep analysis of each url concurrently.
// A failure is recorded on its result and does not stop the others.
func runDeepAnalyses(ctx context.Context, cmd *cobra.Command, urls []string) {
	snapshot := resultSet.Snapshot()

	var g errgroup.Group
	g.SetLimit(maxConcurrentDeep)

	for _, url := range urls {
		if _, ok := snapshot.Find(url); !ok {
			cmd.PrintErrf("Warning: %s is not in the results; skipped.\n", url)
			continue
		}
		g.Go(func() error {
			if err := resultSet.DeepAnalyze(ctx, url); err != nil {
				return fmt.Errorf("%s: %w", url, err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		logger.Debug("deep analysis error: %v", err)
		cmd.PrintErrf("Warning: deep analysis failed for at least one notice (%v)\n", err)
	}
}

// resultOutput is the JSON shape of one result.
type resultOutput struct {
	domain.AnalysisResult
	Band            domain.ScoreBand `json:"band"`
	Enrichment      string           `json:"enrichment"`
	EnrichmentError string           `json:"enrichment_error,omitempty"`
}

type analyzeOutput struct {
	Status  string         `json:"status"`
	Results []resultOutput `json:"results"`
}

func outputAnalyzeJSON(cmd *cobra.Command, snapshot driving.ResultSnapshot) error {
	out := analyzeOutput{
		Status:  snapshot.Status,
		Results: make([]resultOutput, 0, len(snapshot.Results)),
	}
	for _, r := range snapshot.Results {
		st := snapshot.StateOf(r.URL)
		out.Results = append(out.Results, resultOutput{
			AnalysisResult:  r,
			Band:            domain.BandOf(r.GScore),
			Enrichment:      st.Phase.String(),
			EnrichmentError: st.Reason,
		})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputAnalyzeTable(cmd *cobra.Command, snapshot driving.ResultSnapshot) {
	w := cmd.OutOrStdout()

	if len(snapshot.Results) == 0 {
		cmd.Println(snapshot.Status)
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	if isTerminal(w) {
		t.SetStyle(table.StyleRounded)
	}
	t.AppendHeader(table.Row{"#", "G-Score", "Fit", "Title", "Agency", "Date", "Analysis"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Title", WidthMax: 48},
		{Name: "Agency", WidthMax: 20},
	})

	for i, r := range snapshot.Results {
		t.AppendRow(table.Row{
			i + 1,
			present.Score(r.GScore),
			present.BandLabel(domain.BandOf(r.GScore)),
			present.Line(r.Title),
			present.Line(r.Agency),
			present.Line(r.Date),
			present.Phase(snapshot.StateOf(r.URL)),
		})
	}
	t.Render()

	cmd.Println()
	cmd.Println(snapshot.Status)
	printDeepDetails(cmd, snapshot)
	printURLs(cmd, snapshot)
}

// printDeepDetails prints the long-form analysis of deep-analyzed results.
func printDeepDetails(cmd *cobra.Command, snapshot driving.ResultSnapshot) {
	for i, r := range snapshot.Results {
		st := snapshot.StateOf(r.URL)
		if st.Phase != domain.EnrichmentEnriched && st.Phase != domain.EnrichmentFailed {
			continue
		}

		cmd.Println()
		cmd.Printf("[%d] %s\n", i+1, present.Line(r.Title))
		cmd.Printf("    %s\n", r.URL)
		if st.Phase == domain.EnrichmentFailed {
			cmd.Printf("    Analysis failed: %s\n", st.Reason)
		}
		printField(cmd, "Summary", present.Summary(r, st))
		printField(cmd, "Eligibility", present.Text(r.Eligibility))
		printField(cmd, "Reasoning", present.Text(r.Reasoning))
	}
}

func printField(cmd *cobra.Command, label, value string) {
	if value == "" {
		return
	}
	cmd.Printf("    %s:\n", label)
	for _, line := range strings.Split(value, "\n") {
		cmd.Printf("      %s\n", line)
	}
}

func printURLs(cmd *cobra.Command, snapshot driving.ResultSnapshot) {
	cmd.Println()
	cmd.Println("Links:")
	width := len(strconv.Itoa(len(snapshot.Results)))
	for i, r := range snapshot.Results {
		cmd.Printf("  [%*d] %s\n", width, i+1, r.URL)
	}
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
