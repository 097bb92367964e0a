// Package main provides a one-shot CLI that scores a single race.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/yourusername/jra-analyzer/internal/api"
	"github.com/yourusername/jra-analyzer/internal/bootstrap"
	"github.com/yourusername/jra-analyzer/internal/service"
)

var (
	configFile string
	asOfFlag   string
	outputFlag string
)

func init() {
	rootCmd.Flags().StringVarP(&configFile, "config", "c", "config/config.yaml", "Path to configuration file")
	rootCmd.Flags().StringVar(&asOfFlag, "as-of", "", "Reference date (YYYY-MM-DD), defaults to today")
	rootCmd.Flags().StringVarP(&outputFlag, "output", "o", "table", "Output format: table or json")
}

var rootCmd = &cobra.Command{
	Use:   "race-analysis <race-id>",
	Short: "Score every entrant of a race",
	Long:  `Loads the race, its entrants and their recent history, then prints the analysis ranked by horse number.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context(), cmd.OutOrStdout(), args[0])
	},
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func run(ctx context.Context, out io.Writer, raceID string) error {
	if outputFlag != "table" && outputFlag != "json" {
		return fmt.Errorf("unknown output format %q", outputFlag)
	}

	var asOf time.Time
	if asOfFlag != "" {
		parsed, err := time.Parse("2006-01-02", asOfFlag)
		if err != nil {
			return fmt.Errorf("invalid --as-of: %w", err)
		}
		asOf = parsed
	}

	rt, err := bootstrap.Load(ctx, configFile)
	if err != nil {
		return err
	}
	defer rt.Close()

	if err := rt.OpenStorage(ctx); err != nil {
		return err
	}

	svc := service.NewAnalysisService(rt.Repos, service.SystemClock(), rt.Location,
		rt.Config.Analysis.HistoryDepth, rt.Logger)

	ctx, cancel := context.WithTimeout(ctx, rt.Config.RequestTimeout())
	defer cancel()

	result, err := svc.Analyze(ctx, raceID, asOf)
	if err != nil {
		return err
	}

	resp := api.NewAnalysisResponse(result, raceID)
	if outputFlag == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}
	return renderTable(out, resp)
}

func renderTable(out io.Writer, resp api.AnalysisResponse) error {
	race := resp.Race
	fmt.Fprintf(out, "%s  %s %sR  %s  %s%sm  (as of %s)\n\n",
		race.RaceName, race.KaisaiBasho, race.RaceNo, race.KaisaiDate, race.Course, race.Kyori, resp.AsOf)

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "枠\t馬番\t馬名\t出走\t平均着順\t勝率\t複勝率\t同馬場\t同距離\tSI\tSI源\tスコア\t前走\t")
	for _, e := range resp.Entries {
		last := "-"
		if e.LastRaceDate != nil {
			last = *e.LastRaceDate
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\t%s\t%s\t%s\t%.1f\t%s\t%.1f\t%s\t\n",
			e.Wakuban, e.Umaban, e.Bamei, e.Starts,
			formatValue(e.AvgRank, 2), formatValue(e.WinRate, 1), formatValue(e.Top3Rate, 1),
			formatValue(e.SurfaceMatchRate, 1), formatValue(e.DistanceMatchRate, 1),
			e.SpeedIndex, e.SpeedSource, e.AnalysisScore, last)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if len(resp.Entries) == 0 {
		fmt.Fprintln(out, "no entrants")
	}
	return nil
}

func formatValue(v *float64, places int) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.*f", places, *v)
}
