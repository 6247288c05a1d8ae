package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/yourusername/lp2m/internal/models"
	"github.com/yourusername/lp2m/internal/predictor"
)

var (
	strengthHome float64
	strengthAway float64
	maxGoals     int
	league       string
	asJSON       bool
)

func init() {
	predictCmd.Flags().Float64Var(&strengthHome, "home", predictor.DefaultStrength, "Home team strength multiplier")
	predictCmd.Flags().Float64Var(&strengthAway, "away", predictor.DefaultStrength, "Away team strength multiplier")
	predictCmd.Flags().IntVar(&maxGoals, "max-goals", -1, "Largest goal count per side (default from config)")

	fixturesCmd.Flags().StringVarP(&league, "league", "l", "", "League key (ligue1, premier, laliga, seriea, bundesliga, ucl) or numeric id")
	fixturesCmd.Flags().BoolVar(&asJSON, "json", false, "Print the raw JSON list")
	_ = fixturesCmd.MarkFlagRequired("league")
}

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Print a match prediction",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := buildApp(cfg, appLog)
		if err != nil {
			return err
		}
		defer app.close()

		in := app.predictions.Defaults()
		in.StrengthHome = strengthHome
		in.StrengthAway = strengthAway
		if cmd.Flags().Changed("max-goals") {
			in.MaxGoals = maxGoals
		}

		resp, err := app.predictions.PredictInput(in)
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), resp)
	},
}

var fixturesCmd = &cobra.Command{
	Use:   "fixtures",
	Short: "Print upcoming fixtures for a league",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := buildApp(cfg, appLog)
		if err != nil {
			return err
		}
		defer app.close()

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		fixtures, err := app.fixtures.UpcomingFixtures(ctx, league)
		if err != nil {
			return err
		}
		if asJSON {
			return writeJSON(cmd.OutOrStdout(), fixtures)
		}
		return writeFixtureTable(cmd.OutOrStdout(), fixtures)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "lp2m %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
	},
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeFixtureTable(w io.Writer, fixtures []models.Fixture) error {
	if len(fixtures) == 0 {
		_, err := fmt.Fprintln(w, "No upcoming fixtures")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tTIME\tMATCH\tID")
	for _, f := range fixtures {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", f.Date, f.Time, f.Matchup(), f.ID)
	}
	return tw.Flush()
}
