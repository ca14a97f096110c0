package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/localclarity/citation-intel/internal/citation"
	"github.com/localclarity/citation-intel/internal/model"
	"github.com/localclarity/citation-intel/pkg/answers"
)

var gapOrgID string

// gapReport is the per-tuple gap output for one org.
type gapReport struct {
	OrgID  string                      `json:"org_id"`
	Tuples map[string]model.GapSummary `json:"tuples"`
}

var gapCmd = &cobra.Command{
	Use:   "gap",
	Short: "Compute the citation gap for one org",
	Long:  "Compares the org's directory listings against the persisted citation intelligence for each of its tuples.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		org, err := st.GetOrg(ctx, gapOrgID)
		if err != nil {
			return err
		}

		listings, err := st.ListListings(ctx, gapOrgID)
		if err != nil {
			return err
		}

		derivation := citation.DeriveTuples([]model.Org{*org})
		if len(derivation.Tuples) == 0 {
			return eris.Errorf("org %s has no sampleable tuples", gapOrgID)
		}

		provider := cfg.Answers.Provider
		if provider == "" {
			provider = answers.ProviderPerplexity
		}

		gapCfg := citation.GapConfig{RelevanceThreshold: cfg.Citation.RelevanceThreshold}
		if gapCfg.RelevanceThreshold <= 0 {
			gapCfg = citation.DefaultGapConfig()
		}

		report := gapReport{OrgID: gapOrgID, Tuples: make(map[string]model.GapSummary)}
		for _, tuple := range derivation.Tuples {
			platforms, err := st.IntelligenceFor(ctx, tuple.Category, tuple.City, tuple.State, provider)
			if err != nil {
				return err
			}
			report.Tuples[tuple.String()] = citation.CalculateGapScore(platforms, listings, gapCfg)
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	},
}

func init() {
	gapCmd.Flags().StringVar(&gapOrgID, "org", "", "org ID to score")
	gapCmd.MarkFlagRequired("org")
	rootCmd.AddCommand(gapCmd)
}
