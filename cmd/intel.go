package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/localclarity/citation-intel/internal/citation"
	"github.com/localclarity/citation-intel/pkg/answers"
)

var (
	intelCategory string
	intelCity     string
	intelState    string
)

var intelCmd = &cobra.Command{
	Use:   "intel",
	Short: "Inspect persisted citation intelligence for one tuple",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		provider := cfg.Answers.Provider
		if provider == "" {
			provider = answers.ProviderPerplexity
		}

		rows, err := st.IntelligenceFor(ctx, citation.NormalizeCategory(intelCategory), intelCity, intelState, provider)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	},
}

func init() {
	intelCmd.Flags().StringVar(&intelCategory, "category", "", "business category")
	intelCmd.Flags().StringVar(&intelCity, "city", "", "city")
	intelCmd.Flags().StringVar(&intelState, "state", "", "state")
	intelCmd.MarkFlagRequired("category")
	intelCmd.MarkFlagRequired("city")
	intelCmd.MarkFlagRequired("state")
	rootCmd.AddCommand(intelCmd)
}
