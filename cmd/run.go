package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/localclarity/citation-intel/internal/citation"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one citation sampling batch",
	Long:  "Derives the sampling scope from eligible tenants, samples the answer engine for each unique (category, city, state) tuple, and upserts the resulting citation frequencies.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate store")
		}

		runner, err := initCronRunner(st)
		if err != nil {
			return err
		}

		summary, err := runner.Run(ctx)
		if err != nil {
			if eris.Is(err, citation.ErrNoCredential) {
				return eris.New("answers.key is not configured; refusing to run")
			}
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
