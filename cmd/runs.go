package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/ptbr-tools/sampler-cli/internal/model"
	"github.com/ptbr-tools/sampler-cli/internal/store"
)

var runsFlags struct {
	status string
	limit  int
	offset int
}

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect recorded generation runs",
}

// openStore fails when run tracking is disabled, unlike initStore.
func openStore(cmd *cobra.Command) (store.Store, error) {
	st, err := initStore(cmd.Context())
	if err != nil {
		return nil, err
	}
	if st == nil {
		return nil, eris.New("run tracking is disabled: set store.driver to sqlite or postgres")
	}
	if err := st.Migrate(cmd.Context()); err != nil {
		st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}
	return st, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List runs, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		runs, err := st.ListRuns(cmd.Context(), store.RunFilter{
			Status: model.RunStatus(runsFlags.status),
			Limit:  runsFlags.limit,
			Offset: runsFlags.offset,
		})
		if err != nil {
			return err
		}

		return printJSON(runs)
	},
}

var runsShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show one run and its samples",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		run, err := st.GetRun(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		samples, err := st.ListSamples(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		return printJSON(map[string]any{
			"run":     run,
			"samples": samples,
		})
	},
}

func init() {
	runsListCmd.Flags().StringVar(&runsFlags.status, "status", "", "filter by status (queued, running, completed, failed)")
	runsListCmd.Flags().IntVar(&runsFlags.limit, "limit", 50, "maximum runs to return")
	runsListCmd.Flags().IntVar(&runsFlags.offset, "offset", 0, "runs to skip")

	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)
	rootCmd.AddCommand(runsCmd)
}
