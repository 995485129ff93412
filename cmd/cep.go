package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/ptbr-tools/sampler-cli/internal/address"
	"github.com/ptbr-tools/sampler-cli/internal/cep"
)

var cepWorkers int

var cepCmd = &cobra.Command{
	Use:   "cep CODE...",
	Short: "Resolve postal codes against the CEP directories",
	Long:  "Looks each code up in ViaCEP with a BrasilAPI fallback, filling fields the directories omit with synthetic data. Codes may be dashed (36335-000) or bare (36335000).",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("sample"); err != nil {
			return err
		}

		inputs := make([]address.Input, len(args))
		for i, code := range args {
			inputs[i] = address.Input{Code: code}
		}

		workers := cepWorkers
		if workers <= 0 {
			workers = cfg.Lookup.Workers
		}
		resolver := cep.NewResolver(newLookupClient(), workers)
		pipeline := address.NewPipeline(resolver, newRand(0))

		records, err := pipeline.Enrich(ctx, inputs, address.ModeOnline)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	},
}

func init() {
	cepCmd.Flags().IntVar(&cepWorkers, "workers", 0, "concurrent lookups (default from config)")
	rootCmd.AddCommand(cepCmd)
}
