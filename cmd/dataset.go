package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ptbr-tools/sampler-cli/internal/dataset"
	"github.com/ptbr-tools/sampler-cli/internal/fetcher"
	"github.com/ptbr-tools/sampler-cli/internal/location"
)

var datasetCmd = &cobra.Command{
	Use:   "dataset",
	Short: "Manage the location dataset",
}

var datasetSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Refresh sampling weights from the IBGE sources",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("sync"); err != nil {
			return err
		}

		m := dataset.DefaultManifest()
		if cfg.Dataset.Manifest != "" {
			var err error
			m, err = dataset.LoadManifest(cfg.Dataset.Manifest)
			if err != nil {
				return err
			}
		}

		ds, err := location.LoadDataset(cfg.Dataset.Path)
		if err != nil {
			return err
		}

		st, err := dataset.LoadSyncState(cfg.Dataset.StatePath)
		if err != nil {
			return err
		}

		syncer := dataset.NewSyncer(
			fetcher.NewHTTPFetcher(fetcher.HTTPOptions{}),
			fetcher.NewFTPFetcher(fetcher.FTPOptions{}),
		)

		report, err := syncer.Sync(ctx, m, ds, st)
		if err != nil {
			return err
		}

		if report.EstimatesFresh {
			if err := dataset.WriteOutput(m, ds); err != nil {
				return err
			}
		} else {
			zap.L().Info("dataset: estimates unchanged, output not rewritten")
		}

		return st.Save(cfg.Dataset.StatePath)
	},
}

func init() {
	datasetCmd.AddCommand(datasetSyncCmd)
	rootCmd.AddCommand(datasetCmd)
}
