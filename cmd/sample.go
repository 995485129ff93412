package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ptbr-tools/sampler-cli/internal/model"
	"github.com/ptbr-tools/sampler-cli/internal/person"
	"github.com/ptbr-tools/sampler-cli/internal/sampler"
	"github.com/ptbr-tools/sampler-cli/internal/sink"
)

var sampleFlags struct {
	qty     int
	online  bool
	workers int
	timeout int
	seed    uint64

	out    string
	append bool

	name         bool
	namePeriod   string
	nameRaw      bool
	oneSurname   bool
	alwaysMiddle bool
	top40        bool

	cpf     bool
	rg      bool
	cnpj    bool
	pis     bool
	cei     bool
	phone   bool
	allDocs bool
}

var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Generate synthetic personal records",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if sampleFlags.timeout > 0 {
			cfg.Lookup.TimeoutSecs = sampleFlags.timeout
		}
		if err := cfg.Validate("sample"); err != nil {
			return err
		}

		gen, err := buildGenerator(sampleFlags.seed, sampleFlags.workers)
		if err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		if st != nil {
			defer st.Close()
			if err := st.Migrate(ctx); err != nil {
				return eris.Wrap(err, "migrate store")
			}
		}

		opts := sampleOptions()

		var runID string
		if st != nil {
			run, err := st.CreateRun(ctx, opts.Qty, opts.Online)
			if err != nil {
				return err
			}
			runID = run.ID
			if err := st.UpdateRunStatus(ctx, runID, model.RunStatusRunning); err != nil {
				return err
			}
		}

		result, err := gen.Generate(ctx, opts)
		if err != nil {
			if st != nil {
				if ferr := st.FailRun(ctx, runID, err.Error()); ferr != nil {
					zap.L().Warn("record run failure", zap.Error(ferr))
				}
			}
			return eris.Wrap(err, "generate samples")
		}

		if st != nil {
			if err := st.SaveSamples(ctx, runID, result.Samples); err != nil {
				return err
			}
			if err := st.CompleteRun(ctx, runID, len(result.Samples), result.Degraded); err != nil {
				return err
			}
		}

		return writeSamples(result.Samples)
	},
}

// sampleOptions maps the flags onto generator options.
func sampleOptions() sampler.Options {
	opts := sampler.Options{
		Qty:         sampleFlags.qty,
		Online:      sampleFlags.online,
		IncludeName: sampleFlags.name,
		Name: person.Options{
			Period:       person.TimePeriod(sampleFlags.namePeriod),
			Raw:          sampleFlags.nameRaw,
			OneSurname:   sampleFlags.oneSurname,
			AlwaysMiddle: sampleFlags.alwaysMiddle,
			Top40:        sampleFlags.top40,
		},
		IncludeCPF:   sampleFlags.cpf || sampleFlags.allDocs,
		IncludeRG:    sampleFlags.rg || sampleFlags.allDocs,
		IncludeCNPJ:  sampleFlags.cnpj || sampleFlags.allDocs,
		IncludePIS:   sampleFlags.pis || sampleFlags.allDocs,
		IncludeCEI:   sampleFlags.cei || sampleFlags.allDocs,
		IncludePhone: sampleFlags.phone || sampleFlags.allDocs,
	}
	return opts
}

// writeSamples sends the records to the configured JSONL file, or to
// stdout as indented JSON when no output path is set.
func writeSamples(samples []model.Sample) error {
	out := sampleFlags.out
	if out == "" {
		out = cfg.Output.Path
	}
	if out == "" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(samples)
	}

	mode := sink.ModeOverwrite
	if sampleFlags.append || cfg.Output.Append {
		mode = sink.ModeAppend
	}
	w, err := sink.NewJSONL(out, mode)
	if err != nil {
		return err
	}
	if err := w.WriteAll(samples); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

func init() {
	sampleCmd.Flags().IntVarP(&sampleFlags.qty, "qty", "q", 1, "number of records to generate")
	sampleCmd.Flags().BoolVar(&sampleFlags.online, "online", false, "resolve addresses against the CEP directories")
	sampleCmd.Flags().IntVar(&sampleFlags.workers, "workers", 0, "concurrent lookups (default from config)")
	sampleCmd.Flags().IntVar(&sampleFlags.timeout, "timeout", 0, "lookup batch deadline in seconds (default from config)")
	sampleCmd.Flags().Uint64Var(&sampleFlags.seed, "seed", 0, "random seed for reproducible runs (0 = time-seeded)")

	sampleCmd.Flags().StringVarP(&sampleFlags.out, "out", "o", "", "JSONL output path (default stdout)")
	sampleCmd.Flags().BoolVar(&sampleFlags.append, "append", false, "append to the output file instead of overwriting")

	sampleCmd.Flags().BoolVar(&sampleFlags.name, "name", false, "include a full name")
	sampleCmd.Flags().StringVar(&sampleFlags.namePeriod, "name-period", "", "birth period for first names (ate1930..ate2010)")
	sampleCmd.Flags().BoolVar(&sampleFlags.nameRaw, "name-raw", false, "keep names in the dataset's all-caps form")
	sampleCmd.Flags().BoolVar(&sampleFlags.oneSurname, "one-surname", false, "draw a single surname")
	sampleCmd.Flags().BoolVar(&sampleFlags.alwaysMiddle, "always-middle", false, "always include a middle name")
	sampleCmd.Flags().BoolVar(&sampleFlags.top40, "top40", false, "restrict surnames to the most common ones")

	sampleCmd.Flags().BoolVar(&sampleFlags.cpf, "cpf", false, "include a CPF")
	sampleCmd.Flags().BoolVar(&sampleFlags.rg, "rg", false, "include an RG")
	sampleCmd.Flags().BoolVar(&sampleFlags.cnpj, "cnpj", false, "include a CNPJ")
	sampleCmd.Flags().BoolVar(&sampleFlags.pis, "pis", false, "include a PIS")
	sampleCmd.Flags().BoolVar(&sampleFlags.cei, "cei", false, "include a CEI")
	sampleCmd.Flags().BoolVar(&sampleFlags.phone, "phone", false, "include a phone number with the city's DDD")
	sampleCmd.Flags().BoolVar(&sampleFlags.allDocs, "all-docs", false, "include every document and a phone number")

	rootCmd.AddCommand(sampleCmd)
}
