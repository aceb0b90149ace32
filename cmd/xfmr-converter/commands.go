package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"xfmr-converter/internal/cgmes"
	"xfmr-converter/internal/chart"
	"xfmr-converter/internal/convert"
	"xfmr-converter/internal/diagnostic"
	"xfmr-converter/internal/interpret"
	"xfmr-converter/internal/network"
	"xfmr-converter/internal/tapchanger"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644

	codeConversionFailed = "conversion_failed"
)

type convertOptions struct {
	input   string
	config  string
	output  string
	chart   string
	workers int
	dump    bool
}

func newConvertCmd(ro *rootOptions) *cobra.Command {
	o := &convertOptions{}

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert every transformer of a document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConvert(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), ro, o)
		},
	}

	cmd.Flags().StringVarP(&o.input, "input", "i", "", "transformer document (YAML)")
	cmd.Flags().StringVarP(&o.config, "config", "c", "", "interpretation alternatives (YAML), defaults when empty")
	cmd.Flags().StringVarP(&o.output, "output", "o", "", "network file to write, stdout when empty")
	cmd.Flags().StringVar(&o.chart, "chart", "", "HTML file for the tap changer step chart")
	cmd.Flags().IntVarP(&o.workers, "workers", "w", 0, "transformers converted in parallel, 0 for one per CPU")
	cmd.Flags().BoolVar(&o.dump, "dump", false, "dump converted models to stderr")

	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func runConvert(ctx context.Context, out, errOut io.Writer, ro *rootOptions, o *convertOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}

	logger, err := ro.logger(errOut)
	if err != nil {
		return err
	}

	doc, err := cgmes.LoadFile(o.input)
	if err != nil {
		return err
	}

	if diags := cgmes.Validate(doc); diags.HasErrors() {
		printDiagnostics(errOut, diags)
		return fmt.Errorf("refusing to convert invalid document %s", o.input)
	}

	cfg := interpret.DefaultConfig()
	if o.config != "" {
		if cfg, err = interpret.LoadConfig(o.config); err != nil {
			return err
		}
	}

	conv := convert.NewConverter(cfg,
		convert.WithLogger(logger),
		convert.WithResolver(tapchanger.ControlsResolver(doc.RegulatingControls)),
		convert.WithWorkers(o.workers),
	)

	results, err := conv.ConvertAll(ctx, doc.Transformers)
	if err != nil {
		return err
	}

	diags := convert.MergeDiagnostics(results)
	store := network.NewStore()
	mapper := network.NewMapper(store, store, diags)
	failed := 0

	for _, r := range results {
		if err := mapResult(mapper, r); err != nil {
			diags.AddError(codeConversionFailed, err.Error(), r.ID, "")
			failed++

			continue
		}

		if o.dump {
			spew.Fdump(errOut, r)
		}
	}

	if err := writeNetwork(out, store, o.output); err != nil {
		return err
	}

	if o.chart != "" {
		if err := writeChart(store, o.chart); err != nil {
			return err
		}
	}

	printDiagnostics(errOut, diags)
	fmt.Fprintf(errOut, "converted %d of %d transformers\n", store.Len(), len(results))

	if failed > 0 {
		return fmt.Errorf("%d transformers failed to convert", failed)
	}

	return nil
}

func mapResult(m *network.Mapper, r convert.Result) error {
	switch {
	case r.Err != nil:
		return r.Err
	case r.T2x != nil:
		return m.MapT2x(r.T2x)
	case r.T3x != nil:
		return m.MapT3x(r.T3x)
	default:
		return fmt.Errorf("transformer %s: nothing converted", r.ID)
	}
}

func writeNetwork(out io.Writer, store *network.Store, path string) error {
	if path != "" {
		return store.WriteFile(path)
	}

	data, err := store.Marshal()
	if err != nil {
		return fmt.Errorf("failed to marshal network: %w", err)
	}

	_, err = out.Write(data)

	return err
}

func writeChart(store *network.Store, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return fmt.Errorf("creating chart directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, filePerm)
	if err != nil {
		return fmt.Errorf("failed to create chart file %s: %w", path, err)
	}
	defer f.Close()

	if err := chart.Render(f, chart.Profiles(store)); err != nil {
		return fmt.Errorf("failed to render chart %s: %w", path, err)
	}

	return f.Close()
}

func newValidateCmd() *cobra.Command {
	var input, normalize string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a transformer document without converting it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			doc, err := cgmes.LoadFile(input)
			if err != nil {
				return err
			}

			diags := cgmes.Validate(doc)
			printDiagnostics(cmd.ErrOrStderr(), diags)

			if diags.HasErrors() {
				return fmt.Errorf("%s: %d errors", input, len(diags.Errors))
			}

			if normalize != "" {
				if err := cgmes.WriteFile(doc, normalize); err != nil {
					return err
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d transformers, valid\n", input, len(doc.Transformers))

			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "transformer document (YAML)")
	cmd.Flags().StringVar(&normalize, "normalize", "", "write the document with its defaults applied to this file")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the default interpretation alternatives",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := interpret.MarshalConfig(interpret.DefaultConfig())
			if err != nil {
				return err
			}

			_, err = cmd.OutOrStdout().Write(data)

			return err
		},
	}
}

func printDiagnostics(w io.Writer, diags *diagnostic.Diagnostics) {
	for _, d := range diags.All() {
		fmt.Fprintf(w, "%s: %s\n", d.Severity, d)
	}
}
