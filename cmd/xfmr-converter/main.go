// Package main provides the CLI entrypoint for xfmr-converter.
//
// xfmr-converter reads a YAML document of CGMES transformers and:
//   - Validates the records and refuses structurally broken documents
//   - Places tap changers, shunts and the structural ratio per configuration
//   - Combines and migrates every tap changer to end1
//   - Writes the resulting network model as YAML
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type rootOptions struct {
	logLevel string
}

func newRootCmd() *cobra.Command {
	ro := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "xfmr-converter",
		Short:        "Convert CGMES power transformers to a network model",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&ro.logLevel, "log-level", "error", "log level of live diagnostics: debug, info, warn, error")

	cmd.AddCommand(
		newConvertCmd(ro),
		newValidateCmd(),
		newConfigCmd(),
	)

	return cmd
}

// logger builds a text logger writing to w at the configured level.
func (ro *rootOptions) logger(w io.Writer) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(ro.logLevel)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", ro.logLevel, err)
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), nil
}
