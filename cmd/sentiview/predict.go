package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"sentiview/internal/httpapi"
	"sentiview/internal/lifecycle"
)

var errNothingToClassify = errors.New("nothing to classify: input is empty")

func newPredictCmd(opts *rootOptions) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:     "predict <text...>",
		Short:   "Classify one sentence and print per-model predictions",
		Example: "  sentiview predict \"I love this\"\n  echo \"I love this\" | sentiview predict -",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig(cmd)
			if err != nil {
				return err
			}
			text := strings.Join(args, " ")
			if text == "-" {
				b, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				text = string(b)
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			log := newLogger(cfg.LogLevel, cmd.ErrOrStderr())
			ctrl := controllerFactory(cfg, log, nil)()
			ctrl.SetInput(text)
			if !ctrl.Submit(ctx) {
				return errNothingToClassify
			}
			snap := ctrl.Snapshot()
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(snap.State()); err != nil {
					return err
				}
			} else if snap.Status == lifecycle.Succeeded {
				if err := printTable(cmd.OutOrStdout(), snap); err != nil {
					return err
				}
			}
			if snap.Status == lifecycle.Failed {
				return snap.Err
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the resulting state as JSON")
	return cmd
}

func printTable(w io.Writer, snap lifecycle.Snapshot) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "MODEL\tSENTIMENT\tPROBABILITY")
	for _, e := range snap.Result.Sorted() {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Label, e.Prediction, httpapi.Percent(e.Probability))
	}
	return tw.Flush()
}
