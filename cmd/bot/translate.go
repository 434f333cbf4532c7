package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/edgard/transbot/internal/bot"
	"github.com/edgard/transbot/internal/metrics"
)

var errNothingToTranslate = errors.New("nothing to translate")

func newTranslateCmd(opts *rootOptions) *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "translate <text>...",
		Short: "Translate text once with the configured backend and print the reply",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.TrimSpace(strings.Join(args, " "))
			if text == "" {
				return errNothingToTranslate
			}

			cfg, log, err := setup(opts)
			if err != nil {
				return err
			}

			proc, backend, err := bot.NewProcessor(cmd.Context(), cfg, metrics.New(), log)
			if err != nil {
				return err
			}
			defer backend.Close()

			if !raw {
				reply, _ := proc.Process(cmd.Context(), text)
				fmt.Fprintln(cmd.OutOrStdout(), reply)
				return nil
			}

			res, err := proc.Translate(cmd.Context(), text)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", res.Display, res.Target, res.Text)
			return nil
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "Print source, target and text separated by tabs and fail on translation errors")
	return cmd
}
