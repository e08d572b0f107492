package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/leofalp/songscene/core/recovery"
)

func newRecoverCmd(a *app) *cobra.Command {
	var shape, repair string

	cmd := &cobra.Command{
		Use:   "recover [file]",
		Short: "Recover media mentions from a saved LLM completion",
		Long: `Reads a raw completion from file (or stdin when no file is given) and
prints the recovered {"locations": [...]} document. Text that cannot be
recovered prints an empty list; the reason is logged at warn level.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := a.parserOptions(cmd, shape, repair)
			if err != nil {
				return err
			}

			raw, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			result := recovery.NewParser(opts...).Recover(raw)
			return writeJSON(cmd.OutOrStdout(), result)
		},
	}

	addParserFlags(cmd, &shape, &repair)
	return cmd
}

func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("read completion: %w", err)
	}
	return string(data), nil
}
