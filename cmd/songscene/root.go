package main

import (
	"encoding/json"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/leofalp/songscene/core/recovery"
	"github.com/leofalp/songscene/internal/config"
	"github.com/leofalp/songscene/internal/logging"
)

// app carries what every subcommand needs once the root command has loaded
// the configuration.
type app struct {
	cfg    config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "songscene",
		Short:         "Find where a song was used in films, series and novelas",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			level, err := logging.LevelFromEnv()
			if err != nil {
				return err
			}

			a.cfg = cfg
			a.logger = logging.New(cmd.ErrOrStderr(), cfg.LogFormat, level)
			slog.SetDefault(a.logger)
			return nil
		},
	}

	root.AddCommand(newRecoverCmd(a), newFindCmd(a), newBotCmd(a), newCacheCmd(a))
	return root
}

// parserOptions resolves --shape and --repair, falling back to the
// configuration when a flag is not set.
func (a *app) parserOptions(cmd *cobra.Command, shape, repair string) ([]recovery.Option, error) {
	s := a.cfg.Shape
	if cmd.Flags().Changed("shape") {
		parsed, err := recovery.ParseShape(shape)
		if err != nil {
			return nil, err
		}
		s = parsed
	}

	r := a.cfg.Repair
	if cmd.Flags().Changed("repair") {
		parsed, err := recovery.ParseRepairStrategy(repair)
		if err != nil {
			return nil, err
		}
		r = parsed
	}

	return []recovery.Option{
		recovery.WithShape(s),
		recovery.WithRepairStrategy(r),
		recovery.WithLogger(a.logger),
	}, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
