package cli

import (
	"encoding/json"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jurimetric/lexmeta/internal/extraction"
	"github.com/jurimetric/lexmeta/internal/infrastructure/monitoring/logging"
	"github.com/jurimetric/lexmeta/internal/loader"
)

// NewWatchCmd creates the watch command: monitor a directory and extract
// every opinion that arrives, streaming one JSON record per line to stdout.
func NewWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch DIR",
		Short: "Watch a directory and extract newly arriving opinions",
		Long:  "Monitors DIR for new or modified opinion files and runs extraction on\neach one, writing one JSON record per line to stdout.  Runs until\ninterrupted.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			docs := loader.New(cliCtx.Config.Loader, cliCtx.Logger)
			extractor := extraction.New(
				extraction.Config{BatchConcurrency: cliCtx.Config.Extraction.BatchConcurrency},
				extraction.WithLogger(cliCtx.Logger),
			)

			enc := json.NewEncoder(cmd.OutOrStdout())
			err = docs.Watch(ctx, args[0], func(doc *loader.Document) {
				record := BatchExtraction{Path: doc.Path, Metadata: extractor.Extract(doc.Text)}
				if encErr := enc.Encode(record); encErr != nil {
					cliCtx.Logger.Error("failed to write extraction record",
						logging.String("path", doc.Path), logging.Err(encErr))
				}
			})
			if ctx.Err() != nil {
				// Interrupted by signal; a clean exit, not a failure.
				return nil
			}
			return err
		},
	}
}
