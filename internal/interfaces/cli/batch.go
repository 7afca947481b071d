package cli

import (
	"github.com/spf13/cobra"

	"github.com/jurimetric/lexmeta/internal/extraction"
	"github.com/jurimetric/lexmeta/internal/infrastructure/monitoring/logging"
	"github.com/jurimetric/lexmeta/internal/loader"
	caselawtypes "github.com/jurimetric/lexmeta/pkg/types/caselaw"
)

var batchConcurrency int

// BatchExtraction is one extracted document in a batch run.
type BatchExtraction struct {
	Path     string                     `json:"path"`
	Metadata *caselawtypes.CaseMetadata `json:"metadata"`
}

// BatchOutput is the printable result of a batch run.
type BatchOutput struct {
	Dir     string            `json:"dir"`
	Total   int               `json:"total"`
	Results []BatchExtraction `json:"results"`
}

// TableHeaders implements the table output contract.
func (b BatchOutput) TableHeaders() []string {
	return []string{"PATH", "CASE NAME", "CITATION", "COURT"}
}

// TableRows implements the table output contract.
func (b BatchOutput) TableRows() [][]string {
	rows := make([][]string, 0, len(b.Results))
	for _, r := range b.Results {
		rows = append(rows, []string{r.Path, r.Metadata.CaseName, r.Metadata.Citation, r.Metadata.CourtName})
	}
	return rows
}

// NewBatchCmd creates the batch command: extract every opinion in a
// directory with bounded concurrency.
func NewBatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch DIR",
		Short: "Extract case metadata from every opinion in a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}

			docs := loader.New(cliCtx.Config.Loader, cliCtx.Logger)
			loaded, err := docs.ReadDir(args[0])
			if err != nil {
				return err
			}

			concurrency := cliCtx.Config.Extraction.BatchConcurrency
			if batchConcurrency > 0 {
				concurrency = batchConcurrency
			}
			extractor := extraction.New(
				extraction.Config{BatchConcurrency: concurrency},
				extraction.WithLogger(cliCtx.Logger),
			)

			texts := make([]string, len(loaded))
			for i, doc := range loaded {
				texts[i] = doc.Text
			}
			metas, err := extractor.ExtractBatch(cmd.Context(), texts)
			if err != nil {
				return err
			}

			out := BatchOutput{Dir: args[0], Total: len(loaded)}
			for i, doc := range loaded {
				out.Results = append(out.Results, BatchExtraction{Path: doc.Path, Metadata: metas[i]})
			}

			cliCtx.Logger.Info("batch extraction complete",
				logging.String("dir", args[0]),
				logging.Int("documents", len(loaded)))
			return PrintResult(cmd, out)
		},
	}

	cmd.Flags().IntVar(&batchConcurrency, "concurrency", 0, "parallel extractions (default: from config)")
	return cmd
}
