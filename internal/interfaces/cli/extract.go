package cli

import (
	"github.com/spf13/cobra"

	"github.com/jurimetric/lexmeta/internal/extraction"
	"github.com/jurimetric/lexmeta/internal/loader"
)

// demoOpinion is a condensed Supreme Court caption used when extract is run
// without a file argument, so the pipeline can be tried without any input.
const demoOpinion = `SUPREME COURT OF THE UNITED STATES

No. 410 U.S. 113

ROE v. WADE

APPEAL FROM THE UNITED STATES DISTRICT COURT FOR THE
NORTHERN DISTRICT OF TEXAS

Argued December 13, 1971. Decided January 22, 1973.

Before BURGER, C.J., and DOUGLAS, BRENNAN, STEWART, WHITE,
MARSHALL, BLACKMUN, POWELL, and REHNQUIST, JJ.

BLACKMUN, J., delivered the opinion of the Court.

Sarah Weddington argued for the plaintiff.
Jay Floyd argued for the defendant.

This case involves a challenge to the Texas criminal abortion statutes.
The constitutional right to privacy extends to a woman's decision
whether or not to terminate her pregnancy.

Reversed and remanded.
`

// NewExtractCmd creates the extract command: run the extraction pipeline on
// one opinion file and print the metadata. Without an argument it runs on a
// built-in sample caption.
func NewExtractCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "extract [FILE]",
		Short: "Extract case metadata from a single opinion file",
		Long: "Reads one court opinion from disk, runs the extraction pipeline, and\n" +
			"prints the resulting case metadata to stdout.  Nothing is persisted.\n" +
			"With no argument, runs on a built-in sample opinion (demo mode).",
		Example: "  lexmeta extract opinion.txt\n  lexmeta extract",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}

			text := demoOpinion
			if len(args) == 1 {
				docs := loader.New(cliCtx.Config.Loader, cliCtx.Logger)
				doc, err := docs.ReadFile(args[0])
				if err != nil {
					return err
				}
				text = doc.Text
			}

			extractor := extraction.New(
				extraction.Config{BatchConcurrency: cliCtx.Config.Extraction.BatchConcurrency},
				extraction.WithLogger(cliCtx.Logger),
			)
			meta := extractor.Extract(text)
			return PrintResult(cmd, meta)
		},
	}
}
