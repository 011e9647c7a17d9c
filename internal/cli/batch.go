package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/raphaelgruber/structproof/internal/service"
	"github.com/raphaelgruber/structproof/internal/validate"
	"github.com/spf13/cobra"
)

var batchCmd = &cobra.Command{
	Use:   "batch <file...>",
	Short: "Validate many files with a progress display",
	Long: `Batch validates each file in turn under the configured policy and shows
progress, then prints a summary. Exits 1 when any file is invalid.

Examples:
  structproof batch keys/*.key
  structproof batch --no-echo --threshold 0.0 blobs/*.bin`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().Float64Var(&validateThreshold, "threshold", -1, "entropy threshold override (0..1)")
	batchCmd.Flags().BoolVar(&validateNoEcho, "no-echo", false, "disable the divisor-echo test")
}

// fileVerdict is the outcome for one file in a batch run.
type fileVerdict struct {
	Path         string
	Valid        bool
	EntropyScore float64
	Err          error
}

// validateFile validates a single file and never panics the batch: read
// errors become negative verdicts.
func validateFile(svc *service.ValidationService, vcfg validate.Config, path string) fileVerdict {
	data, err := os.ReadFile(path)
	if err != nil {
		return fileVerdict{Path: path, Err: err}
	}

	result := svc.Validate(context.Background(), data, vcfg)
	return fileVerdict{
		Path:         path,
		Valid:        result.StructurallyValid,
		EntropyScore: result.EntropyScore,
	}
}

func runBatch(cmd *cobra.Command, args []string) error {
	svc, err := getService()
	if err != nil {
		return err
	}

	vcfg := validationConfig(cmd)

	verdicts, err := RunBatchProgress(svc, vcfg, args)
	if err != nil {
		return err
	}

	invalid := 0
	for _, v := range verdicts {
		if !v.Valid {
			invalid++
		}
	}

	if invalid > 0 {
		return fmt.Errorf("%d of %d inputs are not structurally valid", invalid, len(verdicts))
	}
	return nil
}
