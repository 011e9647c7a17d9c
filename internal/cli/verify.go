package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/raphaelgruber/structproof/internal/proof"
	"github.com/spf13/cobra"
)

var verifyThreshold float64

// ErrProofRejected reports a proof that failed verification.
var ErrProofRejected = errors.New("proof rejected")

var verifyCmd = &cobra.Command{
	Use:   "verify <proof.json>",
	Short: "Verify a structural proof against a threshold",
	Long: `Verify checks a previously generated proof: all three structural flags
must hold and the mean of the entropy distribution must reach the
threshold. The original input is not needed.

Examples:
  structproof verify firmware.proof.json
  structproof verify firmware.proof.json --threshold 0.4`,
	Args: cobra.ExactArgs(1),
	RunE: runVerify,
}

func init() {
	verifyCmd.Flags().Float64Var(&verifyThreshold, "threshold", -1, "entropy threshold (defaults to configured threshold)")
}

func runVerify(cmd *cobra.Command, args []string) error {
	raw, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read proof file: %w", err)
	}

	var p proof.StructuralProof
	if err := json.Unmarshal(raw, &p); err != nil {
		return fmt.Errorf("parse proof file: %w", err)
	}

	svc, err := getService()
	if err != nil {
		return err
	}

	threshold := cfg.EntropyThreshold
	if cmd.Flags().Changed("threshold") {
		threshold = verifyThreshold
	}

	if !svc.VerifyProof(context.Background(), &p, threshold) {
		fmt.Printf("REJECTED (threshold %.4f)\n", threshold)
		return ErrProofRejected
	}

	fmt.Printf("VERIFIED (threshold %.4f)\n", threshold)
	return nil
}
