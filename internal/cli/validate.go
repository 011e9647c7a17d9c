package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/raphaelgruber/structproof/internal/validate"
	"github.com/spf13/cobra"
)

var (
	validateHex       string
	validateThreshold float64
	validateMode      string
	validateNoEcho    bool
	validateTimeoutMs int64
	validateProofOut  string
)

// ErrInvalid reports a negative validation result; the CLI maps it to a
// nonzero exit code because exit-code policy belongs here, not in the core.
var ErrInvalid = errors.New("input is not structurally valid")

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Validate the structural soundness of a byte sequence",
	Long: `Validate reads bytes from a file, stdin ("-"), or --hex, interprets them
as a big-endian integer, and runs the divisor-echo and entropy checks.

Exits 0 when the input is structurally valid and 1 otherwise.

Examples:
  structproof validate firmware.bin
  structproof validate --hex 1c
  cat key.dat | structproof validate --threshold 0.2
  structproof validate license.key --proof-out license.proof.json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringVar(&validateHex, "hex", "", "validate a hex string instead of a file")
	validateCmd.Flags().Float64Var(&validateThreshold, "threshold", -1, "entropy threshold override (0..1)")
	validateCmd.Flags().StringVar(&validateMode, "mode", "", "validation mode: strict, permissive, audit")
	validateCmd.Flags().BoolVar(&validateNoEcho, "no-echo", false, "disable the divisor-echo test")
	validateCmd.Flags().Int64Var(&validateTimeoutMs, "timeout-ms", -1, "advisory verification timeout override")
	validateCmd.Flags().StringVar(&validateProofOut, "proof-out", "", "write the structural proof JSON to this file")
}

// validationConfig merges flag overrides onto the configured defaults.
func validationConfig(cmd *cobra.Command) validate.Config {
	vcfg := cfg.Validation()
	if cmd.Flags().Changed("threshold") {
		vcfg.EntropyThreshold = validateThreshold
	}
	if validateMode != "" {
		vcfg.Mode = validateMode
	}
	if validateNoEcho {
		vcfg.DivisorEchoEnabled = false
	}
	if cmd.Flags().Changed("timeout-ms") {
		vcfg.VerificationTimeout = time.Duration(validateTimeoutMs) * time.Millisecond
	}
	return vcfg
}

func runValidate(cmd *cobra.Command, args []string) error {
	data, err := readInput(args, validateHex)
	if err != nil {
		return err
	}

	svc, err := getService()
	if err != nil {
		return err
	}

	result := svc.Validate(context.Background(), data, validationConfig(cmd))

	verdict := "INVALID"
	if result.StructurallyValid {
		verdict = "VALID"
	}
	fmt.Printf("%s\n", verdict)
	fmt.Printf("  entropy score:     %.4f\n", result.EntropyScore)
	fmt.Printf("  verification time: %s\n", result.VerificationTime)
	if verbose && result.Proof != nil {
		fmt.Printf("  divisor echo:      %v\n", result.Proof.DivisorEchoValid)
		fmt.Printf("  gcd preservation:  %v\n", result.Proof.GCDPreservationValid)
		fmt.Printf("  lcm consistency:   %v\n", result.Proof.LCMConsistencyValid)
		fmt.Printf("  distribution size: %d\n", len(result.Proof.EntropyDistribution))
	}

	if validateProofOut != "" && result.Proof != nil {
		raw, err := json.MarshalIndent(result.Proof, "", "  ")
		if err != nil {
			return fmt.Errorf("encode proof: %w", err)
		}
		if err := os.WriteFile(validateProofOut, raw, 0644); err != nil {
			return fmt.Errorf("write proof: %w", err)
		}
		fmt.Printf("  proof written to:  %s\n", validateProofOut)
	}

	if !result.StructurallyValid {
		return ErrInvalid
	}
	return nil
}
