package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var entropyHex string

var entropyCmd = &cobra.Command{
	Use:   "entropy [file]",
	Short: "Print the entropy signature of a byte sequence",
	Long: `Entropy prints the per-divisor entropy distribution together with the
complexity score and irregularity index derived from it.

Examples:
  structproof entropy firmware.bin
  structproof entropy --hex 1c`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEntropy,
}

func init() {
	entropyCmd.Flags().StringVar(&entropyHex, "hex", "", "analyze a hex string instead of a file")
}

func runEntropy(cmd *cobra.Command, args []string) error {
	data, err := readInput(args, entropyHex)
	if err != nil {
		return err
	}

	svc, err := getService()
	if err != nil {
		return err
	}

	sig := svc.EntropySignature(data)

	fmt.Printf("complexity score:   %.6f\n", sig.ComplexityScore)
	fmt.Printf("irregularity index: %.6f\n", sig.IrregularityIndex)
	fmt.Printf("proper divisors:    %d\n", len(sig.DistributionPattern))

	if len(sig.DistributionPattern) == 0 {
		fmt.Println("distribution:       (empty; integer has no proper divisors)")
		return nil
	}

	fmt.Println("distribution:")
	for i, v := range sig.DistributionPattern {
		fmt.Printf("  [%d] %.6f\n", i, v)
	}
	return nil
}
