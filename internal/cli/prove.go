package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	proveHex string
	proveOut string
)

// ErrNotProvable reports that no structural proof exists for the input.
var ErrNotProvable = errors.New("no structural proof: divisor-echo test failed")

var proveCmd = &cobra.Command{
	Use:   "prove [file]",
	Short: "Generate a portable structural proof",
	Long: `Prove runs the structural analysis and emits a proof object as JSON.
The proof carries no reference to the input; anyone holding it can verify
it against a threshold without the original bytes.

Proof generation fails when the input's integer form is not a perfect
number (the divisor-echo test).

Examples:
  structproof prove firmware.bin -o firmware.proof.json
  structproof prove --hex 1c`,
	Args: cobra.MaximumNArgs(1),
	RunE: runProve,
}

func init() {
	proveCmd.Flags().StringVar(&proveHex, "hex", "", "prove a hex string instead of a file")
	proveCmd.Flags().StringVarP(&proveOut, "out", "o", "", "write proof JSON to this file instead of stdout")
}

func runProve(cmd *cobra.Command, args []string) error {
	data, err := readInput(args, proveHex)
	if err != nil {
		return err
	}

	svc, err := getService()
	if err != nil {
		return err
	}

	p := svc.GenerateProof(context.Background(), data)
	if p == nil {
		return ErrNotProvable
	}

	raw, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("encode proof: %w", err)
	}

	if proveOut == "" {
		fmt.Println(string(raw))
		return nil
	}
	if err := os.WriteFile(proveOut, raw, 0644); err != nil {
		return fmt.Errorf("write proof: %w", err)
	}
	fmt.Printf("proof written to %s\n", proveOut)
	return nil
}
