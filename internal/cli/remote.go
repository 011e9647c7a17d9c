package cli

import (
	"context"
	"fmt"

	"github.com/raphaelgruber/structproof/internal/client"
	"github.com/spf13/cobra"
)

var (
	remoteServer string
	remoteHex    string
	remoteStream bool
)

var remoteCmd = &cobra.Command{
	Use:   "remote [file...]",
	Short: "Validate inputs against a running structproof server",
	Long: `Remote sends payloads to a structproof server instead of validating
locally, so a fleet of machines can share one policy.

With --stream all payloads travel over a single websocket connection.

Examples:
  structproof remote firmware.bin
  structproof remote --server http://validator:8590 --hex 1fc0
  structproof remote --stream part1.bin part2.bin part3.bin`,
	Args: cobra.ArbitraryArgs,
	RunE: runRemote,
}

func init() {
	remoteCmd.Flags().StringVar(&remoteServer, "server", "", "server base URL (default STRUCTPROOF_SERVER_URL or localhost:8590)")
	remoteCmd.Flags().StringVar(&remoteHex, "hex", "", "validate a hex string instead of a file")
	remoteCmd.Flags().BoolVar(&remoteStream, "stream", false, "send all payloads over one websocket connection")
}

func runRemote(cmd *cobra.Command, args []string) error {
	payloads, names, err := remoteInputs(args)
	if err != nil {
		return err
	}

	c := client.New(remoteServer)
	ctx := context.Background()

	if err := c.Health(ctx); err != nil {
		return fmt.Errorf("server not reachable: %w", err)
	}

	anyInvalid := false
	report := func(name string, result *client.ValidateResult) {
		verdict := "INVALID"
		if result.StructurallyValid {
			verdict = "VALID"
		} else {
			anyInvalid = true
		}
		fmt.Printf("%-10s %s (entropy %.4f)\n", verdict, name, result.EntropyScore)
	}

	if remoteStream {
		i := 0
		err := c.ValidateStream(ctx, payloads, nil, func(result *client.ValidateResult) error {
			report(names[i], result)
			i++
			return nil
		})
		if err != nil {
			return err
		}
	} else {
		for i, data := range payloads {
			result, err := c.Validate(ctx, data, nil)
			if err != nil {
				return fmt.Errorf("validate %s: %w", names[i], err)
			}
			report(names[i], result)
		}
	}

	if anyInvalid {
		return ErrInvalid
	}
	return nil
}

// remoteInputs resolves the payloads and display names for the remote
// command. --hex and file arguments may be mixed; a bare invocation reads
// stdin like the local commands do.
func remoteInputs(args []string) ([][]byte, []string, error) {
	var payloads [][]byte
	var names []string

	if remoteHex != "" {
		data, err := readInput(nil, remoteHex)
		if err != nil {
			return nil, nil, err
		}
		payloads = append(payloads, data)
		names = append(names, "hex input")
	}

	if len(args) == 0 && remoteHex == "" {
		data, err := readInput(nil, "")
		if err != nil {
			return nil, nil, err
		}
		return [][]byte{data}, []string{"stdin"}, nil
	}

	for _, path := range args {
		data, err := readInput([]string{path}, "")
		if err != nil {
			return nil, nil, err
		}
		payloads = append(payloads, data)
		names = append(names, path)
	}

	return payloads, names, nil
}
