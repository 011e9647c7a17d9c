package cli

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"
)

// readInput resolves the bytes a command operates on: a --hex string when
// given, otherwise a file argument, with "-" (or no argument) meaning stdin.
func readInput(args []string, hexInput string) ([]byte, error) {
	if hexInput != "" {
		data, err := hex.DecodeString(strings.TrimPrefix(hexInput, "0x"))
		if err != nil {
			return nil, fmt.Errorf("decode hex input: %w", err)
		}
		return data, nil
	}

	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("read input file: %w", err)
	}
	return data, nil
}
