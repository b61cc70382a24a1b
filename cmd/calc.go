package cmd

import (
	"fmt"
	"io"
	"os"

	"bikefit/service"

	"github.com/spf13/cobra"
)

func newCalcCmd(a *app) *cobra.Command {
	var (
		kind string
		data string
		file string
	)

	cmd := &cobra.Command{
		Use:   "calc --type <kind> [--data <json> | --file <path>]",
		Short: "Run one fit calculation and print the result as JSON",
		Long: `Runs a calculation locally without a server. Kinds: position-simulator,
seatpost, stack-reach, stem. The input is the same JSON object the API takes
as "data"; pass --file - to read it from stdin.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			input := []byte(data)
			if file != "" {
				var err error
				input, err = readInput(cmd.InOrStdin(), file)
				if err != nil {
					return err
				}
			}

			calc := service.NewCalculatorService(service.NewFitService(fitOptions(a.cfg)), nil, nil, a.logger)
			out, err := calc.Calculate(cmd.Context(), kind, input)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return err
		},
	}
	cmd.Flags().StringVarP(&kind, "type", "t", "", "calculation type (required)")
	cmd.Flags().StringVarP(&data, "data", "d", "{}", "input JSON object")
	cmd.Flags().StringVarP(&file, "file", "f", "", "read input JSON from a file, - for stdin")
	cmd.MarkFlagsMutuallyExclusive("data", "file")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		b, err := io.ReadAll(io.LimitReader(stdin, service.MaxPayloadBytes+1))
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		if len(b) > service.MaxPayloadBytes {
			return nil, fmt.Errorf("input larger than %d bytes", service.MaxPayloadBytes)
		}
		return b, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return b, nil
}
