package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/go-cc/irgen/internal/astjson"
	"github.com/go-cc/irgen/pkg/ccir"
	"github.com/spf13/cobra"
)

var (
	lowerOutput string
)

var lowerCmd = &cobra.Command{
	Use:   "lower [file]",
	Short: "Lower a JSON-encoded translation unit to IR",
	Long: `Lower reads a translation unit in its JSON interchange form (see
internal/astjson) and prints the resulting IR module as readable text.

If no file is given, the translation unit is read from stdin.

Examples:
  cc-irgen lower program.ast.json
  cc-irgen lower program.ast.json -o program.ir
  cat program.ast.json | cc-irgen lower`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLower,
}

func init() {
	rootCmd.AddCommand(lowerCmd)
	lowerCmd.Flags().StringVarP(&lowerOutput, "output", "o", "", "output file (default: stdout)")
}

func runLower(cmd *cobra.Command, args []string) error {
	var data []byte
	var err error
	filename := "<stdin>"
	if len(args) == 1 {
		filename = args[0]
		data, err = os.ReadFile(filename)
	} else {
		data, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", filename, err)
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	if verbose {
		fmt.Fprintf(os.Stderr, "Lowering %s...\n", filename)
	}

	tu, err := astjson.Decode(data)
	if err != nil {
		return err
	}

	engine := ccir.New(ccir.WithSource(string(data), filename))
	mod, err := engine.Lower(tu)
	if err != nil {
		fmt.Fprintln(os.Stderr, ccir.FormatError(err, true))
		return fmt.Errorf("lowering failed")
	}

	out := mod.Dump()
	if lowerOutput == "" {
		fmt.Print(out)
		return nil
	}
	if err := os.WriteFile(lowerOutput, []byte(out), 0644); err != nil {
		return fmt.Errorf("failed to write output file %s: %w", lowerOutput, err)
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "IR written to %s\n", lowerOutput)
	}
	return nil
}
