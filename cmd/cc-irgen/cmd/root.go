package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "cc-irgen",
	Short: "C AST to linear IR lowering engine",
	Long: `cc-irgen lowers a C translation unit's abstract syntax tree into a
block-structured linear intermediate representation: declarator
resolution, constant folding, initializer compilation, and expression
and statement lowering all run as one pass over the tree.

Tokenizing and parsing C source are out of scope for this tool; it
consumes an already-parsed translation unit via its JSON interchange
format (see internal/astjson).`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
}
