package cmd

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/scriptlang/pyfrontend/pkg/frontend"
	"github.com/scriptlang/pyfrontend/pkg/pyparse"
)

// rootCmd is the single entry point of this tool: there are no
// subcommands, matching the minimal two-positional-argument contract
// (input path, optional output path) this frontend exposes.
var rootCmd = &cobra.Command{
	Use:   "pyfrontend <input-path> [<output-path>]",
	Short: "Lower a scripting-language source file into its textual IR.",
	Long: "pyfrontend reads a source file, runs the scope analyzer and lowering " +
		"engine over it, and writes the resulting IR module as text to stdout " +
		"(or to <output-path>, if given).",
	Args: cobra.RangeArgs(1, 2),
	RunE: runLower,
}

// Execute runs the root command. Called once by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolP("verbose", "v", false, "raise logging verbosity to debug")
	rootCmd.Flags().Bool("color", false, "force ANSI-colored diagnostics (auto-detected by default)")
	rootCmd.Flags().Bool("no-color", false, "disable ANSI-colored diagnostics")
}

func runLower(cmd *cobra.Command, args []string) error {
	if GetFlag(cmd, "verbose") {
		log.SetLevel(log.DebugLevel)
	}

	color := wantColor(cmd)

	file, mod, err := pyparse.ParseFile(args[0])
	if err != nil {
		printDiagnostic(err, color)
		return err
	}

	registry := frontend.NewBuiltinRegistry()

	irMod, err := frontend.Lower(file, mod, registry)
	if err != nil {
		printDiagnostic(err, color)
		return err
	}

	out := os.Stdout

	if len(args) == 2 {
		f, err := os.Create(args[1])
		if err != nil {
			return err
		}

		defer f.Close()

		out = f
	}

	_, err = irMod.WriteTo(out)

	return err
}

// wantColor resolves the --color/--no-color flags against an auto-detected
// default, the same way the teacher's pkg/util/termio decides whether a
// terminal supports interactive drawing.
func wantColor(cmd *cobra.Command) bool {
	if GetFlag(cmd, "no-color") {
		return false
	}

	if GetFlag(cmd, "color") {
		return true
	}

	return term.IsTerminal(int(os.Stderr.Fd()))
}

func printDiagnostic(err error, color bool) {
	msg := err.Error()

	if color {
		fmt.Fprintf(os.Stderr, "\033[1;31m%s\033[0m\n", msg)
	} else {
		fmt.Fprintln(os.Stderr, msg)
	}
}
