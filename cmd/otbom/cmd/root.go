package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version is stamped into the --version output and the generator info row.
const Version = "0.9.0"

var (
	// Global flags
	quiet bool
)

var rootCmd = &cobra.Command{
	Use:   "otbom",
	Short: "OpenTraceBOM - Bill of Materials generator for KiCad",
	Long: `OpenTraceBOM (otbom) generates a Bill of Materials from a KiCad
schematic or exported XML netlist, enriched with live stock and pricing
data from Mouser and DigiKey.

Examples:
  otbom gen project.xml bom.csv                 # BOM from an XML netlist
  otbom gen board.kicad_sch bom.xlsx --sum      # Read the schematic directly
  otbom gen project.xml bom.csv -k              # Skip the pricing lookups
  otbom list suppliers                          # Show supported suppliers`,
	Version: Version,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "ERROR:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "silence warnings")
}
