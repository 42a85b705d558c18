package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceBOM/pkg/bom"
	"github.com/OpenTraceLab/OpenTraceBOM/pkg/pricing"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List suppliers, presets, and supported columns",
}

var listSuppliersCmd = &cobra.Command{
	Use:   "suppliers",
	Short: "List supported suppliers",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Supported suppliers are:\n\n\t" + strings.Join(pricing.SupportedSuppliers(), "\n\t"))
	},
}

var listPresetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List built-in presets",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Print("Built-in presets are:\n\n")
		for _, name := range bom.PresetNames() {
			fmt.Println("\t" + name)
		}
	},
}

var listColumnPresetsCmd = &cobra.Command{
	Use:   "column-presets",
	Short: "List built-in column presets",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Print("Built-in column presets are:\n\n")
		for _, name := range bom.ColumnPresetNames() {
			cols, _ := bom.ColumnPresetFields(name)
			fmt.Printf("%s:\n\t%s\n\n", name, strings.Join(cols, "\n\t"))
		}
	},
}

var listGroupPresetsCmd = &cobra.Command{
	Use:   "group-presets",
	Short: "List built-in group presets",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Print("Built-in group presets are:\n\n")
		for _, name := range bom.GroupPresetNames() {
			fields, _ := bom.GroupPresetFields(name)
			fmt.Printf("%s:\n\t%s\n\n", name, strings.Join(fields, "\n\t"))
		}
	},
}

var listColumnsCmd = &cobra.Command{
	Use:   "columns",
	Short: "List supported column values",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Print("Supported columns are:\n\n")
		fmt.Printf("\t%s\n[+ any symbol field]\n", strings.Join(bom.SupportedColumns(), "\n\t"))
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.AddCommand(listSuppliersCmd)
	listCmd.AddCommand(listPresetsCmd)
	listCmd.AddCommand(listColumnPresetsCmd)
	listCmd.AddCommand(listGroupPresetsCmd)
	listCmd.AddCommand(listColumnsCmd)
}
