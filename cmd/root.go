// Package cmd is the portfolio command line: the web server plus helpers
// that print the layouts the server would render.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	verbose    bool
	configFile string
)

var rootCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Personal portfolio site",
	Long: `portfolio serves a bilingual (tr/en) single-page portfolio whose skills
section is laid out for the visitor's viewport and whose navigation follows
the section being read.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "YAML config file (default $PORTFOLIO_CONFIG)")
}
