// Package cli implements the mcgill-schedule command line interface.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/Kreger51/mcgill-schedule/internal/config"
	"github.com/Kreger51/mcgill-schedule/internal/logger"
)

var (
	flagConfig  string
	flagVerbose bool

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "mcgill-schedule",
	Short: "Scrape a Minerva course schedule and export it as calendar events",
	Long: `mcgill-schedule logs into Minerva, scrapes the "Schedule by Course
Section" page and turns it into calendar events, exportable as an .ics file
or as calendar-API event resources.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(flagConfig)
		if err != nil {
			return err
		}
		if flagVerbose {
			logger.SetDefault(logger.New(logger.LevelDebug, os.Stderr))
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", config.DefaultPath, "Path to config file")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable verbose logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
