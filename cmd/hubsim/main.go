// Command hubsim drives the dongle-hub library against a software-
// simulated radio and host scheduler instead of real nRF52 hardware.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var log = logrus.New()

var rootCmd = &cobra.Command{
	Use:   "hubsim",
	Short: "Simulator and inspection CLI for the dongle-hub sensor firmware",
	Long: `hubsim exercises the dongle-hub protocol stack end to end without real
radio hardware: a simulated RADIO peripheral and slot-scheduling host drive
the same coroutine and arbiter the firmware runs. The run subcommand
injects synthetic sensor frames and reports the resulting node table, queue
overflow count and slot requests; the dispatch subcommand sends a single
command to a Dispatcher.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.SilenceErrors = true
	var verbose bool
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable debug logging")
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if verbose {
			log.SetLevel(logrus.DebugLevel)
			logrus.SetLevel(logrus.DebugLevel)
		}
	}
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(dispatchCmd)
}
