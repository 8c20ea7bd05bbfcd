// Package main implements evtsweep, a fleet maintenance tool that archives
// and clears Windows event logs across a list of hosts.
package main

import (
	"errors"
	"log"
	"os"

	"evtsweep/internal/config"

	"github.com/spf13/cobra"
)

// Exit codes. Per-host failures are recorded in the report, not in the exit
// code: a run that completed counts as success even when every clear failed.
const (
	ExitSuccess  = 0
	ExitInternal = 1
	ExitConfig   = 2
)

var version = "1.1.0"

func main() {
	root := &cobra.Command{
		Use:   "evtsweep",
		Short: "Archive and clear Windows event logs across a fleet",
		Long: `evtsweep walks a list of Windows hosts and, on each one, archives the
chosen event log to a file on that host, clears the log, optionally resets
the CrashOnAuditFail registry value, and optionally reboots the machine.
Every run produces an append-only text log and an HTML summary that can be
delivered by email.`,
	}
	root.SilenceUsage = true
	root.SilenceErrors = true

	root.AddCommand(newRunCmd())
	root.AddCommand(newVersionCmd())

	if err := root.Execute(); err != nil {
		log.Printf("[ERROR] %v", err)
		if errors.Is(err, config.ErrInvalid) {
			os.Exit(ExitConfig)
		}
		os.Exit(ExitInternal)
	}
}
