package main

import (
	"fmt"
	"log"
	"strings"
	"time"

	"evtsweep/internal/config"
	"evtsweep/internal/remote"
	"evtsweep/internal/report"
	"evtsweep/internal/runlog"
	"evtsweep/internal/types"
	"evtsweep/internal/workflow"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

const defaultRunLog = "evtsweep.log"

type runFlags struct {
	hostsFile     string
	host          string
	logName       string
	backupDir     string
	legacyD       bool
	noRegistryFix bool
	reboot        bool
	runLogPath    string
	quiet         bool
	noEmail       bool
	settingsPath  string
	concurrency   int
	rate          float64
}

func newRunCmd() *cobra.Command {
	var f runFlags

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the sweep against the target hosts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSweep(cmd, f)
		},
	}

	cmd.Flags().StringVar(&f.hostsFile, "hosts", "", "File with one host name per line")
	cmd.Flags().StringVar(&f.host, "host", "", "Single host name (mutually exclusive with --hosts)")
	cmd.Flags().StringVar(&f.logName, "log", string(types.LogSecurity), "Event log to sweep: Security, Application or System")
	cmd.Flags().StringVar(&f.backupDir, "backup-dir", "", "Explicit backup directory on each host (default: auto-detect per host)")
	cmd.Flags().BoolVar(&f.legacyD, "legacy-d-fallback", false, "Fall back to the D drive when Q is absent (legacy policy)")
	cmd.Flags().BoolVar(&f.noRegistryFix, "no-registry-fix", false, "Skip the CrashOnAuditFail registry reset")
	cmd.Flags().BoolVar(&f.reboot, "reboot", false, "Reboot each host after its sweep")
	cmd.Flags().StringVar(&f.runLogPath, "runlog", defaultRunLog, "Append-only run log path")
	cmd.Flags().BoolVar(&f.quiet, "quiet", false, "Suppress console echo of run log lines")
	cmd.Flags().BoolVar(&f.noEmail, "no-email", false, "Skip emailing the HTML summary")
	cmd.Flags().StringVar(&f.settingsPath, "settings", "", "YAML settings file (WinRM credentials, SMTP relay)")
	cmd.Flags().IntVar(&f.concurrency, "concurrency", 1, "Hosts processed in parallel (1 = sequential)")
	cmd.Flags().Float64Var(&f.rate, "rate", 0, "Remote operations per second across all workers (0 = unlimited)")

	return cmd
}

func runSweep(cmd *cobra.Command, f runFlags) error {
	cat, err := types.ParseLogCategory(f.logName)
	if err != nil {
		return fmt.Errorf("%w: %v", config.ErrInvalid, err)
	}

	hosts, err := config.LoadHosts(f.hostsFile, f.host)
	if err != nil {
		return err
	}

	settings, err := config.LoadSettings(f.settingsPath)
	if err != nil {
		return err
	}
	if !f.noEmail && (settings.SMTP.Host == "" || settings.SMTP.To == "") {
		return fmt.Errorf("%w: email delivery needs smtp host and recipient in the settings file (or pass --no-email)", config.ErrInvalid)
	}

	rl, err := runlog.New(f.runLogPath, f.quiet)
	if err != nil {
		return err
	}
	defer func() {
		if err := rl.Close(); err != nil {
			log.Printf("[WARN] Closing run log: %v", err)
		}
	}()

	var acc remote.Accessor = remote.NewPowerShell(remote.NewWinRM(remote.WinRMConfig{
		User:     settings.WinRM.User,
		Password: settings.WinRM.Password,
		Port:     settings.WinRM.Port,
		HTTPS:    settings.WinRM.HTTPS,
		Insecure: settings.WinRM.Insecure,
		Timeout:  time.Duration(settings.WinRM.TimeoutSeconds) * time.Second,
	}))
	if f.rate > 0 {
		acc = remote.NewLimited(acc, f.rate)
	}

	wf := workflow.New(acc, rl, workflow.Options{
		Log:             cat,
		BackupDir:       f.backupDir,
		LegacyDFallback: f.legacyD,
		FixRegistry:     !f.noRegistryFix,
		Reboot:          f.reboot,
	})
	runner := workflow.NewRunner(wf, f.concurrency)

	runID := uuid.NewString()
	started := time.Now()
	rl.Line("run %s starting: %d host(s), %s log", runID, len(hosts), cat)

	outcomes := runner.Run(cmd.Context(), hosts)

	run := report.Run{
		ID:       runID,
		Log:      cat,
		Started:  started,
		Finished: time.Now(),
		Outcomes: outcomes,
	}
	rl.HostSeparator()
	rl.Line("run %s finished: %d host(s), %d with failures", runID, len(outcomes), run.Failures())

	html, err := report.RenderHTML(run)
	if err != nil {
		return err
	}

	reportPath := reportPathFor(f.runLogPath)
	if err := report.WriteFile(reportPath, html); err != nil {
		log.Printf("[ERROR] %v", err)
	} else {
		rl.Line("report written to %s", reportPath)
	}

	if !f.noEmail {
		deliverer := &report.SMTPDeliverer{
			Host: settings.SMTP.Host,
			Port: settings.SMTP.Port,
			From: settings.SMTP.From,
		}
		subject := settings.SMTP.Subject
		if subject == "" {
			subject = fmt.Sprintf("Event log sweep %s: %d host(s), %d failure(s)", runID, len(outcomes), run.Failures())
		}
		if err := deliverer.Deliver(cmd.Context(), html, subject, settings.SMTP.To); err != nil {
			// A lost email does not invalidate the sweep; the local report
			// and run log still hold the results.
			log.Printf("[ERROR] Report delivery failed: %v", err)
			rl.Line("report delivery to %s failed: %v", settings.SMTP.To, err)
		} else {
			rl.Line("report delivered to %s", settings.SMTP.To)
		}
	}

	return nil
}

// reportPathFor places the HTML artifact next to the run log.
func reportPathFor(runLogPath string) string {
	if runLogPath == "" {
		return "evtsweep-report.html"
	}
	base := strings.TrimSuffix(runLogPath, ".log")
	return base + "-report.html"
}
