// Package workflow runs the per-host remediation sequence and fans it out
// over the host list.
package workflow

import (
	"context"
	"time"

	"evtsweep/internal/archiver"
	"evtsweep/internal/backup"
	"evtsweep/internal/registry"
	"evtsweep/internal/remote"
	"evtsweep/internal/runlog"
	"evtsweep/internal/types"
)

// Options is the immutable per-run configuration shared by every host.
type Options struct {
	Log             types.LogCategory
	BackupDir       string // empty means auto-detect from the host's drives
	LegacyDFallback bool
	FixRegistry     bool
	Reboot          bool
}

// Workflow executes the five-step sequence against single hosts.
type Workflow struct {
	acc  remote.Accessor
	arch *archiver.Archiver
	reg  *registry.Remediator
	log  *runlog.Logger
	opts Options
	now  func() time.Time
}

// New assembles a Workflow over the given accessor.
func New(acc remote.Accessor, log *runlog.Logger, opts Options) *Workflow {
	return &Workflow{
		acc:  acc,
		arch: archiver.New(acc),
		reg:  registry.New(acc),
		log:  log,
		opts: opts,
		now:  time.Now,
	}
}

// RunHost walks one host through discover -> resolve -> archive -> remediate
// -> reboot and always returns a fully populated outcome. A host that cannot
// be reached before the archive step terminates early with the remaining
// steps not attempted. An archive failure does NOT stop the registry and
// reboot steps: those are tied to configuration, not to archive success.
func (w *Workflow) RunHost(ctx context.Context, host string) (out types.HostOutcome) {
	start := w.now()
	out = types.HostOutcome{
		Host:    host,
		Log:     w.opts.Log,
		Clear:   types.ClearResult{Status: types.ClearNotAttempted},
		Started: start,
	}
	defer func() {
		out.Duration = w.now().Sub(start)
	}()

	w.log.HostSeparator()
	w.log.Line("%s: processing %s log", host, w.opts.Log)

	drives, err := w.acc.ListFilesystemDrives(ctx, host)
	if err != nil {
		out.Failure = err.Error()
		w.log.Line("%s: aborted: %v", host, err)
		return out
	}
	w.log.Line("%s: filesystem drives: %v", host, drives)

	out.Backup = backup.New(w.opts.BackupDir, drives, w.opts.LegacyDFallback, w.opts.Log, w.now())
	w.log.Line("%s: backup target %s", host, out.Backup.Full())

	if err := w.ensureDirectory(ctx, host, out.Backup.Dir); err != nil {
		out.Failure = err.Error()
		w.log.Line("%s: aborted: %v", host, err)
		return out
	}

	out.Clear = w.arch.ArchiveAndClear(ctx, host, w.opts.Log, out.Backup)
	if out.Clear.OK() {
		w.log.Line("%s: %s log archived and cleared", host, w.opts.Log)
	} else {
		w.log.Line("%s: archive-and-clear failed: %s (%s)", host, out.Clear.Status, out.Clear.Detail)
	}

	if w.opts.FixRegistry {
		if err := w.reg.ApplyCrashOnAuditFix(ctx, host); err != nil {
			out.RegistryError = err.Error()
			w.log.Line("%s: CrashOnAuditFail reset failed: %v", host, err)
		} else {
			out.RegistryApplied = true
			w.log.Line("%s: CrashOnAuditFail reset to 1", host)
		}
	}

	if w.opts.Reboot {
		if err := w.acc.RebootNow(ctx, host); err != nil {
			out.RebootError = err.Error()
			w.log.Line("%s: reboot failed: %v", host, err)
		} else {
			out.RebootIssued = true
			w.log.Line("%s: reboot issued", host)
		}
	}

	return out
}

// ensureDirectory creates the backup directory when it does not exist yet.
func (w *Workflow) ensureDirectory(ctx context.Context, host, dir string) error {
	exists, err := w.acc.PathExists(ctx, host, dir)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	w.log.Line("%s: creating %s", host, dir)
	return w.acc.CreateDirectory(ctx, host, dir)
}
