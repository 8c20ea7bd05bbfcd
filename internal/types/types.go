// Package types defines shared data structures for evtsweep.
package types

import (
	"fmt"
	"time"
)

// LogCategory identifies which Windows event log a run operates on.
type LogCategory string

// The three log categories the sweep can target.
const (
	LogSecurity    LogCategory = "Security"
	LogApplication LogCategory = "Application"
	LogSystem      LogCategory = "System"
)

// ParseLogCategory validates a user-supplied log category name.
func ParseLogCategory(s string) (LogCategory, error) {
	switch LogCategory(s) {
	case LogSecurity, LogApplication, LogSystem:
		return LogCategory(s), nil
	}
	return "", fmt.Errorf("unknown log category %q (expected Security, Application or System)", s)
}

// BackupPath is the resolved destination of one host's exported log: a
// trailing-separator directory plus a generated file name.
type BackupPath struct {
	Dir  string `json:"dir"`
	File string `json:"file"`
}

// Full returns the fully qualified remote path. Dir always carries the
// trailing separator, so concatenation is enough.
func (p BackupPath) Full() string {
	return p.Dir + p.File
}

// ClearStatus classifies the outcome of the archive-and-clear operation.
type ClearStatus string

const (
	ClearSuccess          ClearStatus = "success"
	ClearPermissionDenied ClearStatus = "permission-denied"
	ClearInvalidParameter ClearStatus = "invalid-parameter"
	ClearUnclassified     ClearStatus = "unclassified-failure"
	// ClearNotAttempted marks hosts where the workflow aborted before the
	// archive step ever ran.
	ClearNotAttempted ClearStatus = "not-attempted"
)

// ClearResult is the immutable outcome of one archive-and-clear call.
type ClearResult struct {
	Status ClearStatus `json:"status"`
	// Code is the raw Win32_NTEventLogFile return value when the remote call
	// produced one. Meaningless when the failure was signaled as a fault.
	Code   int        `json:"code"`
	Detail string     `json:"detail,omitempty"`
	Path   BackupPath `json:"path"`
}

// OK reports whether the log was archived and cleared.
func (r ClearResult) OK() bool {
	return r.Status == ClearSuccess
}

// HostOutcome is the per-host record handed to the reporter. It is created at
// the start of the host workflow, fully populated by its end, and never
// mutated afterward.
type HostOutcome struct {
	Host   string      `json:"host"`
	Log    LogCategory `json:"log"`
	Backup BackupPath  `json:"backup"`
	Clear  ClearResult `json:"clear"`
	// Failure is set when the workflow aborted before the archive step;
	// the remaining steps were not attempted.
	Failure         string        `json:"failure,omitempty"`
	RegistryApplied bool          `json:"registry_applied"`
	RegistryError   string        `json:"registry_error,omitempty"`
	RebootIssued    bool          `json:"reboot_issued"`
	RebootError     string        `json:"reboot_error,omitempty"`
	Started         time.Time     `json:"started"`
	Duration        time.Duration `json:"duration"`
}

// Failed reports whether anything on this host went wrong.
func (o HostOutcome) Failed() bool {
	return o.Failure != "" ||
		!o.Clear.OK() ||
		o.RegistryError != "" ||
		o.RebootError != ""
}
