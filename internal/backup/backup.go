// Package backup resolves where on a target host an exported event log lands.
package backup

import (
	"fmt"
	"strings"
	"time"

	"evtsweep/internal/types"
)

const (
	// Preferred destination when the host exposes a Q drive.
	qDrivePath = `Q:\Windows\System32\winevt\logs\`
	// Legacy fallback, only honored when the operator opts in.
	dDrivePath = `D:\EventLogs\`
	// Fixed local path used when no preferred drive is present.
	defaultPath = `C:\EventLogs\`

	// Archive file names embed a UTC timestamp at second granularity.
	timeLayout = "20060102_150405"
	archiveExt = ".evtx"
)

// Resolve picks the backup directory for one host. An explicit directory wins
// verbatim (after normalization). Otherwise the drive preference is Q, then D
// when the legacy fallback is enabled, then the fixed C path. Pure function
// of its inputs.
func Resolve(explicitDir string, drives []string, legacyDFallback bool) string {
	if explicitDir != "" {
		return Normalize(explicitDir)
	}

	present := make(map[string]bool, len(drives))
	for _, d := range drives {
		present[driveLetter(d)] = true
	}

	switch {
	case present["Q"]:
		return qDrivePath
	case legacyDFallback && present["D"]:
		return dDrivePath
	default:
		return defaultPath
	}
}

// Normalize appends a trailing path separator when missing. Idempotent.
func Normalize(dir string) string {
	if strings.HasSuffix(dir, `\`) || strings.HasSuffix(dir, "/") {
		return dir
	}
	return dir + `\`
}

// FileName builds the archive file name: <LogType>-<yyyyMMdd_HHmmss>_UTC.evtx.
// Callers pass the current time so tests can pin it.
func FileName(cat types.LogCategory, now time.Time) string {
	return fmt.Sprintf("%s-%s_UTC%s", cat, now.UTC().Format(timeLayout), archiveExt)
}

// New combines Resolve and FileName into a ready-to-use BackupPath.
func New(explicitDir string, drives []string, legacyDFallback bool, cat types.LogCategory, now time.Time) types.BackupPath {
	return types.BackupPath{
		Dir:  Resolve(explicitDir, drives, legacyDFallback),
		File: FileName(cat, now),
	}
}

// driveLetter reduces forms like "c", "C:", `C:\` to a bare upper-case letter.
func driveLetter(d string) string {
	d = strings.TrimSpace(d)
	d = strings.TrimSuffix(d, `\`)
	d = strings.TrimSuffix(d, ":")
	return strings.ToUpper(d)
}
