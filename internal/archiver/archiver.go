// Package archiver drives the remote backup-and-clear of a Windows event log
// and classifies its outcome.
package archiver

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"evtsweep/internal/remote"
	"evtsweep/internal/types"
)

// Win32_NTEventLogFile method return values this tool understands. Anything
// else falls into the unclassified bucket.
const (
	codeSuccess          = 0
	codeAccessDenied     = 8
	codeInvalidParameter = 21
)

// Archiver issues the combined save-then-clear operation. The call is never
// retried: re-running after a successful clear would archive an empty log.
type Archiver struct {
	acc remote.Accessor
}

// New returns an Archiver backed by the given accessor.
func New(acc remote.Accessor) *Archiver {
	return &Archiver{acc: acc}
}

// ArchiveAndClear backs the named log up to path on the host, clears it, and
// classifies the result. Failures never escape as errors; every outcome is a
// ClearResult. The remote log API signals failure through two channels, a
// numeric return value or a thrown fault, and both are handled here.
func (a *Archiver) ArchiveAndClear(ctx context.Context, host string, cat types.LogCategory, path types.BackupPath) types.ClearResult {
	out, err := a.acc.Run(ctx, host, command(cat, path.Full()))
	if err != nil {
		return ClassifyFault(err.Error(), path)
	}
	if out.ExitCode != 0 {
		return ClassifyFault(firstNonEmpty(out.Stderr, fmt.Sprintf("remote shell exit %d", out.ExitCode)), path)
	}

	code, ok := parseCode(out.Stdout)
	if !ok {
		return ClassifyFault(firstNonEmpty(out.Stderr, "no return value from backup-and-clear"), path)
	}
	return Classify(code, path)
}

// command builds the PowerShell invocation of Win32_NTEventLogFile's
// BackupEventlog and ClearEventlog methods. The script prints exactly one
// number: the first non-zero return value, or the clear result.
func command(cat types.LogCategory, dest string) string {
	var b strings.Builder
	fmt.Fprintf(&b, `$log = Get-CimInstance -ClassName Win32_NTEventLogFile -Filter "LogfileName='%s'"; `, cat)
	fmt.Fprintf(&b, `if ($null -eq $log) { Write-Output %d; exit 0 }; `, codeInvalidParameter)
	fmt.Fprintf(&b, `$r = Invoke-CimMethod -InputObject $log -MethodName BackupEventlog -Arguments @{ArchiveFileName='%s'}; `, psQuote(dest))
	fmt.Fprintf(&b, `if ($r.ReturnValue -ne 0) { Write-Output $r.ReturnValue; exit 0 }; `)
	fmt.Fprintf(&b, `$c = Invoke-CimMethod -InputObject $log -MethodName ClearEventlog; Write-Output $c.ReturnValue`)
	return b.String()
}

// Classify maps a return code to a ClearResult. Total over all integers.
func Classify(code int, path types.BackupPath) types.ClearResult {
	res := types.ClearResult{Code: code, Path: path}
	switch code {
	case codeSuccess:
		res.Status = types.ClearSuccess
	case codeAccessDenied:
		res.Status = types.ClearPermissionDenied
		res.Detail = "missing privilege to back up or clear the log"
	case codeInvalidParameter:
		res.Status = types.ClearInvalidParameter
		res.Detail = "invalid parameter (malformed path, existing archive file, or unknown log)"
	default:
		res.Status = types.ClearUnclassified
		res.Detail = fmt.Sprintf("unrecognized return value %d", code)
	}
	return res
}

// ClassifyFault handles the second signaling channel: a thrown fault instead
// of a return code. The substring match is a documented heuristic for
// transports that do not expose structured fault kinds.
func ClassifyFault(detail string, path types.BackupPath) types.ClearResult {
	res := types.ClearResult{Code: -1, Detail: strings.TrimSpace(detail), Path: path}
	if strings.Contains(strings.ToLower(detail), "access") && strings.Contains(strings.ToLower(detail), "denied") {
		res.Status = types.ClearPermissionDenied
	} else {
		res.Status = types.ClearUnclassified
	}
	return res
}

// parseCode extracts the first integer the remote script printed.
func parseCode(stdout string) (int, bool) {
	for _, line := range strings.Split(stdout, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if code, err := strconv.Atoi(line); err == nil {
			return code, true
		}
	}
	return 0, false
}

func psQuote(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
