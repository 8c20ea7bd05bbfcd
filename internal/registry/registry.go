// Package registry applies the CrashOnAuditFail remediation.
package registry

import (
	"context"

	"evtsweep/internal/remote"
)

// CrashOnAuditFail halts a machine when the security log cannot record an
// event. Clearing a full log and resetting the value to 1 keeps auditing
// enabled without the halt behavior.
const (
	lsaKeyPath = `HKLM:\SYSTEM\CurrentControlSet\Control\Lsa`
	valueName  = "CrashOnAuditFail"
	safeValue  = 1
)

// Remediator writes the crash-on-audit-failure flag back to its safe value.
type Remediator struct {
	acc remote.Accessor
}

// New returns a Remediator backed by the given accessor.
func New(acc remote.Accessor) *Remediator {
	return &Remediator{acc: acc}
}

// ApplyCrashOnAuditFix unconditionally writes 1 to the Lsa value. There is
// no verification read-back; the caller records "command issued", nothing
// stronger.
func (r *Remediator) ApplyCrashOnAuditFix(ctx context.Context, host string) error {
	return r.acc.SetRegistryDWord(ctx, host, lsaKeyPath, valueName, safeValue)
}
