// Package remote abstracts management operations against a single Windows
// host. The Accessor interface is what the workflow layers program against;
// implementations are the WinRM transport and an in-memory fake for tests.
package remote

import (
	"context"
	"errors"
	"fmt"
)

// Output captures one remote command invocation.
type Output struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Accessor performs management operations against a named host. Every call
// is synchronous and targets exactly one host.
type Accessor interface {
	// ListFilesystemDrives returns the drive letters of the host's
	// filesystem drives.
	ListFilesystemDrives(ctx context.Context, host string) ([]string, error)
	// PathExists reports whether a path exists on the host.
	PathExists(ctx context.Context, host, path string) (bool, error)
	// CreateDirectory creates a directory (and parents) on the host.
	CreateDirectory(ctx context.Context, host, path string) error
	// SetRegistryDWord writes a DWORD value under a registry key, creating
	// the value if absent. keyPath is in PowerShell drive form (HKLM:\...).
	SetRegistryDWord(ctx context.Context, host, keyPath, name string, value uint32) error
	// RebootNow issues an immediate restart. Fire-and-forget: no wait, no
	// confirmation that the host actually went down.
	RebootNow(ctx context.Context, host string) error
	// Run executes an arbitrary PowerShell command on the host.
	Run(ctx context.Context, host, command string) (Output, error)
}

// UnreachableError marks connectivity or credential failures contacting a
// host, as opposed to a command failing on the remote side.
type UnreachableError struct {
	Host string
	Err  error
}

func (e *UnreachableError) Error() string {
	return fmt.Sprintf("host %s unreachable: %v", e.Host, e.Err)
}

func (e *UnreachableError) Unwrap() error {
	return e.Err
}

// IsUnreachable reports whether err stems from failing to reach a host.
func IsUnreachable(err error) bool {
	var u *UnreachableError
	return errors.As(err, &u)
}
