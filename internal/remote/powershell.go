package remote

import (
	"context"
	"fmt"
	"strings"
)

// Runner is the transport seam: it executes one PowerShell command on one
// host. WinRM is the production implementation.
type Runner interface {
	Run(ctx context.Context, host, command string) (Output, error)
}

// PowerShell implements Accessor by composing PowerShell one-liners and
// parsing their output. It is transport-agnostic so tests can script the
// Runner underneath it.
type PowerShell struct {
	runner Runner
}

// NewPowerShell wraps a transport in the management-operation vocabulary.
func NewPowerShell(r Runner) *PowerShell {
	return &PowerShell{runner: r}
}

// ListFilesystemDrives enumerates the host's filesystem drive letters.
func (p *PowerShell) ListFilesystemDrives(ctx context.Context, host string) ([]string, error) {
	out, err := p.runner.Run(ctx, host, "(Get-PSDrive -PSProvider FileSystem).Name")
	if err != nil {
		return nil, err
	}
	if out.ExitCode != 0 {
		return nil, fmt.Errorf("drive enumeration on %s failed (exit %d): %s", host, out.ExitCode, firstLine(out.Stderr))
	}

	var drives []string
	for _, line := range strings.Split(out.Stdout, "\n") {
		if d := strings.TrimSpace(line); d != "" {
			drives = append(drives, d)
		}
	}
	return drives, nil
}

// PathExists reports whether a path exists on the host.
func (p *PowerShell) PathExists(ctx context.Context, host, path string) (bool, error) {
	out, err := p.runner.Run(ctx, host, fmt.Sprintf("Test-Path -LiteralPath '%s'", psQuote(path)))
	if err != nil {
		return false, err
	}
	if out.ExitCode != 0 {
		return false, fmt.Errorf("path check for %s on %s failed (exit %d): %s", path, host, out.ExitCode, firstLine(out.Stderr))
	}
	return strings.EqualFold(strings.TrimSpace(out.Stdout), "true"), nil
}

// CreateDirectory creates a directory (with parents) on the host.
func (p *PowerShell) CreateDirectory(ctx context.Context, host, path string) error {
	cmd := fmt.Sprintf("New-Item -ItemType Directory -Force -Path '%s' | Out-Null", psQuote(path))
	out, err := p.runner.Run(ctx, host, cmd)
	if err != nil {
		return err
	}
	if out.ExitCode != 0 {
		return fmt.Errorf("creating %s on %s failed (exit %d): %s", path, host, out.ExitCode, firstLine(out.Stderr))
	}
	return nil
}

// SetRegistryDWord writes a DWORD registry value, creating it if absent.
func (p *PowerShell) SetRegistryDWord(ctx context.Context, host, keyPath, name string, value uint32) error {
	cmd := fmt.Sprintf("New-ItemProperty -Path '%s' -Name '%s' -Value %d -PropertyType DWord -Force | Out-Null",
		psQuote(keyPath), psQuote(name), value)
	out, err := p.runner.Run(ctx, host, cmd)
	if err != nil {
		return err
	}
	if out.ExitCode != 0 {
		return fmt.Errorf("registry write %s\\%s on %s failed (exit %d): %s", keyPath, name, host, out.ExitCode, firstLine(out.Stderr))
	}
	return nil
}

// RebootNow issues an immediate forced restart. The transport may lose the
// session as the host goes down; any error is reported to the caller, which
// records it without retrying.
func (p *PowerShell) RebootNow(ctx context.Context, host string) error {
	out, err := p.runner.Run(ctx, host, "Restart-Computer -Force")
	if err != nil {
		return err
	}
	if out.ExitCode != 0 {
		return fmt.Errorf("reboot of %s failed (exit %d): %s", host, out.ExitCode, firstLine(out.Stderr))
	}
	return nil
}

// Run exposes the raw transport for callers that compose their own commands.
func (p *PowerShell) Run(ctx context.Context, host, command string) (Output, error) {
	return p.runner.Run(ctx, host, command)
}

// psQuote escapes a string for inclusion in a single-quoted PowerShell
// literal, where only the quote itself needs doubling.
func psQuote(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	return s
}
