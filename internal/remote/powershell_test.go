package remote

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// scriptedRunner answers every Run with a fixed output and records commands.
type scriptedRunner struct {
	output   Output
	err      error
	commands []string
}

func (r *scriptedRunner) Run(_ context.Context, _, command string) (Output, error) {
	r.commands = append(r.commands, command)
	return r.output, r.err
}

func TestListFilesystemDrives(t *testing.T) {
	r := &scriptedRunner{output: Output{Stdout: "C\r\nD\r\nQ\r\n"}}
	ps := NewPowerShell(r)

	drives, err := ps.ListFilesystemDrives(context.Background(), "WEB01")
	if err != nil {
		t.Fatalf("ListFilesystemDrives: %v", err)
	}
	want := []string{"C", "D", "Q"}
	if len(drives) != len(want) {
		t.Fatalf("drives = %v, want %v", drives, want)
	}
	for i := range want {
		if drives[i] != want[i] {
			t.Errorf("drives[%d] = %q, want %q", i, drives[i], want[i])
		}
	}
	if !strings.Contains(r.commands[0], "Get-PSDrive -PSProvider FileSystem") {
		t.Errorf("unexpected command %q", r.commands[0])
	}
}

func TestListFilesystemDrivesNonzeroExit(t *testing.T) {
	r := &scriptedRunner{output: Output{ExitCode: 1, Stderr: "boom"}}
	ps := NewPowerShell(r)

	if _, err := ps.ListFilesystemDrives(context.Background(), "WEB01"); err == nil {
		t.Fatal("expected error on nonzero exit")
	}
}

func TestPathExists(t *testing.T) {
	tests := []struct {
		name   string
		stdout string
		want   bool
	}{
		{"exists", "True\r\n", true},
		{"missing", "False\r\n", false},
		{"garbage treated as missing", "??", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &scriptedRunner{output: Output{Stdout: tt.stdout}}
			got, err := NewPowerShell(r).PathExists(context.Background(), "WEB01", `C:\EventLogs\`)
			if err != nil {
				t.Fatalf("PathExists: %v", err)
			}
			if got != tt.want {
				t.Errorf("PathExists = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPathExistsQuoting(t *testing.T) {
	r := &scriptedRunner{output: Output{Stdout: "True"}}
	_, err := NewPowerShell(r).PathExists(context.Background(), "WEB01", `C:\O'Brien`)
	if err != nil {
		t.Fatalf("PathExists: %v", err)
	}
	if !strings.Contains(r.commands[0], `'C:\O''Brien'`) {
		t.Errorf("apostrophe not doubled: %q", r.commands[0])
	}
}

func TestCreateDirectory(t *testing.T) {
	r := &scriptedRunner{}
	if err := NewPowerShell(r).CreateDirectory(context.Background(), "WEB01", `C:\EventLogs\`); err != nil {
		t.Fatalf("CreateDirectory: %v", err)
	}
	cmd := r.commands[0]
	if !strings.Contains(cmd, "New-Item -ItemType Directory -Force") {
		t.Errorf("unexpected command %q", cmd)
	}
}

func TestSetRegistryDWord(t *testing.T) {
	r := &scriptedRunner{}
	err := NewPowerShell(r).SetRegistryDWord(context.Background(), "WEB01",
		`HKLM:\SYSTEM\CurrentControlSet\Control\Lsa`, "CrashOnAuditFail", 1)
	if err != nil {
		t.Fatalf("SetRegistryDWord: %v", err)
	}
	cmd := r.commands[0]
	for _, fragment := range []string{"New-ItemProperty", "CrashOnAuditFail", "-Value 1", "DWord", "-Force"} {
		if !strings.Contains(cmd, fragment) {
			t.Errorf("command missing %q: %q", fragment, cmd)
		}
	}
}

func TestRebootNow(t *testing.T) {
	r := &scriptedRunner{}
	if err := NewPowerShell(r).RebootNow(context.Background(), "WEB01"); err != nil {
		t.Fatalf("RebootNow: %v", err)
	}
	if !strings.Contains(r.commands[0], "Restart-Computer -Force") {
		t.Errorf("unexpected command %q", r.commands[0])
	}
}

func TestTransportErrorsPropagate(t *testing.T) {
	transportErr := &UnreachableError{Host: "WEB01", Err: errors.New("connection refused")}
	r := &scriptedRunner{err: transportErr}
	ps := NewPowerShell(r)
	ctx := context.Background()

	if _, err := ps.ListFilesystemDrives(ctx, "WEB01"); !IsUnreachable(err) {
		t.Errorf("ListFilesystemDrives error = %v, want unreachable", err)
	}
	if _, err := ps.PathExists(ctx, "WEB01", `C:\`); !IsUnreachable(err) {
		t.Errorf("PathExists error = %v, want unreachable", err)
	}
	if err := ps.CreateDirectory(ctx, "WEB01", `C:\`); !IsUnreachable(err) {
		t.Errorf("CreateDirectory error = %v, want unreachable", err)
	}
}

func TestIsUnreachable(t *testing.T) {
	inner := errors.New("dial tcp: i/o timeout")
	err := &UnreachableError{Host: "WEB01", Err: inner}
	if !IsUnreachable(err) {
		t.Error("IsUnreachable(UnreachableError) = false")
	}
	if !errors.Is(err, inner) {
		t.Error("UnreachableError does not unwrap")
	}
	if IsUnreachable(errors.New("plain")) {
		t.Error("IsUnreachable(plain) = true")
	}
}
