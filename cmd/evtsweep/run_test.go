package main

import "testing"

func TestReportPathFor(t *testing.T) {
	tests := []struct {
		runLog string
		want   string
	}{
		{"evtsweep.log", "evtsweep-report.html"},
		{`C:\ops\sweep.log`, `C:\ops\sweep-report.html`},
		{"audit", "audit-report.html"},
		{"", "evtsweep-report.html"},
	}

	for _, tt := range tests {
		if got := reportPathFor(tt.runLog); got != tt.want {
			t.Errorf("reportPathFor(%q) = %q, want %q", tt.runLog, got, tt.want)
		}
	}
}

func TestRunCmdFlagDefaults(t *testing.T) {
	cmd := newRunCmd()

	for flag, want := range map[string]string{
		"log":         "Security",
		"runlog":      defaultRunLog,
		"concurrency": "1",
		"rate":        "0",
	} {
		f := cmd.Flags().Lookup(flag)
		if f == nil {
			t.Fatalf("flag --%s not registered", flag)
		}
		if f.DefValue != want {
			t.Errorf("--%s default = %q, want %q", flag, f.DefValue, want)
		}
	}
}
