package workflow

import (
	"context"
	"testing"

	"evtsweep/internal/remote"
	"evtsweep/internal/types"
)

func fleetFake(hosts ...string) *remote.Fake {
	fake := &remote.Fake{
		Drives:    make(map[string][]string),
		RunOutput: make(map[string]remote.Output),
	}
	for _, h := range hosts {
		fake.Drives[h] = []string{"C", "Q"}
		fake.RunOutput[h] = remote.Output{Stdout: "0"}
	}
	return fake
}

func TestRunnerSequential(t *testing.T) {
	hosts := []string{"WEB01", "WEB02"}
	fake := fleetFake(hosts...)
	wf := New(fake, quietLog(t), Options{Log: types.LogSecurity, FixRegistry: true})

	outcomes := NewRunner(wf, 1).Run(context.Background(), hosts)

	if len(outcomes) != 2 {
		t.Fatalf("expected 2 outcomes, got %d", len(outcomes))
	}
	for i, host := range hosts {
		if outcomes[i].Host != host {
			t.Errorf("outcomes[%d].Host = %q, want %q", i, outcomes[i].Host, host)
		}
		if !outcomes[i].RegistryApplied {
			t.Errorf("%s: registry not applied", host)
		}
		if outcomes[i].RebootIssued {
			t.Errorf("%s: reboot issued without opt-in", host)
		}
	}
}

func TestRunnerConcurrentKeepsInputOrder(t *testing.T) {
	hosts := []string{"H01", "H02", "H03", "H04", "H05", "H06", "H07", "H08"}
	fake := fleetFake(hosts...)
	wf := New(fake, quietLog(t), Options{Log: types.LogApplication})

	outcomes := NewRunner(wf, 4).Run(context.Background(), hosts)

	if len(outcomes) != len(hosts) {
		t.Fatalf("expected %d outcomes, got %d", len(hosts), len(outcomes))
	}
	for i, host := range hosts {
		if outcomes[i].Host != host {
			t.Errorf("outcomes[%d].Host = %q, want %q", i, outcomes[i].Host, host)
		}
	}
}

func TestRunnerOneOutcomePerHostDespiteFailures(t *testing.T) {
	hosts := []string{"GOOD", "DEAD", "GOOD"} // duplicates process redundantly
	fake := fleetFake("GOOD")
	fake.Unreachable = map[string]bool{"DEAD": true}
	wf := New(fake, quietLog(t), Options{Log: types.LogSecurity})

	outcomes := NewRunner(wf, 1).Run(context.Background(), hosts)

	if len(outcomes) != 3 {
		t.Fatalf("expected 3 outcomes, got %d", len(outcomes))
	}
	if outcomes[0].Failed() {
		t.Errorf("first GOOD failed: %+v", outcomes[0])
	}
	if outcomes[1].Failure == "" {
		t.Error("DEAD host should carry a failure")
	}
	if outcomes[1].Clear.Status != types.ClearNotAttempted {
		t.Errorf("DEAD clear status = %s", outcomes[1].Clear.Status)
	}
	if outcomes[2].Failed() {
		t.Errorf("second GOOD failed: %+v", outcomes[2])
	}
}
