package remote

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// RegistryWrite records one SetRegistryDWord call against the fake.
type RegistryWrite struct {
	Host    string
	KeyPath string
	Name    string
	Value   uint32
}

// Fake is a scripted in-memory Accessor for tests. Zero value is usable:
// every host reports no drives, no paths, and successful writes. All maps
// are keyed by host name; per-call records are safe for concurrent use.
type Fake struct {
	mu sync.Mutex

	// Scripted answers.
	Drives      map[string][]string
	DrivesErr   map[string]error
	Existing    map[string]bool // "host|path" -> exists
	ExistsErr   map[string]error
	CreateErr   map[string]error
	RegistryErr map[string]error
	RebootErr   map[string]error
	RunOutput   map[string]Output
	RunErr      map[string]error
	// Unreachable makes every call against the host fail with
	// *UnreachableError.
	Unreachable map[string]bool

	// Call records.
	Created        []string
	RegistryWrites []RegistryWrite
	Reboots        []string
	Commands       []string
}

// ErrScripted is the default error injected by the fake's *Err maps when a
// host is present with a nil error value.
var ErrScripted = errors.New("scripted failure")

func (f *Fake) unreachable(host string) error {
	if f.Unreachable[host] {
		return &UnreachableError{Host: host, Err: errors.New("connection refused")}
	}
	return nil
}

func (f *Fake) ListFilesystemDrives(_ context.Context, host string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.unreachable(host); err != nil {
		return nil, err
	}
	if err, ok := f.DrivesErr[host]; ok {
		return nil, orScripted(err)
	}
	return f.Drives[host], nil
}

func (f *Fake) PathExists(_ context.Context, host, path string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.unreachable(host); err != nil {
		return false, err
	}
	if err, ok := f.ExistsErr[host]; ok {
		return false, orScripted(err)
	}
	return f.Existing[pathKey(host, path)], nil
}

func (f *Fake) CreateDirectory(_ context.Context, host, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.unreachable(host); err != nil {
		return err
	}
	if err, ok := f.CreateErr[host]; ok {
		return orScripted(err)
	}
	if f.Existing == nil {
		f.Existing = make(map[string]bool)
	}
	f.Existing[pathKey(host, path)] = true
	f.Created = append(f.Created, pathKey(host, path))
	return nil
}

func (f *Fake) SetRegistryDWord(_ context.Context, host, keyPath, name string, value uint32) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.unreachable(host); err != nil {
		return err
	}
	if err, ok := f.RegistryErr[host]; ok {
		return orScripted(err)
	}
	f.RegistryWrites = append(f.RegistryWrites, RegistryWrite{Host: host, KeyPath: keyPath, Name: name, Value: value})
	return nil
}

func (f *Fake) RebootNow(_ context.Context, host string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.unreachable(host); err != nil {
		return err
	}
	if err, ok := f.RebootErr[host]; ok {
		return orScripted(err)
	}
	f.Reboots = append(f.Reboots, host)
	return nil
}

func (f *Fake) Run(_ context.Context, host, command string) (Output, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Commands = append(f.Commands, command)
	if err := f.unreachable(host); err != nil {
		return Output{}, err
	}
	if err, ok := f.RunErr[host]; ok {
		return Output{}, orScripted(err)
	}
	return f.RunOutput[host], nil
}

func pathKey(host, path string) string {
	return fmt.Sprintf("%s|%s", host, path)
}

func orScripted(err error) error {
	if err == nil {
		return ErrScripted
	}
	return err
}
