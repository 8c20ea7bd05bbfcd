package remote

import (
	"context"
	"sync"
	"time"

	"github.com/masterzen/winrm"
)

const (
	defaultHTTPPort  = 5985
	defaultHTTPSPort = 5986
	defaultTimeout   = 60 * time.Second
)

// WinRMConfig carries the transport settings shared by every host in a run.
// Credentials are ambient: the caller supplies one administrative account for
// the whole fleet.
type WinRMConfig struct {
	User     string
	Password string
	Port     int // 0 means the scheme default
	HTTPS    bool
	Insecure bool // skip TLS verification
	Timeout  time.Duration
}

// WinRM is a Runner that executes PowerShell over WinRM. Clients are cached
// per host; the underlying library dials lazily, so connectivity failures
// surface on the first Run.
type WinRM struct {
	cfg     WinRMConfig
	mu      sync.Mutex
	clients map[string]*winrm.Client
}

// NewWinRM creates the shared WinRM transport.
func NewWinRM(cfg WinRMConfig) *WinRM {
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	return &WinRM{cfg: cfg, clients: make(map[string]*winrm.Client)}
}

func (w *WinRM) client(host string) (*winrm.Client, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if c, ok := w.clients[host]; ok {
		return c, nil
	}

	port := w.cfg.Port
	if port == 0 {
		if w.cfg.HTTPS {
			port = defaultHTTPSPort
		} else {
			port = defaultHTTPPort
		}
	}

	endpoint := winrm.NewEndpoint(host, port, w.cfg.HTTPS, w.cfg.Insecure, nil, nil, nil, w.cfg.Timeout)
	c, err := winrm.NewClient(endpoint, w.cfg.User, w.cfg.Password)
	if err != nil {
		return nil, err
	}
	w.clients[host] = c
	return c, nil
}

// Run executes a PowerShell command on the host and returns its output.
// Transport-level failures come back as *UnreachableError.
func (w *WinRM) Run(ctx context.Context, host, command string) (Output, error) {
	c, err := w.client(host)
	if err != nil {
		return Output{}, &UnreachableError{Host: host, Err: err}
	}

	stdout, stderr, code, err := c.RunWithContextWithString(ctx, winrm.Powershell(command), "")
	if err != nil {
		return Output{}, &UnreachableError{Host: host, Err: err}
	}

	return Output{Stdout: stdout, Stderr: stderr, ExitCode: code}, nil
}
