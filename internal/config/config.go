// Package config loads and validates the evtsweep run configuration: the
// host list, the run options carried on flags, and the YAML settings file
// holding transport credentials and mail relay details.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalid marks configuration errors. They are fatal: the run aborts
// before any host is processed, with a distinct exit code.
var ErrInvalid = errors.New("invalid configuration")

// Settings is the YAML settings file. Everything in it is about reaching
// hosts and the mail relay; per-run behavior lives on flags.
type Settings struct {
	WinRM WinRMSettings `yaml:"winrm"`
	SMTP  SMTPSettings  `yaml:"smtp"`
}

// WinRMSettings configures the shared management transport.
type WinRMSettings struct {
	User           string `yaml:"user"`
	Password       string `yaml:"password"`
	Port           int    `yaml:"port"`
	HTTPS          bool   `yaml:"https"`
	Insecure       bool   `yaml:"insecure"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// SMTPSettings configures report delivery.
type SMTPSettings struct {
	Host    string `yaml:"host"`
	Port    int    `yaml:"port"`
	From    string `yaml:"from"`
	To      string `yaml:"to"`
	Subject string `yaml:"subject"`
}

// LoadSettings parses the settings file. An empty path returns zero-value
// settings so a credential-less dry setup can still validate flags.
func LoadSettings(path string) (Settings, error) {
	var s Settings
	if path == "" {
		return s, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("%w: reading settings: %v", ErrInvalid, err)
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("%w: parsing settings %s: %v", ErrInvalid, path, err)
	}
	if s.SMTP.Port == 0 {
		s.SMTP.Port = 25
	}
	return s, nil
}

// LoadHosts resolves the target list from exactly one of the two sources: a
// newline-separated file or a single literal host name. Blank lines and
// #-comments in the file are skipped; duplicates are kept and will process
// redundantly.
func LoadHosts(listPath, single string) ([]string, error) {
	switch {
	case listPath == "" && single == "":
		return nil, fmt.Errorf("%w: either a host list file or a single host is required", ErrInvalid)
	case listPath != "" && single != "":
		return nil, fmt.Errorf("%w: host list file and single host are mutually exclusive", ErrInvalid)
	case single != "":
		return []string{single}, nil
	}

	data, err := os.ReadFile(listPath)
	if err != nil {
		return nil, fmt.Errorf("%w: reading host list: %v", ErrInvalid, err)
	}

	var hosts []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(strings.TrimSuffix(line, "\r"))
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		hosts = append(hosts, line)
	}
	if len(hosts) == 0 {
		return nil, fmt.Errorf("%w: host list %s contains no hosts", ErrInvalid, listPath)
	}
	return hosts, nil
}
