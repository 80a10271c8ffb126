// Package manifest renders hosting-platform configuration out of a
// deployment profile: the service manifest the platform consumes, and the
// server-side config file for profiles that delegate port resolution to
// the server.
package manifest

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"iglaunch/pkg/bootstrap"
	"iglaunch/pkg/config"
)

type Route struct {
	Type        string `yaml:"type"`
	Source      string `yaml:"source"`
	Destination string `yaml:"destination"`
}

type EnvVar struct {
	Key   string `yaml:"key"`
	Value string `yaml:"value"`
}

type Service struct {
	Name            string   `yaml:"name"`
	Runtime         string   `yaml:"runtime"`
	StartCommand    string   `yaml:"startCommand"`
	HealthCheckPath string   `yaml:"healthCheckPath"`
	EnvVars         []EnvVar `yaml:"envVars,omitempty"`
	Routes          []Route  `yaml:"routes,omitempty"`
}

type Manifest struct {
	Services []Service `yaml:"services"`
}

// FromProfile builds the platform manifest for one profile. The start
// command mirrors exactly what pkg/launcher would exec, with $PORT left
// symbolic for the platform to substitute.
func FromProfile(p config.Profile, e *bootstrap.Env) *Manifest {
	svc := Service{
		Name:            "analyzer",
		Runtime:         "python",
		StartCommand:    startCommand(p),
		HealthCheckPath: p.HealthPath,
	}
	if e != nil && e.PythonVersion != "" {
		svc.EnvVars = append(svc.EnvVars, EnvVar{Key: "PYTHON_VERSION", Value: e.PythonVersion})
	}
	for _, m := range p.Static {
		svc.Routes = append(svc.Routes, Route{
			Type:        "static",
			Source:      m.URLPrefix,
			Destination: m.Dir,
		})
	}
	return &Manifest{Services: []Service{svc}}
}

func startCommand(p config.Profile) string {
	parts := []string{"cd", p.AppDir, "&&", p.Server, "--workers", "1"}
	switch p.PortSource {
	case config.PortFromEnv:
		parts = append(parts, "--bind", fmt.Sprintf("0.0.0.0:${PORT:-%d}", p.DefaultPort))
		if p.TimeoutSeconds > 0 {
			parts = append(parts, "--timeout", fmt.Sprintf("%d", p.TimeoutSeconds))
		}
	case config.PortFromConfigFile:
		parts = append(parts, "--config", p.ConfigFile)
	}
	parts = append(parts, p.App)
	return strings.Join(parts, " ")
}

// Render marshals the manifest to YAML.
func (m *Manifest) Render() ([]byte, error) {
	out, err := yaml.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("rendering manifest: %w", err)
	}
	return out, nil
}

// PortConfigFile generates the server-side config for a config-file
// profile: port from the environment with the profile default, one worker,
// bounded request timeout. Reading PORT inside the server avoids shell
// $PORT expansion issues entirely.
func PortConfigFile(p config.Profile) ([]byte, error) {
	if p.PortSource != config.PortFromConfigFile {
		return nil, fmt.Errorf("profile %q does not use a server config file", p.Name)
	}
	defaultPort := p.DefaultPort
	if defaultPort == 0 {
		defaultPort = 10000
	}
	timeout := p.TimeoutSeconds
	if timeout == 0 {
		timeout = 300
	}
	var b strings.Builder
	b.WriteString("# Generated server config: port from environment, single worker.\n")
	b.WriteString("import os\n\n")
	fmt.Fprintf(&b, "bind = f\"0.0.0.0:{os.environ.get('PORT', '%d')}\"\n", defaultPort)
	b.WriteString("workers = 1\n")
	fmt.Fprintf(&b, "timeout = %d\n", timeout)
	return []byte(b.String()), nil
}
