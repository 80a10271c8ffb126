package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinProfiles(t *testing.T) {
	ps := Builtin()

	envPort, err := ps.Get("env-port")
	require.NoError(t, err)
	assert.Equal(t, PortFromEnv, envPort.PortSource)
	assert.Equal(t, uint(10000), envPort.DefaultPort)
	assert.Equal(t, uint(300), envPort.TimeoutSeconds)
	assert.Equal(t, "/healthz", envPort.HealthPath)

	cfgFile, err := ps.Get("config-file")
	require.NoError(t, err)
	assert.Equal(t, PortFromConfigFile, cfgFile.PortSource)
	assert.Equal(t, "gunicorn_config.py", cfgFile.ConfigFile)
	assert.Zero(t, cfgFile.TimeoutSeconds, "server default, not ours")
}

func TestGet_UnknownProfile(t *testing.T) {
	_, err := Builtin().Get("staging")
	assert.ErrorContains(t, err, "unknown profile")
}

func writeProfiles(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profiles.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_OverridesBuiltin(t *testing.T) {
	path := writeProfiles(t, `
profiles:
  env-port:
    server: gunicorn
    app_dir: backend
    app: app:app
    port_source: env
    default_port: 9000
    timeout_seconds: 120
    health_path: /healthz
`)

	ps, err := Load(path)
	require.NoError(t, err)

	p, err := ps.Get("env-port")
	require.NoError(t, err)
	assert.Equal(t, uint(9000), p.DefaultPort)
	assert.Equal(t, uint(120), p.TimeoutSeconds)

	// Untouched built-ins survive.
	_, err = ps.Get("config-file")
	assert.NoError(t, err)
}

func TestLoad_NewProfile(t *testing.T) {
	path := writeProfiles(t, `
profiles:
  vps:
    server: gunicorn
    app_dir: srv/analyzer/backend
    app: app:app
    port_source: env
    default_port: 8080
    static:
      - url_prefix: /static
        dir: srv/analyzer/frontend
`)

	ps, err := Load(path)
	require.NoError(t, err)

	p, err := ps.Get("vps")
	require.NoError(t, err)
	assert.Equal(t, "vps", p.Name)
	require.Len(t, p.Static, 1)
	assert.Equal(t, "/static", p.Static[0].URLPrefix)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_InvalidProfileRejected(t *testing.T) {
	path := writeProfiles(t, `
profiles:
  broken:
    server: gunicorn
    app: app:app
    port_source: dhcp
`)

	_, err := Load(path)
	assert.ErrorContains(t, err, "unknown port_source")
}

func TestValidate(t *testing.T) {
	base := Profile{
		Server:     "gunicorn",
		App:        "app:app",
		PortSource: PortFromEnv,
	}

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, base.Validate())
	})

	t.Run("missing server", func(t *testing.T) {
		p := base
		p.Server = ""
		assert.Error(t, p.Validate())
	})

	t.Run("missing app", func(t *testing.T) {
		p := base
		p.App = ""
		assert.Error(t, p.Validate())
	})

	t.Run("config-file source requires a file", func(t *testing.T) {
		p := base
		p.PortSource = PortFromConfigFile
		assert.ErrorContains(t, p.Validate(), "config_file is required")

		p.ConfigFile = "gunicorn_config.py"
		assert.NoError(t, p.Validate())
	})

	t.Run("duplicate static prefixes rejected", func(t *testing.T) {
		p := base
		p.Static = []Mount{
			{URLPrefix: "/static", Dir: "frontend"},
			{URLPrefix: "/static", Dir: "assets"},
		}
		assert.ErrorContains(t, p.Validate(), "duplicate static url_prefix")
	})

	t.Run("incomplete static mount rejected", func(t *testing.T) {
		p := base
		p.Static = []Mount{{URLPrefix: "/static"}}
		assert.Error(t, p.Validate())
	})
}
