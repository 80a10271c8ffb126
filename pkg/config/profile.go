package config

import (
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/spf13/viper"
)

// PortSource selects how the server's listen port is determined.
type PortSource string

const (
	// PortFromEnv resolves the port from the PORT environment variable at
	// launch time and passes an explicit --bind on the command line.
	PortFromEnv PortSource = "env"
	// PortFromConfigFile delegates port resolution to a config file the
	// server reads itself. Nothing port-related appears on the command
	// line, which sidesteps shell $PORT expansion entirely.
	PortFromConfigFile PortSource = "config-file"
)

// Mount maps a URL prefix to a filesystem directory served as static assets.
type Mount struct {
	URLPrefix string `mapstructure:"url_prefix" yaml:"url_prefix"`
	Dir       string `mapstructure:"dir" yaml:"dir"`
}

// Profile describes one way of starting the application server. The two
// built-in profiles correspond to the two hosting targets we deploy to;
// they are alternatives, not variants to be merged.
type Profile struct {
	Name string `mapstructure:"-" yaml:"-"`

	// Server is the server executable, resolved against PATH.
	Server string `mapstructure:"server" yaml:"server"`
	// AppDir is the application subdirectory, relative to the base dir.
	AppDir string `mapstructure:"app_dir" yaml:"app_dir"`
	// App is the module:object entry point the server imports.
	App string `mapstructure:"app" yaml:"app"`

	PortSource  PortSource `mapstructure:"port_source" yaml:"port_source"`
	DefaultPort uint       `mapstructure:"default_port" yaml:"default_port"`
	// TimeoutSeconds is the per-request timeout passed to the server.
	// Zero means the server's own default.
	TimeoutSeconds uint `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
	// ConfigFile is the server-side config file, required when PortSource
	// is config-file.
	ConfigFile string `mapstructure:"config_file" yaml:"config_file"`

	HealthPath string  `mapstructure:"health_path" yaml:"health_path"`
	Static     []Mount `mapstructure:"static" yaml:"static"`
}

type Profiles struct {
	Profiles map[string]Profile `mapstructure:"profiles"`
}

// Builtin returns the two shipped profiles. "env-port" is the Render/VPS
// shape: port from $PORT (default 10000) with an explicit 300s timeout.
// "config-file" leaves port, timeout and workers to the server's own config
// file.
func Builtin() *Profiles {
	return &Profiles{
		Profiles: map[string]Profile{
			"env-port": {
				Name:           "env-port",
				Server:         "gunicorn",
				AppDir:         "backend",
				App:            "app:app",
				PortSource:     PortFromEnv,
				DefaultPort:    10000,
				TimeoutSeconds: 300,
				HealthPath:     "/healthz",
				Static: []Mount{
					{URLPrefix: "/static", Dir: "frontend"},
				},
			},
			"config-file": {
				Name:       "config-file",
				Server:     "gunicorn",
				AppDir:     "backend",
				App:        "app:app",
				PortSource: PortFromConfigFile,
				ConfigFile: "gunicorn_config.py",
				HealthPath: "/healthz",
				Static: []Mount{
					{URLPrefix: "/static", Dir: "frontend"},
				},
			},
		},
	}
}

// Load reads a profiles file. A profile in the file replaces the built-in
// definition of the same name; built-ins it does not mention stay available.
func Load(filename string) (*Profiles, error) {
	v := viper.New()
	v.SetConfigFile(filename)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error loading profiles file: %s", err.Error())
	}
	loaded := &Profiles{}
	if err := v.Unmarshal(loaded); err != nil {
		return nil, err
	}

	ps := Builtin()
	for name, p := range loaded.Profiles {
		p.Name = name
		ps.Profiles[name] = p
	}
	for name, p := range ps.Profiles {
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("profile %q: %w", name, err)
		}
	}
	return ps, nil
}

// Get returns a named profile after validation.
func (ps *Profiles) Get(name string) (Profile, error) {
	p, ok := ps.Profiles[name]
	if !ok {
		return Profile{}, fmt.Errorf("unknown profile %q", name)
	}
	p.Name = name
	if err := p.Validate(); err != nil {
		return Profile{}, fmt.Errorf("profile %q: %w", name, err)
	}
	return p, nil
}

func (p Profile) Validate() error {
	if p.Server == "" {
		return fmt.Errorf("server executable is required")
	}
	if p.App == "" {
		return fmt.Errorf("app entry point is required")
	}
	switch p.PortSource {
	case PortFromEnv:
	case PortFromConfigFile:
		if p.ConfigFile == "" {
			return fmt.Errorf("config_file is required when port_source is %q", PortFromConfigFile)
		}
	default:
		return fmt.Errorf("unknown port_source %q", p.PortSource)
	}

	seen := mapset.NewSet[string]()
	for _, m := range p.Static {
		if m.URLPrefix == "" || m.Dir == "" {
			return fmt.Errorf("static mount needs both url_prefix and dir")
		}
		if !seen.Add(m.URLPrefix) {
			return fmt.Errorf("duplicate static url_prefix %q", m.URLPrefix)
		}
	}
	return nil
}
