// Package launcher builds and executes the application server command line.
// A launch is one-shot: on success the launcher process is replaced by the
// server process and never returns. Restarting after a crash is the hosting
// platform's job, not ours.
package launcher

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/google/uuid"

	"iglaunch/pkg/config"
)

// workerCount is fixed. The application keeps analysis progress in process
// memory; a second worker would hold its own copy and the progress endpoint
// would flip between them.
const workerCount = 1

const bindHost = "0.0.0.0"

// Invocation is a fully resolved server command line, ready to exec.
type Invocation struct {
	// Dir is the directory to change into before exec.
	Dir string
	// Path is the absolute path of the server executable.
	Path string
	// Args is the full argv, Args[0] included.
	Args []string
	// Env is the child environment.
	Env []string
	// LaunchID tags this attempt in logs and is exported to the child
	// as LAUNCH_ID.
	LaunchID string
	// ConfigFile is the server-side config file, relative to Dir.
	// Empty unless the profile delegates port resolution to the server.
	ConfigFile string
}

// Launcher prepares and runs invocations. The process primitives are
// injectable so tests can observe calls without replacing the test binary.
type Launcher struct {
	LookPath func(file string) (string, error)
	Stat     func(name string) (os.FileInfo, error)
	Chdir    func(dir string) error
	Exec     func(argv0 string, argv []string, envv []string) error
}

func New() *Launcher {
	return &Launcher{
		LookPath: exec.LookPath,
		Stat:     os.Stat,
		Chdir:    os.Chdir,
		Exec:     syscall.Exec,
	}
}

// ResolvePort determines the listen port for an env-sourced profile:
// the PORT variable if set, the profile default otherwise. Hosting
// platforms hand us the value as a string, so it is validated here.
func ResolvePort(getenv func(string) string, p config.Profile) (uint, error) {
	raw := getenv("PORT")
	if raw == "" {
		return p.DefaultPort, nil
	}
	port, err := strconv.ParseUint(raw, 10, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid PORT %q: %w", raw, err)
	}
	return uint(port), nil
}

// Build assembles the server command line for a profile. baseDir anchors the
// relative AppDir so the result does not depend on the caller's cwd. environ
// is the parent environment in "key=value" form (normally os.Environ()).
func (l *Launcher) Build(baseDir string, p config.Profile, environ []string, getenv func(string) string) (*Invocation, error) {
	dir := p.AppDir
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(baseDir, p.AppDir)
	}

	args := []string{p.Server, "--workers", strconv.Itoa(workerCount)}

	switch p.PortSource {
	case config.PortFromEnv:
		port, err := ResolvePort(getenv, p)
		if err != nil {
			return nil, err
		}
		args = append(args, "--bind", fmt.Sprintf("%s:%d", bindHost, port))
		if p.TimeoutSeconds > 0 {
			args = append(args, "--timeout", strconv.Itoa(int(p.TimeoutSeconds)))
		}
		// Keep the child's PORT consistent with what we bound, for
		// anything downstream that reads it.
		environ = setEnv(environ, "PORT", strconv.Itoa(int(port)))
	case config.PortFromConfigFile:
		args = append(args, "--config", p.ConfigFile)
	default:
		return nil, fmt.Errorf("unknown port_source %q", p.PortSource)
	}

	args = append(args, p.App)

	id := uuid.NewString()
	environ = setEnv(environ, "LAUNCH_ID", id)

	return &Invocation{
		Dir:        dir,
		Args:       args,
		Env:        environ,
		LaunchID:   id,
		ConfigFile: p.ConfigFile,
	}, nil
}

// Run preflights, changes into the app directory and replaces the current
// process with the server. It only returns on failure.
func (l *Launcher) Run(inv *Invocation) error {
	if err := l.Preflight(inv); err != nil {
		return err
	}
	if err := l.Chdir(inv.Dir); err != nil {
		return fmt.Errorf("changing into app directory: %w", err)
	}
	if err := l.Exec(inv.Path, inv.Args, inv.Env); err != nil {
		return fmt.Errorf("executing %s: %w", inv.Path, err)
	}
	return nil
}

// setEnv returns environ with key set to value, replacing an existing entry.
func setEnv(environ []string, key, value string) []string {
	prefix := key + "="
	out := make([]string, 0, len(environ)+1)
	for _, kv := range environ {
		if strings.HasPrefix(kv, prefix) {
			continue
		}
		out = append(out, kv)
	}
	return append(out, prefix+value)
}
