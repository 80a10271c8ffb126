package launcher

import (
	"fmt"
	"path/filepath"
)

// Preflight verifies an invocation can possibly succeed before anything
// irreversible happens: the app directory exists, the server executable is
// on PATH, and the server-side config file is present when one is expected.
// On success inv.Path holds the resolved executable path.
func (l *Launcher) Preflight(inv *Invocation) error {
	fi, err := l.Stat(inv.Dir)
	if err != nil {
		return fmt.Errorf("app directory %s: %w", inv.Dir, err)
	}
	if !fi.IsDir() {
		return fmt.Errorf("app directory %s is not a directory", inv.Dir)
	}

	path, err := l.LookPath(inv.Args[0])
	if err != nil {
		return fmt.Errorf("server executable: %w", err)
	}
	inv.Path = path

	if inv.ConfigFile != "" {
		cfg := inv.ConfigFile
		if !filepath.IsAbs(cfg) {
			cfg = filepath.Join(inv.Dir, cfg)
		}
		if _, err := l.Stat(cfg); err != nil {
			return fmt.Errorf("server config file %s: %w", cfg, err)
		}
	}
	return nil
}
