// Command launch starts the application server for a deployment profile.
// On success the process is replaced by the server; any setup failure exits
// non-zero and leaves restart policy to the supervising platform.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"iglaunch/pkg/bootstrap"
	"iglaunch/pkg/config"
	"iglaunch/pkg/launcher"
)

func main() {
	profilesFile := flag.String("profiles", "", "profiles file (YAML); built-in profiles when empty")
	profileName := flag.String("profile", "env-port", "deployment profile to launch")
	baseDir := flag.String("dir", "", "base directory (default: APP_HOME or the executable's directory)")
	dryRun := flag.Bool("dry-run", false, "print the resolved command line and exit")
	checkOnly := flag.Bool("check", false, "run preflight checks and exit")

	flag.Parse()

	e := bootstrap.NewEnv()

	ps := config.Builtin()
	if *profilesFile != "" {
		var err error
		ps, err = config.Load(*profilesFile)
		if err != nil {
			log.Fatal(err)
		}
	}

	p, err := ps.Get(*profileName)
	if err != nil {
		log.Fatal(err)
	}

	base := *baseDir
	if base == "" {
		base = e.AppHome
	}

	l := launcher.New()
	inv, err := l.Build(base, p, os.Environ(), os.Getenv)
	if err != nil {
		log.Fatal(err)
	}

	if *dryRun {
		fmt.Printf("cd %s && %s\n", inv.Dir, strings.Join(inv.Args, " "))
		return
	}

	if *checkOnly {
		if err := l.Preflight(inv); err != nil {
			log.Fatal(err)
		}
		log.Printf("preflight ok: %s in %s", inv.Path, inv.Dir)
		return
	}

	log.Printf("launch %s: profile %s, exec in %s", inv.LaunchID, p.Name, inv.Dir)
	// Run only returns on failure; on success the server owns the process.
	log.Fatal(l.Run(inv))
}
