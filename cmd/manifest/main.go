// Command manifest renders hosting-platform configuration for a profile:
// the service manifest on stdout (or -o), and optionally the server-side
// port config file for config-file profiles.
package main

import (
	"flag"
	"log"
	"os"

	"iglaunch/pkg/bootstrap"
	"iglaunch/pkg/config"
	"iglaunch/pkg/manifest"
)

func main() {
	profilesFile := flag.String("profiles", "", "profiles file (YAML); built-in profiles when empty")
	profileName := flag.String("profile", "env-port", "deployment profile to render")
	out := flag.String("o", "", "write the manifest here instead of stdout")
	portConfig := flag.String("port-config", "", "also write the server-side port config file here")

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

	rendered, err := manifest.FromProfile(p, e).Render()
	if err != nil {
		log.Fatal(err)
	}

	if *out == "" {
		if _, err := os.Stdout.Write(rendered); err != nil {
			log.Fatal(err)
		}
	} else if err := os.WriteFile(*out, rendered, 0o644); err != nil {
		log.Fatal(err)
	}

	if *portConfig != "" {
		cfg, err := manifest.PortConfigFile(p)
		if err != nil {
			log.Fatal(err)
		}
		if err := os.WriteFile(*portConfig, cfg, 0o644); err != nil {
			log.Fatal(err)
		}
	}
}
