// Command stub serves a profile's health check and static mounts in place
// of the real application, to verify platform routing before a deploy.
package main

import (
	"flag"
	"log"

	"iglaunch/pkg/bootstrap"
	"iglaunch/pkg/config"
	"iglaunch/pkg/stubserver"
)

func main() {
	profilesFile := flag.String("profiles", "", "profiles file (YAML); built-in profiles when empty")
	profileName := flag.String("profile", "env-port", "deployment profile to stand in for")
	baseDir := flag.String("dir", "", "base directory (default: APP_HOME or the executable's directory)")

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

	stubserver.New(p, base, e.Port).Run()
}
