// Command probe blocks until the application's health endpoint answers,
// or exits non-zero after the wait budget is spent. Used as a readiness
// gate after a deploy.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"iglaunch/pkg/bootstrap"
	"iglaunch/pkg/probe"
)

func main() {
	url := flag.String("url", "", "health URL (default: HEALTH_URL, or localhost on the resolved port)")
	maxWait := flag.Duration("max-wait", probe.DefaultMaxWait, "total time to keep retrying")

	flag.Parse()

	e := bootstrap.NewEnv()

	target := *url
	if target == "" {
		target = e.HealthURL
	}
	if target == "" {
		target = fmt.Sprintf("http://127.0.0.1:%d/healthz", e.Port)
	}

	p := probe.New()
	p.MaxWait = *maxWait

	ctx, cancel := context.WithTimeout(context.Background(), *maxWait+10*time.Second)
	defer cancel()

	if err := p.WaitReady(ctx, target); err != nil {
		log.Fatal(err)
	}
	log.Printf("%s is ready", target)
}
