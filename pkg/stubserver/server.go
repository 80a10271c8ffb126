// Package stubserver runs a minimal stand-in for the application server.
// It answers the health check and serves the static mounts of a profile,
// which is enough to verify a hosting platform's routing and health-gate
// configuration before the real application is deployed.
package stubserver

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"iglaunch/pkg/config"
)

type Server struct {
	Engine *gin.Engine
	Port   uint
}

// New builds the stub engine for a profile. Static mount dirs are resolved
// against baseDir.
func New(p config.Profile, baseDir string, port uint) *Server {
	engine := gin.Default()

	health := p.HealthPath
	if health == "" {
		health = "/healthz"
	}
	engine.GET(health, func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	engine.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "stub server for profile %q, real application not deployed yet\n", p.Name)
	})
	for _, m := range p.Static {
		dir := m.Dir
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(baseDir, m.Dir)
		}
		engine.Static(m.URLPrefix, dir)
	}

	return &Server{Engine: engine, Port: port}
}

// Run serves until SIGINT/SIGTERM, then shuts down gracefully.
func (s *Server) Run() {
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", s.Port),
		Handler: s.Engine,
	}

	serverErrors := make(chan error, 1)

	go func() {
		log.Printf("Stub server is running on port %d", s.Port)
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		log.Fatalf("Error starting stub server: %v", err)

	case <-shutdown:
		log.Println("Shutting down the stub server...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Fatalf("Could not stop stub server gracefully: %v", err)
		}
	}
}
