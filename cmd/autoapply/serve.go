package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/eshwarrathod01/resume-auto-apply-agent/internal/config"
	"github.com/eshwarrathod01/resume-auto-apply-agent/internal/server"
)

var (
	servePort        int
	serveSnapshotTTL time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start an HTTP server that exposes per-session profile editing, script generation
and application tracking. DATABASE_URL enables the Postgres application store and
REDIS_URL enables Redis session snapshots; without them state is kept in memory.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on (PORT overrides the default)")
	serveCmd.Flags().DurationVar(&serveSnapshotTTL, "snapshot-ttl", 7*24*time.Hour, "Lifetime of Redis session snapshots")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	port := servePort
	if !cmd.Flags().Changed("port") {
		if env := os.Getenv("PORT"); env != "" {
			p, err := strconv.Atoi(env)
			if err != nil {
				return fmt.Errorf("invalid PORT: %w", err)
			}
			port = p
		}
	}

	sessionCfg, err := config.NewSessionConfig()
	if err != nil {
		return err
	}

	srv, err := server.New(cmd.Context(), server.Config{
		Port:         port,
		DatabaseURL:  cfg.DatabaseURL,
		RedisURL:     cfg.RedisURL,
		SnapshotTTL:  serveSnapshotTTL,
		TemplatePath: cfg.Template,
		Answers:      cfg.Answers,
		Session:      sessionCfg,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
