package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ayomide/resumeforge/internal/config"
	"github.com/ayomide/resumeforge/internal/server"
)

var (
	servePort      int
	serveLimit     int
	serveTimeout   int
	serveTTLMinute int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server exposing session, generation and rendering endpoints for the resume builder.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	serveCmd.Flags().IntVar(&serveLimit, "generate-limit", 10, "Generation calls per client per minute (0 disables)")
	serveCmd.Flags().IntVar(&serveTimeout, "llm-timeout", 90, "Model call timeout in seconds")
	serveCmd.Flags().IntVar(&serveTTLMinute, "session-ttl", 120, "Idle session lifetime in minutes")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg := config.FromEnv()
	if configPath != "" {
		fileCfg, err := config.LoadConfig(configPath)
		if err != nil {
			return err
		}
		cfg = cfg.MergeWithDefaults(*fileCfg)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if cfg.APIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}

	// Flags win over environment and config file when set explicitly.
	port := cfg.Port
	if cmd.Flags().Changed("port") || port == 0 {
		port = servePort
	}
	timeout := cfg.LLMTimeoutSeconds
	if cmd.Flags().Changed("llm-timeout") || timeout == 0 {
		timeout = serveTimeout
	}
	ttl := cfg.SessionTTLMinutes
	if cmd.Flags().Changed("session-ttl") || ttl == 0 {
		ttl = serveTTLMinute
	}

	srv, err := server.New(server.Config{
		Port:          port,
		APIKey:        cfg.APIKey,
		LLMTimeout:    time.Duration(timeout) * time.Second,
		SessionTTL:    time.Duration(ttl) * time.Minute,
		GenerateLimit: serveLimit,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
