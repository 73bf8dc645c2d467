package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ayomide/resumeforge/internal/config"
	"github.com/ayomide/resumeforge/internal/rendering"
)

var (
	renderTemplate string
	renderOut      string
	renderTimeout  int
)

var renderCmd = &cobra.Command{
	Use:   "render <resume.md>",
	Short: "Render a Markdown resume to PDF and plain text",
	Long: `Render a previously generated Markdown resume into a styled PDF and a
stripped plain-text file, without starting the server. Requires a local
Chrome or Chromium installation for the PDF step.`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	renderCmd.Flags().StringVar(&renderTemplate, "template", rendering.DefaultTemplate, "PDF template name")
	renderCmd.Flags().StringVar(&renderOut, "out", "", "Output base path (defaults to the input path without extension)")
	renderCmd.Flags().IntVar(&renderTimeout, "timeout", 120, "Render timeout in seconds")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	markdown, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read resume: %w", err)
	}

	if !cmd.Flags().Changed("template") && configPath != "" {
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			return err
		}
		if cfg.Template != "" {
			renderTemplate = cfg.Template
		}
	}

	base := renderOut
	if base == "" {
		base = strings.TrimSuffix(args[0], ".md")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(renderTimeout)*time.Second)
	defer cancel()

	// The PDF and text paths share nothing, so run them together.
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		pdf, err := rendering.ComposePDF(ctx, string(markdown), renderTemplate)
		if err != nil {
			return err
		}
		return os.WriteFile(base+".pdf", pdf, 0o644)
	})
	g.Go(func() error {
		return os.WriteFile(base+".txt", rendering.PlainText(string(markdown)), 0o644)
	})
	if err := g.Wait(); err != nil {
		return err
	}

	fmt.Printf("Wrote %s.pdf and %s.txt\n", base, base)
	return nil
}
