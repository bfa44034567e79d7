package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"videodocs/internal/pipeline"
	"videodocs/internal/preflight"
	"videodocs/internal/queue"
	"videodocs/internal/services/docgen"
	"videodocs/internal/services/llm"
	"videodocs/internal/session"
)

func newConvertCommand(ctx *commandContext) *cobra.Command {
	var skipPreflight bool
	var modelOverride string

	cmd := &cobra.Command{
		Use:   "convert [url]",
		Short: "Convert a video into an illustrated document",
		Long: `Convert downloads the video, transcribes it, rewrites the transcript
into a structured document with an LLM, captures frames at the moments
the model marked, and writes Markdown plus a best-effort PDF.

With a URL argument one video is converted. Without arguments an
interactive session starts, prompting for URLs until you quit.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if model := strings.TrimSpace(modelOverride); model != "" {
				cfg.LLM.Model = model
			}
			logger, err := ctx.newLogger()
			if err != nil {
				return err
			}

			if !skipPreflight {
				results := preflight.RunAll(cmd.Context(), cfg)
				for _, result := range results {
					if !result.Passed {
						fmt.Fprintf(cmd.ErrOrStderr(), "preflight: %s: %s\n", result.Name, result.Detail)
					}
				}
				if failed, ok := preflight.Failed(results); ok {
					return fmt.Errorf("preflight failed: %s: %s", failed.Name, failed.Detail)
				}
			}

			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			client := llm.NewClient(llm.Config{
				APIKey:         cfg.LLM.APIKey,
				BaseURL:        cfg.LLM.BaseURL,
				Model:          cfg.LLM.Model,
				TimeoutSeconds: cfg.LLM.TimeoutSeconds,
			})
			generator := docgen.NewGenerator(client, logger)
			orch := pipeline.NewOrchestrator(cfg, store, generator, logger)

			interactive := len(args) == 0
			if interactive && !session.StdinIsInteractive() {
				return errors.New("no URL given and stdin is not a terminal")
			}

			sess := session.New(cfg, store, orch, logger, session.Options{
				Prompter:    session.NewPrompter(os.Stdin, cmd.OutOrStdout()),
				Out:         cmd.OutOrStdout(),
				Interactive: session.StdinIsInteractive(),
			})
			if err := sess.Acquire(); err != nil {
				return err
			}
			defer sess.Release()

			if interactive {
				return sess.RunInteractive(cmd.Context())
			}
			if err := sess.ProcessURL(cmd.Context(), strings.TrimSpace(args[0])); err != nil {
				return err
			}
			printConversionResult(cmd, store)
			return nil
		},
	}

	cmd.Flags().BoolVar(&skipPreflight, "skip-preflight", false, "Skip environment checks before converting")
	cmd.Flags().StringVar(&modelOverride, "model", "", "Override the configured LLM model for this run")
	return cmd
}

// printConversionResult summarizes the task that ProcessURL just completed.
func printConversionResult(cmd *cobra.Command, store *queue.Store) {
	tasks, err := store.List(cmd.Context(), 1)
	if err != nil || len(tasks) == 0 {
		return
	}
	task := tasks[0]
	fmt.Fprintln(cmd.OutOrStdout(), renderTable(
		[]string{"Task", "Status", "Title", "Images", "Markdown", "PDF"},
		[][]string{{
			strconv.FormatInt(task.ID, 10),
			string(task.Status),
			truncateTitle(task.Title, 40),
			strconv.Itoa(task.ImageCount),
			task.MarkdownPath,
			valueOrNone(task.PDFPath),
		}},
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignLeft, alignLeft},
	))
}
