package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"videodocs/internal/config"
	"videodocs/internal/preflight"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigValidateCommand(ctx))
	configCmd.AddCommand(newConfigInitCommand())
	configCmd.AddCommand(newConfigShowCommand(ctx))
	configCmd.AddCommand(newConfigCheckCommand(ctx))

	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Create a sample configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(targetPath)
			if target == "" {
				defaultPath, err := config.DefaultConfigPath()
				if err != nil {
					return fmt.Errorf("determine default config path: %w", err)
				}
				target = defaultPath
			} else {
				expanded, err := config.ExpandPath(target)
				if err != nil {
					return fmt.Errorf("resolve config path: %w", err)
				}
				target = expanded
			}

			dir := filepath.Dir(target)
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create config directory %q: %w", dir, err)
			}

			if !overwrite {
				if _, err := os.Stat(target); err == nil {
					return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
				} else if err != nil && !os.IsNotExist(err) {
					return fmt.Errorf("check config path: %w", err)
				}
			}

			if err := config.WriteSample(target); err != nil {
				return fmt.Errorf("write sample config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			fmt.Fprintln(out, "Edit the file to set llm.api_key (or export OPENAI_API_KEY) before converting.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing configuration if present")
	return cmd
}

func newConfigValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("ensure directories: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config path: %s\n", ctx.configPath)
			fmt.Fprintln(out, "Configuration valid")
			return nil
		},
	}
}

func newConfigShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the resolved configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config path: %s\n\n", ctx.configPath)
			fmt.Fprintf(out, "[paths]\n")
			fmt.Fprintf(out, "  base_dir = %s\n", cfg.Paths.BaseDir)
			fmt.Fprintf(out, "  log_dir  = %s\n", cfg.Paths.LogDir)
			fmt.Fprintf(out, "[llm]\n")
			fmt.Fprintf(out, "  api_key  = %s\n", maskSecret(cfg.LLM.APIKey))
			fmt.Fprintf(out, "  base_url = %s\n", cfg.LLM.BaseURL)
			fmt.Fprintf(out, "  model    = %s\n", cfg.LLM.Model)
			fmt.Fprintf(out, "[whisper]\n")
			fmt.Fprintf(out, "  mode     = %s\n", valueOrPrompt(cfg.Whisper.Mode))
			fmt.Fprintf(out, "  api_key  = %s\n", maskSecret(cfg.Whisper.APIKey))
			fmt.Fprintf(out, "  base_url = %s\n", cfg.Whisper.BaseURL)
			fmt.Fprintf(out, "  model    = %s (local: %s)\n", cfg.Whisper.Model, cfg.Whisper.LocalModel)
			fmt.Fprintf(out, "[download]\n")
			fmt.Fprintf(out, "  binary   = %s (max height %d)\n", cfg.Download.Binary, cfg.Download.MaxHeight)
			fmt.Fprintf(out, "[render]\n")
			fmt.Fprintf(out, "  pandoc   = %s\n", valueOrNone(cfg.Render.PandocBinary))
			fmt.Fprintf(out, "[workflow]\n")
			fmt.Fprintf(out, "  max_attempts = %d\n", cfg.Workflow.MaxAttempts)
			fmt.Fprintf(out, "[logging]\n")
			fmt.Fprintf(out, "  format = %s, level = %s\n", cfg.Logging.Format, cfg.Logging.Level)
			return nil
		},
	}
}

func maskSecret(value string) string {
	if value == "" {
		return "(unset)"
	}
	return "****"
}

func valueOrPrompt(mode string) string {
	if mode == "" {
		return "(ask each session)"
	}
	return mode
}

func valueOrNone(value string) string {
	if value == "" {
		return "(disabled)"
	}
	return value
}

func newConfigCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check external tools and API connectivity",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			results := preflight.RunAll(cmd.Context(), cfg)
			rows := make([][]string, 0, len(results))
			for _, result := range results {
				state := "ok"
				if !result.Passed {
					state = "FAIL"
					if result.Optional {
						state = "missing (optional)"
					}
				}
				rows = append(rows, []string{result.Name, state, result.Detail})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Check", "State", "Detail"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft},
			))

			if failed, ok := preflight.Failed(results); ok {
				return fmt.Errorf("environment not ready: %s", failed.Name)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Environment ready.")
			return nil
		},
	}
}
