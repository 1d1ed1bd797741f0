package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"lectern/internal/pipeline"
	"lectern/internal/preflight"
)

func newProcessCommand(ctx *commandContext) *cobra.Command {
	var skipPreflight bool

	cmd := &cobra.Command{
		Use:   "process <video>...",
		Short: "Run the full pipeline: transcribe, detect slides, match, and store cards",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !skipPreflight {
				if err := runPreflight(ctx); err != nil {
					return err
				}
			}
			worker, cleanup, err := ctx.newWorker(true)
			if err != nil {
				return err
			}
			defer cleanup()

			results, err := worker.Process(cmd.Context(), args)
			printResults(cmd, results)
			return finishRun(results, err)
		},
	}

	cmd.Flags().BoolVar(&skipPreflight, "skip-preflight", false, "Skip readiness checks before processing")
	return cmd
}

func newSlidesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "slides <video>...",
		Short: "Extract slide images only, into a folder named after each video",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			worker, cleanup, err := ctx.newWorker(false)
			if err != nil {
				return err
			}
			defer cleanup()
			results, err := worker.Slides(cmd.Context(), args)
			printResults(cmd, results)
			return finishRun(results, err)
		},
	}
}

func newTranscribeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "transcribe <video>...",
		Short: "Transcribe only, writing the configured SRT/TXT exports",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			worker, cleanup, err := ctx.newWorker(false)
			if err != nil {
				return err
			}
			defer cleanup()
			results, err := worker.Transcribe(cmd.Context(), args)
			printResults(cmd, results)
			return finishRun(results, err)
		},
	}
}

func runPreflight(ctx *commandContext) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	results := preflight.RunAll(cfg)
	if preflight.Passed(results) {
		return nil
	}
	for _, result := range results {
		if !result.Passed {
			return fmt.Errorf("preflight check %q failed: %s", result.Name, result.Detail)
		}
	}
	return nil
}

func printResults(cmd *cobra.Command, results []pipeline.FileResult) {
	if len(results) == 0 {
		return
	}
	rows := make([][]string, 0, len(results))
	for _, result := range results {
		status := "ok"
		if result.Err != nil {
			status = result.Err.Error()
		}
		rows = append(rows, []string{
			result.Source,
			strconv.Itoa(result.Slides),
			strconv.Itoa(result.Segments),
			strconv.Itoa(result.Cards),
			status,
		})
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable(
		[]string{"Source", "Slides", "Segments", "Cards", "Status"},
		rows,
	))
}

func finishRun(results []pipeline.FileResult, err error) error {
	if err != nil {
		return err
	}
	failed := 0
	for _, result := range results {
		if result.Err != nil {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(results))
	}
	return nil
}
