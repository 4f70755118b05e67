package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"scribe/internal/ledger"
)

func newJobsCommand(cmdCtx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "jobs [job-id]",
		Short: "Show transcription job history from the ledger",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := ledger.Open(cfg)
			if err != nil {
				return fmt.Errorf("open job ledger: %w", err)
			}
			defer store.Close()

			if len(args) == 1 {
				return renderJobEvents(cmd, store, args[0])
			}
			return renderJobList(cmd, store, limit)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of jobs to list")
	cmd.AddCommand(newJobsPruneCommand(cmdCtx))
	return cmd
}

func renderJobList(cmd *cobra.Command, store *ledger.Store, limit int) error {
	jobs, err := store.ListJobs(cmd.Context(), limit)
	if err != nil {
		return err
	}
	if len(jobs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No jobs recorded")
		return nil
	}

	rows := make([][]string, 0, len(jobs))
	for _, job := range jobs {
		finished := "-"
		if job.FinishedAt != nil {
			finished = job.FinishedAt.Local().Format("2006-01-02 15:04:05")
		}
		rows = append(rows, []string{
			job.ID,
			statusCell(job.Status),
			fmt.Sprintf("%d", job.Chunks),
			job.StartedAt.Local().Format("2006-01-02 15:04:05"),
			finished,
			truncate(job.Detail, 60),
		})
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable(
		[]string{"JOB", "STATUS", "CHUNKS", "STARTED", "FINISHED", "DETAIL"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft, alignLeft, alignLeft},
	))
	return nil
}

func renderJobEvents(cmd *cobra.Command, store *ledger.Store, jobID string) error {
	events, err := store.JobEvents(cmd.Context(), jobID)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No events recorded for job %s\n", jobID)
		return nil
	}

	rows := make([][]string, 0, len(events))
	for _, event := range events {
		elapsed := "-"
		if event.Elapsed > 0 {
			elapsed = event.Elapsed.Round(time.Millisecond).String()
		}
		rows = append(rows, []string{
			string(event.Type),
			event.Chunk,
			event.Backend,
			elapsed,
			truncate(event.Detail, 60),
		})
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable(
		[]string{"EVENT", "CHUNK", "BACKEND", "ELAPSED", "DETAIL"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
	))
	return nil
}

func newJobsPruneCommand(cmdCtx *commandContext) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete ledger entries older than the retention window",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}
			if days <= 0 {
				days = cfg.Pipeline.LedgerRetentionDays
			}
			store, err := ledger.Open(cfg)
			if err != nil {
				return fmt.Errorf("open job ledger: %w", err)
			}
			defer store.Close()

			cutoff := time.Now().AddDate(0, 0, -days)
			removed, err := store.Prune(cmd.Context(), cutoff)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Pruned %d jobs older than %d days\n", removed, days)
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 0, "Retention window in days (defaults to configured value)")
	return cmd
}

// truncate shortens s to max runes. Details can carry provider error
// text in any script, so slicing happens on runes, not bytes.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
