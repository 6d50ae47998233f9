package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"lyricsync/internal/language"
	"lyricsync/internal/queue"
)

func newJobsCommand(cmdCtx *commandContext) *cobra.Command {
	jobsCmd := &cobra.Command{
		Use:   "jobs",
		Short: "Inspect and manage alignment jobs",
	}

	jobsCmd.AddCommand(newJobsListCommand(cmdCtx))
	jobsCmd.AddCommand(newJobsShowCommand(cmdCtx))
	jobsCmd.AddCommand(newJobsClearCommand(cmdCtx))
	return jobsCmd
}

func newJobsListCommand(cmdCtx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List alignment jobs, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmdCtx, func(store *queue.Store) error {
				jobs, err := store.List(cmd.Context(), limit)
				if err != nil {
					return err
				}
				if len(jobs) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No jobs recorded")
					return nil
				}

				rows := make([][]string, 0, len(jobs))
				for _, job := range jobs {
					rows = append(rows, []string{
						shortID(job.ID),
						job.Title,
						string(job.Status),
						outcomeSummary(job),
						job.CreatedAt.Local().Format(time.DateTime),
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"ID", "Title", "Status", "Outcome", "Created"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight},
				))
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of jobs to show (0 = all)")
	return cmd
}

func newJobsShowCommand(cmdCtx *commandContext) *cobra.Command {
	var showLRC bool

	cmd := &cobra.Command{
		Use:   "show <job-id>",
		Short: "Show one job in detail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmdCtx, func(store *queue.Store) error {
				job, err := store.GetByID(cmd.Context(), args[0])
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "ID:        %s\n", job.ID)
				fmt.Fprintf(out, "Title:     %s\n", job.Title)
				fmt.Fprintf(out, "Audio:     %s\n", job.AudioPath)
				fmt.Fprintf(out, "Lyrics:    %s\n", job.LyricsPath)
				fmt.Fprintf(out, "Language:  %s (%s)\n", language.DisplayName(job.Language), job.Language)
				fmt.Fprintf(out, "Status:    %s\n", job.Status)
				if job.OutcomeSource != "" {
					fmt.Fprintf(out, "Outcome:   %s\n", outcomeSummary(job))
				}
				if job.ErrorText != "" {
					fmt.Fprintf(out, "Error:     %s\n", job.ErrorText)
				}
				fmt.Fprintf(out, "Created:   %s\n", job.CreatedAt.Local().Format(time.DateTime))
				fmt.Fprintf(out, "Updated:   %s\n", job.UpdatedAt.Local().Format(time.DateTime))
				if showLRC {
					if job.FinalLRC != "" {
						fmt.Fprintf(out, "\n%s", job.FinalLRC)
					} else if job.BaselineLRC != "" {
						fmt.Fprintf(out, "\n%s", job.BaselineLRC)
					}
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&showLRC, "lrc", false, "Print the stored LRC content")
	return cmd
}

func newJobsClearCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all recorded jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmdCtx, func(store *queue.Store) error {
				removed, err := store.Clear(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d job(s)\n", removed)
				return nil
			})
		},
	}
}

func withStore(cmdCtx *commandContext, fn func(*queue.Store) error) error {
	cfg, err := cmdCtx.ensureConfig()
	if err != nil {
		return err
	}
	store, err := queue.Open(cfg)
	if err != nil {
		return fmt.Errorf("open job store: %w", err)
	}
	defer store.Close()
	return fn(store)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func outcomeSummary(job *queue.Job) string {
	switch job.OutcomeSource {
	case queue.OutcomeRefined:
		if job.InterpolatedLines > 0 {
			return "refined (" + strconv.Itoa(job.InterpolatedLines) + " interpolated)"
		}
		return "refined"
	case queue.OutcomeBaseline:
		if job.OutcomeReason != "" {
			return "baseline (" + job.OutcomeReason + ")"
		}
		return "baseline"
	default:
		return ""
	}
}
