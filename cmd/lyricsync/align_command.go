package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"lyricsync/internal/fileutil"
	"lyricsync/internal/language"
	"lyricsync/internal/lrc"
	"lyricsync/internal/lyrics"
	"lyricsync/internal/pipeline"
	"lyricsync/internal/queue"
	"lyricsync/internal/services/forcedalign"
	"lyricsync/internal/services/phrasealign"
	"lyricsync/internal/services/transcriber"
)

func newAlignCommand(cmdCtx *commandContext) *cobra.Command {
	var languageFlag string
	var outputPath string
	var title string
	var noRefine bool

	cmd := &cobra.Command{
		Use:   "align <audio-file> <lyrics-file>",
		Short: "Generate a time-synchronized LRC file for a song",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := cmdCtx.ensureLogger()
			if err != nil {
				return err
			}

			audioPath, err := filepath.Abs(args[0])
			if err != nil {
				return fmt.Errorf("resolve audio path: %w", err)
			}
			if _, err := os.Stat(audioPath); err != nil {
				return fmt.Errorf("audio file: %w", err)
			}
			lines, err := lyrics.Load(args[1])
			if err != nil {
				return fmt.Errorf("load lyrics: %w", err)
			}
			if len(lines) == 0 {
				return fmt.Errorf("lyrics file %s contains no lines", args[1])
			}

			songLanguage := strings.TrimSpace(languageFlag)
			if songLanguage == "" {
				songLanguage = cfg.Transcriber.Language
			}
			if iso := language.ToISO2(songLanguage); iso != "" {
				songLanguage = iso
			}
			if title == "" {
				title = strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
			}

			store, err := queue.Open(cfg)
			if err != nil {
				return fmt.Errorf("open job store: %w", err)
			}
			defer store.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			job, err := store.NewJob(ctx, title, audioPath, args[1], songLanguage)
			if err != nil {
				return fmt.Errorf("create job: %w", err)
			}
			workDir := filepath.Join(cfg.Paths.WorkDir, job.ID)

			var refiner forcedalign.Aligner
			if cfg.ForcedAlign.Enabled && !noRefine {
				client, clientErr := cmdCtx.alignClient()
				if clientErr != nil {
					return clientErr
				}
				refiner = client
			}

			ts := transcriber.NewService(transcriber.Config{
				Model:       cfg.Transcriber.Model,
				CUDAEnabled: cfg.Transcriber.CUDAEnabled,
			}, workDir)

			p := pipeline.New(
				ts,
				phrasealign.New(cfg.PhraseAlign.LookaheadWords),
				refiner,
				store,
				pipeline.Options{
					RefinementEnabled:  refiner != nil,
					MaxDurationSeconds: float64(cfg.ForcedAlign.MaxDurationSeconds),
					PhraseAlignRetries: cfg.PhraseAlign.MaxRetries,
				},
				logger,
			)

			result, err := p.Run(ctx, pipeline.Song{
				JobID:     job.ID,
				Title:     title,
				AudioPath: audioPath,
				Language:  songLanguage,
				Lines:     lines,
			})
			if err != nil {
				return err
			}

			// Render into the job's work directory first, then publish
			// with an integrity-checked copy.
			staged := filepath.Join(workDir, title+".lrc")
			if err := lrc.Write(staged, result.Cues); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			target := strings.TrimSpace(outputPath)
			if target == "" {
				target = filepath.Join(cfg.Paths.OutputDir, title+".lrc")
			}
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return fmt.Errorf("create output directory: %w", err)
			}
			if err := fileutil.CopyFileVerified(staged, target); err != nil {
				return fmt.Errorf("publish output: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote %s\n", target)
			if result.Outcome.Refined() {
				fmt.Fprintf(out, "Timing source: refined (%d of %d lines interpolated)\n",
					result.Outcome.Interpolated, len(result.Cues))
			} else {
				fmt.Fprintf(out, "Timing source: phrase-level baseline (%s)\n", result.Outcome.Reason)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&languageFlag, "language", "l", "", "Override the transcription language")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Destination for the LRC file")
	cmd.Flags().StringVar(&title, "title", "", "Song title used for the job record and output name")
	cmd.Flags().BoolVar(&noRefine, "no-refine", false, "Skip forced-alignment refinement for this run")
	return cmd
}
