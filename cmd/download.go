package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/brogergvhs/nelodl/internal/assembler"
	"github.com/brogergvhs/nelodl/internal/config"
	"github.com/brogergvhs/nelodl/internal/downloader"
	"github.com/brogergvhs/nelodl/internal/pipeline"
	"github.com/brogergvhs/nelodl/internal/ui"
	"github.com/brogergvhs/nelodl/internal/util"
)

var (
	flagOutput        string
	flagFormat        string
	flagImageWorkers  int
	flagJPEGQuality   int
	flagKeepWorkspace bool
	flagDryRun        bool
)

func init() {
	downloadCmd := &cobra.Command{
		Use:   "download",
		Short: "Download every chapter of a manga into one document per chapter. Uses the selected config, overwritten by CLI flags",
		RunE:  runDownload,
	}

	addSiteFlags(downloadCmd)
	downloadCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "output folder for finished documents")
	downloadCmd.Flags().StringVar(&flagFormat, "format", "", "output format: pdf or cbz")
	downloadCmd.Flags().IntVar(&flagImageWorkers, "image-workers", 0, "cap on parallel page downloads per chapter (0 = one per page)")
	downloadCmd.Flags().IntVar(&flagJPEGQuality, "jpeg-quality", 0, "JPEG quality for re-encoded pages (1-100)")
	downloadCmd.Flags().BoolVar(&flagKeepWorkspace, "keep-workspace", false, "keep per-chapter workspaces")
	downloadCmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "show what would be downloaded, don't download")

	rootCmd.AddCommand(downloadCmd)
}

func runDownload(cmd *cobra.Command, _ []string) error {
	s, err := newSession(config.Options{
		Output:        flagOutput,
		Format:        flagFormat,
		ImageWorkers:  flagImageWorkers,
		JPEGQuality:   flagJPEGQuality,
		KeepWorkspace: flagKeepWorkspace,
	})
	if err != nil {
		return err
	}
	cfg := s.cfg

	out := cmd.OutOrStdout()
	if cfg.Debug {
		_, _ = fmt.Fprintf(out, "Config file: %s\n", s.used)
		cfg.Print(out)
		_, _ = fmt.Fprintln(out)
	}

	if flagDryRun {
		planned, err := pipeline.New(s.scraper, nil, s.log, pipeline.Options{
			Range: cfg.DefaultRange,
			List:  cfg.DefaultList,
		}).Plan(cmd.Context(), s.url)
		if err != nil {
			return err
		}

		_, _ = fmt.Fprintf(out, "Dry-run: %d chapters selected.\n\n", len(planned))
		printPlan(cmd, planned)
		return nil
	}

	if err := os.MkdirAll(cfg.Output, 0o755); err != nil {
		return fmt.Errorf("cannot create output folder: %w", err)
	}

	lock, err := util.LockOutput(cfg.Output)
	if err != nil {
		return err
	}
	defer func() {
		_ = lock.Release()
	}()

	ws := util.NewWorkspaces()
	util.SetupInterruptHandler(ws, func() {
		_ = lock.Release()
	})

	dl := downloader.New(s.fetcher, s.log, downloader.Options{
		Workers:     cfg.ImageWorkers,
		JPEGQuality: cfg.JPEGQuality,
	})

	pm := ui.NewProgressManager(out)
	defer pm.Close()

	asm, err := assembler.New(s.scraper, dl, s.log, assembler.Options{
		OutputDir:     cfg.Output,
		Format:        cfg.Format,
		KeepWorkspace: cfg.KeepWorkspace,
		Progress: func(chapter string) downloader.Progress {
			return pm.Register(chapter)
		},
		Workspaces: ws,
	})
	if err != nil {
		return err
	}

	stats, runErr := pipeline.New(s.scraper, asm, s.log, pipeline.Options{
		Range: cfg.DefaultRange,
		List:  cfg.DefaultList,
		Out:   out,
	}).Run(cmd.Context(), s.url)

	pm.Close()
	stats.Print(out)

	if runErr != nil {
		return runErr
	}

	_, _ = fmt.Fprintln(out, "\nAll done.")
	return nil
}
