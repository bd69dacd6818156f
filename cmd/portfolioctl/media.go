package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/cobra"

	"github.com/princekumarofficial/portfolio-service/internal/services/sweeper"
	mediatypes "github.com/princekumarofficial/portfolio-service/internal/types/media"
)

func newMediaCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "media",
		Short: "Manage project media",
	}

	var (
		projectID int64
		kind      string
	)
	upload := &cobra.Command{
		Use:   "upload <file>...",
		Short: "Upload files to a project in the order given",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mediaKind, err := mediatypes.ParseKind(kind)
			if err != nil {
				return err
			}

			uploads := make([]mediatypes.Upload, 0, len(args))
			for _, path := range args {
				f, err := os.Open(path)
				if err != nil {
					return err
				}
				defer f.Close()

				info, err := f.Stat()
				if err != nil {
					return err
				}
				mtype, err := mimetype.DetectReader(f)
				if err != nil {
					return fmt.Errorf("detect type of %s: %w", path, err)
				}
				if _, err := f.Seek(0, io.SeekStart); err != nil {
					return err
				}

				uploads = append(uploads, mediatypes.Upload{
					Name:        filepath.Base(path),
					ContentType: mtype.String(),
					Size:        info.Size(),
					Body:        f,
				})
				fmt.Printf("Queued %s (%s, %s)\n", path, mtype.String(), humanize.IBytes(uint64(info.Size())))
			}

			ctx := cmd.Context()
			if err := app.open(ctx, true); err != nil {
				return err
			}
			defer app.close()

			stored, err := app.content().UploadFiles(ctx, projectID, mediaKind, uploads)
			if printErr := printJSON(stored); printErr != nil {
				return printErr
			}
			return err
		},
	}
	upload.Flags().Int64Var(&projectID, "project", 0, "project id")
	upload.Flags().StringVar(&kind, "kind", "", "image or video")
	upload.MarkFlagRequired("project")
	upload.MarkFlagRequired("kind")

	cmd.AddCommand(upload)
	return cmd
}

func newSweepCmd(app *App) *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Remove stored objects no row references",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := app.open(ctx, true); err != nil {
				return err
			}
			defer app.close()

			report, err := sweeper.New(app.rows, app.objects, app.cfg.Sweeper.GracePeriod, app.logger).Sweep(ctx, dryRun)
			if err != nil {
				return err
			}
			return printJSON(report)
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report orphans without removing them")
	return cmd
}
