package app

import (
	"errors"
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/menta2k/poeticapic"
	"github.com/menta2k/poeticapic/internal/utils"
)

func newBatchCommand(g *globals) *cobra.Command {
	var (
		sel       poeticapic.Selection
		recursive bool
	)

	cmd := &cobra.Command{
		Use:   "batch <dir>",
		Short: "Decorate every image of a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !utils.DirExists(args[0]) {
				return fmt.Errorf("'%s' is not a directory", args[0])
			}
			files, err := utils.ListImageFiles(args[0], recursive)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				log.WithField("dir", args[0]).Warn("no images found")
				return nil
			}

			studio, req, err := g.prepare(sel)
			if err != nil {
				return err
			}

			var (
				mu     sync.Mutex
				failed []error
			)
			eg, ctx := errgroup.WithContext(cmd.Context())
			eg.SetLimit(g.cfg.Output.Workers)
			for _, file := range files {
				eg.Go(func() error {
					if err := ctx.Err(); err != nil {
						return err
					}
					out, res, err := studio.ProcessFile(ctx, file, "", req)

					mu.Lock()
					defer mu.Unlock()
					if err != nil {
						log.WithField("file", file).WithError(err).Error("image failed")
						failed = append(failed, fmt.Errorf("%s: %w", file, err))
						return nil
					}
					report(cmd.OutOrStdout(), out, res)
					return nil
				})
			}
			if err := eg.Wait(); err != nil {
				return err
			}

			log.WithFields(log.Fields{
				"total":  len(files),
				"failed": len(failed),
			}).Info("batch done")
			return errors.Join(failed...)
		},
	}
	addSelectionFlags(cmd, &sel)
	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "Walk subdirectories")
	return cmd
}
