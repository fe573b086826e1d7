package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/d60-Lab/pingjob/internal/app"
	"github.com/d60-Lab/pingjob/internal/repository"
)

func distributeCmd() *cobra.Command {
	var jobID int64
	c := &cobra.Command{
		Use:   "distribute",
		Short: "Distribute one job to every platform and print the result",
		RunE: func(cmd *cobra.Command, args []string) error {
			if jobID <= 0 {
				return errors.New("--job-id is required")
			}
			// one-shot: the outbox worker stays off
			cfg.Distribution.Worker.Enabled = false

			w, err := app.NewWire(cfg)
			if err != nil {
				return err
			}
			defer w.Close()
			stopBackground := w.StartBackground()

			ctx := cmd.Context()
			job, err := w.Jobs.GetByID(ctx, jobID)
			if errors.Is(err, repository.ErrJobNotFound) {
				return fmt.Errorf("job %d not found", jobID)
			}
			if err != nil {
				return err
			}
			result := w.Distributor.DistributeToAll(ctx, job)

			drainCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			defer cancel()
			if err := stopBackground(drainCtx); err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		},
	}
	c.Flags().Int64Var(&jobID, "job-id", 0, "id of the job to distribute")
	return c
}
