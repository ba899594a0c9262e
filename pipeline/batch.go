// SPDX-License-Identifier: MIT

package pipeline

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/connectome/errkind"
)

// Batch runs subjects with at most batch.parallelism in flight. A failing
// subject is logged and skipped; the others continue. results[i] is nil for
// a failed subject, and the returned error joins every subject failure.
// When batch.metrics_file is set and metrics are attached, the counters are
// exported there after the last subject.
func (r *Runner) Batch(ctx context.Context, subjects []Subject, outDir string) ([]*Result, error) {
	results := make([]*Result, len(subjects))
	errs := make([]error, len(subjects))

	var g errgroup.Group
	g.SetLimit(r.cfg.Batch.Parallelism)
	for i, s := range subjects {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				errs[i] = errkind.Wrap(err, "batch", s.ID, "")
				return nil
			}
			res, err := r.Run(ctx, s, outDir)
			if err != nil {
				r.log.Error("subject failed", slog.String("subject", s.ID), slog.Any("err", err))
				errs[i] = err
				return nil
			}
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()

	if r.metrics != nil && r.cfg.Batch.MetricsFile != "" {
		if err := r.metrics.WriteTextfile(r.cfg.Batch.MetricsFile); err != nil {
			errs = append(errs, errkind.Wrap(err, "batch", "", r.cfg.Batch.MetricsFile))
		}
	}

	return results, errors.Join(errs...)
}
