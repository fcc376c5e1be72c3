package restore

import (
	"go.uber.org/zap"

	"restamp/internal/gitcmd"
	"restamp/internal/workspace"
	"restamp/shared/utils"
)

// retryMissing gives unresolved files a second chance against the
// merge-inclusive history, restricted to just those paths. Batching keeps
// the subprocess argument list bounded; batches run one after another and
// fold into the same summary.
func (r *Restorer) retryMissing(ws *workspace.Local, leftover map[string]struct{}) (map[string]struct{}, error) {
	batches := batchPaths(utils.SortedKeys(leftover), r.opts.BatchSize)
	r.logger.Info("retrying unresolved files against merge history",
		zap.Int("files", len(leftover)),
		zap.Int("batches", len(batches)))

	remaining := make(map[string]struct{})
	for _, batch := range batches {
		requested := make(map[string]struct{}, len(batch))
		for _, p := range batch {
			requested[p] = struct{}{}
		}

		still, err := r.scan(ws, requested, gitcmd.LogView{
			Merge:      true,
			CommitTime: r.opts.CommitTime,
			Paths:      batch,
		})
		if err != nil {
			return nil, err
		}
		for p := range still {
			remaining[p] = struct{}{}
		}
	}

	return remaining, nil
}

// batchPaths splits paths into runs of at most size, preserving order.
func batchPaths(paths []string, size int) [][]string {
	if size < 1 {
		size = 1
	}
	var out [][]string
	for len(paths) > size {
		out = append(out, paths[:size])
		paths = paths[size:]
	}
	if len(paths) > 0 {
		out = append(out, paths)
	}
	return out
}
