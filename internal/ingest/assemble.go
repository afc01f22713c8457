package ingest

import (
	"github.com/couchcryptid/vhi-dashboard/internal/domain"
)

// AssembleTolerant loads every file in paths, passing each one that fails to
// skip and leaving it out of the dataset. It returns ErrNoData when no file
// loaded.
func AssembleTolerant(paths []string, skip func(path string, err error)) (*domain.Dataset, error) {
	batches := make([][]domain.WeeklyObservation, 0, len(paths))
	for _, p := range paths {
		obs, err := domain.LoadFile(p)
		if err != nil {
			if skip != nil {
				skip(p, err)
			}
			continue
		}
		batches = append(batches, obs)
	}

	if len(batches) == 0 {
		return nil, ErrNoData
	}
	return domain.NewDataset(batches...), nil
}

// assemble turns workspace files into a dataset. Strict mode defers to
// domain.Assemble; tolerant mode skips files that fail to load.
func (i *Ingester) assemble(paths []string, report *Report) (*domain.Dataset, error) {
	if i.policy.Strict {
		return domain.Assemble(paths)
	}

	return AssembleTolerant(paths, func(p string, err error) {
		i.metrics.FilesSkipped.Inc()
		i.logger.Warn("load failed, skipping file", "path", p, "error", err)
		report.Skipped[p] = err
	})
}
