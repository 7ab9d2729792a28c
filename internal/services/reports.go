package services

import (
	"fmt"
	"sort"
	"time"

	"github.com/KATT/sanitize-csvs/pkg/sanitize"
)

// collisionReports converts scanner rejections into failed file reports
// so the summary accounts for every scanned file, loaded or not.
func collisionReports(logger sanitize.Logger, collisions []sanitize.Collision) []sanitize.FileReport {
	if len(collisions) == 0 {
		return nil
	}

	now := time.Now()
	reports := make([]sanitize.FileReport, 0, len(collisions))
	for _, c := range collisions {
		logger.Error("Skipping %s: table %q already claimed by %s", c.File.RelPath, c.File.Table, c.Winner)
		reports = append(reports, sanitize.FileReport{
			Table:      c.File.Table,
			Path:       c.File.RelPath,
			State:      sanitize.StateFailed,
			Failure:    fmt.Errorf("%w: table %q already claimed by %s", sanitize.ErrTableCollision, c.File.Table, c.Winner),
			StartedAt:  now,
			FinishedAt: now,
		})
	}
	return reports
}

// sortReports orders reports by table name, then by path so a rejected
// file sorts deterministically next to the file that beat it.
func sortReports(reports []sanitize.FileReport) {
	sort.Slice(reports, func(i, j int) bool {
		if reports[i].Table != reports[j].Table {
			return reports[i].Table < reports[j].Table
		}
		return reports[i].Path < reports[j].Path
	})
}
