package enforcer

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aatumaykin/filesweep/internal/logger"
)

// replicationStagingMarker names the DFSR staging folder. Directories whose
// path contains it are never descended into or deleted from, regardless of
// policy configuration.
const replicationStagingMarker = "DfsrPrivate"

// runPolicy enforces a single policy and returns its result. Per-file and
// per-subdirectory errors are tallied, never returned.
func (e *Enforcer) runPolicy(runID string, p Policy) Result {
	res := Result{Directory: p.Directory}

	cutoff := e.now().UTC().AddDate(0, 0, -p.MaxAgeDays)

	if _, err := filepath.Match(p.Pattern, ""); err != nil {
		if e.logger != nil {
			e.logger.Warn("invalid match pattern, policy not enforceable",
				logger.Field{Key: "run_id", Value: runID},
				logger.Field{Key: "directory", Value: p.Directory},
				logger.Field{Key: "pattern", Value: p.Pattern})
		}
		if e.metrics != nil {
			e.metrics.RecordPolicyRun(OutcomeSkipped, 0)
		}
		return res
	}

	if _, err := e.stat(p.Directory); err != nil {
		if e.logger != nil {
			e.logger.Warn("policy directory not accessible, nothing to enforce",
				logger.Field{Key: "run_id", Value: runID},
				logger.Field{Key: "directory", Value: p.Directory})
		}
		if e.metrics != nil {
			e.metrics.RecordPolicyRun(OutcomeSkipped, 0)
		}
		return res
	}

	if e.logger != nil {
		e.logger.Info("enforcement started",
			logger.Field{Key: "run_id", Value: runID},
			logger.Field{Key: "directory", Value: p.Directory},
			logger.Field{Key: "pattern", Value: p.Pattern},
			logger.Field{Key: "recursive", Value: p.Recursive},
			logger.Field{Key: "cutoff", Value: cutoff})
	}

	start := time.Now()

	var deleted, failed int
	var err error
	if p.Recursive {
		deleted, failed, err = e.sweepTree(runID, p.Directory, p.Pattern, cutoff)
	} else {
		deleted, failed, err = e.sweepDir(runID, p.Directory, p.Pattern, cutoff)
	}
	if err != nil {
		// Root listing failed before anything was touched. Same handling
		// as a missing directory: zero counts, not an error.
		if e.logger != nil {
			e.logger.Warn("policy directory could not be listed, nothing to enforce",
				logger.Field{Key: "run_id", Value: runID},
				logger.Field{Key: "directory", Value: p.Directory},
				logger.Field{Key: "reason", Value: err.Error()})
		}
		deleted, failed = 0, 0
	}

	res.Runtime = time.Since(start)
	res.Deleted = deleted
	res.Failed = failed

	if e.logger != nil {
		e.logger.Info("enforcement finished",
			logger.Field{Key: "run_id", Value: runID},
			logger.Field{Key: "directory", Value: p.Directory},
			logger.Field{Key: "deleted", Value: res.Deleted},
			logger.Field{Key: "failed", Value: res.Failed},
			logger.Field{Key: "duration_ms", Value: res.Runtime.Milliseconds()})
	}

	if e.metrics != nil {
		outcome := OutcomeClean
		if res.Failed > 0 {
			outcome = OutcomePartial
		}
		e.metrics.RecordPolicyRun(outcome, res.Runtime)
		e.metrics.AddDeleted(res.Deleted)
		e.metrics.AddFailures(res.Failed)
	}

	return res
}

// sweepDir sweeps a single directory level. The error is non-nil only when
// the directory itself could not be listed; nothing was deleted in that case.
func (e *Enforcer) sweepDir(runID, dir, pattern string, cutoff time.Time) (int, int, error) {
	entries, err := e.readDir(dir)
	if err != nil {
		return 0, 0, err
	}
	deleted, failed := e.sweepEntries(runID, dir, entries, pattern, cutoff)
	return deleted, failed, nil
}

// sweepTree sweeps dir and recurses into its subdirectories. A subdirectory
// whose own listing fails is absorbed as exactly one failure on the parent;
// its siblings and the rest of the tree are still swept. The returned error
// is non-nil only when dir itself could not be listed.
func (e *Enforcer) sweepTree(runID, dir, pattern string, cutoff time.Time) (int, int, error) {
	entries, err := e.readDir(dir)
	if err != nil {
		return 0, 0, err
	}

	deleted, failed := e.sweepEntries(runID, dir, entries, pattern, cutoff)

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		sub := filepath.Join(dir, entry.Name())
		if strings.Contains(sub, replicationStagingMarker) {
			if e.logger != nil {
				e.logger.Debug("skipping replication staging directory",
					logger.Field{Key: "run_id", Value: runID},
					logger.Field{Key: "directory", Value: sub})
			}
			continue
		}

		subDeleted, subFailed, subErr := e.sweepTree(runID, sub, pattern, cutoff)
		deleted += subDeleted
		failed += subFailed
		if subErr != nil {
			failed++
			if e.logger != nil {
				e.logger.Error("failed to sweep subdirectory", subErr,
					logger.Field{Key: "run_id", Value: runID},
					logger.Field{Key: "directory", Value: sub})
			}
		}
	}

	return deleted, failed, nil
}

// sweepEntries deletes the qualifying files among entries. Files that do not
// match the pattern or are not older than the cutoff are skipped without
// counting; every attempted deletion lands in exactly one of the two counters.
func (e *Enforcer) sweepEntries(runID, dir string, entries []os.DirEntry, pattern string, cutoff time.Time) (int, int) {
	deleted, failed := 0, 0

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		matched, err := filepath.Match(pattern, entry.Name())
		if err != nil || !matched {
			continue
		}

		path := filepath.Join(dir, entry.Name())

		info, err := entry.Info()
		if err != nil {
			failed++
			if e.logger != nil {
				e.logger.Error("failed to read file modification time", err,
					logger.Field{Key: "run_id", Value: runID},
					logger.Field{Key: "path", Value: path})
			}
			continue
		}

		if !info.ModTime().UTC().Before(cutoff) {
			continue
		}

		if e.logger != nil {
			e.logger.Debug("deleting expired file",
				logger.Field{Key: "run_id", Value: runID},
				logger.Field{Key: "path", Value: path},
				logger.Field{Key: "mod_time", Value: info.ModTime().UTC()})
		}

		if err := e.remove(path); err != nil {
			failed++
			if e.logger != nil {
				e.logger.Error("failed to delete file", err,
					logger.Field{Key: "run_id", Value: runID},
					logger.Field{Key: "path", Value: path})
			}
			continue
		}

		deleted++
		if e.logger != nil {
			e.logger.Debug("file deleted",
				logger.Field{Key: "run_id", Value: runID},
				logger.Field{Key: "path", Value: path})
		}
	}

	return deleted, failed
}
