package headermap

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"slices"

	hmaperrors "github.com/tamirms/headermap/errors"
	"golang.org/x/sync/errgroup"
)

// defaultPerm is used when a Job leaves Perm unset.
const defaultPerm = 0o644

// Job describes one header map to build and write.
type Job struct {
	Path    string
	Entries []Entry
	Perm    os.FileMode
}

// Result reports what WriteAll did for one Job.
type Result struct {
	Path    string
	Written bool     // false when the file already held identical bytes
	Digest  [16]byte // see HeaderMap.Digest
	Entries uint32

	// Rejected lists entries dropped because an earlier entry of the same
	// job already mapped the key to a different value.
	Rejected []Entry
}

// WriteAll builds and writes one header map per job. Each job gets its own
// Builder, so jobs run concurrently (WithWorkers, default GOMAXPROCS) while
// every output stays deterministic. Results are returned in job order.
//
// Conflicting duplicate keys do not fail a job; they are reported in
// Result.Rejected. The first failing job cancels the rest.
func WriteAll(ctx context.Context, jobs []Job, opts ...BuildOption) ([]Result, error) {
	cfg := defaultBuildConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	workers := cfg.workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]Result, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, job := range jobs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r, err := buildAndWrite(job, opts)
			if err != nil {
				return fmt.Errorf("%s: %w", job.Path, err)
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func buildAndWrite(job Job, opts []BuildOption) (Result, error) {
	b := NewBuilder(append(slices.Clip(opts), WithCapacity(len(job.Entries)))...)

	var rejected []Entry
	for _, e := range job.Entries {
		_, err := b.Insert(e.Key, e.Prefix, e.Suffix)
		if errors.Is(err, hmaperrors.ErrDuplicateKey) {
			rejected = append(rejected, e)
			continue
		}
		if err != nil {
			return Result{}, fmt.Errorf("insert %q: %w", e.Key, err)
		}
	}

	m, err := b.Finish()
	if err != nil {
		return Result{}, err
	}

	perm := job.Perm
	if perm == 0 {
		perm = defaultPerm
	}
	written, err := WriteFile(job.Path, m, perm)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Path:     job.Path,
		Written:  written,
		Digest:   m.Digest(),
		Entries:  m.NumEntries(),
		Rejected: rejected,
	}, nil
}
