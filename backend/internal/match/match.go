package match

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/ONESHO1/FPDIST/backend/internal/distance"
	"github.com/ONESHO1/FPDIST/backend/internal/log"
)

var ErrNoCandidates = errors.New("no candidates to compare against")

type Candidate struct {
	Name   string
	Hashes []int32
}

type Match struct {
	Name     string
	Distance float64
	Slices   int // slice pairs that went into the distance
}

type Options struct {
	Workers int
	// skip candidates shorter than the sample
	Strict bool
}

/*
Rank compares sample against every candidate, one comparison per worker,
and returns the matches sorted best (lowest distance) first. Candidates
with no shared hash sort last with an infinite distance.
*/
func Rank(ctx context.Context, sample []int32, candidates []Candidate, opts Options) ([]Match, time.Duration, error) {
	start := time.Now()

	if len(candidates) == 0 {
		return nil, time.Since(start), ErrNoCandidates
	}

	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}

	// each worker only writes its own slot
	results := make([]*Match, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, c := range candidates {
		i, c := i, c
		if gctx.Err() != nil {
			break
		}

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			if err := distance.CheckLengths(sample, c.Hashes); err != nil {
				entry := log.Logger.WithError(err).WithFields(logrus.Fields{
					"candidate":       c.Name,
					"sampleLength":    len(sample),
					"candidateLength": len(c.Hashes),
				})
				if opts.Strict {
					entry.Warn("Skipping candidate shorter than sample")
					return nil
				}
				entry.Warn("Candidate is shorter than sample, distance may be meaningless")
			}

			res := distance.Compare(sample, c.Hashes)
			results[i] = &Match{
				Name:     c.Name,
				Distance: res.Distance,
				Slices:   len(res.Slices),
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, time.Since(start), fmt.Errorf("ranking interrupted: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, time.Since(start), fmt.Errorf("ranking interrupted: %w", err)
	}

	matches := make([]Match, 0, len(results))
	for _, m := range results {
		if m != nil {
			matches = append(matches, *m)
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Distance != matches[j].Distance {
			return matches[i].Distance < matches[j].Distance
		}
		return matches[i].Name < matches[j].Name
	})

	log.Logger.WithFields(logrus.Fields{
		"candidates": len(candidates),
		"matches":    len(matches),
	}).Debug("Ranked candidates")

	return matches, time.Since(start), nil
}

// Top returns at most n of the best matches
func Top(matches []Match, n int) []Match {
	if n < 0 || len(matches) <= n {
		return matches
	}
	return matches[:n]
}
