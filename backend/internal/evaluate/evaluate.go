/*
Package evaluate checks how well the distance separates a sample from the track
it was cut from versus an unrelated reference track.

Samples are named after the clip they came from, <track>_<duration>_<start>s,
e.g. "Song - Artist_12_30s.txt" is 12 seconds of "Song - Artist" starting at 30s.
*/
package evaluate

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"regexp"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/ONESHO1/FPDIST/backend/internal/distance"
	"github.com/ONESHO1/FPDIST/backend/internal/fingerprint"
	"github.com/ONESHO1/FPDIST/backend/internal/log"
)

var (
	ErrNoTracks     = errors.New("no tracks to evaluate against")
	ErrUnknownTrack = errors.New("sample's track not found")
)

var sampleNameRe = regexp.MustCompile(`^(.+)_(\d+)_(\d+)s$`)

type SampleInfo struct {
	Track    string
	Duration int // seconds
	Start    int // seconds into the track
}

type Options struct {
	Workers int
	Seed    int64 // 0 seeds from the clock
	Strict  bool
}

type Report struct {
	Sample    string
	Track     string
	Reference string
	Duration  int
	Start     int

	Distance          float64 // sample vs its own track
	ReferenceDistance float64 // sample vs the random reference
	Elapsed           time.Duration
	Err               error
}

type Summary struct {
	Samples      int
	Failed       int
	Separated    int // own track strictly closer than the reference
	NoOverlap    int // no shared hash with the own track
	MeanDistance float64
}

func ParseSampleName(stem string) (SampleInfo, bool) {
	m := sampleNameRe.FindStringSubmatch(stem)
	if m == nil {
		return SampleInfo{}, false
	}
	duration, err := strconv.Atoi(m[2])
	if err != nil {
		return SampleInfo{}, false
	}
	start, err := strconv.Atoi(m[3])
	if err != nil {
		return SampleInfo{}, false
	}
	return SampleInfo{Track: m[1], Duration: duration, Start: start}, true
}

// picks the reference track once for the whole run
func pickReference(tracks []fingerprint.File, seed int64) fingerprint.File {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	return tracks[rng.Intn(len(tracks))]
}

/*
Run compares every sample with the track named in its file name and with one
random reference track. A sample that can't be resolved gets a Report with
Err set rather than failing the run.
*/
func Run(ctx context.Context, tracks, samples []fingerprint.File, opts Options) ([]Report, error) {
	if len(tracks) == 0 {
		return nil, ErrNoTracks
	}

	byName := make(map[string]fingerprint.File, len(tracks))
	for _, t := range tracks {
		byName[t.Name] = t
	}

	reference := pickReference(tracks, opts.Seed)
	log.Logger.WithField("reference", reference.Name).Info("Picked reference track")

	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}

	reports := make([]Report, len(samples))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, s := range samples {
		i, s := i, s
		if gctx.Err() != nil {
			break
		}

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			reports[i] = evaluateSample(s, byName, reference, opts.Strict)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("evaluation interrupted: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("evaluation interrupted: %w", err)
	}

	return reports, nil
}

func evaluateSample(sample fingerprint.File, tracks map[string]fingerprint.File, reference fingerprint.File, strict bool) Report {
	report := Report{
		Sample:            sample.Name,
		Reference:         reference.Name,
		Distance:          distance.Infinity,
		ReferenceDistance: distance.Infinity,
	}

	info, ok := ParseSampleName(sample.Name)
	if !ok {
		report.Err = fmt.Errorf("%w: %q doesn't follow <track>_<duration>_<start>s", ErrUnknownTrack, sample.Name)
		return report
	}
	report.Track = info.Track
	report.Duration = info.Duration
	report.Start = info.Start

	track, ok := tracks[info.Track]
	if !ok {
		report.Err = fmt.Errorf("%w: %q", ErrUnknownTrack, info.Track)
		return report
	}

	if err := distance.CheckLengths(sample.Hashes, track.Hashes); err != nil {
		if strict {
			report.Err = err
			return report
		}
		log.Logger.WithError(err).WithFields(logrus.Fields{
			"sample": sample.Name,
			"track":  track.Name,
		}).Warn("Sample is longer than its track")
	}

	start := time.Now()
	report.Distance = distance.Distance(sample.Hashes, track.Hashes)
	report.Elapsed = time.Since(start)

	report.ReferenceDistance = distance.Distance(sample.Hashes, reference.Hashes)

	log.Logger.WithFields(logrus.Fields{
		"sample":            sample.Name,
		"distance":          report.Distance,
		"referenceDistance": report.ReferenceDistance,
		"elapsed":           report.Elapsed,
	}).Debug("Evaluated sample")

	return report
}

func Summarize(reports []Report) Summary {
	var (
		sum    float64
		finite int
	)
	s := Summary{Samples: len(reports)}

	for _, r := range reports {
		if r.Err != nil {
			s.Failed++
			continue
		}
		if distance.IsNoMatch(r.Distance) {
			s.NoOverlap++
		} else {
			sum += r.Distance
			finite++
		}
		if r.Distance < r.ReferenceDistance {
			s.Separated++
		}
	}

	if finite > 0 {
		s.MeanDistance = sum / float64(finite)
	} else {
		s.MeanDistance = math.NaN()
	}

	return s
}
