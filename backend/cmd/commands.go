package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ONESHO1/FPDIST/backend/internal/config"
	"github.com/ONESHO1/FPDIST/backend/internal/distance"
	"github.com/ONESHO1/FPDIST/backend/internal/evaluate"
	"github.com/ONESHO1/FPDIST/backend/internal/fingerprint"
	"github.com/ONESHO1/FPDIST/backend/internal/log"
	"github.com/ONESHO1/FPDIST/backend/internal/match"
)

var errUsage = errors.New("wrong arguments")

// %.2f would print +Inf, keep it readable
func formatDistance(d float64) string {
	if math.IsInf(d, 1) {
		return "inf"
	}
	return fmt.Sprintf("%.2f", d)
}

func readPair(args []string) (fingerprint.File, fingerprint.File, error) {
	if len(args) != 2 {
		return fingerprint.File{}, fingerprint.File{}, fmt.Errorf("%w: expected <sample> <candidate>", errUsage)
	}

	sample, err := fingerprint.ReadFile(args[0])
	if err != nil {
		return fingerprint.File{}, fingerprint.File{}, err
	}
	candidate, err := fingerprint.ReadFile(args[1])
	if err != nil {
		return fingerprint.File{}, fingerprint.File{}, err
	}

	if err := distance.CheckLengths(sample.Hashes, candidate.Hashes); err != nil {
		log.Logger.WithError(err).WithFields(logrus.Fields{
			"sampleLength":    len(sample.Hashes),
			"candidateLength": len(candidate.Hashes),
		}).Warn("Sample is longer than candidate, swap the arguments?")
	}

	return sample, candidate, nil
}

func compareCmd(w io.Writer, args []string) error {
	sample, candidate, err := readPair(args)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, formatDistance(distance.Distance(sample.Hashes, candidate.Hashes)))
	return nil
}

func explainCmd(w io.Writer, args []string) error {
	sample, candidate, err := readPair(args)
	if err != nil {
		return err
	}

	res := distance.Compare(sample.Hashes, candidate.Hashes)

	fmt.Fprintf(w, "Sample:    %s (%d hashes, %d slices)\n", sample.Name, len(sample.Hashes), len(res.SampleRanges))
	fmt.Fprintf(w, "Candidate: %s (%d hashes, %d slices)\n", candidate.Name, len(candidate.Hashes), len(res.CandidateRanges))
	for k, s := range res.Slices {
		fmt.Fprintf(w, "\t%3d. sample %-14s candidate %-14s pairs: %-4d score: %s\n",
			k+1, s.Sample, s.Candidate, s.Compared, formatDistance(s.Score))
	}
	if dropped := len(res.SampleRanges) + len(res.CandidateRanges) - 2*len(res.Slices); dropped > 0 {
		fmt.Fprintf(w, "\t%d unpaired slices ignored\n", dropped)
	}
	fmt.Fprintf(w, "\nDistance: %s\n", formatDistance(res.Distance))

	return nil
}

func rankCmd(ctx context.Context, w io.Writer, cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("rank", flag.ContinueOnError)
	fs.SetOutput(w)
	top := fs.Int("top", cfg.TopN, "Number of matches to print")
	workers := fs.Int("workers", cfg.Workers, "Comparisons to run at once")
	strict := fs.Bool("strict", cfg.StrictLength, "Skip candidates shorter than the sample")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if fs.NArg() != 2 {
		return fmt.Errorf("%w: expected <sample> <candidates dir>", errUsage)
	}
	if *top < 1 {
		return fmt.Errorf("%w: -top must be at least 1", errUsage)
	}

	sample, err := fingerprint.ReadFile(fs.Arg(0))
	if err != nil {
		return err
	}
	files, err := fingerprint.LoadDir(fs.Arg(1))
	if err != nil {
		return err
	}

	candidates := make([]match.Candidate, 0, len(files))
	for _, f := range files {
		if f.Path == sample.Path {
			continue
		}
		candidates = append(candidates, match.Candidate{Name: f.Name, Hashes: f.Hashes})
	}

	matches, duration, err := match.Rank(ctx, sample.Hashes, candidates, match.Options{Workers: *workers, Strict: *strict})
	if err != nil {
		return err
	}

	topMatches := match.Top(matches, *top)
	fmt.Fprintln(w, "Top Matches ->")
	for _, m := range topMatches {
		fmt.Fprintf(w, "\t- %s, distance: %s, slices: %d\n", m.Name, formatDistance(m.Distance), m.Slices)
	}

	fmt.Fprintf(w, "\nSearch took: %s\n", duration)
	if len(topMatches) == 0 || distance.IsNoMatch(topMatches[0].Distance) {
		fmt.Fprintln(w, "\nNo candidate shares a hash with the sample")
		return nil
	}
	res := topMatches[0]
	fmt.Fprintf(w, "\nFinal prediction: %s, distance: %s\n", res.Name, formatDistance(res.Distance))

	return nil
}

func evalCmd(ctx context.Context, w io.Writer, cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("eval", flag.ContinueOnError)
	fs.SetOutput(w)
	seed := fs.Int64("seed", cfg.Seed, "Seed for the reference track pick, 0 uses the clock")
	workers := fs.Int("workers", cfg.Workers, "Samples to evaluate at once")
	strict := fs.Bool("strict", cfg.StrictLength, "Fail samples longer than their track")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if fs.NArg() != 2 {
		return fmt.Errorf("%w: expected <tracks dir> <samples dir>", errUsage)
	}

	tracks, err := fingerprint.LoadDir(fs.Arg(0))
	if err != nil {
		return err
	}
	samples, err := fingerprint.LoadDir(fs.Arg(1))
	if err != nil {
		return err
	}

	reports, err := evaluate.Run(ctx, tracks, samples, evaluate.Options{Workers: *workers, Seed: *seed, Strict: *strict})
	if err != nil {
		return err
	}

	printReports(w, reports)
	return nil
}

func printReports(w io.Writer, reports []evaluate.Report) {
	line := strings.Repeat("-", 70)
	current := ""

	for _, r := range reports {
		if r.Err != nil {
			fmt.Fprintf(w, "Could not evaluate %s: %v\n\n", r.Sample, r.Err)
			continue
		}

		if r.Track != current {
			current = r.Track
			fmt.Fprintln(w, line)
			fmt.Fprintf(w, "Current:          %-50s\n", r.Track)
			fmt.Fprintln(w, strings.Repeat("*", 70))
			fmt.Fprintf(w, "Random Reference: %-50s\n", r.Reference)
			fmt.Fprintln(w, line)
		}

		fmt.Fprintf(w, "Fingerprint comparison completed in %.8fs\n", r.Elapsed.Seconds())
		fmt.Fprintf(w, "Sample starting %ds to %ds\nDistance to candidate %s\nDistance to reference %s\n\n",
			r.Start, r.Start+r.Duration, formatDistance(r.Distance), formatDistance(r.ReferenceDistance))
	}

	s := evaluate.Summarize(reports)
	mean := "n/a"
	if !math.IsNaN(s.MeanDistance) {
		mean = fmt.Sprintf("%.2f", s.MeanDistance)
	}
	fmt.Fprintln(w, line)
	fmt.Fprintf(w, "Samples: %d, failed: %d, closer than reference: %d, no overlap: %d, mean distance: %s\n",
		s.Samples, s.Failed, s.Separated, s.NoOverlap, mean)
}
