/*
Package fingerprint reads fingerprints computed elsewhere (chromaprint's fpcalc)
into the []int32 hash frames the distance package compares.

Supported dumps:
  - `fpcalc -raw -plain`: 1,2,3,...
  - `fpcalc -raw`: DURATION=12\nFINGERPRINT=1,2,3,...
  - `fpcalc -raw -json`: {"duration": 12.0, "fingerprint": [1, 2, 3]}
*/
package fingerprint

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/buger/jsonparser"
	"github.com/sirupsen/logrus"

	"github.com/ONESHO1/FPDIST/backend/internal/log"
	"github.com/ONESHO1/FPDIST/backend/internal/utils"
)

var (
	ErrEmpty         = errors.New("fingerprint has no hashes")
	ErrUnknownFormat = errors.New("unknown fingerprint format")
)

type File struct {
	Name     string // file stem, used to pair samples with tracks
	Path     string
	Duration float64 // seconds, 0 when the dump doesn't carry it
	Hashes   []int32
}

// fpcalc prints unsigned hashes unless -signed is passed, both map onto the same 32 bits
func toHash(v int64) (int32, bool) {
	if v < math.MinInt32 || v > math.MaxUint32 {
		return 0, false
	}
	if v > math.MaxInt32 {
		return int32(uint32(v)), true
	}
	return int32(v), true
}

// ParsePlain reads a comma separated list of hashes
func ParsePlain(data []byte) ([]int32, error) {
	text := strings.TrimSpace(string(data))
	if text == "" {
		return nil, ErrEmpty
	}

	tokens := strings.Split(text, ",")
	hashes := make([]int32, 0, len(tokens))
	for i, tok := range tokens {
		tok = strings.TrimSpace(tok)
		v, err := strconv.ParseInt(tok, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("hash %d (%q): %w", i, tok, err)
		}
		h, ok := toHash(v)
		if !ok {
			return nil, fmt.Errorf("hash %d (%d) is outside 32 bits", i, v)
		}
		hashes = append(hashes, h)
	}

	return hashes, nil
}

// ParseText reads fpcalc's default KEY=VALUE output, falls back to ParsePlain when there are no keys
func ParseText(data []byte) ([]int32, float64, error) {
	if !bytes.Contains(data, []byte("FINGERPRINT=")) {
		hashes, err := ParsePlain(data)
		return hashes, 0, err
	}

	var (
		hashes   []int32
		duration float64
		err      error
	)
	for _, line := range strings.Split(string(data), "\n") {
		key, value, found := strings.Cut(strings.TrimSpace(line), "=")
		if !found {
			continue
		}
		switch key {
		case "DURATION":
			duration, err = strconv.ParseFloat(value, 64)
			if err != nil {
				return nil, 0, fmt.Errorf("bad DURATION %q: %w", value, err)
			}
		case "FINGERPRINT":
			hashes, err = ParsePlain([]byte(value))
			if err != nil {
				return nil, 0, err
			}
		}
	}

	return hashes, duration, nil
}

// ParseJSON reads `fpcalc -json -raw` output
func ParseJSON(data []byte) ([]int32, float64, error) {
	duration, err := jsonparser.GetFloat(data, "duration")
	if err != nil && !errors.Is(err, jsonparser.KeyPathNotFoundError) {
		return nil, 0, fmt.Errorf("bad duration: %w", err)
	}

	value, dataType, _, err := jsonparser.Get(data, "fingerprint")
	if err != nil {
		return nil, 0, fmt.Errorf("%w: no fingerprint key: %v", ErrUnknownFormat, err)
	}
	if dataType == jsonparser.String {
		return nil, 0, fmt.Errorf("%w: compressed fingerprint, rerun fpcalc with -raw", ErrUnknownFormat)
	}
	if dataType != jsonparser.Array {
		return nil, 0, fmt.Errorf("%w: fingerprint is a %s", ErrUnknownFormat, dataType)
	}

	var (
		hashes  []int32
		itemErr error
	)
	i := 0
	_, err = jsonparser.ArrayEach(value, func(item []byte, itemType jsonparser.ValueType, _ int, _ error) {
		defer func() { i++ }()
		if itemErr != nil {
			return
		}
		if itemType != jsonparser.Number {
			itemErr = fmt.Errorf("hash %d is a %s", i, itemType)
			return
		}
		v, err := jsonparser.ParseInt(item)
		if err != nil {
			itemErr = fmt.Errorf("hash %d (%s): %w", i, item, err)
			return
		}
		h, ok := toHash(v)
		if !ok {
			itemErr = fmt.Errorf("hash %d (%d) is outside 32 bits", i, v)
			return
		}
		hashes = append(hashes, h)
	})
	if err != nil {
		return nil, 0, fmt.Errorf("error reading fingerprint array: %w", err)
	}
	if itemErr != nil {
		return nil, 0, itemErr
	}
	if len(hashes) == 0 {
		return nil, 0, ErrEmpty
	}

	return hashes, duration, nil
}

// ReadFile picks the parser from the extension, .json is JSON and everything else is text
func ReadFile(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("error reading fingerprint: %w", err)
	}

	var (
		hashes   []int32
		duration float64
	)
	if strings.EqualFold(filepath.Ext(path), ".json") {
		hashes, duration, err = ParseJSON(data)
	} else {
		hashes, duration, err = ParseText(data)
	}
	if err != nil {
		return File{}, fmt.Errorf("error parsing %s: %w", path, err)
	}
	if len(hashes) == 0 {
		return File{}, fmt.Errorf("error parsing %s: %w", path, ErrEmpty)
	}

	log.Logger.WithFields(logrus.Fields{
		"path":     path,
		"hashes":   len(hashes),
		"duration": duration,
	}).Debug("Read fingerprint")

	return File{
		Name:     utils.Stem(path),
		Path:     path,
		Duration: duration,
		Hashes:   hashes,
	}, nil
}

// LoadDir reads every fingerprint in dir, broken files are logged and skipped
func LoadDir(dir string) ([]File, error) {
	paths, err := utils.FingerprintFiles(dir)
	if err != nil {
		return nil, err
	}

	files := make([]File, 0, len(paths))
	for _, path := range paths {
		f, err := ReadFile(path)
		if err != nil {
			log.Logger.WithError(err).WithField("path", path).Warn("Skipping fingerprint")
			continue
		}
		files = append(files, f)
	}

	return files, nil
}
