package utils

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ONESHO1/FPDIST/backend/internal/log"
)

// extensions we treat as fingerprint dumps, "" covers files without one
var fingerprintExts = map[string]bool{
	"":      true,
	".txt":  true,
	".fp":   true,
	".raw":  true,
	".json": true,
}

// file name without directory and extension, "songs/Foo - Bar.txt" -> "Foo - Bar"
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func IsFingerprintFile(path string) bool {
	return fingerprintExts[strings.ToLower(filepath.Ext(path))]
}

// FingerprintFiles lists fingerprint dumps directly inside dir (no recursion), sorted by path
func FingerprintFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		log.Logger.WithError(err).WithField("dir", dir).Error("Failed to read fingerprint directory")
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		if !IsFingerprintFile(entry.Name()) {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}

	sort.Strings(files)
	return files, nil
}
