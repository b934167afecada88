package feat

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
)

// ExportDirName is the name of the first export directory inside a FEAT directory.
const ExportDirName = "nidm"

var exportDirRe = regexp.MustCompile(`^nidm(?:_(\d{4}))?$`)

// ExportDir returns the next unused export directory: nidm, then nidm_0001,
// nidm_0002 and so on. Nothing is created.
func ExportDir(featDir string) (string, error) {
	entries, err := os.ReadDir(featDir)
	if err != nil {
		return "", fmt.Errorf("listing %s: %w", featDir, err)
	}

	latest, found := 0, false
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		m := exportDirRe.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		found = true
		if m[1] == "" {
			continue
		}
		if n, _ := strconv.Atoi(m[1]); n > latest {
			latest = n
		}
	}

	if !found {
		return filepath.Join(featDir, ExportDirName), nil
	}
	return filepath.Join(featDir, fmt.Sprintf("%s_%04d", ExportDirName, latest+1)), nil
}
