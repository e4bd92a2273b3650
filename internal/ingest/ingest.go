// Package ingest discovers processable documents on disk and turns them into
// pipeline inputs. Images enter as raw bytes for normalization; .txt files
// are treated as already-recognized text.
package ingest

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/Farfive/expenseflow-pro-sub007/constants"
	"github.com/Farfive/expenseflow-pro-sub007/internal/pipeline"
)

// ScanStats summarizes one directory scan.
type ScanStats struct {
	Scanned uint32 // files visited
	Matched uint32 // files with a processable extension
	Skipped uint32 // hidden or unsupported files
	Failed  uint32 // unreadable files
}

// ScanDirectory walks root and loads every processable file, skipping hidden
// entries. Unreadable files are counted and skipped rather than aborting the
// scan; inputs come back in lexical path order.
func ScanDirectory(root string, errs func(path string, err error)) ([]pipeline.Input, ScanStats, error) {
	if strings.TrimSpace(root) == "" {
		return nil, ScanStats{}, errors.New("root path is required")
	}
	if errs == nil {
		errs = func(string, error) {}
	}

	var inputs []pipeline.Input
	var stats ScanStats

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			stats.Failed++
			errs(path, walkErr)
			return nil // keep walking
		}
		if hidden(d.Name()) && path != root {
			if d.IsDir() {
				return filepath.SkipDir
			}
			stats.Skipped++
			return nil
		}
		if d.IsDir() {
			return nil
		}

		stats.Scanned++
		if constants.MapExtToMedia(filepath.Ext(path)) == "" {
			stats.Skipped++
			return nil
		}
		stats.Matched++

		in, err := LoadFile(path)
		if err != nil {
			stats.Failed++
			errs(path, err)
			return nil
		}
		inputs = append(inputs, in)
		return nil
	})
	if err != nil {
		return nil, stats, fmt.Errorf("walk %s: %w", root, err)
	}
	return inputs, stats, nil
}

// LoadFile reads one document into a pipeline input, classified by extension.
func LoadFile(path string) (pipeline.Input, error) {
	media := constants.MapExtToMedia(filepath.Ext(path))
	if media == "" {
		return pipeline.Input{}, fmt.Errorf("unsupported file type: %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return pipeline.Input{}, fmt.Errorf("read %s: %w", path, err)
	}

	in := pipeline.Input{Source: path, Media: media}
	if media == constants.MediaText {
		in.Recognized = string(data)
	} else {
		in.Image = data
	}
	return in, nil
}

func hidden(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}
