// Package corpus reads content documents from a content root on disk.
package corpus

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cognicore/examdex/pkg/examdex/config"
	"github.com/cognicore/examdex/pkg/examdex/parse"
	"github.com/cognicore/examdex/pkg/examdex/record"
)

// Kinds lists record kinds in build order
var Kinds = []record.Kind{record.KindQuiz, record.KindCaseAnalysis, record.KindEssayGuidance}

// Load reads every document under root following layout. Quiz files are
// read from the top of their directory only; narrative directories are
// walked recursively. A missing kind directory contributes no documents.
func Load(root string, layout config.Layout) ([]parse.Document, error) {
	var docs []parse.Document
	for _, kind := range Kinds {
		dir := filepath.Join(root, filepath.FromSlash(layout.Dir(kind)))
		found, err := LoadKind(dir, kind, kind != record.KindQuiz)
		if err != nil {
			return nil, err
		}
		docs = append(docs, found...)
	}
	return docs, nil
}

// LoadKind reads the *.md files of one directory, sorted by path
func LoadKind(dir string, kind record.Kind, recursive bool) ([]parse.Document, error) {
	paths, err := markdownFiles(dir, recursive)
	if err != nil {
		return nil, err
	}

	docs := make([]parse.Document, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read file %s: %w", path, err)
		}
		docs = append(docs, parse.Document{Path: path, Kind: kind, Text: string(data)})
	}
	return docs, nil
}

func markdownFiles(dir string, recursive bool) ([]string, error) {
	var paths []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) && path == dir {
				return fs.SkipAll
			}
			return err
		}
		if d.IsDir() {
			if path != dir && !recursive {
				return fs.SkipDir
			}
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), ".md") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(paths)
	return paths, nil
}
