// Package sketchfile reads and writes the line-oriented sketch text
// format. Clean Architecture: Adapter behind the editor's SketchFileIO
// contract.
//
// One entity per line:
//
//	LINE x1 y1 x2 y2
//	ARC cx cy radius startAngle sweepAngle   (angles in radians)
//
// Unknown leading tokens are skipped with a warning so a file written by a
// newer version still loads what it can.
package sketchfile

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/tsao100/AICAD-sub000/internal/domain/entities"
)

// Store implements sketch save/load against the local filesystem.
type Store struct{}

// New returns a sketch file store.
func New() *Store {
	return &Store{}
}

// Save writes the sketch's entities to path. The file is written to a
// temporary sibling and renamed into place so a failed write never leaves
// a truncated sketch on disk.
func (s *Store) Save(path string, sketch *entities.SketchNode) error {
	var b strings.Builder
	for _, e := range sketch.Entities {
		for _, rec := range e.Records() {
			b.WriteString(rec)
			b.WriteByte('\n')
		}
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("writing sketch file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replacing sketch file: %w", err)
	}
	return nil
}

// Load reads entities from path. Malformed or unknown records are dropped,
// not fatal; an unreadable file aborts with no partial result.
func (s *Store) Load(path string) ([]entities.Entity, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening sketch file: %w", err)
	}
	defer f.Close()

	var out []entities.Entity
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		e, ok := entities.ParseRecord(line)
		if !ok {
			log.Printf("[ERROR] %s:%d: skipping unrecognized record %q", path, lineNo, line)
			continue
		}
		out = append(out, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading sketch file: %w", err)
	}
	return out, nil
}
