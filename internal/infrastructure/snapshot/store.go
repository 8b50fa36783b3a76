package snapshot

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/bytedance/sonic"
)

const manifestFileName = "manifest.json"

// Manifest records which snapshot files exist. It is the only source of
// truth for dataset membership, the store never lists directories to find
// out what was saved.
type Manifest struct {
	SavedAt time.Time          `json:"saved_at"`
	Season  []string           `json:"season_resources"`
	Rounds  map[string][]int64 `json:"round_resources"`
}

func NewManifest() *Manifest {
	return &Manifest{Rounds: make(map[string][]int64)}
}

func (m *Manifest) AddSeasonResource(resource string) {
	for _, existing := range m.Season {
		if existing == resource {
			return
		}
	}
	m.Season = append(m.Season, resource)
	sort.Strings(m.Season)
}

func (m *Manifest) AddRound(resource string, roundID int64) {
	rounds := m.Rounds[resource]
	for _, existing := range rounds {
		if existing == roundID {
			return
		}
	}
	rounds = append(rounds, roundID)
	sort.Slice(rounds, func(i, j int) bool { return rounds[i] < rounds[j] })
	m.Rounds[resource] = rounds
}

// Store writes raw API payloads and normalized CSV exports under one
// directory.
type Store struct {
	dir string
}

func NewStore(dir string) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("snapshot dir is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create snapshot dir %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// WriteSeasonJSON saves the raw payload of a season level resource as
// <resource>.json.
func (s *Store) WriteSeasonJSON(resource string, raw []byte) error {
	return s.writeFile(resource+".json", raw)
}

// WriteRoundJSON saves the raw payload of a per round resource as
// <resource>_rodada_<round_id>.json.
func (s *Store) WriteRoundJSON(resource string, roundID int64, raw []byte) error {
	return s.writeFile(fmt.Sprintf("%s_rodada_%d.json", resource, roundID), raw)
}

// WriteCSV exports normalized rows as <resource>.csv with a header line.
func (s *Store) WriteCSV(resource string, header []string, rows [][]string) error {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("write csv header %s: %w", resource, err)
	}
	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("write csv rows %s: %w", resource, err)
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush csv %s: %w", resource, err)
	}

	return s.writeFile(resource+".csv", buf.Bytes())
}

// WriteRunManifest records one pipeline run's dataset membership.
func (s *Store) WriteRunManifest(season []string, rounds map[string][]int64) error {
	manifest := NewManifest()
	for _, resource := range season {
		manifest.AddSeasonResource(resource)
	}
	for resource, roundIDs := range rounds {
		for _, roundID := range roundIDs {
			manifest.AddRound(resource, roundID)
		}
	}
	return s.WriteManifest(manifest)
}

func (s *Store) WriteManifest(m *Manifest) error {
	m.SavedAt = time.Now().UTC()
	raw, err := sonic.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal snapshot manifest: %w", err)
	}
	return s.writeFile(manifestFileName, raw)
}

func (s *Store) ReadManifest() (*Manifest, error) {
	path := filepath.Join(s.dir, manifestFileName)
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot manifest %s: %w", path, err)
	}

	manifest := NewManifest()
	if err := sonic.Unmarshal(raw, manifest); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot manifest: %w", err)
	}
	if manifest.Rounds == nil {
		manifest.Rounds = make(map[string][]int64)
	}

	return manifest, nil
}

// writeFile lands the payload through a temp file and a rename so a crashed
// run never leaves a half-written snapshot behind.
func (s *Store) writeFile(name string, raw []byte) error {
	path := filepath.Join(s.dir, name)
	tmp, err := os.CreateTemp(s.dir, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("create snapshot temp for %s: %w", path, err)
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write snapshot %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close snapshot temp for %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("rename snapshot %s: %w", path, err)
	}
	return nil
}
