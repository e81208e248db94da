package data

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"site-autobidder/internal/model"
)

// FileStore persists pipeline runs as JSON lines, one record per line, and
// serves the reporting API's "latest" reads. The pipeline only ever appends;
// a missing file simply means nothing has run yet.
type FileStore struct {
	mu  sync.Mutex
	dir string
}

const (
	predictionsFile = "predictions.jsonl"
	ordersFile      = "orders.jsonl"
	telemetryFile   = "telemetry.jsonl"
)

// NewFileStore opens (creating if needed) a store rooted at dir.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("store dir is empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create store dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// SavePrediction appends one run record.
func (s *FileStore) SavePrediction(rec model.PredictionRecord) error {
	return s.appendJSON(predictionsFile, rec)
}

// LatestPrediction returns the most recently saved run record. ok is false
// when nothing has been stored yet.
func (s *FileStore) LatestPrediction() (model.PredictionRecord, bool, error) {
	var rec model.PredictionRecord
	ok, err := s.latestJSON(predictionsFile, &rec)
	return rec, ok, err
}

// OrderBatch is one submitted (or attempted) day of orders.
type OrderBatch struct {
	SubmittedAt string        `json:"submitted_at"`
	Accepted    int           `json:"accepted"`
	Orders      []model.Order `json:"orders"`
}

// SaveOrders appends one order batch.
func (s *FileStore) SaveOrders(batch OrderBatch) error {
	return s.appendJSON(ordersFile, batch)
}

// LatestOrders returns the most recently saved order batch.
func (s *FileStore) LatestOrders() (OrderBatch, bool, error) {
	var batch OrderBatch
	ok, err := s.latestJSON(ordersFile, &batch)
	return batch, ok, err
}

// SaveTelemetry appends one live site reading.
func (s *FileStore) SaveTelemetry(t model.SiteTelemetry) error {
	return s.appendJSON(telemetryFile, t)
}

func (s *FileStore) appendJSON(name string, v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(s.dir, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", name, err)
	}
	defer f.Close()
	if _, err := f.Write(append(raw, '\n')); err != nil {
		return fmt.Errorf("failed to append to %s: %w", name, err)
	}
	return nil
}

func (s *FileStore) latestJSON(name string, v any) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(filepath.Join(s.dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to open %s: %w", name, err)
	}
	defer f.Close()

	var last []byte
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		if len(scanner.Bytes()) > 0 {
			last = append(last[:0], scanner.Bytes()...)
		}
	}
	if err := scanner.Err(); err != nil {
		return false, fmt.Errorf("failed to read %s: %w", name, err)
	}
	if len(last) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(last, v); err != nil {
		return false, fmt.Errorf("failed to decode last record of %s: %w", name, err)
	}
	return true, nil
}
