package storage

import (
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/san-kum/basins/internal/analysis"
	"github.com/san-kum/basins/internal/basin"
	"github.com/san-kum/basins/internal/config"
	"github.com/san-kum/basins/internal/physics"
)

const (
	metadataFile   = "metadata.json"
	sceneFile      = "scene.yaml"
	frameFile      = "basin.png"
	attractorsFile = "attractors.bin"
	sharesFile     = "basins.csv"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID             string        `json:"id"`
	Name           string        `json:"name"`
	Timestamp      time.Time     `json:"timestamp"`
	Profile        string        `json:"profile"`
	Filter         string        `json:"filter"`
	Fallback       string        `json:"fallback"`
	Width          int           `json:"width"`
	Height         int           `json:"height"`
	Generation     uint64        `json:"generation"`
	Attractors     int           `json:"attractors"`
	Elapsed        time.Duration `json:"elapsed_ns"`
	CaptureRate    float64       `json:"capture_rate"`
	MeanIterations float64       `json:"mean_iterations"`
	MaxIterations  int           `json:"max_iterations"`
}

// Run is everything persisted for one rendered field.
type Run struct {
	Name    string
	Config  *config.Config
	Set     *physics.AttractorSet
	Field   *basin.FieldBuffer
	Frame   *image.RGBA
	Elapsed time.Duration
}

// Save writes a run directory and returns its id.
func (s *Store) Save(run Run) (string, error) {
	if run.Field == nil || run.Set == nil || run.Config == nil {
		return "", fmt.Errorf("storage: incomplete run")
	}
	frame := run.Frame
	if frame == nil {
		frame = run.Field.Image
	}

	now := time.Now()
	runID := fmt.Sprintf("%s_%d", run.Name, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	summary := analysis.Summarize(run.Field, run.Set)
	meta := RunMetadata{
		ID:             runID,
		Name:           run.Name,
		Timestamp:      now,
		Profile:        string(run.Field.Profile),
		Filter:         run.Config.Filter,
		Fallback:       run.Config.Fallback,
		Width:          run.Field.Width,
		Height:         run.Field.Height,
		Generation:     run.Field.Generation,
		Attractors:     run.Set.Len(),
		Elapsed:        run.Elapsed,
		CaptureRate:    summary.CaptureRate(),
		MeanIterations: summary.MeanIter,
		MaxIterations:  summary.MaxIter,
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := config.Save(filepath.Join(runDir, sceneFile), run.Config); err != nil {
		return "", err
	}
	if err := WritePNG(filepath.Join(runDir, frameFile), frame); err != nil {
		return "", err
	}

	block, err := run.Set.MarshalBinary()
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(runDir, attractorsFile), block, 0644); err != nil {
		return "", err
	}

	if err := writeShares(filepath.Join(runDir, sharesFile), summary.Shares); err != nil {
		return "", err
	}
	return runID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeShares(path string, shares []analysis.Share) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gocsv.MarshalFile(&shares, f)
}

// WritePNG encodes img to path.
func WritePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// List returns all readable runs, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.After(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *Store) LoadConfig(runID string) (*config.Config, error) {
	return config.Load(filepath.Join(s.baseDir, runID, sceneFile))
}

// LoadSet decodes the persisted attractor block. The result carries a
// fresh generation.
func (s *Store) LoadSet(runID string) (*physics.AttractorSet, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, attractorsFile))
	if err != nil {
		return nil, err
	}
	return physics.DecodeSet(data)
}

func (s *Store) LoadShares(runID string) ([]analysis.Share, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, sharesFile))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var shares []analysis.Share
	if err := gocsv.UnmarshalFile(f, &shares); err != nil {
		return nil, err
	}
	return shares, nil
}

func (s *Store) LoadFrame(runID string) (image.Image, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, frameFile))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return png.Decode(f)
}

// Dir returns the directory of a run.
func (s *Store) Dir(runID string) string {
	return filepath.Join(s.baseDir, runID)
}
