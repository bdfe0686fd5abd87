package sample

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrNoSamples 表示示例文件中没有可用的文本。
var ErrNoSamples = errors.New("sample file contains no samples")

// Store exposes indexed sample lookup for handlers and the controller.
type Store interface {
	List() []Sample
	At(index int) (Sample, bool)
}

// MemoryStore implements Store with an in-memory slice.
type MemoryStore struct {
	items []Sample
}

// NewMemoryStore returns a MemoryStore preloaded with the supplied samples.
// Index 字段按传入顺序重新编号。
func NewMemoryStore(items []Sample) *MemoryStore {
	copied := append([]Sample(nil), items...)
	for i := range copied {
		copied[i].Index = i
	}
	return &MemoryStore{items: copied}
}

// List returns every sample in display order.
func (s *MemoryStore) List() []Sample {
	return append([]Sample(nil), s.items...)
}

// At looks up a sample by index; out-of-range indexes report false.
func (s *MemoryStore) At(index int) (Sample, bool) {
	if index < 0 || index >= len(s.items) {
		return Sample{}, false
	}
	return s.items[index], true
}

type sampleFile struct {
	Samples []Sample `yaml:"samples"`
}

// LoadFile 从 YAML 文件读取示例文本，格式为 samples: [{title, text}]。
func LoadFile(path string) ([]Sample, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sample file: %w", err)
	}

	var file sampleFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse sample file %s: %w", path, err)
	}

	samples := make([]Sample, 0, len(file.Samples))
	for _, item := range file.Samples {
		text := strings.TrimSpace(item.Text)
		if text == "" {
			continue
		}
		title := strings.TrimSpace(item.Title)
		if title == "" {
			title = fmt.Sprintf("Sample %d", len(samples)+1)
		}
		samples = append(samples, Sample{Title: title, Text: text})
	}

	if len(samples) == 0 {
		return nil, ErrNoSamples
	}
	return samples, nil
}
