package eval

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tetrivo/tetra/internal/core/domain"
)

// DefaultOrgID is used when a dataset does not name an organisation.
const DefaultOrgID = "eval"

// Dataset is a golden evaluation set.
type Dataset struct {
	Name    string        `yaml:"dataset"`
	OrgID   string        `yaml:"org_id"`
	Corpus  []Instruction `yaml:"instructions"`
	Queries []Query       `yaml:"queries"`
}

// Instruction is one corpus entry.
type Instruction struct {
	ID       string `yaml:"id"`
	Title    string `yaml:"title"`
	Content  string `yaml:"content"`
	Folder   string `yaml:"folder"`
	Severity string `yaml:"severity"`
}

// Query is a question with relevance grades keyed by instruction ID.
type Query struct {
	ID        string         `yaml:"id"`
	Text      string         `yaml:"text"`
	Relevance map[string]int `yaml:"relevance"`
}

// LoadDataset reads a dataset from a YAML file.
// The file name is used when the dataset has no name.
func LoadDataset(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read golden file: %w", err)
	}
	base := filepath.Base(path)
	return ParseDataset(data, strings.TrimSuffix(base, filepath.Ext(base)))
}

// ParseDataset decodes and validates a dataset.
func ParseDataset(data []byte, name string) (*Dataset, error) {
	var ds Dataset
	if err := yaml.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("%w: parse golden file: %v", domain.ErrInvalidInput, err)
	}
	if ds.Name == "" {
		ds.Name = name
	}
	if ds.OrgID == "" {
		ds.OrgID = DefaultOrgID
	}
	if err := ds.validate(); err != nil {
		return nil, err
	}
	return &ds, nil
}

func (ds *Dataset) validate() error {
	if len(ds.Queries) == 0 {
		return fmt.Errorf("%w: dataset %s has no queries", domain.ErrInvalidInput, ds.Name)
	}

	ids := make(map[string]bool, len(ds.Corpus))
	for i, inst := range ds.Corpus {
		if inst.ID == "" || inst.Title == "" {
			return fmt.Errorf("%w: instruction %d needs id and title", domain.ErrInvalidInput, i)
		}
		if ids[inst.ID] {
			return fmt.Errorf("%w: duplicate instruction id %q", domain.ErrInvalidInput, inst.ID)
		}
		ids[inst.ID] = true
	}

	for i := range ds.Queries {
		q := &ds.Queries[i]
		if q.ID == "" {
			q.ID = fmt.Sprintf("q%d", i+1)
		}
		if strings.TrimSpace(q.Text) == "" {
			return fmt.Errorf("%w: query %s has no text", domain.ErrInvalidInput, q.ID)
		}
		for id := range q.Relevance {
			if !ids[id] {
				return fmt.Errorf("%w: query %s judges unknown instruction %q", domain.ErrInvalidInput, q.ID, id)
			}
		}
	}
	return nil
}
