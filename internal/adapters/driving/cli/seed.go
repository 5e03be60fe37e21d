package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tetrivo/tetra/internal/core/domain"
)

// seedFile is a YAML list of instructions, used by import and rank.
//
//	org_id: demo
//	instructions:
//	  - title: Bruk av hjelm
//	    folder: Verneutstyr
//	    severity: critical
//	    content: |
//	      Hjelm skal brukes på hele anlegget.
type seedFile struct {
	OrgID        string            `yaml:"org_id"`
	Instructions []seedInstruction `yaml:"instructions"`
}

type seedInstruction struct {
	ID       string `yaml:"id"`
	Title    string `yaml:"title"`
	Content  string `yaml:"content"`
	Folder   string `yaml:"folder"`
	Severity string `yaml:"severity"`
	Status   string `yaml:"status"`
	FileURI  string `yaml:"file_uri"`
}

func isSeedFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}

func loadSeed(path string) (*seedFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var seed seedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("%w: parse seed file: %v", domain.ErrInvalidInput, err)
	}
	return &seed, nil
}

// draft converts an entry to an instruction draft. Entries without a
// status are published.
func (s seedInstruction) draft(orgID string) (domain.InstructionDraft, error) {
	severity, err := domain.ParseSeverity(s.Severity)
	if err != nil {
		return domain.InstructionDraft{}, err
	}
	status := domain.StatusPublished
	if s.Status != "" {
		status = domain.Status(strings.ToLower(strings.TrimSpace(s.Status)))
	}

	d := domain.InstructionDraft{
		ID:       s.ID,
		OrgID:    orgID,
		Title:    strings.TrimSpace(s.Title),
		Severity: severity,
		Status:   status,
		FileURI:  s.FileURI,
	}
	if strings.TrimSpace(s.Content) != "" {
		content := s.Content
		d.Content = &content
	}
	if s.Folder != "" {
		d.Folder = &domain.Folder{Name: s.Folder}
	}
	return d, d.Validate()
}

// instructions returns the entries as unsaved instructions. Missing IDs
// are numbered in file order.
func (s *seedFile) instructions() ([]domain.Instruction, error) {
	out := make([]domain.Instruction, 0, len(s.Instructions))
	for i, entry := range s.Instructions {
		org := s.OrgID
		if org == "" {
			org = "seed"
		}
		d, err := entry.draft(org)
		if err != nil {
			return nil, fmt.Errorf("instruction %d: %w", i+1, err)
		}
		id := d.ID
		if id == "" {
			id = fmt.Sprintf("seed-%d", i+1)
		}
		out = append(out, domain.Instruction{
			ID:       id,
			OrgID:    d.OrgID,
			Title:    d.Title,
			Content:  d.Content,
			Severity: d.Severity,
			Status:   d.Status,
			Folder:   d.Folder,
			FileURI:  d.FileURI,
		})
	}
	return out, nil
}
