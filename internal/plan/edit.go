package plan

import (
	"encoding/json"
	"fmt"
	"os"

	"sortd/internal/models"
	"sortd/internal/taxonomy"
)

// Edit replaces the destination category of the entry for sourcePath and
// marks it edited. The new category may be any valid relative path; it does
// not have to exist in the taxonomy. On validation failure the plan is left
// untouched.
func Edit(p *models.OrganizationPlan, sourcePath, newCategory string) error {
	if p == nil {
		return fmt.Errorf("%w: nil plan", models.ErrValidation)
	}
	entry := p.Entry(sourcePath)
	if entry == nil {
		return fmt.Errorf("%w: no plan entry for %s", models.ErrNotFound, sourcePath)
	}
	norm, err := taxonomy.NormalizePath(newCategory)
	if err != nil {
		return err
	}
	entry.Category = norm
	entry.Status = models.StatusEdited
	entry.Fallback = false
	entry.Score = 0
	entry.Signals = nil
	return nil
}

// Validate checks the structural invariants a plan must satisfy before it
// can be committed: roots present, source paths unique, categories valid.
func Validate(p *models.OrganizationPlan) error {
	if p == nil {
		return fmt.Errorf("%w: nil plan", models.ErrValidation)
	}
	if p.DestinationRoot == "" {
		return fmt.Errorf("%w: plan has no destination root", models.ErrValidation)
	}
	seen := make(map[string]bool, len(p.Entries))
	for i := range p.Entries {
		e := &p.Entries[i]
		if e.SourcePath == "" || e.FileName == "" {
			return fmt.Errorf("%w: entry %d is missing source path or file name", models.ErrValidation, i)
		}
		if seen[e.SourcePath] {
			return fmt.Errorf("%w: duplicate plan entry for %s", models.ErrValidation, e.SourcePath)
		}
		seen[e.SourcePath] = true
		norm, err := taxonomy.NormalizePath(e.Category)
		if err != nil {
			return fmt.Errorf("entry %s: %w", e.SourcePath, err)
		}
		e.Category = norm
	}
	return nil
}

// Save writes the plan as indented JSON so it can be reviewed and edited
// outside the process.
func Save(p *models.OrganizationPlan, path string) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("encode plan: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write plan: %w", err)
	}
	return nil
}

// Load reads a saved plan and re-validates it; edits made by hand go
// through the same checks as API edits.
func Load(path string) (*models.OrganizationPlan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read plan: %w", err)
	}
	var p models.OrganizationPlan
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: parse plan %s: %v", models.ErrValidation, path, err)
	}
	if err := Validate(&p); err != nil {
		return nil, err
	}
	return &p, nil
}
