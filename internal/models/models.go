package models

import (
	"time"
)

// SourceFile is an immutable snapshot of one candidate file, taken at scan
// time. Sample holds a bounded, cleaned text prefix; it is empty for binary
// or unreadable files.
type SourceFile struct {
	Path      string    `json:"path"`
	Name      string    `json:"name"`
	Extension string    `json:"extension"` // lowercased, includes the leading dot
	Size      int64     `json:"size"`
	ModTime   time.Time `json:"mod_time"`
	Sample    string    `json:"-"`
}

// SignalKind identifies which rule produced a classification signal.
type SignalKind string

const (
	SignalExtension      SignalKind = "extension"
	SignalNameKeyword    SignalKind = "name_keyword"
	SignalContentKeyword SignalKind = "content_keyword"
	SignalSpecificity    SignalKind = "specificity"
)

// Signal is one scored observation supporting a category decision.
type Signal struct {
	Kind   SignalKind `json:"kind"`
	Value  string     `json:"value"`
	Weight float64    `json:"weight"`
}

// ClassificationResult is the classifier's decision for one file. It is
// recomputed from SourceFile plus the taxonomy, never persisted.
type ClassificationResult struct {
	Category string   `json:"category"`
	Score    float64  `json:"score"`
	Signals  []Signal `json:"signals,omitempty"`
	Fallback bool     `json:"fallback"`
}

// EntryStatus tracks how a plan entry reached its current destination.
type EntryStatus string

const (
	StatusPending   EntryStatus = "pending"
	StatusEdited    EntryStatus = "edited"
	StatusConfirmed EntryStatus = "confirmed"
)

// PlanEntry maps one source file to a proposed destination category. Entries
// are owned by their OrganizationPlan and mutated only through plan edits.
type PlanEntry struct {
	SourcePath string      `json:"source_path"`
	FileName   string      `json:"file_name"`
	Category   string      `json:"category"` // slash-separated, relative to the destination root
	Status     EntryStatus `json:"status"`
	Score      float64     `json:"score"`
	Signals    []Signal    `json:"signals,omitempty"`
	Fallback   bool        `json:"fallback"`
	Size       int64       `json:"size"`
	ModTime    time.Time   `json:"mod_time"`
}

// OrganizationPlan is the editable proposal produced by a scan. Source paths
// are unique across entries.
type OrganizationPlan struct {
	SourceRoot      string      `json:"source_root"`
	DestinationRoot string      `json:"destination_root"`
	Entries         []PlanEntry `json:"entries"`
	CreatedAt       time.Time   `json:"created_at"`
}

// Entry returns the plan entry for sourcePath, or nil.
func (p *OrganizationPlan) Entry(sourcePath string) *PlanEntry {
	for i := range p.Entries {
		if p.Entries[i].SourcePath == sourcePath {
			return &p.Entries[i]
		}
	}
	return nil
}

// MoveRecord is one completed move. The ordered records of a commit form its
// move log, the sole input to undo.
type MoveRecord struct {
	Seq             int       `json:"seq"`
	SourcePath      string    `json:"source_path"`
	DestinationPath string    `json:"destination_path"`
	Category        string    `json:"category"`
	SuffixApplied   bool      `json:"suffix_applied"`
	MovedAt         time.Time `json:"moved_at"`
}

// EntryError reports a per-file failure collected during commit or undo.
type EntryError struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// CommitResult summarizes one commit run. Unchanged counts entries whose
// target already equals their source, which happens when an organized tree
// is planned again.
type CommitResult struct {
	CommitID   string         `json:"commit_id,omitempty"`
	Moved      int            `json:"moved"`
	Unchanged  int            `json:"unchanged,omitempty"`
	Collisions int            `json:"collisions"`
	ByCategory map[string]int `json:"by_category,omitempty"`
	Records    []MoveRecord   `json:"records,omitempty"`
	Errors     []EntryError   `json:"errors,omitempty"`
	DryRun     bool           `json:"dry_run"`
	Indexed    int            `json:"indexed,omitempty"`
}

// UndoResult summarizes one undo run. Skipped lists destinations that no
// longer existed; these are not errors.
type UndoResult struct {
	CommitID    string       `json:"commit_id"`
	Restored    int          `json:"restored"`
	Skipped     []string     `json:"skipped,omitempty"`
	Errors      []EntryError `json:"errors,omitempty"`
	PrunedDirs  int          `json:"pruned_dirs"`
	AlreadyDone bool         `json:"already_done"`
}

// Progress is an advisory progress event emitted between files.
type Progress struct {
	Processed   int    `json:"processed"`
	Total       int    `json:"total"`
	CurrentFile string `json:"current_file"`
}

// IndexEntry is derived metadata for one organized file. The index is
// rebuildable from the destination root at any time.
type IndexEntry struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Path      string    `json:"path"`
	Category  string    `json:"category"`
	Size      int64     `json:"size"`
	ModTime   time.Time `json:"mod_time"`
	IndexedAt time.Time `json:"indexed_at"`
	Keywords  string    `json:"keywords"`
	Preview   string    `json:"preview,omitempty"`
}

// QueryResult pairs an index entry with the signals a query matched on it.
type QueryResult struct {
	Entry   IndexEntry `json:"entry"`
	Matched []string   `json:"matched"`
}

// LogInfo describes one stored move log.
type LogInfo struct {
	CommitID  string    `json:"commit_id"`
	Path      string    `json:"path"`
	Entries   int       `json:"entries"`
	CreatedAt time.Time `json:"created_at"`
	Undone    bool      `json:"undone"`
}
