package dupescan

import "fmt"

// ============================================================================
// FILE TABLES
// ============================================================================

// FileRecord associates one file with its content fingerprint. Records are
// immutable once built.
type FileRecord struct {
	Path string      `json:"file"`
	Hash Fingerprint `json:"hash"`
}

// FileTable is an ordered collection of FileRecord, one row per enumerated
// file, insertion order = enumeration order. No two rows share a path within
// one table. Pipeline stages consume a table and produce a new one; none
// mutates the caller's.
type FileTable struct {
	records []FileRecord
}

// Append adds one record to the table.
func (t *FileTable) Append(record FileRecord) {
	t.records = append(t.records, record)
}

// Len returns the number of rows.
func (t FileTable) Len() int {
	return len(t.records)
}

// IsEmpty reports whether the table has no rows.
func (t FileTable) IsEmpty() bool {
	return len(t.records) == 0
}

// Records returns the rows in table order. The slice is shared with the
// table; callers must treat it as read-only.
func (t FileTable) Records() []FileRecord {
	return t.records
}

// Paths returns the path column in table order.
func (t FileTable) Paths() []string {
	paths := make([]string, len(t.records))
	for i, record := range t.records {
		paths[i] = record.Path
	}
	return paths
}

// BuildTable pairs each path with the fingerprint at the same index, in
// order. The expensive work already happened in the hasher; this is plain
// assembly, and the two slices must line up.
func BuildTable(paths []string, sums []Fingerprint) (FileTable, error) {
	if len(paths) != len(sums) {
		return FileTable{}, fmt.Errorf("failed to build table: %d paths but %d fingerprints", len(paths), len(sums))
	}

	table := FileTable{records: make([]FileRecord, len(paths))}
	for i := range paths {
		table.records[i] = FileRecord{Path: paths[i], Hash: sums[i]}
	}
	return table, nil
}

// BuildFolderTable runs the scan pipeline for one root: enumerate, apply the
// optional pre-filters, hash, and assemble the table.
func BuildFolderTable(root string, opts ScanOptions) (FileTable, error) {
	defer VerboseEnter()()

	paths, err := EnumerateFiles(root, opts)
	if err != nil {
		return FileTable{}, fmt.Errorf("failed to enumerate %s: %w", root, err)
	}

	if opts.FastScan {
		paths = PreselectBySize(paths)
	}
	if opts.HeadCheck {
		paths = PreselectByHead(paths)
	}

	sums, err := HashBatch(paths, opts)
	if err != nil {
		return FileTable{}, err
	}

	return BuildTable(paths, sums)
}
