package dupescan

import "fmt"

// DuplicateGroup represents a group of files with the same hash
type DuplicateGroup struct {
	Hash  string   `json:"hash"`
	Files []string `json:"files"`
	Count int      `json:"count"`
}

// FindDuplicates keeps every record whose fingerprint is shared by at least
// one other record in the table, ordered by fingerprint ascending and by
// original table order within equal fingerprints, so each duplicate set is
// contiguous. Unreadable records never group: two files that both failed to
// hash are not duplicates of each other.
func FindDuplicates(table FileTable) FileTable {
	defer VerboseEnter()()

	index := newRecordIndex(defaultIndexLevels, false)
	for _, record := range table.Records() {
		if record.Hash.Unreadable() {
			VerboseLog(3, "grouping skips unreadable %s (%s)", record.Path, record.Hash.Reason)
			continue
		}
		index.Insert(record, GroupContext)
	}

	var result FileTable
	var run []FileRecord
	flush := func() {
		if len(run) >= 2 {
			result.records = append(result.records, run...)
		}
		run = run[:0]
	}

	index.ForEach(func(record FileRecord, _ string) bool {
		if len(run) > 0 && run[len(run)-1].Hash.Digest != record.Hash.Digest {
			flush()
		}
		run = append(run, record)
		return true
	})
	flush()

	VerboseLog(2, "duplicate grouping kept %d of %d records", result.Len(), table.Len())
	return result
}

// FindAllDuplicates is the full pipeline entry point for one root:
// enumerate, optionally pre-select, hash, build the table, and group the
// duplicates.
func FindAllDuplicates(root string, opts ScanOptions) (FileTable, error) {
	table, err := BuildFolderTable(root, opts)
	if err != nil {
		return FileTable{}, err
	}
	return FindDuplicates(table), nil
}

// FindDuplicatesOf hashes one target file and returns the rows of the
// root's duplicate table that share its fingerprint. The root is scanned in
// full (no extension filter, no pre-selection) regardless of the options. An
// unreadable target is an error here, not a marker: without its fingerprint
// there is nothing to look up. The result is empty when the target's content
// is unique under the root.
func FindDuplicatesOf(targetFile, root string, opts ScanOptions) (FileTable, error) {
	defer VerboseEnter()()

	digest, err := HashFile(targetFile, opts.Algorithm)
	if err != nil {
		return FileTable{}, fmt.Errorf("failed to hash target %s: %w", targetFile, err)
	}

	opts.Extension = ""
	opts.FastScan = false
	opts.HeadCheck = false

	dupes, err := FindAllDuplicates(root, opts)
	if err != nil {
		return FileTable{}, err
	}

	var result FileTable
	for _, record := range dupes.Records() {
		if record.Hash.Digest == digest {
			result.Append(record)
		}
	}
	return result, nil
}

// GroupDuplicates folds a duplicate table into its derived view: one group
// per contiguous fingerprint run, groups in table order, files in table
// order. Meant for FindDuplicates output, where every run has at least two
// members.
func GroupDuplicates(table FileTable) []DuplicateGroup {
	var groups []DuplicateGroup
	for _, record := range table.Records() {
		if n := len(groups); n > 0 && groups[n-1].Hash == record.Hash.String() {
			groups[n-1].Files = append(groups[n-1].Files, record.Path)
			groups[n-1].Count++
			continue
		}
		groups = append(groups, DuplicateGroup{
			Hash:  record.Hash.String(),
			Files: []string{record.Path},
			Count: 1,
		})
	}
	return groups
}
