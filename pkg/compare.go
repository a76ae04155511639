package dupescan

import "fmt"

// CompareFolders builds one full table per root and returns the records from
// compareRoot whose fingerprint appears anywhere in referenceRoot's table.
// Each matching compare file is reported once, in enumeration order, no
// matter how many reference files share its content. The comparison is
// asymmetric; reference files are never reported. Both roots are enumerated
// and hashed in full. The extension filter applies to both; pre-selection
// does not, since a file unique within its own root can still match the
// other root.
func CompareFolders(referenceRoot, compareRoot string, opts ScanOptions) (FileTable, error) {
	defer VerboseEnter()()

	opts.FastScan = false
	opts.HeadCheck = false

	referenceTable, err := BuildFolderTable(referenceRoot, opts)
	if err != nil {
		return FileTable{}, fmt.Errorf("failed to build reference table for %s: %w", referenceRoot, err)
	}

	compareTable, err := BuildFolderTable(compareRoot, opts)
	if err != nil {
		return FileTable{}, fmt.Errorf("failed to build compare table for %s: %w", compareRoot, err)
	}

	reference := newRecordIndex(defaultIndexLevels, true)
	for _, record := range referenceTable.Records() {
		if record.Hash.Unreadable() {
			continue
		}
		reference.Insert(record, ReferenceContext)
	}

	if IsDebugEnabled("compare") {
		VerboseLog(3, "reference index holds %d distinct fingerprints", reference.Length())
	}

	var result FileTable
	for _, record := range compareTable.Records() {
		if record.Hash.Unreadable() {
			continue
		}
		if !reference.Contains(record.Hash.Digest) {
			continue
		}
		result.Append(record)
	}

	VerboseLog(2, "compare kept %d of %d files under %s with content in %s",
		result.Len(), compareTable.Len(), compareRoot, referenceRoot)
	return result, nil
}
