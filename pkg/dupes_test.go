package dupescan

import (
	"path/filepath"
	"strings"
	"testing"
)

func syntheticTable(rows ...FileRecord) FileTable {
	var table FileTable
	for _, row := range rows {
		table.Append(row)
	}
	return table
}

func assertTableOrder(t *testing.T, table FileTable, expected []string) {
	t.Helper()
	got := table.Paths()
	if len(got) != len(expected) {
		t.Fatalf("Expected %d rows, got %d: %v", len(expected), len(got), got)
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("Expected row %d to be %s, got %s", i, expected[i], got[i])
		}
	}
}

func TestFindDuplicatesOrdering(t *testing.T) {
	table := syntheticTable(
		FileRecord{Path: "/p1", Hash: Fingerprint{Digest: "bbb"}},
		FileRecord{Path: "/p2", Hash: Fingerprint{Digest: "aaa"}},
		FileRecord{Path: "/p3", Hash: Fingerprint{Digest: "bbb"}},
		FileRecord{Path: "/p4", Hash: Fingerprint{Digest: "ccc"}},
		FileRecord{Path: "/p5", Hash: Fingerprint{Digest: "aaa"}},
		FileRecord{Path: "/p6", Hash: Fingerprint{Digest: "bbb"}},
	)

	dupes := FindDuplicates(table)

	// Fingerprint ascending, original table order within equal fingerprints,
	// and the unique ccc row is gone.
	assertTableOrder(t, dupes, []string{"/p2", "/p5", "/p1", "/p3", "/p6"})
}

func TestFindDuplicatesNoDuplicates(t *testing.T) {
	table := syntheticTable(
		FileRecord{Path: "/p1", Hash: Fingerprint{Digest: "aaa"}},
		FileRecord{Path: "/p2", Hash: Fingerprint{Digest: "bbb"}},
		FileRecord{Path: "/p3", Hash: Fingerprint{Digest: "ccc"}},
	)

	dupes := FindDuplicates(table)
	if !dupes.IsEmpty() {
		t.Errorf("Expected empty result for all-unique table, got %v", dupes.Paths())
	}
}

func TestFindDuplicatesEmptyTable(t *testing.T) {
	dupes := FindDuplicates(FileTable{})
	if !dupes.IsEmpty() {
		t.Errorf("Expected empty result for empty table, got %v", dupes.Paths())
	}
}

func TestFindDuplicatesUnreadableNeverGroup(t *testing.T) {
	table := syntheticTable(
		FileRecord{Path: "/ok1", Hash: Fingerprint{Digest: "aaa"}},
		FileRecord{Path: "/bad1", Hash: Fingerprint{Reason: "failed to open file /bad1: permission denied"}},
		FileRecord{Path: "/ok2", Hash: Fingerprint{Digest: "aaa"}},
		FileRecord{Path: "/bad2", Hash: Fingerprint{Reason: "failed to open file /bad2: permission denied"}},
	)

	dupes := FindDuplicates(table)

	// Two files that both failed to hash are not duplicates of each other
	assertTableOrder(t, dupes, []string{"/ok1", "/ok2"})
}

func TestFindAllDuplicates(t *testing.T) {
	tmpDir := t.TempDir()

	pathA := writeTestFile(t, tmpDir, "a.txt", "first payload")
	pathB := writeTestFile(t, tmpDir, "b.txt", "first payload")
	writeTestFile(t, tmpDir, "c.txt", "unique payload")
	pathD := writeTestFile(t, tmpDir, "d.txt", "second payload")
	pathE := writeTestFile(t, tmpDir, "e.txt", "second payload")

	dupes, err := FindAllDuplicates(tmpDir, ScanOptions{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if dupes.Len() != 4 {
		t.Fatalf("Expected 4 duplicate rows, got %d: %v", dupes.Len(), dupes.Paths())
	}

	// Every member of a duplicate set is reported, not just the extras
	groups := GroupDuplicates(dupes)
	if len(groups) != 2 {
		t.Fatalf("Expected 2 groups, got %d", len(groups))
	}

	byFirst := map[string][]string{}
	for _, group := range groups {
		if group.Count != 2 || len(group.Files) != 2 {
			t.Errorf("Expected group of 2, got count %d with %d files", group.Count, len(group.Files))
		}
		byFirst[group.Files[0]] = group.Files
	}

	if files, ok := byFirst[pathA]; !ok || files[1] != pathB {
		t.Errorf("Expected group [%s %s], got %v", pathA, pathB, byFirst)
	}
	if files, ok := byFirst[pathD]; !ok || files[1] != pathE {
		t.Errorf("Expected group [%s %s], got %v", pathD, pathE, byFirst)
	}
}

func TestFindAllDuplicatesThreeIdentical(t *testing.T) {
	tmpDir := t.TempDir()

	pathA := writeTestFile(t, tmpDir, "a.txt", "same")
	pathB := writeTestFile(t, tmpDir, "b.txt", "same")
	pathC := writeTestFile(t, tmpDir, "c.txt", "same")

	dupes, err := FindAllDuplicates(tmpDir, ScanOptions{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	assertTableOrder(t, dupes, []string{pathA, pathB, pathC})

	groups := GroupDuplicates(dupes)
	if len(groups) != 1 || groups[0].Count != 3 {
		t.Fatalf("Expected one group of 3, got %+v", groups)
	}
}

func TestFindAllDuplicatesEmptyFolder(t *testing.T) {
	dupes, err := FindAllDuplicates(t.TempDir(), ScanOptions{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !dupes.IsEmpty() {
		t.Errorf("Expected empty result for empty folder, got %v", dupes.Paths())
	}
}

func TestFindAllDuplicatesPreselectionEquivalence(t *testing.T) {
	tmpDir := t.TempDir()

	writeTestFile(t, tmpDir, "a.txt", "payload one")
	writeTestFile(t, tmpDir, "b.txt", "payload one")
	writeTestFile(t, tmpDir, "c.txt", "payload two!")
	writeTestFile(t, tmpDir, "d.txt", "payload two!")
	writeTestFile(t, tmpDir, "unique-size.txt", "a much longer unique payload")
	writeTestFile(t, tmpDir, "same-size.txt", "payload 0ne") // same size as a, different head

	plain, err := FindAllDuplicates(tmpDir, ScanOptions{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	filtered, err := FindAllDuplicates(tmpDir, ScanOptions{FastScan: true, HeadCheck: true})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// Pre-selection is an optimization; the report must not change
	assertTableOrder(t, filtered, plain.Paths())
}

func TestFindDuplicatesOf(t *testing.T) {
	tmpDir := t.TempDir()

	copy1 := writeTestFile(t, tmpDir, "copy1.txt", "wanted content")
	copy2 := writeTestFile(t, tmpDir, "copy2.txt", "wanted content")
	writeTestFile(t, tmpDir, "other.txt", "other content")

	t.Run("target inside the root", func(t *testing.T) {
		result, err := FindDuplicatesOf(copy1, tmpDir, ScanOptions{})
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		assertTableOrder(t, result, []string{copy1, copy2})
	})

	t.Run("target outside the root", func(t *testing.T) {
		target := writeTestFile(t, t.TempDir(), "target.txt", "wanted content")

		result, err := FindDuplicatesOf(target, tmpDir, ScanOptions{})
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		assertTableOrder(t, result, []string{copy1, copy2})
	})

	t.Run("unique target yields empty result", func(t *testing.T) {
		target := writeTestFile(t, t.TempDir(), "target.txt", "nothing matches this")

		result, err := FindDuplicatesOf(target, tmpDir, ScanOptions{})
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if !result.IsEmpty() {
			t.Errorf("Expected empty result, got %v", result.Paths())
		}
	})

	t.Run("unreadable target is an error", func(t *testing.T) {
		_, err := FindDuplicatesOf(filepath.Join(tmpDir, "missing.txt"), tmpDir, ScanOptions{})
		if err == nil {
			t.Fatal("Expected error for unreadable target, got nil")
		}
		if !strings.Contains(err.Error(), "failed to hash target") {
			t.Errorf("Expected target hash failure, got: %v", err)
		}
	})

	t.Run("lookup ignores scan filters", func(t *testing.T) {
		// The extension filter and pre-selection apply to whole-tree
		// scans, never to a single-file lookup.
		result, err := FindDuplicatesOf(copy1, tmpDir, ScanOptions{Extension: ".jpg", FastScan: true})
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		assertTableOrder(t, result, []string{copy1, copy2})
	})
}

func TestGroupDuplicates(t *testing.T) {
	table := syntheticTable(
		FileRecord{Path: "/p2", Hash: Fingerprint{Digest: "aaa"}},
		FileRecord{Path: "/p5", Hash: Fingerprint{Digest: "aaa"}},
		FileRecord{Path: "/p1", Hash: Fingerprint{Digest: "bbb"}},
		FileRecord{Path: "/p3", Hash: Fingerprint{Digest: "bbb"}},
		FileRecord{Path: "/p6", Hash: Fingerprint{Digest: "bbb"}},
	)

	groups := GroupDuplicates(table)

	if len(groups) != 2 {
		t.Fatalf("Expected 2 groups, got %d", len(groups))
	}

	if groups[0].Hash != "aaa" || groups[0].Count != 2 {
		t.Errorf("Expected first group aaa with 2 files, got %+v", groups[0])
	}
	if groups[1].Hash != "bbb" || groups[1].Count != 3 {
		t.Errorf("Expected second group bbb with 3 files, got %+v", groups[1])
	}
	if groups[1].Files[0] != "/p1" || groups[1].Files[2] != "/p6" {
		t.Errorf("Expected bbb files in table order, got %v", groups[1].Files)
	}
}

func TestGroupDuplicatesEmpty(t *testing.T) {
	if groups := GroupDuplicates(FileTable{}); len(groups) != 0 {
		t.Errorf("Expected no groups for empty table, got %d", len(groups))
	}
}
