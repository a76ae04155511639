package dupescan

import (
	"strings"
	"testing"
)

func TestBuildTable(t *testing.T) {
	paths := []string{"/data/a.txt", "/data/b.txt", "/data/c.txt"}
	sums := []Fingerprint{
		{Digest: "d1"},
		{Reason: "failed to open file /data/b.txt: permission denied"},
		{Digest: "d3"},
	}

	table, err := BuildTable(paths, sums)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if table.Len() != 3 {
		t.Fatalf("Expected 3 rows, got %d", table.Len())
	}

	records := table.Records()
	for i := range paths {
		if records[i].Path != paths[i] {
			t.Errorf("Expected row %d path %s, got %s", i, paths[i], records[i].Path)
		}
		if records[i].Hash != sums[i] {
			t.Errorf("Expected row %d fingerprint %+v, got %+v", i, sums[i], records[i].Hash)
		}
	}

	gotPaths := table.Paths()
	for i := range paths {
		if gotPaths[i] != paths[i] {
			t.Errorf("Expected path column %d to be %s, got %s", i, paths[i], gotPaths[i])
		}
	}
}

func TestBuildTableLengthMismatch(t *testing.T) {
	_, err := BuildTable([]string{"/a", "/b"}, []Fingerprint{{Digest: "d1"}})
	if err == nil {
		t.Fatal("Expected error for mismatched lengths, got nil")
	}
	if !strings.Contains(err.Error(), "failed to build table") {
		t.Errorf("Expected table build failure, got: %v", err)
	}
}

func TestFileTableAppend(t *testing.T) {
	var table FileTable

	if !table.IsEmpty() {
		t.Error("Expected new table to be empty")
	}

	table.Append(FileRecord{Path: "/a", Hash: Fingerprint{Digest: "d1"}})
	table.Append(FileRecord{Path: "/b", Hash: Fingerprint{Digest: "d2"}})

	if table.IsEmpty() {
		t.Error("Expected table with rows to not be empty")
	}
	if table.Len() != 2 {
		t.Errorf("Expected 2 rows, got %d", table.Len())
	}
	if table.Records()[1].Path != "/b" {
		t.Errorf("Expected second row /b, got %s", table.Records()[1].Path)
	}
}

func TestBuildFolderTable(t *testing.T) {
	tmpDir := t.TempDir()

	writeTestFile(t, tmpDir, "one.txt", "duplicate payload")
	writeTestFile(t, tmpDir, "two.txt", "duplicate payload")
	writeTestFile(t, tmpDir, "three.txt", "unique payload")

	table, err := BuildFolderTable(tmpDir, ScanOptions{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if table.Len() != 3 {
		t.Fatalf("Expected 3 rows, got %d", table.Len())
	}

	records := table.Records()
	byName := map[string]Fingerprint{}
	for _, record := range records {
		if record.Hash.Unreadable() {
			t.Errorf("Expected readable fingerprint for %s, got reason %q", record.Path, record.Hash.Reason)
		}
		byName[record.Path] = record.Hash
	}

	// Identical content, identical digest
	var one, two, three Fingerprint
	for path, sum := range byName {
		switch {
		case strings.HasSuffix(path, "one.txt"):
			one = sum
		case strings.HasSuffix(path, "two.txt"):
			two = sum
		case strings.HasSuffix(path, "three.txt"):
			three = sum
		}
	}
	if one.Digest != two.Digest {
		t.Errorf("Expected matching digests for identical files, got %s and %s", one.Digest, two.Digest)
	}
	if one.Digest == three.Digest {
		t.Errorf("Expected distinct digest for unique file, got %s twice", one.Digest)
	}
}

func TestBuildFolderTableFastScan(t *testing.T) {
	tmpDir := t.TempDir()

	writeTestFile(t, tmpDir, "one.txt", "duplicate payload")
	writeTestFile(t, tmpDir, "two.txt", "duplicate payload")
	writeTestFile(t, tmpDir, "odd-size.txt", "something much longer than the rest")

	table, err := BuildFolderTable(tmpDir, ScanOptions{FastScan: true})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// The unique-sized file never reaches the hasher
	if table.Len() != 2 {
		t.Fatalf("Expected 2 rows after size pre-selection, got %d", table.Len())
	}
	for _, record := range table.Records() {
		if strings.HasSuffix(record.Path, "odd-size.txt") {
			t.Errorf("Expected odd-size.txt to be filtered out, found it in the table")
		}
	}
}
