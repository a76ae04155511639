package dupescan

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCompareFolders(t *testing.T) {
	refDir := t.TempDir()
	cmpDir := t.TempDir()

	writeTestFile(t, refDir, "r1.txt", "shared content")
	writeTestFile(t, refDir, "r2.txt", "reference only")

	cmp1 := writeTestFile(t, cmpDir, "c1.txt", "shared content")
	writeTestFile(t, cmpDir, "c2.txt", "compare only")
	cmp3 := writeTestFile(t, cmpDir, "c3.txt", "shared content")

	result, err := CompareFolders(refDir, cmpDir, ScanOptions{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// Every compare-side copy is reported, in compare table order, and
	// nothing from the reference side ever is.
	assertTableOrder(t, result, []string{cmp1, cmp3})
	for _, path := range result.Paths() {
		if strings.HasPrefix(path, refDir) {
			t.Errorf("Expected no reference paths in the result, got %s", path)
		}
	}
}

func TestCompareFoldersAsymmetric(t *testing.T) {
	refDir := t.TempDir()
	cmpDir := t.TempDir()

	writeTestFile(t, refDir, "r1.txt", "shared content")
	cmp1 := writeTestFile(t, cmpDir, "c1.txt", "shared content")

	forward, err := CompareFolders(refDir, cmpDir, ScanOptions{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	assertTableOrder(t, forward, []string{cmp1})

	// Swapping the roots swaps which side gets reported
	backward, err := CompareFolders(cmpDir, refDir, ScanOptions{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if backward.Len() != 1 || !strings.HasPrefix(backward.Paths()[0], refDir) {
		t.Errorf("Expected the reference-side copy when roots are swapped, got %v", backward.Paths())
	}
}

func TestCompareFoldersNoOverlap(t *testing.T) {
	refDir := t.TempDir()
	cmpDir := t.TempDir()

	writeTestFile(t, refDir, "r1.txt", "reference content")
	writeTestFile(t, cmpDir, "c1.txt", "compare content")

	result, err := CompareFolders(refDir, cmpDir, ScanOptions{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !result.IsEmpty() {
		t.Errorf("Expected empty result for disjoint folders, got %v", result.Paths())
	}
}

func TestCompareFoldersWithItself(t *testing.T) {
	dir := t.TempDir()

	pathA := writeTestFile(t, dir, "a.txt", "alpha")
	pathB := writeTestFile(t, dir, "b.txt", "beta")

	result, err := CompareFolders(dir, dir, ScanOptions{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// Every file's content trivially exists in the reference
	assertTableOrder(t, result, []string{pathA, pathB})
}

func TestCompareFoldersUnreadableExcluded(t *testing.T) {
	refDir := t.TempDir()
	cmpDir := t.TempDir()

	writeTestFile(t, refDir, "r1.txt", "shared content")
	cmp1 := writeTestFile(t, cmpDir, "c1.txt", "shared content")

	// Unreadable files on both sides must not match each other
	if err := os.Symlink(filepath.Join(refDir, "gone"), filepath.Join(refDir, "broken.txt")); err != nil {
		t.Skipf("Symlinks not supported here: %v", err)
	}
	if err := os.Symlink(filepath.Join(cmpDir, "gone"), filepath.Join(cmpDir, "broken.txt")); err != nil {
		t.Skipf("Symlinks not supported here: %v", err)
	}

	result, err := CompareFolders(refDir, cmpDir, ScanOptions{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	assertTableOrder(t, result, []string{cmp1})
}

func TestCompareFoldersExtensionFilter(t *testing.T) {
	refDir := t.TempDir()
	cmpDir := t.TempDir()

	writeTestFile(t, refDir, "r1.jpg", "shared content")
	writeTestFile(t, refDir, "r2.txt", "text content")

	cmp1 := writeTestFile(t, cmpDir, "c1.jpg", "shared content")
	writeTestFile(t, cmpDir, "c2.txt", "text content")

	result, err := CompareFolders(refDir, cmpDir, ScanOptions{Extension: ".jpg"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// The filter applies to both roots, so the .txt match is never seen
	assertTableOrder(t, result, []string{cmp1})
}

func TestCompareFoldersPreselectionDisabled(t *testing.T) {
	refDir := t.TempDir()
	cmpDir := t.TempDir()

	// Each file is unique within its own root; size pre-selection would
	// discard both and hide the cross-folder match.
	writeTestFile(t, refDir, "r1.txt", "only match")
	cmp1 := writeTestFile(t, cmpDir, "c1.txt", "only match")

	result, err := CompareFolders(refDir, cmpDir, ScanOptions{FastScan: true, HeadCheck: true})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	assertTableOrder(t, result, []string{cmp1})
}

func TestCompareFoldersMissingRoot(t *testing.T) {
	cmpDir := t.TempDir()
	writeTestFile(t, cmpDir, "c1.txt", "content")

	_, err := CompareFolders(filepath.Join(t.TempDir(), "absent"), cmpDir, ScanOptions{})
	if err == nil {
		t.Fatal("Expected error for missing reference root, got nil")
	}
	if !strings.Contains(err.Error(), "failed to build reference table") {
		t.Errorf("Expected reference table failure, got: %v", err)
	}
}
