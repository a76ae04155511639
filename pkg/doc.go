// Package dupescan finds duplicate files by content. It enumerates a folder
// tree, fingerprints every file with a chunked cryptographic digest, and
// reports groups of files whose contents are identical, either within one
// tree or across two trees.
//
// # Core API
//
// The one-call entry point scans a folder and returns the duplicate rows:
//
//	table, err := dupescan.FindAllDuplicates("/data/photos", dupescan.ScanOptions{
//		FastScan: true,
//	})
//	for _, group := range dupescan.GroupDuplicates(table) {
//		fmt.Printf("%s: %v\n", group.Hash, group.Files)
//	}
//
// # Pipeline Stages
//
// The pipeline is also exposed stage by stage for callers that need the
// intermediate results:
//
//	paths, err := dupescan.EnumerateFiles(root, opts)
//	paths = dupescan.PreselectBySize(paths)
//	sums, err := dupescan.HashBatch(paths, opts)
//	table, err := dupescan.BuildTable(paths, sums)
//	dupes := dupescan.FindDuplicates(table)
//
// Each stage consumes its input and produces a new value; nothing mutates
// the caller's table.
//
// # Cross-Folder Comparison
//
// CompareFolders reports files under the second root whose content also
// exists somewhere under the first:
//
//	matches, err := dupescan.CompareFolders("/backup", "/incoming", opts)
//
// # Reports
//
// SaveCSV writes any result table as a two-column file,hash report:
//
//	err := dupescan.SaveCSV(table, "duplicates.csv")
//
// # Configuration
//
// Enable debug output:
//
//	dupescan.SetDebugFlags("scan,hash")
//	dupescan.SetVerboseLevel(2)
//
// # Note on Failure Handling
//
// A file that cannot be read is recorded with an Unreadable fingerprint and
// never joins a duplicate group; it does not abort the batch. A directory
// that cannot be read aborts the scan for that root.
package dupescan
