package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/rodaine/table"

	dupescan "github.com/mattkeenan/dupescan/pkg"
)

// outputGroups prints the duplicate groups of a whole-tree scan in the
// requested format. The machine formats (json, fdupes) go to stdout only;
// human chatter stays on stderr.
func outputGroups(groups []dupescan.DuplicateGroup, format string) error {
	switch format {
	case "human":
		if len(groups) == 0 {
			fmt.Println("No duplicate files found.")
			return nil
		}
		fmt.Printf("Found %d duplicate groups.\n\n", len(groups))
		hashFmt := color.New(color.Bold).SprintfFunc()
		for _, group := range groups {
			fmt.Printf("%s (%d files, %s each)\n", hashFmt("%s", group.Hash), group.Count, groupFileSize(group))
			for _, file := range group.Files {
				fmt.Printf("  %s\n", file)
			}
			fmt.Println()
		}

	case "json":
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(groups); err != nil {
			return fmt.Errorf("failed to encode duplicate groups: %w", err)
		}

	case "table":
		tbl := table.New("File", "Hash")
		tbl.WithHeaderFormatter(color.New(color.Italic).Add(color.Underline).SprintfFunc())
		for _, group := range groups {
			for _, file := range group.Files {
				tbl.AddRow(file, group.Hash)
			}
		}
		tbl.Print()

	case "fdupes":
		for i, group := range groups {
			if i > 0 {
				fmt.Println()
			}
			for _, file := range group.Files {
				fmt.Println(file)
			}
		}

	default:
		return fmt.Errorf("unknown output format: %s", format)
	}

	return nil
}

// outputRecords prints a flat result table (match and compare modes).
func outputRecords(results dupescan.FileTable, format string) error {
	records := results.Records()

	switch format {
	case "human", "fdupes":
		if len(records) == 0 {
			fmt.Println("No matching files found.")
			return nil
		}
		for _, record := range records {
			fmt.Println(record.Path)
		}

	case "json":
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(records); err != nil {
			return fmt.Errorf("failed to encode file records: %w", err)
		}

	case "table":
		tbl := table.New("File", "Hash")
		tbl.WithHeaderFormatter(color.New(color.Italic).Add(color.Underline).SprintfFunc())
		for _, record := range records {
			tbl.AddRow(record.Path, record.Hash.String())
		}
		tbl.Print()

	default:
		return fmt.Errorf("unknown output format: %s", format)
	}

	return nil
}

// groupFileSize reports the per-file size of a duplicate group. Every member
// has identical content, so the first stat that succeeds speaks for all.
func groupFileSize(group dupescan.DuplicateGroup) string {
	for _, file := range group.Files {
		if info, err := os.Stat(file); err == nil {
			return humanize.Bytes(uint64(info.Size()))
		}
	}
	return "unknown size"
}

// candidateBytes totals the on-disk size of the files that reached the
// hashing stage. Stat failures are skipped; the figure is informational.
func candidateBytes(paths []string) uint64 {
	var total uint64
	for _, path := range paths {
		if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
			total += uint64(info.Size())
		}
	}
	return total
}

func printScanSummary(scanned, hashed int, hashedBytes uint64, groups int, elapsed time.Duration) {
	fmt.Fprintf(os.Stderr, "dupescan: scanned %d files, hashed %d (%s), %d duplicate groups in %s\n",
		scanned, hashed, humanize.Bytes(hashedBytes), groups, elapsed.Round(time.Millisecond))
}
