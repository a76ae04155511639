package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"

	dupescan "github.com/mattkeenan/dupescan/pkg"
)

// cliOptions holds the effective options after merging explicit flags with
// the configuration file. Precedence: explicit flag, then --set override,
// then config file, then built-in default.
type cliOptions struct {
	extension   string
	fastScan    bool
	headCheck   bool
	matchFile   string
	compareRef  string
	format      string
	csvPath     string
	writeCSV    bool
	algorithm   string
	workers     int
	buffer      string
	ignoreFile  string
	excludes    []string
	symlinks    string
	progress    bool
	verbose     int
	debug       string
	configPath  string
	overrides   []string
	showVersion bool
}

func main() {
	opts, flags, args, err := parseArguments(os.Args[1:])
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "dupescan: %v\n", err)
		fmt.Fprintf(os.Stderr, "Try 'dupescan --help' for more information.\n")
		os.Exit(1)
	}

	if opts.showVersion {
		fmt.Printf("dupescan %s\n", getVersionString())
		return
	}

	if len(args) != 1 {
		fmt.Fprintf(os.Stderr, "dupescan: expected exactly one FOLDER argument, got %d\n", len(args))
		fmt.Fprintf(os.Stderr, "Try 'dupescan --help' for more information.\n")
		os.Exit(1)
	}

	if err := applyConfig(opts, flags); err != nil {
		fmt.Fprintf(os.Stderr, "dupescan: %v\n", err)
		os.Exit(1)
	}

	if err := run(opts, args[0]); err != nil {
		fmt.Fprintf(os.Stderr, "dupescan: %v\n", err)
		os.Exit(1)
	}
}

// parseArguments defines and parses the command line. It returns the parsed
// options, the flag set (for Changed checks during config merging), and the
// positional arguments.
func parseArguments(args []string) (*cliOptions, *pflag.FlagSet, []string, error) {
	opts := &cliOptions{}
	flags := pflag.NewFlagSet("dupescan", pflag.ContinueOnError)
	flags.SortFlags = false
	flags.Usage = func() { showHelp(flags) }

	flags.StringVarP(&opts.extension, "ext", "e", "", "only scan files with this exact extension, e.g. \".jpg\"")
	flags.BoolVarP(&opts.fastScan, "fastscan", "f", false, "skip hashing files whose size is unique in the set")
	flags.BoolVar(&opts.headCheck, "headcheck", false, "also skip files whose leading bytes are unique in the set")
	flags.StringVarP(&opts.matchFile, "match", "m", "", "report files under FOLDER with the same content as this file")
	flags.StringVarP(&opts.compareRef, "compare", "c", "", "report files under FOLDER whose content also exists under this folder")
	flags.StringVarP(&opts.format, "format", "o", "human", "output format: human, json, table, fdupes")
	flags.StringVar(&opts.csvPath, "csv", "", "write a file,hash CSV report to this path")
	flags.StringVar(&opts.algorithm, "algorithm", "sha256", "fingerprint algorithm: sha1, sha256, sha512")
	flags.IntVarP(&opts.workers, "workers", "w", dupescan.DefaultHashWorkers, "number of concurrent hash workers")
	flags.StringVar(&opts.buffer, "buffer", "64k", "hash chunk size, e.g. 64k or 2M")
	flags.StringVar(&opts.ignoreFile, "ignore-file", "", "file of ignore regex patterns, one per line")
	flags.StringArrayVar(&opts.excludes, "exclude", nil, "ignore paths matching this regex (repeatable)")
	flags.StringVar(&opts.symlinks, "symlinks", dupescan.SymlinkNone, "directory symlink mode: none, contained, all")
	flags.BoolVar(&opts.progress, "progress", false, "show a progress bar while hashing")
	flags.IntVarP(&opts.verbose, "verbose", "v", 0, "verbose level 0-3")
	flags.StringVar(&opts.debug, "debug", "", "debug flags, e.g. \"scan,hash\"")
	flags.StringVar(&opts.configPath, "config", "", "config file path (created with defaults if missing)")
	flags.StringArrayVar(&opts.overrides, "set", nil, "config override key:value (repeatable)")
	flags.BoolVar(&opts.showVersion, "version", false, "print version and exit")

	if err := flags.Parse(args); err != nil {
		return nil, nil, nil, err
	}

	if opts.matchFile != "" && opts.compareRef != "" {
		return nil, nil, nil, fmt.Errorf("--match and --compare are mutually exclusive")
	}

	opts.writeCSV = flags.Changed("csv")

	return opts, flags, flags.Args(), nil
}

// applyConfig fills every option the user did not set explicitly from the
// configuration file, after applying --set overrides to it.
func applyConfig(opts *cliOptions, flags *pflag.FlagSet) error {
	cfg, err := dupescan.LoadConfig(opts.configPath)
	if err != nil {
		return err
	}
	if err := cfg.ApplyOverrides(opts.overrides); err != nil {
		return err
	}

	all := cfg.GetAllConfig()

	if !flags.Changed("algorithm") {
		opts.algorithm = all.Hash.Default
	}
	if !flags.Changed("ext") {
		opts.extension = all.Scan.Extension
	}
	if !flags.Changed("symlinks") {
		opts.symlinks = all.Scan.Symlinks
	}
	if !flags.Changed("ignore-file") {
		opts.ignoreFile = all.Scan.IgnoreFile
	}
	if !flags.Changed("fastscan") {
		opts.fastScan = all.Filter.FastScan
	}
	if !flags.Changed("headcheck") {
		opts.headCheck = all.Filter.HeadCheck
	}
	if !flags.Changed("format") {
		opts.format = all.Output.Format
	}
	if opts.writeCSV && opts.csvPath == "" {
		opts.csvPath = all.Output.CSVPath
	}
	if !flags.Changed("progress") {
		opts.progress = all.Output.Progress
	}
	if !flags.Changed("verbose") {
		opts.verbose = all.Verbose.Level
	}
	if !flags.Changed("debug") {
		opts.debug = all.Verbose.Debug
	}
	if !flags.Changed("workers") {
		opts.workers = all.Performance.HashWorkers
	}
	if !flags.Changed("buffer") {
		opts.buffer = all.Performance.HashBuffer
	}

	return nil
}

func run(opts *cliOptions, folder string) error {
	dupescan.SetVerboseLevel(opts.verbose)
	dupescan.SetDebugFlags(opts.debug)

	if err := dupescan.ValidateHashAlgorithm(opts.algorithm); err != nil {
		return err
	}
	if err := dupescan.ValidateOutputFormat(opts.format); err != nil {
		return err
	}
	if err := dupescan.ValidateSymlinkMode(opts.symlinks); err != nil {
		return err
	}
	if err := dupescan.ValidateVerboseLevel(opts.verbose); err != nil {
		return err
	}
	if err := dupescan.ValidateHashWorkers(opts.workers); err != nil {
		return err
	}

	algorithm, err := dupescan.GetHashAlgorithm(opts.algorithm)
	if err != nil {
		return err
	}

	bufferSize, err := dupescan.ParseHumanSize(opts.buffer)
	if err != nil {
		return fmt.Errorf("invalid buffer size: %w", err)
	}

	ignore := dupescan.NewIgnoreManager(opts.ignoreFile)
	if err := ignore.LoadIgnorePatterns(); err != nil {
		return err
	}
	for _, pattern := range opts.excludes {
		if err := ignore.AddPattern(pattern); err != nil {
			return err
		}
	}

	shutdown := setupSignalHandler()

	var bar *progressBar
	if opts.progress {
		bar = newProgressBar()
		defer bar.Close()
	}

	scanOpts := dupescan.ScanOptions{
		Extension:   opts.extension,
		FastScan:    opts.fastScan,
		HeadCheck:   opts.headCheck,
		Algorithm:   algorithm,
		BufferSize:  bufferSize,
		Workers:     opts.workers,
		Shutdown:    shutdown,
		Ignore:      ignore,
		SymlinkMode: opts.symlinks,
	}
	if bar != nil {
		scanOpts.Progress = bar.observe
	}

	start := time.Now()

	switch {
	case opts.compareRef != "":
		return runCompare(opts, folder, scanOpts, bar, start)
	case opts.matchFile != "":
		return runMatch(opts, folder, scanOpts, bar, start)
	default:
		return runScan(opts, folder, scanOpts, bar, start)
	}
}

// runScan drives the single-tree pipeline stage by stage so the summary can
// report what each stage kept.
func runScan(opts *cliOptions, folder string, scanOpts dupescan.ScanOptions, bar *progressBar, start time.Time) error {
	paths, err := dupescan.EnumerateFiles(folder, scanOpts)
	if err != nil {
		return err
	}

	candidates := paths
	if scanOpts.FastScan {
		candidates = dupescan.PreselectBySize(candidates)
	}
	if scanOpts.HeadCheck {
		candidates = dupescan.PreselectByHead(candidates)
	}

	sums, err := dupescan.HashBatch(candidates, scanOpts)
	if err != nil {
		return err
	}
	table, err := dupescan.BuildTable(candidates, sums)
	if err != nil {
		return err
	}

	dupes := dupescan.FindDuplicates(table)
	if bar != nil {
		bar.Close()
	}

	groups := dupescan.GroupDuplicates(dupes)
	if err := outputGroups(groups, opts.format); err != nil {
		return err
	}
	if err := writeReport(opts, dupes); err != nil {
		return err
	}

	printScanSummary(len(paths), len(candidates), candidateBytes(candidates), len(groups), time.Since(start))
	return nil
}

func runMatch(opts *cliOptions, folder string, scanOpts dupescan.ScanOptions, bar *progressBar, start time.Time) error {
	table, err := dupescan.FindDuplicatesOf(opts.matchFile, folder, scanOpts)
	if err != nil {
		return err
	}
	if bar != nil {
		bar.Close()
	}

	if err := outputRecords(table, opts.format); err != nil {
		return err
	}
	if err := writeReport(opts, table); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "dupescan: %d files under %s share content with %s (%s)\n",
		table.Len(), folder, opts.matchFile, time.Since(start).Round(time.Millisecond))
	return nil
}

func runCompare(opts *cliOptions, folder string, scanOpts dupescan.ScanOptions, bar *progressBar, start time.Time) error {
	table, err := dupescan.CompareFolders(opts.compareRef, folder, scanOpts)
	if err != nil {
		return err
	}
	if bar != nil {
		bar.Close()
	}

	if err := outputRecords(table, opts.format); err != nil {
		return err
	}
	if err := writeReport(opts, table); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "dupescan: %d files under %s have content present in %s (%s)\n",
		table.Len(), folder, opts.compareRef, time.Since(start).Round(time.Millisecond))
	return nil
}

// writeReport saves the result table as a CSV report when --csv was given.
func writeReport(opts *cliOptions, table dupescan.FileTable) error {
	if !opts.writeCSV {
		return nil
	}

	path := opts.csvPath
	if path == "" {
		path = dupescan.DefaultCSVName
	}

	if err := dupescan.SaveCSV(table, path); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "dupescan: report written to %s\n", path)
	return nil
}

func showHelp(flags *pflag.FlagSet) {
	fmt.Printf(`dupescan - find duplicate files by content

Usage:
  dupescan [options] FOLDER
  dupescan --match FILE [options] FOLDER
  dupescan --compare REFERENCE [options] FOLDER

Modes:
  default           report groups of identical files under FOLDER
  --match FILE      report files under FOLDER with the same content as FILE
  --compare REF     report files under FOLDER whose content also exists under REF

Options:
%s
Examples:
  dupescan ~/Pictures
  dupescan --ext .jpg --fastscan --progress ~/Pictures
  dupescan --match ~/Pictures/holiday.jpg ~/Pictures
  dupescan --compare /backup /incoming --format table
  dupescan --csv duplicates.csv ~/Documents
`, flags.FlagUsages())
}
