package dupescan

import "strings"

// Context constants for record index operations
const (
	GroupContext     = "group"
	ReferenceContext = "reference"
)

// UnreadableMarker is the report value written in place of a fingerprint for
// files that could not be hashed. It is distinct from any valid hex digest.
const UnreadableMarker = "No hash could be generated"

// DefaultCSVName is the report file name used when the caller gives none.
const DefaultCSVName = "duplicates.csv"

// Hash type constants
const (
	HashTypeSHA1   uint16 = 1 // SHA-1 (20 bytes)
	HashTypeSHA256 uint16 = 2 // SHA-256 (32 bytes)
	HashTypeSHA512 uint16 = 3 // SHA-512 (64 bytes)
)

// Hash size constants
const (
	HashSizeSHA1   = 20 // SHA-1 hash size in bytes
	HashSizeSHA256 = 32 // SHA-256 hash size in bytes
	HashSizeSHA512 = 64 // SHA-512 hash size in bytes
)

// DefaultHashBufferSize is the chunk size for streaming file content through
// the digest. 64 KiB bounds memory for arbitrarily large files.
const DefaultHashBufferSize = 64 * 1024

// DefaultHashWorkers is the hash pool size when neither options nor config
// say otherwise.
const DefaultHashWorkers = 4

// headSampleSize is how many leading bytes the head filter reads per file.
const headSampleSize = 4096

// defaultIndexLevels is the level count for record skiplist indices.
const defaultIndexLevels = 16

// HashTypeName returns the human-readable name for a hash type
func HashTypeName(hashType uint16) string {
	switch hashType {
	case HashTypeSHA1:
		return "sha1"
	case HashTypeSHA256:
		return "sha256"
	case HashTypeSHA512:
		return "sha512"
	default:
		return "unknown"
	}
}

// HashTypeFromName returns the hash type constant from a name (case-insensitive)
func HashTypeFromName(name string) (uint16, bool) {
	switch strings.ToLower(name) {
	case "sha1":
		return HashTypeSHA1, true
	case "sha256":
		return HashTypeSHA256, true
	case "sha512":
		return HashTypeSHA512, true
	default:
		return 0, false
	}
}
