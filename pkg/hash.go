package dupescan

import (
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"
	"sync"
	"sync/atomic"
)

// ============================================================================
// ALGORITHMS
// ============================================================================

// HashAlgorithm represents a hash algorithm configuration
type HashAlgorithm struct {
	Name    string
	TypeID  uint16
	Size    int
	NewFunc func() hash.Hash
}

// GetHashAlgorithm returns the hash algorithm configuration for the given
// name. Names are matched case-insensitively.
func GetHashAlgorithm(name string) (*HashAlgorithm, error) {
	typeID, ok := HashTypeFromName(name)
	if !ok {
		return nil, fmt.Errorf("unsupported hash algorithm: %s", name)
	}
	return GetHashAlgorithmByType(typeID)
}

// GetHashAlgorithmByType returns the hash algorithm configuration for the given type ID
func GetHashAlgorithmByType(typeID uint16) (*HashAlgorithm, error) {
	switch typeID {
	case HashTypeSHA1:
		return &HashAlgorithm{
			Name:    HashTypeName(typeID),
			TypeID:  typeID,
			Size:    HashSizeSHA1,
			NewFunc: func() hash.Hash { return sha1.New() },
		}, nil
	case HashTypeSHA256:
		return &HashAlgorithm{
			Name:    HashTypeName(typeID),
			TypeID:  typeID,
			Size:    HashSizeSHA256,
			NewFunc: func() hash.Hash { return sha256.New() },
		}, nil
	case HashTypeSHA512:
		return &HashAlgorithm{
			Name:    HashTypeName(typeID),
			TypeID:  typeID,
			Size:    HashSizeSHA512,
			NewFunc: func() hash.Hash { return sha512.New() },
		}, nil
	default:
		return nil, fmt.Errorf("unsupported hash type ID: %d", typeID)
	}
}

// algorithmOrDefault resolves a possibly-nil algorithm to the package
// default (SHA-256, the fingerprint of record).
func algorithmOrDefault(algorithm *HashAlgorithm) *HashAlgorithm {
	if algorithm != nil {
		return algorithm
	}
	defaultAlgorithm, _ := GetHashAlgorithm("sha256")
	return defaultAlgorithm
}

// ============================================================================
// FINGERPRINTS
// ============================================================================

// Fingerprint is the content identity of one file: either the lowercase hex
// encoding of its digest, or an unreadable marker carrying the reason the
// file could not be hashed. Unreadable fingerprints never match each other,
// so two unreadable files are not reported as duplicates.
type Fingerprint struct {
	Digest string `json:"digest,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// Unreadable reports whether this fingerprint marks a hashing failure.
func (f Fingerprint) Unreadable() bool {
	return f.Digest == ""
}

// String returns the report value: the hex digest, or the constant
// unreadable marker.
func (f Fingerprint) String() string {
	if f.Unreadable() {
		return UnreadableMarker
	}
	return f.Digest
}

// MarshalJSON renders the fingerprint as its report value so that record
// output stays a flat {"file": ..., "hash": ...} object.
func (f Fingerprint) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", f.String())), nil
}

// ============================================================================
// SINGLE FILE HASHING
// ============================================================================

// HashFile calculates the content digest of one file, streaming it through
// the algorithm in DefaultHashBufferSize chunks, and returns the lowercase
// hex encoding. A nil algorithm means SHA-256. Open or read failures return
// an error; the caller decides whether that aborts anything.
func HashFile(filePath string, algorithm *HashAlgorithm) (string, error) {
	sum, err := HashFileInterruptible(filePath, algorithm, DefaultHashBufferSize, nil)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(sum), nil
}

// HashFileInterruptible calculates the hash of a file using a configurable
// buffer size and checks for shutdown signals between buffer reads for
// graceful interruption. A nil shutdown channel disables the check.
func HashFileInterruptible(filePath string, algorithm *HashAlgorithm, bufferSize int, shutdownChan <-chan struct{}) ([]byte, error) {
	if bufferSize <= 0 {
		bufferSize = DefaultHashBufferSize
	}

	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", filePath, err)
	}
	defer file.Close()

	hasher := algorithmOrDefault(algorithm).NewFunc()
	buffer := make([]byte, bufferSize)

	for {
		// Check for shutdown signal before each read
		select {
		case <-shutdownChan:
			return nil, fmt.Errorf("hash operation interrupted by shutdown")
		default:
		}

		n, err := file.Read(buffer)
		if n > 0 {
			hasher.Write(buffer[:n])
		}

		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read from file %s: %w", filePath, err)
		}
	}

	return hasher.Sum(nil), nil
}

// ============================================================================
// BATCH HASHING
// ============================================================================

// ProgressFunc observes batch hashing. It is invoked once per completed file
// with the path just finished, the number of files done so far, and the
// batch total. It may be called concurrently from worker goroutines and must
// not block; it has no effect on the returned fingerprints.
type ProgressFunc func(path string, done, total int)

// HashBatch fingerprints every path on a bounded worker pool. Slot i of the
// result always corresponds to paths[i] regardless of completion order. A
// file that cannot be read gets an Unreadable fingerprint and the batch
// carries on; only a shutdown signal aborts the batch, in which case the
// partial results are discarded and an error is returned.
func HashBatch(paths []string, opts ScanOptions) ([]Fingerprint, error) {
	defer VerboseEnter()()

	workers := opts.Workers
	if workers <= 0 {
		workers = DefaultHashWorkers
	}
	bufferSize := opts.BufferSize
	if bufferSize <= 0 {
		bufferSize = DefaultHashBufferSize
	}
	algorithm := algorithmOrDefault(opts.Algorithm)

	VerboseLog(2, "hashing %d files with %d workers (%s, %d byte buffer)",
		len(paths), workers, algorithm.Name, bufferSize)

	results := make([]Fingerprint, len(paths))
	jobs := make(chan int)
	var done int64
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				sum, err := HashFileInterruptible(paths[idx], algorithm, bufferSize, opts.Shutdown)
				if err != nil {
					if IsDebugEnabled("hash") {
						VerboseLog(3, "hash failed for %s: %v", paths[idx], err)
					}
					results[idx] = Fingerprint{Reason: err.Error()}
				} else {
					results[idx] = Fingerprint{Digest: hex.EncodeToString(sum)}
				}

				if opts.Progress != nil {
					n := atomic.AddInt64(&done, 1)
					opts.Progress(paths[idx], int(n), len(paths))
				}
			}
		}()
	}

	interrupted := false
feed:
	for i := range paths {
		select {
		case <-opts.Shutdown:
			interrupted = true
			break feed
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	if !interrupted {
		// Shutdown can also land after the last job was fed, while workers
		// are still reading; those rows hold interruption markers, not real
		// fingerprints, so the batch is still aborted.
		select {
		case <-opts.Shutdown:
			interrupted = true
		default:
		}
	}

	if interrupted {
		return nil, fmt.Errorf("hash batch interrupted by shutdown")
	}

	return results, nil
}
