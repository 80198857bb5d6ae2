package contentid

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// Chunk size for streaming reads. The digest does not depend on it.
const hashChunkSize = 4096

// HashFile computes the lowercase hex SHA-256 digest of the file contents.
// The file is streamed in fixed-size chunks, so arbitrarily large videos
// hash in constant memory.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	hasher := sha256.New()
	if _, err := io.CopyBuffer(hasher, f, make([]byte, hashChunkSize)); err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}
