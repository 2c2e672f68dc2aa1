// Package integrity computes content digests proving whether a redaction
// changed a file.
package integrity

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/NeuralTrust/MetaGuard/pkg/domain/metadata"
)

// HashReader returns the lowercase hex SHA-256 digest of everything read from r.
func HashReader(r io.Reader) (string, error) {
	h := sha256.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", fmt.Errorf("%w: %w", metadata.ErrHashing, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func HashBytes(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

func HashFile(path string) (string, error) {
	file, err := os.Open(filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("%w: %w", metadata.ErrHashing, err)
	}
	defer file.Close()
	return HashReader(file)
}
