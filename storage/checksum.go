package storage

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ChecksumSuffix is appended to a stream path to name its sidecar.
const ChecksumSuffix = ".digest"

// ErrChecksumMismatch reports a stream file whose bytes no longer match
// its sidecar.
var ErrChecksumMismatch = errors.New("checksum mismatch")

// CalculateChecksum computes the SHA256 hex digest of the file at path.
func CalculateChecksum(path string) (result string, retErr error) {
	const errCtx = "calculating checksum"

	fi, err := os.Open(path) //nolint:gosec // path is caller-provided by design
	if err != nil {
		return "", fmt.Errorf("%s: %w", errCtx, err)
	}

	defer func() {
		if closeErr := fi.Close(); closeErr != nil && retErr == nil {
			retErr = fmt.Errorf("%s: %w", errCtx, closeErr)
		}
	}()

	ha := sha256.New()

	if _, err := io.Copy(ha, fi); err != nil {
		return "", fmt.Errorf("%s: %w", errCtx, err)
	}

	return hex.EncodeToString(ha.Sum(nil)), nil
}

// GetChecksum reads the stored checksum of path. It returns an empty
// string with no error if the sidecar does not exist.
func GetChecksum(path string) (string, error) {
	const errCtx = "getting stored checksum"

	sum, err := os.ReadFile(path + ChecksumSuffix) //nolint:gosec // path is caller-provided by design
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}

	if err != nil {
		return "", fmt.Errorf("%s: %w", errCtx, err)
	}

	return strings.TrimSpace(string(sum)), nil
}

// SaveChecksum calculates the checksum of path and writes it to the
// sidecar file.
func SaveChecksum(path string) error {
	const errCtx = "saving checksum"

	sum, err := CalculateChecksum(path)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	if err := os.WriteFile(
		path+ChecksumSuffix, []byte(sum), 0o600,
	); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	return nil
}

// RemoveChecksum deletes the sidecar of path. A missing sidecar is not
// an error.
func RemoveChecksum(path string) error {
	const errCtx = "removing checksum"

	err := os.Remove(path + ChecksumSuffix)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	return nil
}

// VerifyChecksum compares path against its sidecar. A missing sidecar
// is not an error.
func VerifyChecksum(path string) error {
	const errCtx = "verifying checksum"

	stored, err := GetChecksum(path)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	if stored == "" {
		return nil
	}

	calc, err := CalculateChecksum(path)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	if calc != stored {
		return fmt.Errorf(
			"%s: %w: %s", errCtx, ErrChecksumMismatch, path,
		)
	}

	return nil
}
