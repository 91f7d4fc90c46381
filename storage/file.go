package storage

import (
	"fmt"
	"os"
)

// WriteFile frames data with c and writes it to path.
func WriteFile(
	path string,
	data []byte,
	c Compression,
) error {
	const errCtx = "writing stream file"

	framed, err := Compress(data, c)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	//nolint:gosec // stream files are not secret
	if err := os.WriteFile(path, framed, 0o644); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	return nil
}

// ReadFile reads path, verifies its checksum sidecar when one exists,
// and returns the unframed stream text.
func ReadFile(path string) ([]byte, error) {
	const errCtx = "reading stream file"

	if err := VerifyChecksum(path); err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	raw, err := os.ReadFile(path) //nolint:gosec // path is caller-provided by design
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	plain, _, err := Decompress(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %s: %w", errCtx, path, err)
	}

	return plain, nil
}
