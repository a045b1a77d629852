package export

import (
	"fmt"
	"os"
	"path/filepath"

	"signpad/internal/signature"
)

// WritePNG stores the file under dir using its own name and returns the path.
func WritePNG(dir string, file signature.File) (string, error) {
	if !signature.ValidName(file.Name) {
		return "", fmt.Errorf("export: refusing file name %q", file.Name)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(dir, file.Name)
	if err := os.WriteFile(path, file.Data, 0o644); err != nil {
		return "", fmt.Errorf("write png: %w", err)
	}
	return path, nil
}
