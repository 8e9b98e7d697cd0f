package extraction

import (
	"fmt"
	"os"
)

// withTempFile spools data into a uniquely named file under dir, runs fn on
// its path and removes the file before returning, on every path including
// a panic in fn. An empty dir means the OS temp directory.
func withTempFile(dir, pattern string, data []byte, fn func(path string) error) error {
	f, err := os.CreateTemp(dir, pattern)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrResourceCreation, err)
	}
	path := f.Name()
	defer os.Remove(path)

	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("%w: write %s: %v", ErrResourceCreation, path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %v", ErrResourceCreation, path, err)
	}
	return fn(path)
}
