package headermap

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
	"github.com/edsrzf/mmap-go"
	hmaperrors "github.com/tamirms/headermap/errors"
)

// Open reads and decodes the header map at path.
func Open(path string) (*HeaderMap, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open header map: %w", err)
	}
	defer file.Close()
	return OpenFile(file)
}

// OpenFile decodes a header map by memory-mapping f. The mapping is released
// before OpenFile returns; the result owns copies of everything it needs.
// The caller is responsible for closing f.
func OpenFile(f *os.File) (*HeaderMap, error) {
	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat header map: %w", err)
	}
	if stat.Size() < headerSize {
		return nil, hmaperrors.ErrTruncatedFile
	}

	mm, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("mmap header map: %w", err)
	}
	adviseSequential(mm)

	m, err := Decode(mm)
	if unmapErr := mm.Unmap(); unmapErr != nil {
		return nil, errors.Join(err, fmt.Errorf("unmap header map: %w", unmapErr))
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

// WriteFile writes m to path, replacing any existing file atomically.
//
// If path already holds exactly the bytes m serializes to, the file is not
// touched, so its modification time does not invalidate downstream compile
// steps. WriteFile reports whether it wrote the file.
func WriteFile(path string, m *HeaderMap, perm os.FileMode) (bool, error) {
	data := m.Bytes()

	same, err := sameContent(path, data)
	if err != nil {
		return false, err
	}
	if same {
		return false, nil
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return false, fmt.Errorf("create header map: %w", err)
	}
	tmpPath := tmp.Name()

	if err := writeAndClose(tmp, data, perm); err != nil {
		return false, errors.Join(err, os.Remove(tmpPath))
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return false, errors.Join(fmt.Errorf("rename header map: %w", err), os.Remove(tmpPath))
	}
	return true, nil
}

func writeAndClose(f *os.File, data []byte, perm os.FileMode) error {
	if err := reserveSpace(f, int64(len(data))); err != nil {
		return errors.Join(fmt.Errorf("reserve header map space: %w", err), f.Close())
	}
	if _, err := f.WriteAt(data, 0); err != nil {
		return errors.Join(fmt.Errorf("write header map: %w", err), f.Close())
	}
	if err := f.Chmod(perm); err != nil {
		return errors.Join(fmt.Errorf("chmod header map: %w", err), f.Close())
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close header map: %w", err)
	}
	return nil
}

// sameContent reports whether the file at path holds exactly data. A
// missing file is not an error.
func sameContent(path string, data []byte) (bool, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("open existing header map: %w", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return false, fmt.Errorf("stat existing header map: %w", err)
	}
	if !stat.Mode().IsRegular() || stat.Size() != int64(len(data)) {
		return false, nil
	}

	h := xxhash.New()
	if _, err := io.Copy(h, f); err != nil {
		return false, fmt.Errorf("hash existing header map: %w", err)
	}
	return h.Sum64() == xxhash.Sum64(data), nil
}
