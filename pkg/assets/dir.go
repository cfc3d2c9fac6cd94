package assets

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
)

// DirStore serves assets from a local directory.
type DirStore struct {
	root string
	fsys fs.FS
}

// NewDirStore creates a store rooted at dir.
func NewDirStore(dir string) *DirStore {
	return &DirStore{root: dir, fsys: os.DirFS(dir)}
}

// Root returns the directory the store serves.
func (s *DirStore) Root() string {
	return s.root
}

// Open implements Store. Directories are reported as not found.
func (s *DirStore) Open(ctx context.Context, name string) (io.ReadCloser, Info, error) {
	if err := ctx.Err(); err != nil {
		return nil, Info{}, err
	}

	clean, err := CleanName(name)
	if err != nil {
		return nil, Info{}, err
	}

	f, err := s.fsys.Open(clean)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, Info{}, ErrNotFound
		}
		return nil, Info{}, err
	}

	st, err := f.Stat()
	if err != nil || st.IsDir() {
		f.Close()
		if err != nil {
			return nil, Info{}, err
		}
		return nil, Info{}, ErrNotFound
	}

	return f, Info{
		Name:        clean,
		ContentType: ContentType(clean),
		Size:        st.Size(),
		ModTime:     st.ModTime(),
	}, nil
}
