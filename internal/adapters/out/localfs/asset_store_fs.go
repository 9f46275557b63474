// internal/adapters/out/localfs/asset_store_fs.go
package localfs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"mime"
	"os"
	"path"

	assetdom "wecastmint/internal/domain/asset"
)

// AssetStore serves assets from a directory (dev default: ./public).
type AssetStore struct {
	fsys fs.FS
}

var _ assetdom.Store = (*AssetStore)(nil)

func NewAssetStore(dir string) *AssetStore {
	return &AssetStore{fsys: os.DirFS(dir)}
}

// NewAssetStoreFS is used by tests with fstest.MapFS.
func NewAssetStoreFS(fsys fs.FS) *AssetStore {
	return &AssetStore{fsys: fsys}
}

func (s *AssetStore) Open(ctx context.Context, name string) (assetdom.Object, error) {
	if err := ctx.Err(); err != nil {
		return assetdom.Object{}, err
	}
	clean, err := assetdom.CleanName(name)
	if err != nil {
		return assetdom.Object{}, err
	}

	f, err := s.fsys.Open(clean)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return assetdom.Object{}, fmt.Errorf("%w: %s", assetdom.ErrNotFound, clean)
		}
		return assetdom.Object{}, fmt.Errorf("localfs: open %s: %w", clean, err)
	}
	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return assetdom.Object{}, fmt.Errorf("localfs: stat %s: %w", clean, err)
	}
	if st.IsDir() {
		_ = f.Close()
		return assetdom.Object{}, fmt.Errorf("%w: %s is a directory", assetdom.ErrNotFound, clean)
	}

	return assetdom.Object{
		Name:        clean,
		ContentType: mime.TypeByExtension(path.Ext(clean)),
		Size:        st.Size(),
		UpdatedAt:   st.ModTime(),
		Body:        f,
	}, nil
}
