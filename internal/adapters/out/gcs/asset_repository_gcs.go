// internal/adapters/out/gcs/asset_repository_gcs.go
package gcs

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/storage"

	assetdom "wecastmint/internal/domain/asset"
)

// AssetRepositoryGCS reads frame assets (icon, frame, splash, images) from a
// bucket. With a Prefix the object name is "<prefix>/<name>".
type AssetRepositoryGCS struct {
	Client *storage.Client
	Bucket string
	Prefix string
}

var _ assetdom.Store = (*AssetRepositoryGCS)(nil)

func NewAssetRepositoryGCS(client *storage.Client, bucket, prefix string) *AssetRepositoryGCS {
	return &AssetRepositoryGCS{
		Client: client,
		Bucket: strings.TrimSpace(bucket),
		Prefix: strings.Trim(strings.TrimSpace(prefix), "/"),
	}
}

func (r *AssetRepositoryGCS) objectName(name string) string {
	if r.Prefix == "" {
		return name
	}
	return r.Prefix + "/" + name
}

func (r *AssetRepositoryGCS) Open(ctx context.Context, name string) (assetdom.Object, error) {
	if r == nil || r.Client == nil {
		return assetdom.Object{}, errors.New("gcs: nil storage client")
	}
	if r.Bucket == "" {
		return assetdom.Object{}, errors.New("gcs: bucket is empty")
	}
	clean, err := assetdom.CleanName(name)
	if err != nil {
		return assetdom.Object{}, err
	}

	obj := r.Client.Bucket(r.Bucket).Object(r.objectName(clean))
	rd, err := obj.NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) || errors.Is(err, storage.ErrBucketNotExist) {
			return assetdom.Object{}, fmt.Errorf("%w: gs://%s/%s", assetdom.ErrNotFound, r.Bucket, r.objectName(clean))
		}
		return assetdom.Object{}, fmt.Errorf("gcs: open gs://%s/%s: %w", r.Bucket, r.objectName(clean), err)
	}

	return assetdom.Object{
		Name:        clean,
		ContentType: rd.Attrs.ContentType,
		Size:        rd.Attrs.Size,
		UpdatedAt:   rd.Attrs.LastModified,
		Body:        rd,
	}, nil
}
