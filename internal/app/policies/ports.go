package policies

import (
	"context"

	"freeshare/internal/domain/ad"
)

// Geocoder resolves a free-form location name to coordinates. Lookups are
// best effort: callers keep going without coordinates when the provider
// fails or times out.
type Geocoder interface {
	Locate(ctx context.Context, locationName string) (ad.GeoPoint, error)
	Reverse(ctx context.Context, point ad.GeoPoint) (string, error)
}

// ImageStore abstracts the object storage used for ad photos. Remove is
// best effort and must tolerate already-deleted objects.
type ImageStore interface {
	Upload(ctx context.Context, name string, contentType string, data []byte) (url string, err error)
	Remove(ctx context.Context, url string) error
}
