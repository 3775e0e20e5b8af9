package svtargets

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/carbocation/pfx"
)

const googleStoragePrefix = "gs://"

// IsGoogleStoragePath reports whether path points at a Google Storage object.
func IsGoogleStoragePath(path string) bool {
	return strings.HasPrefix(path, googleStoragePrefix)
}

// SplitGoogleStoragePath splits gs://bucket/path/to/object into its bucket and
// object name.
func SplitGoogleStoragePath(path string) (bucket, object string, err error) {
	pathParts := strings.SplitN(strings.TrimPrefix(path, googleStoragePrefix), "/", 2)
	if len(pathParts) != 2 || pathParts[0] == "" || pathParts[1] == "" {
		return "", "", fmt.Errorf("tried to split your google storage path %q into a bucket and an object, but got %d part(s): %v", path, len(pathParts), pathParts)
	}

	return pathParts[0], pathParts[1], nil
}

// Opener opens manifests from the local filesystem or, when Client is set,
// from gs:// URLs. Compressed inputs are decompressed transparently.
type Opener struct {
	Client  *storage.Client
	Context context.Context
}

// Open satisfies manifest.Source.
func (o *Opener) Open(path string) (io.ReadCloser, error) {
	raw, err := o.openRaw(path)
	if err != nil {
		return nil, err
	}

	rc, err := MaybeDecompress(raw)
	if err != nil {
		raw.Close()
		return nil, pfx.Err(fmt.Errorf("%s: %w", path, err))
	}

	return rc, nil
}

func (o *Opener) openRaw(path string) (io.ReadCloser, error) {
	if !IsGoogleStoragePath(path) {
		f, err := os.Open(path)
		if err != nil {
			return nil, pfx.Err(err)
		}
		return f, nil
	}

	if o.Client == nil {
		return nil, pfx.Err(fmt.Errorf("%s: a google storage client is required to read gs:// paths", path))
	}

	bucketName, objectName, err := SplitGoogleStoragePath(path)
	if err != nil {
		return nil, pfx.Err(err)
	}

	ctx := o.Context
	if ctx == nil {
		ctx = context.Background()
	}

	// Open the bucket with default credentials
	rdr, err := o.Client.Bucket(bucketName).Object(objectName).NewReader(ctx)
	if err != nil {
		return nil, pfx.Err(fmt.Errorf("%s: %w", path, err))
	}

	return rdr, nil
}
