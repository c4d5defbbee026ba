package imageio

import (
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/smearlab/pixelsort/pkg/errors"
	"github.com/smearlab/pixelsort/pkg/httputil"
	"github.com/smearlab/pixelsort/pkg/raster"
)

// IsURL reports whether source names a remote image rather than a local
// file.
func IsURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// Decode reads an encoded image from r into a raster. EXIF orientation is
// applied, so rotated photos come out the way viewers display them.
func Decode(r io.Reader) (*raster.Image, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDecode, err, "failed to decode image")
	}
	return raster.FromImage(img), nil
}

// LoadFile reads and decodes the image at path.
func LoadFile(path string) (*raster.Image, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "no such image: %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "failed to open %s", path)
	}
	defer f.Close()

	img, err := Decode(f)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDecode, err, "failed to decode %s", path)
	}
	return img, nil
}

// Loader loads images from local paths or http(s) URLs. The zero value is
// usable and fetches without caching.
type Loader struct {
	// HTTP is the client for remote fetches. Nil uses a default client
	// with a timeout sized for image downloads.
	HTTP *http.Client

	// Cache stores fetched URL bodies. Nil disables caching.
	Cache *httputil.Cache

	// MaxBytes caps the size of a fetched body. Zero applies
	// httputil.DefaultMaxFetchBytes.
	MaxBytes int64
}

// NewLoader creates a loader that keeps fetched images in c. Entries are
// stored under an "img:" namespace so the cache can be shared with other
// consumers.
func NewLoader(c *httputil.Cache) *Loader {
	l := &Loader{HTTP: httputil.NewHTTPClient()}
	if c != nil {
		l.Cache = c.Namespace("img:")
	}
	return l
}

// Load reads an image from a local path or, when source is an http(s) URL,
// fetches and decodes it.
func (l *Loader) Load(ctx context.Context, source string) (*raster.Image, error) {
	if !IsURL(source) {
		return LoadFile(source)
	}

	body, err := l.fetch(ctx, source)
	if err != nil {
		return nil, err
	}

	img, err := Decode(bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDecode, err, "failed to decode %s", source)
	}
	return img, nil
}

// fetch returns the body at url, consulting the cache before the network.
func (l *Loader) fetch(ctx context.Context, url string) ([]byte, error) {
	if err := errors.ValidateURL(url); err != nil {
		return nil, err
	}

	if l.Cache != nil {
		var body []byte
		if ok, err := l.Cache.Get(url, &body); ok && err == nil {
			return body, nil
		}
	}

	body, err := httputil.Fetch(ctx, l.HTTP, url, l.MaxBytes)
	switch {
	case err == nil:
	case stderrors.Is(err, httputil.ErrNotFound):
		return nil, errors.Wrap(errors.ErrCodeNotFound, err, "image not found: %s", url)
	case stderrors.Is(err, httputil.ErrTooLarge):
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "image too large: %s", url)
	default:
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "failed to fetch %s", url)
	}

	if l.Cache != nil {
		_ = l.Cache.Set(url, body)
	}
	return body, nil
}
