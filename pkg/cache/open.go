package cache

import (
	"context"
	"net/url"
	"strings"

	lferrors "github.com/matzehuels/landforge/pkg/errors"
)

// Open returns the backend described by spec:
//
//	""                         file cache in DefaultDir
//	"none", "off"              NullCache
//	"/some/dir", "file:///dir" file cache in that directory
//	"redis://…", "rediss://…"  RedisCache
//	"mongodb://…/db"           MongoCache in database db
//	"mongodb+srv://…/db"       MongoCache in database db
//
// Any other scheme is an UNSUPPORTED error wrapping ErrUnsupportedScheme.
func Open(ctx context.Context, spec string) (Cache, error) {
	switch strings.ToLower(spec) {
	case "":
		dir, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		return openFile(dir)
	case "none", "off":
		return NewNullCache(), nil
	}

	u, err := url.Parse(spec)
	if err != nil || u.Scheme == "" {
		return openFile(spec)
	}

	switch u.Scheme {
	case "file":
		return openFile(u.Path)
	case "redis", "rediss":
		c, err := NewRedisCache(ctx, spec)
		if err != nil {
			return nil, err
		}
		return c, nil
	case "mongodb", "mongodb+srv":
		c, err := NewMongoCache(ctx, spec, strings.TrimPrefix(u.Path, "/"), "")
		if err != nil {
			return nil, err
		}
		return c, nil
	}
	return nil, lferrors.Wrap(lferrors.ErrCodeUnsupported, ErrUnsupportedScheme, "cache url scheme %q", u.Scheme)
}

func openFile(dir string) (Cache, error) {
	c, err := NewFileCache(dir)
	if err != nil {
		return nil, err
	}
	return c, nil
}
