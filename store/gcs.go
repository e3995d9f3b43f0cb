package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/api/iterator"
)

// revisionKey tags a quote object and the photos written with it.
const revisionKey = "revision"

// GCSStore keeps quotes as objects under a bucket prefix. The quote id is
// its file name.
type GCSStore struct {
	client *storage.Client
	bucket string
	prefix string
	logger *zap.Logger
}

func NewGCSStore(client *storage.Client, bucket, prefix string, logger *zap.Logger) *GCSStore {
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &GCSStore{client: client, bucket: bucket, prefix: prefix, logger: logger.Named("store.gcs")}
}

func (s *GCSStore) Save(ctx context.Context, name string, data []byte, photos []Photo) (SaveResult, error) {
	if err := ValidateName(name); err != nil {
		return SaveResult{}, err
	}

	obj := s.object(name)
	status := StatusCreated
	prevRevision := ""
	attrs, err := obj.Attrs(ctx)
	switch {
	case err == nil:
		status = StatusUpdated
		prevRevision = attrs.Metadata[revisionKey]
	case !errors.Is(err, storage.ErrObjectNotExist):
		return SaveResult{}, fmt.Errorf("look up %s: %w", name, err)
	}

	// Photos keep the previous revision unless new ones are uploaded.
	revision := prevRevision
	var names []string
	if len(photos) > 0 {
		if len(photos) > MaxPhotos {
			photos = photos[:MaxPhotos]
		}
		revision = uuid.NewString()
		if err := s.deletePhotos(ctx, name); err != nil {
			return SaveResult{}, err
		}
		for _, p := range photos {
			ct := p.ContentType
			if ct == "" {
				ct = contentTypeFor(p.Name)
			}
			if err := s.write(ctx, p.Name, ct, revision, p.Data); err != nil {
				return SaveResult{}, err
			}
		}
		names = photoNames(photos)
	}
	if revision == "" {
		revision = uuid.NewString()
	}

	if err := s.write(ctx, name, jsonContentType, revision, data); err != nil {
		return SaveResult{}, err
	}

	s.logger.Info("quote saved",
		zap.String("name", name),
		zap.String("status", string(status)),
		zap.String("revision", revision),
		zap.Int("photos", len(names)),
	)
	return SaveResult{ID: name, Name: name, Status: status, PhotoNames: names}, nil
}

func (s *GCSStore) Load(ctx context.Context, id string) (*Stored, error) {
	if err := ValidateName(id); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	attrs, err := s.object(id).Attrs(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("look up %s: %w", id, err)
	}
	data, _, err := s.read(ctx, id)
	if err != nil {
		return nil, err
	}

	objs, err := s.photoObjects(ctx, id, attrs.Metadata[revisionKey])
	if err != nil {
		return nil, err
	}
	photos := make([]Photo, len(objs))
	g, gctx := errgroup.WithContext(ctx)
	for i, name := range objs {
		g.Go(func() error {
			b, ct, err := s.read(gctx, name)
			if err != nil {
				return err
			}
			photos[i] = Photo{Name: name, ContentType: ct, Data: b}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Stored{ID: id, Name: id, Data: data, Photos: photos}, nil
}

func (s *GCSStore) Search(ctx context.Context, term string) ([]FileRef, error) {
	it := s.client.Bucket(s.bucket).Objects(ctx, &storage.Query{Prefix: s.prefix})
	var refs []FileRef
	for len(refs) < SearchLimit {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("search %q: %w", term, err)
		}
		name := strings.TrimPrefix(attrs.Name, s.prefix)
		if strings.Contains(name, "/") || !strings.HasSuffix(name, ".json") {
			continue
		}
		if strings.Contains(name, term) {
			refs = append(refs, FileRef{ID: name, Name: name})
		}
	}
	return refs, nil
}

func (s *GCSStore) Photo(ctx context.Context, id, name string) (*Photo, error) {
	if !strings.HasPrefix(name, photoPrefix(id)) || strings.ContainsAny(name, `/\`) {
		return nil, fmt.Errorf("%w: photo %s", ErrNotFound, name)
	}
	data, ct, err := s.read(ctx, name)
	if err != nil {
		return nil, err
	}
	return &Photo{Name: name, ContentType: ct, Data: data}, nil
}

func (s *GCSStore) object(name string) *storage.ObjectHandle {
	return s.client.Bucket(s.bucket).Object(s.prefix + name)
}

func (s *GCSStore) write(ctx context.Context, name, contentType, revision string, data []byte) error {
	w := s.object(name).NewWriter(ctx)
	// Quotes and photos fit in one request.
	w.ChunkSize = 0
	w.ContentType = contentType
	w.Metadata = map[string]string{revisionKey: revision}
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

// read returns an object's bytes and content type.
func (s *GCSStore) read(ctx context.Context, name string) ([]byte, string, error) {
	r, err := s.object(name).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, "", fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, "", fmt.Errorf("open %s: %w", name, err)
	}
	defer r.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, "", fmt.Errorf("read %s: %w", name, err)
	}
	return data, r.Attrs.ContentType, nil
}

// photoObjects lists photo names of a quote. When revision is set only
// photos written with that revision are returned.
func (s *GCSStore) photoObjects(ctx context.Context, quoteName, revision string) ([]string, error) {
	q := &storage.Query{Prefix: s.prefix + photoPrefix(quoteName)}
	it := s.client.Bucket(s.bucket).Objects(ctx, q)
	var names []string
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list photos of %s: %w", quoteName, err)
		}
		if revision != "" && attrs.Metadata[revisionKey] != revision {
			continue
		}
		names = append(names, strings.TrimPrefix(attrs.Name, s.prefix))
	}
	sort.Strings(names)
	return names, nil
}

func (s *GCSStore) deletePhotos(ctx context.Context, quoteName string) error {
	names, err := s.photoObjects(ctx, quoteName, "")
	if err != nil {
		return err
	}
	for _, n := range names {
		if err := s.object(n).Delete(ctx); err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
			return fmt.Errorf("delete photo %s: %w", n, err)
		}
	}
	return nil
}

func photoPrefix(quoteName string) string {
	return strings.TrimSuffix(quoteName, ".json") + "_사진"
}
