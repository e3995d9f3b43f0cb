package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const jsonContentType = "application/json"

// DriveStore keeps quotes as files of one Google Drive folder. Photos sit
// next to their quote file and are found by name prefix.
type DriveStore struct {
	svc      *drive.Service
	folderID string
	logger   *zap.Logger
}

// NewDriveStore connects to Drive with the given client options.
func NewDriveStore(ctx context.Context, folderID string, logger *zap.Logger, opts ...option.ClientOption) (*DriveStore, error) {
	if folderID == "" {
		return nil, errors.New("drive folder id is empty")
	}
	svc, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("drive service: %w", err)
	}
	return &DriveStore{svc: svc, folderID: folderID, logger: logger.Named("store.drive")}, nil
}

func (s *DriveStore) Save(ctx context.Context, name string, data []byte, photos []Photo) (SaveResult, error) {
	if err := ValidateName(name); err != nil {
		return SaveResult{}, err
	}

	existing, err := s.findByName(ctx, name)
	if err != nil {
		return SaveResult{}, err
	}

	var id string
	status := StatusCreated
	if existing != nil {
		status = StatusUpdated
		f, err := s.svc.Files.Update(existing.Id, &drive.File{}).
			Media(bytes.NewReader(data), googleapi.ContentType(jsonContentType)).
			Fields("id").
			Context(ctx).
			Do()
		if err != nil {
			return SaveResult{}, fmt.Errorf("update %s: %w", name, err)
		}
		id = f.Id
	} else {
		f, err := s.create(ctx, name, jsonContentType, data)
		if err != nil {
			return SaveResult{}, err
		}
		id = f.Id
	}

	names, err := s.replacePhotos(ctx, name, photos)
	if err != nil {
		return SaveResult{}, err
	}

	s.logger.Info("quote saved",
		zap.String("name", name),
		zap.String("id", id),
		zap.String("status", string(status)),
		zap.Int("photos", len(names)),
	)
	return SaveResult{ID: id, Name: name, Status: status, PhotoNames: names}, nil
}

func (s *DriveStore) Load(ctx context.Context, id string) (*Stored, error) {
	meta, err := s.svc.Files.Get(id).Fields("id", "name").Context(ctx).Do()
	if err != nil {
		return nil, wrapDriveErr(err, id)
	}
	data, err := s.download(ctx, meta.Id)
	if err != nil {
		return nil, err
	}

	files, err := s.photoFiles(ctx, meta.Name)
	if err != nil {
		return nil, err
	}
	photos := make([]Photo, len(files))
	g, gctx := errgroup.WithContext(ctx)
	for i, f := range files {
		g.Go(func() error {
			b, err := s.download(gctx, f.Id)
			if err != nil {
				return err
			}
			photos[i] = Photo{Name: f.Name, ContentType: contentTypeFor(f.Name), Data: b}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Stored{ID: meta.Id, Name: meta.Name, Data: data, Photos: photos}, nil
}

func (s *DriveStore) Search(ctx context.Context, term string) ([]FileRef, error) {
	q := fmt.Sprintf("'%s' in parents and trashed = false and mimeType = '%s'", escapeQuery(s.folderID), jsonContentType)

	var refs []FileRef
	err := s.svc.Files.List().
		Q(q).
		Fields("nextPageToken", "files(id, name)").
		OrderBy("name").
		PageSize(SearchLimit).
		Pages(ctx, func(page *drive.FileList) error {
			for _, f := range page.Files {
				if len(refs) == SearchLimit {
					return errStopPaging
				}
				if strings.HasSuffix(f.Name, ".json") && strings.Contains(f.Name, term) {
					refs = append(refs, FileRef{ID: f.Id, Name: f.Name})
				}
			}
			return nil
		})
	if err != nil && !errors.Is(err, errStopPaging) {
		return nil, fmt.Errorf("search %q: %w", term, err)
	}
	return refs, nil
}

func (s *DriveStore) Photo(ctx context.Context, id, name string) (*Photo, error) {
	meta, err := s.svc.Files.Get(id).Fields("id", "name").Context(ctx).Do()
	if err != nil {
		return nil, wrapDriveErr(err, id)
	}
	files, err := s.photoFiles(ctx, meta.Name)
	if err != nil {
		return nil, err
	}
	for _, f := range files {
		if f.Name != name {
			continue
		}
		data, err := s.download(ctx, f.Id)
		if err != nil {
			return nil, err
		}
		return &Photo{Name: f.Name, ContentType: contentTypeFor(f.Name), Data: data}, nil
	}
	return nil, fmt.Errorf("%w: photo %s", ErrNotFound, name)
}

var errStopPaging = errors.New("stop paging")

func (s *DriveStore) findByName(ctx context.Context, name string) (*drive.File, error) {
	q := fmt.Sprintf("name = '%s' and '%s' in parents and trashed = false", escapeQuery(name), escapeQuery(s.folderID))
	list, err := s.svc.Files.List().Q(q).Fields("files(id, name)").PageSize(1).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("look up %s: %w", name, err)
	}
	if len(list.Files) == 0 {
		return nil, nil
	}
	return list.Files[0], nil
}

// photoFiles lists the photos of a quote ordered by name.
func (s *DriveStore) photoFiles(ctx context.Context, quoteName string) ([]*drive.File, error) {
	prefix := photoPrefix(quoteName)
	q := fmt.Sprintf("name contains '%s' and '%s' in parents and trashed = false", escapeQuery(prefix), escapeQuery(s.folderID))
	list, err := s.svc.Files.List().Q(q).Fields("files(id, name)").PageSize(100).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("list photos of %s: %w", quoteName, err)
	}
	var files []*drive.File
	for _, f := range list.Files {
		if strings.HasPrefix(f.Name, prefix) {
			files = append(files, f)
		}
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

// replacePhotos deletes the stored photos of a quote and uploads the new
// ones. Nothing changes when photos is empty.
func (s *DriveStore) replacePhotos(ctx context.Context, quoteName string, photos []Photo) ([]string, error) {
	if len(photos) == 0 {
		return nil, nil
	}
	if len(photos) > MaxPhotos {
		photos = photos[:MaxPhotos]
	}

	old, err := s.photoFiles(ctx, quoteName)
	if err != nil {
		return nil, err
	}
	for _, f := range old {
		if err := s.svc.Files.Delete(f.Id).Context(ctx).Do(); err != nil {
			return nil, fmt.Errorf("delete photo %s: %w", f.Name, err)
		}
	}

	for _, p := range photos {
		ct := p.ContentType
		if ct == "" {
			ct = contentTypeFor(p.Name)
		}
		if _, err := s.create(ctx, p.Name, ct, p.Data); err != nil {
			return nil, err
		}
	}
	return photoNames(photos), nil
}

func (s *DriveStore) create(ctx context.Context, name, contentType string, data []byte) (*drive.File, error) {
	f, err := s.svc.Files.Create(&drive.File{Name: name, Parents: []string{s.folderID}, MimeType: contentType}).
		Media(bytes.NewReader(data), googleapi.ContentType(contentType)).
		Fields("id", "name").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", name, err)
	}
	return f, nil
}

func (s *DriveStore) download(ctx context.Context, id string) ([]byte, error) {
	resp, err := s.svc.Files.Get(id).Context(ctx).Download()
	if err != nil {
		return nil, wrapDriveErr(err, id)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", id, err)
	}
	return data, nil
}

func wrapDriveErr(err error, id string) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && gerr.Code == http.StatusNotFound {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return fmt.Errorf("drive file %s: %w", id, err)
}

// escapeQuery quotes a value for a Drive query string literal.
func escapeQuery(v string) string {
	return strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(v)
}
