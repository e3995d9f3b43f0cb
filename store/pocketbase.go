package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tools/filesystem"
	"github.com/pocketbase/pocketbase/tools/types"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"movequote/collections"
)

// PocketBaseStore keeps quotes as records of the quotes collection with the
// JSON record in a json field and the photos in a file field.
type PocketBaseStore struct {
	app    core.App
	logger *zap.Logger
}

func NewPocketBaseStore(app core.App, logger *zap.Logger) *PocketBaseStore {
	return &PocketBaseStore{app: app, logger: logger.Named("store.pocketbase")}
}

func (s *PocketBaseStore) Save(ctx context.Context, name string, data []byte, photos []Photo) (SaveResult, error) {
	if err := ValidateName(name); err != nil {
		return SaveResult{}, err
	}
	if err := ctx.Err(); err != nil {
		return SaveResult{}, err
	}

	col, err := s.app.FindCollectionByNameOrId(collections.QuotesCollection)
	if err != nil {
		return SaveResult{}, fmt.Errorf("find %s collection: %w", collections.QuotesCollection, err)
	}

	status := StatusUpdated
	record, err := s.app.FindFirstRecordByData(col, "name", name)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return SaveResult{}, fmt.Errorf("look up %s: %w", name, err)
		}
		record = core.NewRecord(col)
		record.Set("name", name)
		status = StatusCreated
	}
	record.Set("state", types.JSONRaw(data))

	if len(photos) > 0 {
		if len(photos) > MaxPhotos {
			photos = photos[:MaxPhotos]
		}
		files := make([]any, 0, len(photos))
		for _, p := range photos {
			f, err := filesystem.NewFileFromBytes(p.Data, p.Name)
			if err != nil {
				return SaveResult{}, fmt.Errorf("prepare photo %s: %w", p.Name, err)
			}
			// Keep the quote-derived name instead of the randomized one.
			f.Name = p.Name
			files = append(files, f)
		}
		record.Set("photos", files)
	}

	if err := s.app.Save(record); err != nil {
		return SaveResult{}, fmt.Errorf("save %s: %w", name, err)
	}

	s.logger.Info("quote saved",
		zap.String("name", name),
		zap.String("id", record.Id),
		zap.String("status", string(status)),
		zap.Int("photos", len(photos)),
	)

	names := photoNames(photos)
	if len(photos) == 0 {
		names = record.GetStringSlice("photos")
	}
	return SaveResult{ID: record.Id, Name: name, Status: status, PhotoNames: names}, nil
}

func (s *PocketBaseStore) Load(ctx context.Context, id string) (*Stored, error) {
	record, err := s.find(id)
	if err != nil {
		return nil, err
	}

	names := record.GetStringSlice("photos")
	photos := make([]Photo, len(names))

	if len(names) > 0 {
		fsys, err := s.app.NewFilesystem()
		if err != nil {
			return nil, fmt.Errorf("open filesystem: %w", err)
		}
		defer fsys.Close()

		g, gctx := errgroup.WithContext(ctx)
		for i, name := range names {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				p, err := readPhoto(fsys, record, name)
				if err != nil {
					return err
				}
				photos[i] = *p
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	return &Stored{
		ID:     record.Id,
		Name:   record.GetString("name"),
		Data:   recordState(record),
		Photos: photos,
	}, nil
}

func (s *PocketBaseStore) Search(ctx context.Context, term string) ([]FileRef, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	q := s.app.RecordQuery(collections.QuotesCollection).
		OrderBy("[[name]] ASC").
		Limit(SearchLimit)
	if term != "" {
		// instr is case-sensitive, unlike LIKE.
		q = q.AndWhere(dbx.NewExp("instr([[name]], {:term}) > 0", dbx.Params{"term": term}))
	}

	records := []*core.Record{}
	if err := q.WithContext(ctx).All(&records); err != nil {
		return nil, fmt.Errorf("search %q: %w", term, err)
	}

	refs := make([]FileRef, 0, len(records))
	for _, r := range records {
		refs = append(refs, FileRef{ID: r.Id, Name: r.GetString("name")})
	}
	return refs, nil
}

func (s *PocketBaseStore) Photo(ctx context.Context, id, name string) (*Photo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	record, err := s.find(id)
	if err != nil {
		return nil, err
	}
	if !slices.Contains(record.GetStringSlice("photos"), name) {
		return nil, fmt.Errorf("%w: photo %s", ErrNotFound, name)
	}

	fsys, err := s.app.NewFilesystem()
	if err != nil {
		return nil, fmt.Errorf("open filesystem: %w", err)
	}
	defer fsys.Close()

	return readPhoto(fsys, record, name)
}

func (s *PocketBaseStore) find(id string) (*core.Record, error) {
	record, err := s.app.FindRecordById(collections.QuotesCollection, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("find quote %s: %w", id, err)
	}
	return record, nil
}

func readPhoto(fsys *filesystem.System, record *core.Record, name string) (*Photo, error) {
	r, err := fsys.GetReader(record.BaseFilesPath() + "/" + name)
	if err != nil {
		return nil, fmt.Errorf("open photo %s: %w", name, err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read photo %s: %w", name, err)
	}
	return &Photo{Name: name, ContentType: contentTypeFor(name), Data: data}, nil
}

func recordState(record *core.Record) []byte {
	if raw, ok := record.Get("state").(types.JSONRaw); ok {
		return []byte(raw)
	}
	return []byte(record.GetString("state"))
}
