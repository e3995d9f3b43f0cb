// Package store persists saved quotes and their photos. Quotes are flat
// JSON records addressed by a file name derived from the move date and the
// customer's phone number; backends are PocketBase, Google Drive and GCS.
package store

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"movequote/services"
)

var (
	ErrNotFound    = errors.New("quote not found")
	ErrInvalidName = errors.New("invalid quote name")
)

// MaxPhotos is the number of images kept per quote.
const MaxPhotos = services.MaxPhotos

// SearchLimit caps the number of search results.
const SearchLimit = 100

// SaveStatus tells whether a save created or replaced a quote.
type SaveStatus string

const (
	StatusCreated SaveStatus = "created"
	StatusUpdated SaveStatus = "updated"
)

// Photo is an image attached to a quote.
type Photo struct {
	Name        string
	ContentType string
	Data        []byte
}

type SaveResult struct {
	ID         string
	Name       string
	Status     SaveStatus
	PhotoNames []string
}

// FileRef identifies a stored quote in search results.
type FileRef struct {
	ID   string
	Name string
}

// Stored is a loaded quote: the JSON record and its photos in saved order.
type Stored struct {
	ID     string
	Name   string
	Data   []byte
	Photos []Photo
}

// QuoteStore is implemented by every backend.
type QuoteStore interface {
	// Save writes data under name, replacing any quote with the same name.
	// When photos is non-empty they replace the stored photos; their names
	// must come from NamePhotos.
	Save(ctx context.Context, name string, data []byte, photos []Photo) (SaveResult, error)
	Load(ctx context.Context, id string) (*Stored, error)
	// Search does a case-sensitive substring match on quote names.
	Search(ctx context.Context, term string) ([]FileRef, error)
	// Photo returns one stored photo of a quote.
	Photo(ctx context.Context, id, name string) (*Photo, error)
}

// QuoteBaseName builds "YYMMDD-NNNN" from the date in loc and the last
// four digits of phone.
func QuoteBaseName(phone string, now time.Time, loc *time.Location) (string, error) {
	digits := services.PhoneDigits(phone)
	if len(digits) < 4 {
		return "", fmt.Errorf("%w: phone %q has fewer than 4 digits", ErrInvalidName, phone)
	}
	if loc != nil {
		now = now.In(loc)
	}
	return now.Format("060102") + "-" + digits[len(digits)-4:], nil
}

// QuoteFileName is QuoteBaseName with the .json extension.
func QuoteFileName(phone string, now time.Time, loc *time.Location) (string, error) {
	base, err := QuoteBaseName(phone, now, loc)
	if err != nil {
		return "", err
	}
	return base + ".json", nil
}

// PhotoName names the n-th photo (1-based) of a quote.
func PhotoName(quoteName string, n int, original string) string {
	ext := strings.ToLower(path.Ext(original))
	if ext == "" {
		ext = ".png"
	}
	return fmt.Sprintf("%s_사진%d%s", strings.TrimSuffix(quoteName, ".json"), n, ext)
}

// ValidateName rejects names that are empty, contain path separators or do
// not end in .json.
func ValidateName(name string) error {
	if name == "" || strings.ContainsAny(name, `/\`) || !strings.HasSuffix(name, ".json") {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// NamePhotos assigns stored names to uploaded photos, keeping at most
// MaxPhotos. The input names are the original upload names.
func NamePhotos(quoteName string, photos []Photo) []Photo {
	if len(photos) > MaxPhotos {
		photos = photos[:MaxPhotos]
	}
	out := make([]Photo, len(photos))
	for i, p := range photos {
		out[i] = Photo{
			Name:        PhotoName(quoteName, i+1, p.Name),
			ContentType: p.ContentType,
			Data:        p.Data,
		}
	}
	return out
}

func photoNames(photos []Photo) []string {
	names := make([]string, len(photos))
	for i, p := range photos {
		names[i] = p.Name
	}
	return names
}

func contentTypeFor(name string) string {
	switch strings.ToLower(path.Ext(name)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "image/png"
	}
}
