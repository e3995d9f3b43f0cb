package collections

import (
	"fmt"

	"github.com/pocketbase/pocketbase/core"
	"go.uber.org/zap"
)

// QuotesCollection holds saved quotes.
const QuotesCollection = "quotes"

// PhotoMimeTypes are the image types accepted for quote photos.
var PhotoMimeTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

// Setup programmatically creates/ensures the quotes collection exists.
func Setup(app core.App, logger *zap.Logger) error {
	_, err := ensureCollection(app, logger, QuotesCollection, func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "name", Required: true, Max: 64})
		c.Fields.Add(&core.JSONField{Name: "state", MaxSize: 1 << 20})
		c.Fields.Add(&core.FileField{
			Name:      "photos",
			MaxSelect: 5,
			MaxSize:   10 << 20,
			MimeTypes: PhotoMimeTypes,
		})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
		c.AddIndex("idx_quotes_name", true, "name", "")
	})
	return err
}

// ensureCollection checks if a collection already exists by name. If it does,
// the existing collection is returned. Otherwise a new base collection is
// created, the addFields callback is invoked to populate its fields, and the
// collection is saved.
func ensureCollection(app core.App, logger *zap.Logger, name string, addFields func(*core.Collection)) (*core.Collection, error) {
	existing, err := app.FindCollectionByNameOrId(name)
	if err == nil && existing != nil {
		logger.Debug("collection already exists", zap.String("collection", name))
		return existing, nil
	}

	collection := core.NewBaseCollection(name)
	addFields(collection)

	if err := app.Save(collection); err != nil {
		return nil, fmt.Errorf("create collection %q: %w", name, err)
	}

	logger.Info("created collection", zap.String("collection", name), zap.String("id", collection.Id))
	return collection, nil
}
