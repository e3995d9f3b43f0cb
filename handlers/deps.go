package handlers

import (
	"time"

	"github.com/pocketbase/pocketbase/core"
	"go.uber.org/zap"

	"movequote/catalog"
	"movequote/services"
	"movequote/store"
)

// Deps is shared by the quote handlers.
type Deps struct {
	Catalog  *catalog.Catalog
	Store    store.QuoteStore
	Logger   *zap.Logger
	Location *time.Location
	// Now defaults to time.Now.
	Now func() time.Time
	PDF services.PDFOptions
}

func (d *Deps) now() time.Time {
	now := time.Now
	if d.Now != nil {
		now = d.Now
	}
	if d.Location != nil {
		return now().In(d.Location)
	}
	return now()
}

func (d *Deps) today() time.Time {
	y, m, day := d.now().Date()
	return time.Date(y, m, day, 0, 0, 0, 0, d.now().Location())
}

// log returns the request-scoped logger when the middleware set one.
func (d *Deps) log(e *core.RequestEvent) *zap.Logger {
	fallback := d.Logger
	if fallback == nil {
		fallback = zap.NewNop()
	}
	return LoggerFrom(e.Request, fallback)
}
