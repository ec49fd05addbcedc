/*
Package gpc is a library for converting indexed-color images into the GPC
format used by the Fairytale/Cocktail Soft PC-98 engine.
*/
package gpc

import (
	"log"

	gpcimage "github.com/bodgit/gpc/image"
)

// Converter turns source images into GPC files, optionally caching the
// results in an AssetDB.
type Converter struct {
	db      *AssetDB
	logger  *log.Logger
	options gpcimage.Options
}

// New returns a Converter. db may be nil to disable caching.
func New(db *AssetDB, logger *log.Logger, o *gpcimage.Options) *Converter {
	c := &Converter{
		db:     db,
		logger: logger,
	}
	if o != nil {
		c.options = *o
	}
	return c
}
