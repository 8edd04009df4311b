package playlist

import (
	"github.com/khoahotran/virtual-study-partner/internal/domain/catalog"
	"github.com/khoahotran/virtual-study-partner/internal/domain/document"
)

const (
	Collection = "playlists"

	FieldName        = "name"
	FieldDescription = "description"
)

type Playlist struct {
	Name        any
	Description any
	Extra       document.Document
}

func (p *Playlist) fields() map[string]any {
	return map[string]any{FieldName: p.Name, FieldDescription: p.Description}
}

func (p *Playlist) Validate() error {
	return catalog.Require(p.fields(), FieldName, FieldDescription)
}

func (p *Playlist) Document() document.Document {
	return catalog.Join(p.fields(), p.Extra)
}

func FromDocument(doc document.Document) *Playlist {
	fields, extra := catalog.Split(doc, FieldName, FieldDescription)
	return &Playlist{
		Name:        fields[FieldName],
		Description: fields[FieldDescription],
		Extra:       extra,
	}
}

type Repository = catalog.Repository[*Playlist]

var Kind = catalog.Kind[*Playlist]{
	Collection:     Collection,
	Noun:           "Playlist",
	Required:       []string{FieldName, FieldDescription},
	MissingMessage: "Name and description are required",
	Decode:         FromDocument,
}
