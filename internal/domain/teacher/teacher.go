package teacher

import (
	"github.com/khoahotran/virtual-study-partner/internal/domain/catalog"
	"github.com/khoahotran/virtual-study-partner/internal/domain/document"
)

const (
	Collection = "teachers"

	FieldName    = "name"
	FieldSubject = "subject"
)

// Profile is a teacher listing, not a login account. Subject may be a
// single value or a list.
type Profile struct {
	Name    any
	Subject any
	Extra   document.Document
}

func (p *Profile) fields() map[string]any {
	return map[string]any{FieldName: p.Name, FieldSubject: p.Subject}
}

func (p *Profile) Validate() error {
	return catalog.Require(p.fields(), FieldName, FieldSubject)
}

func (p *Profile) Document() document.Document {
	return catalog.Join(p.fields(), p.Extra)
}

func FromDocument(doc document.Document) *Profile {
	fields, extra := catalog.Split(doc, FieldName, FieldSubject)
	return &Profile{
		Name:    fields[FieldName],
		Subject: fields[FieldSubject],
		Extra:   extra,
	}
}

type Repository = catalog.Repository[*Profile]

var Kind = catalog.Kind[*Profile]{
	Collection:     Collection,
	Noun:           "Teacher profile",
	Required:       []string{FieldName, FieldSubject},
	MissingMessage: "Name and subject are required",
	Decode:         FromDocument,
}
