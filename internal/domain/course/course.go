package course

import (
	"github.com/khoahotran/virtual-study-partner/internal/domain/catalog"
	"github.com/khoahotran/virtual-study-partner/internal/domain/document"
)

const (
	Collection = "courses"

	FieldTitle       = "title"
	FieldDescription = "description"
)

// Course keeps the caller's values as sent; title and description are
// usually strings but nothing requires it.
type Course struct {
	Title       any
	Description any
	// Extra holds every other field the caller sent.
	Extra document.Document
}

func (c *Course) fields() map[string]any {
	return map[string]any{FieldTitle: c.Title, FieldDescription: c.Description}
}

func (c *Course) Validate() error {
	return catalog.Require(c.fields(), FieldTitle, FieldDescription)
}

func (c *Course) Document() document.Document {
	return catalog.Join(c.fields(), c.Extra)
}

func FromDocument(doc document.Document) *Course {
	fields, extra := catalog.Split(doc, FieldTitle, FieldDescription)
	return &Course{
		Title:       fields[FieldTitle],
		Description: fields[FieldDescription],
		Extra:       extra,
	}
}

type Repository = catalog.Repository[*Course]

var Kind = catalog.Kind[*Course]{
	Collection:     Collection,
	Noun:           "Course",
	Required:       []string{FieldTitle, FieldDescription},
	MissingMessage: "Title and description are required",
	Decode:         FromDocument,
}
