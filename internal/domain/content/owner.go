package content

import (
	"github.com/google/uuid"
)

// Document is a raw stored record as the document store returns it.
type Document map[string]any

// OwnerResolver knows where a content kind keeps its uploader. Images predate the
// shared schema and store the owner under user/userId; video and music use author.
type OwnerResolver interface {
	// Field is the canonical field (and column) name written for this kind.
	Field() string
	Resolve(doc Document) (uuid.UUID, bool)
}

type fieldOwnerResolver struct {
	fields []string
}

func (r fieldOwnerResolver) Field() string {
	return r.fields[0]
}

func (r fieldOwnerResolver) Resolve(doc Document) (uuid.UUID, bool) {
	for _, f := range r.fields {
		v, ok := doc[f]
		if !ok || v == nil {
			continue
		}
		if id, ok := asUUID(v); ok {
			return id, true
		}
	}
	return uuid.Nil, false
}

var (
	imageOwner  OwnerResolver = fieldOwnerResolver{fields: []string{"user", "userId"}}
	authorOwner OwnerResolver = fieldOwnerResolver{fields: []string{"author"}}
)

func OwnerResolverFor(kind Kind) OwnerResolver {
	if kind == KindImage {
		return imageOwner
	}
	return authorOwner
}

func asUUID(v any) (uuid.UUID, bool) {
	switch t := v.(type) {
	case uuid.UUID:
		return t, t != uuid.Nil
	case string:
		id, err := uuid.Parse(t)
		if err != nil || id == uuid.Nil {
			return uuid.Nil, false
		}
		return id, true
	default:
		return uuid.Nil, false
	}
}
