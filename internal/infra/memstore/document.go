package memstore

import (
	"time"

	"popularity-engine/internal/domain/boost"
	"popularity-engine/internal/domain/content"
	"popularity-engine/internal/pkg/errs"

	"github.com/google/uuid"
)

const (
	fieldID               = "_id"
	fieldCreatedAt        = "createdAt"
	fieldClicks           = "clicks"
	fieldLikes            = "likes"
	fieldLikesCount       = "likesCount"
	fieldViews            = "views"
	fieldCompleteness     = "completenessScore"
	fieldMetadata         = "metadata"
	fieldInitialBoost     = "initialBoost"
	fieldBoostActivatedAt = "boostActivatedAt"
	fieldBoostExpiresAt   = "boostExpiresAt"
	fieldBoostKind        = "boostKind"
	fieldStoredScore      = "storedScore"
)

var ErrMalformedDocument = errs.New("malformed content document")

// encodeItem writes item over base so fields this service does not own survive a save.
func encodeItem(base content.Document, item *content.Item) content.Document {
	doc := make(content.Document, len(base)+12)
	for k, v := range base {
		doc[k] = v
	}

	raw := item.Raw()
	b := item.Boost()
	doc[fieldID] = item.ID().String()
	doc[content.OwnerResolverFor(item.Kind()).Field()] = item.OwnerID().String()
	doc[fieldCreatedAt] = item.CreatedAt()
	doc[fieldClicks] = raw.Clicks
	doc[fieldLikesCount] = raw.LikesCount
	doc[fieldViews] = raw.Views
	doc[fieldCompleteness] = raw.CompletenessScore
	doc[fieldMetadata] = map[string]string(item.Metadata())
	doc[fieldStoredScore] = item.StoredScore()
	doc[fieldInitialBoost] = b.Initial()
	if raw.Likes != nil {
		doc[fieldLikes] = append([]string{}, raw.Likes...)
	} else {
		delete(doc, fieldLikes)
	}
	setTime(doc, fieldBoostActivatedAt, b.ActivatedAt())
	setTime(doc, fieldBoostExpiresAt, b.ExpiresAt())
	if k := b.Kind(); k != nil {
		doc[fieldBoostKind] = k.String()
	} else {
		delete(doc, fieldBoostKind)
	}
	return doc
}

func decodeItem(kind content.Kind, doc content.Document) (*content.Item, error) {
	id, ok := asUUID(doc[fieldID])
	if !ok {
		return nil, errs.Wrap(ErrMalformedDocument, "missing _id")
	}
	owner, ok := content.OwnerResolverFor(kind).Resolve(doc)
	if !ok {
		return nil, errs.Wrapf(ErrMalformedDocument, "item %s has no owner", id)
	}
	createdAt, ok := asTime(doc[fieldCreatedAt])
	if !ok {
		return nil, errs.Wrapf(ErrMalformedDocument, "item %s has no createdAt", id)
	}

	raw := content.RawEngagement{
		Clicks:            asInt(doc[fieldClicks]),
		Likes:             asStrings(doc[fieldLikes]),
		LikesCount:        asInt(doc[fieldLikesCount]),
		Views:             asInt(doc[fieldViews]),
		CompletenessScore: asInt(doc[fieldCompleteness]),
	}

	var boostKind *boost.Kind
	if s, ok := doc[fieldBoostKind].(string); ok {
		if k, err := boost.ParseKind(s); err == nil {
			boostKind = &k
		}
	}
	b := boost.Reconstruct(
		asFloat(doc[fieldInitialBoost]),
		timePtr(doc[fieldBoostActivatedAt]),
		timePtr(doc[fieldBoostExpiresAt]),
		boostKind,
	)

	return content.ReconstructItem(
		id,
		kind,
		owner,
		createdAt,
		raw,
		asMetadata(doc[fieldMetadata]),
		b,
		asFloat(doc[fieldStoredScore]),
	), nil
}

func setTime(doc content.Document, field string, t *time.Time) {
	if t == nil {
		delete(doc, field)
		return
	}
	doc[field] = *t
}

func asUUID(v any) (uuid.UUID, bool) {
	switch t := v.(type) {
	case uuid.UUID:
		return t, true
	case string:
		id, err := uuid.Parse(t)
		return id, err == nil
	default:
		return uuid.Nil, false
	}
}

func asTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case *time.Time:
		if t == nil {
			return time.Time{}, false
		}
		return *t, true
	case string:
		parsed, err := time.Parse(time.RFC3339Nano, t)
		return parsed, err == nil
	default:
		return time.Time{}, false
	}
}

func timePtr(v any) *time.Time {
	t, ok := asTime(v)
	if !ok {
		return nil
	}
	return &t
}

// asInt accepts the numeric shapes a decoded JSON or BSON document may carry.
func asInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int32:
		return int(n)
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		return 0
	}
}

func asFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	default:
		return 0
	}
}

func asStrings(v any) []string {
	switch s := v.(type) {
	case []string:
		return append([]string{}, s...)
	case []any:
		out := make([]string, 0, len(s))
		for _, e := range s {
			if str, ok := e.(string); ok {
				out = append(out, str)
			}
		}
		return out
	default:
		return nil
	}
}

func asMetadata(v any) content.Metadata {
	switch m := v.(type) {
	case map[string]string:
		return content.Metadata(m).Clone()
	case content.Metadata:
		return m.Clone()
	case map[string]any:
		out := make(content.Metadata, len(m))
		for k, e := range m {
			if s, ok := e.(string); ok {
				out[k] = s
			}
		}
		return out
	default:
		return content.Metadata{}
	}
}
