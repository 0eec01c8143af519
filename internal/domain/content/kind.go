package content

import (
	"strings"

	"popularity-engine/internal/pkg/errs"
)

var ErrInvalidKind = errs.New("invalid content kind")

type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
	KindMusic Kind = "music"
)

func AllKinds() []Kind {
	return []Kind{KindImage, KindVideo, KindMusic}
}

func (k Kind) String() string {
	return string(k)
}

func (k Kind) IsValid() bool {
	switch k {
	case KindImage, KindVideo, KindMusic:
		return true
	default:
		return false
	}
}

// HasViews reports whether the kind carries a view counter at all. Only video does.
func (k Kind) HasViews() bool {
	return k == KindVideo
}

func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if !k.IsValid() {
		return "", ErrInvalidKind
	}
	return k, nil
}
