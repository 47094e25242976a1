package relatives

import (
	"fmt"
	"strings"
)

// Kind labels a directed relation edge. The set is closed; every kind has
// exactly one reverse kind in reverseKinds.
type Kind string

const (
	KindParent      Kind = "PARENT"
	KindChild       Kind = "CHILD"
	KindSibling     Kind = "SIBLING"
	KindSpouse      Kind = "SPOUSE"
	KindGrandparent Kind = "GRANDPARENT"
	KindGrandchild  Kind = "GRANDCHILD"
	KindAuntUncle   Kind = "AUNT_UNCLE"
	KindNieceNephew Kind = "NIECE_NEPHEW"
	KindCousin      Kind = "COUSIN"
)

// kindOrder is the declaration order used for listings.
var kindOrder = []Kind{
	KindParent,
	KindChild,
	KindSibling,
	KindSpouse,
	KindGrandparent,
	KindGrandchild,
	KindAuntUncle,
	KindNieceNephew,
	KindCousin,
}

// reverseKinds is the only place reverse pairs are defined. Adding a kind
// means adding it here, to kindOrder, and to the relatives_kind_check
// constraint.
var reverseKinds = map[Kind]Kind{
	KindParent:      KindChild,
	KindChild:       KindParent,
	KindGrandparent: KindGrandchild,
	KindGrandchild:  KindGrandparent,
	KindAuntUncle:   KindNieceNephew,
	KindNieceNephew: KindAuntUncle,
	KindSibling:     KindSibling,
	KindSpouse:      KindSpouse,
	KindCousin:      KindCousin,
}

// ReverseOf returns the kind that labels the opposite edge. Self-paired kinds
// return themselves. Kinds outside the enumeration yield "".
func ReverseOf(k Kind) Kind {
	return reverseKinds[k]
}

// Valid reports whether k belongs to the enumeration.
func (k Kind) Valid() bool {
	_, ok := reverseKinds[k]
	return ok
}

func (k Kind) String() string {
	return string(k)
}

// ParseKind accepts any casing and surrounding whitespace.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToUpper(strings.TrimSpace(s)))
	if !k.Valid() {
		return "", fmt.Errorf("unknown relation kind %q", s)
	}
	return k, nil
}

// AllKinds returns every kind in declaration order.
func AllKinds() []Kind {
	out := make([]Kind, len(kindOrder))
	copy(out, kindOrder)
	return out
}
