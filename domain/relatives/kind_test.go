package relatives

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReverseOf_Involution(t *testing.T) {
	for _, k := range AllKinds() {
		t.Run(k.String(), func(t *testing.T) {
			rev := ReverseOf(k)
			require.True(t, rev.Valid(), "reverse of %s must be a known kind", k)
			assert.Equal(t, k, ReverseOf(rev))
		})
	}
}

func TestReverseOf_Pairs(t *testing.T) {
	tests := []struct {
		kind Kind
		want Kind
	}{
		{KindParent, KindChild},
		{KindChild, KindParent},
		{KindGrandparent, KindGrandchild},
		{KindAuntUncle, KindNieceNephew},
		{KindSibling, KindSibling},
		{KindSpouse, KindSpouse},
		{KindCousin, KindCousin},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ReverseOf(tt.kind), tt.kind)
	}
	assert.Equal(t, Kind(""), ReverseOf("FRIEND"))
}

func TestAllKinds_CoversRegistry(t *testing.T) {
	kinds := AllKinds()
	assert.Len(t, kinds, len(reverseKinds))
	for _, k := range kinds {
		assert.True(t, k.Valid())
	}

	kinds[0] = "MUTATED"
	assert.Equal(t, KindParent, AllKinds()[0], "callers get a copy")
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{in: "PARENT", want: KindParent},
		{in: " child ", want: KindChild},
		{in: "Niece_Nephew", want: KindNieceNephew},
		{in: "", wantErr: true},
		{in: "friend", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseKind(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
