package identifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		in, want string
		kind     Kind
	}{
		{"  Ana.Perez@ACME.co ", "ana.perez@acme.co", KindEmail},
		{"+57 300-123-4567", "+573001234567", KindPhone},
		{"(300) 1234567", "3001234567", KindPhone},
		{"EMP-0042", "emp-0042", KindEmployeeCode},
		{"12345", "12345", KindEmployeeCode},
		{"STRASSE", "strasse", KindEmployeeCode},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.kind, Detect(tc.in), tc.in)
		assert.Equal(t, tc.want, Normalize(tc.in), tc.in)
	}
}

func TestNormalize_MismaLlaveSinImportarMayusculas(t *testing.T) {
	assert.Equal(t, Normalize("JUAN@Acme.CO"), Normalize("juan@acme.co"))
	assert.Equal(t, Normalize("Emp-7"), Normalize("EMP-7"))
}

func TestNormalizePtr(t *testing.T) {
	assert.Nil(t, NormalizePtr(nil))
	empty := "   "
	assert.Nil(t, NormalizePtr(&empty))
	v := "X@Y.Z"
	got := NormalizePtr(&v)
	if assert.NotNil(t, got) {
		assert.Equal(t, "x@y.z", *got)
	}
}
