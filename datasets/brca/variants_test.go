package brca

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTable(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "variants.tsv")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeTable(t, "pos\tref\talt\tlabel\n"+
		"12\ta\tg\tPathogenic\n"+
		"40\tC\tT\tbenign\n")
	vs, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, vs, 2)
	assert.Equal(t, Variant{Position: 12, Ref: "A", Alt: "G", Label: "Pathogenic"}, vs[0])
	assert.Equal(t, []bool{true, false}, Classes(vs))
}

func TestLoadFileRejectsBadAllele(t *testing.T) {
	path := writeTable(t, "pos\tref\talt\tlabel\n5\tAC\tG\tBenign\n")
	_, err := LoadFile(path)
	assert.Error(t, err)
}

func TestLoadFileRejectsRefEqualsAlt(t *testing.T) {
	path := writeTable(t, "pos\tref\talt\tlabel\n5\tA\tA\tBenign\n")
	_, err := LoadFile(path)
	assert.Error(t, err)
}

func TestLoadFileRejectsUnknownLabel(t *testing.T) {
	path := writeTable(t, "pos\tref\talt\tlabel\n5\tA\tG\tmaybe\n")
	_, err := LoadFile(path)
	assert.Error(t, err)
}

func TestClassMapping(t *testing.T) {
	for label, want := range map[string]bool{
		"Pathogenic":        true,
		"likely_pathogenic": true,
		"Likely pathogenic": true,
		"Benign":            false,
		"likely_benign":     false,
	} {
		c, err := Variant{Label: label}.Class()
		require.NoError(t, err, label)
		assert.Equal(t, want, c, label)
	}
}
