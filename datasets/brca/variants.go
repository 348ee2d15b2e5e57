// Package brca implements the BRCA variant-pathogenicity benchmark table
package brca

import (
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"
)

// Variant is one row of the tabular variant file. Position is 1-based along
// the reference sequence the benchmark runs against.
type Variant struct {
	Position int    `csv:"pos"`
	Ref      string `csv:"ref"`
	Alt      string `csv:"alt"`
	Label    string `csv:"label"`
}

// Class maps the categorical label onto the binary pathogenicity class
func (v Variant) Class() (bool, error) {
	switch strings.ToLower(strings.TrimSpace(v.Label)) {
	case "pathogenic", "likely_pathogenic", "likely pathogenic":
		return true, nil
	case "benign", "likely_benign", "likely benign":
		return false, nil
	}
	return false, errors.Errorf("brca: unknown label %q", v.Label)
}

func validAllele(a string) bool {
	if len(a) != 1 {
		return false
	}
	switch a[0] {
	case 'A', 'C', 'G', 'T':
		return true
	}
	return false
}

// ReadAll parses tab-separated variant rows (with a header line) from r
func ReadAll(r io.Reader) ([]Variant, error) {
	var out []Variant
	gocsv.SetCSVReader(func(in io.Reader) gocsv.CSVReader {
		cr := csv.NewReader(in)
		cr.Comma = '\t'
		return cr
	})
	defer gocsv.SetCSVReader(gocsv.DefaultCSVReader)
	if err := gocsv.Unmarshal(r, &out); err != nil {
		return nil, errors.Wrap(err, "brca: parse variants")
	}
	return out, nil
}

// LoadFile reads and validates the variant table at path. SNVs only: ref and
// alt must each be a single A/C/G/T and must differ.
func LoadFile(path string) ([]Variant, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "brca: open %s", path)
	}
	defer f.Close()
	vs, err := ReadAll(f)
	if err != nil {
		return nil, err
	}
	for i, v := range vs {
		v.Ref = strings.ToUpper(v.Ref)
		v.Alt = strings.ToUpper(v.Alt)
		if !validAllele(v.Ref) || !validAllele(v.Alt) {
			return nil, errors.Errorf("brca: row %d: bad alleles %q>%q", i+1, v.Ref, v.Alt)
		}
		if v.Ref == v.Alt {
			return nil, errors.Errorf("brca: row %d: ref equals alt %q", i+1, v.Ref)
		}
		if v.Position < 1 {
			return nil, errors.Errorf("brca: row %d: bad position %d", i+1, v.Position)
		}
		if _, err := v.Class(); err != nil {
			return nil, errors.Wrapf(err, "brca: row %d", i+1)
		}
		vs[i] = v
	}
	if len(vs) == 0 {
		return nil, errors.Errorf("brca: no variants in %s", path)
	}
	return vs, nil
}

// Classes extracts the binary class vector from validated variants
func Classes(vs []Variant) []bool {
	out := make([]bool, len(vs))
	for i, v := range vs {
		c, err := v.Class()
		if err != nil {
			panic(err)
		}
		out[i] = c
	}
	return out
}
