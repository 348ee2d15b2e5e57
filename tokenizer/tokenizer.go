// Package tokenizer implements the fixed nucleotide vocabulary and padded batch assembly
package tokenizer

import "strings"

// Token ids of the fixed vocabulary. The vocabulary is closed: every
// nucleotide sequence maps onto PAD/UNK/CLS plus the five sequence symbols.
const (
	PAD = 0
	UNK = 1
	CLS = 2
	A   = 3
	C   = 4
	G   = 5
	T   = 6
	N   = 7
)

// VocabSize is the number of distinct token ids
const VocabSize = 8

var symToID = map[byte]int{
	'A': A,
	'C': C,
	'G': G,
	'T': T,
	'N': N,
}

var idToSym = [VocabSize]byte{'_', '?', '^', 'A', 'C', 'G', 'T', 'N'}

// Tokenizer encodes nucleotide strings into fixed-length padded windows
type Tokenizer struct {
	Window int
}

// New returns a tokenizer producing windows of the given length (CLS included)
func New(window int) Tokenizer {
	if window < 2 {
		panic("tokenizer: window must fit CLS plus at least one symbol")
	}
	return Tokenizer{Window: window}
}

// Encode maps a sequence onto token ids and an attention mask of Window length.
// The sequence is upper-cased, prefixed with CLS, truncated to the window and
// right-padded with PAD. Mask entries are 1 for real tokens and 0 for padding.
func (t Tokenizer) Encode(seq string) (ids []int, mask []float64) {
	seq = strings.ToUpper(seq)
	ids = make([]int, t.Window)
	mask = make([]float64, t.Window)
	ids[0] = CLS
	mask[0] = 1
	pos := 1
	for i := 0; i < len(seq) && pos < t.Window; i++ {
		id, ok := symToID[seq[i]]
		if !ok {
			id = UNK
		}
		ids[pos] = id
		mask[pos] = 1
		pos++
	}
	for ; pos < t.Window; pos++ {
		ids[pos] = PAD
	}
	return ids, mask
}

// Decode maps token ids back onto their display symbols, skipping padding
func (t Tokenizer) Decode(ids []int) string {
	var sb strings.Builder
	for _, id := range ids {
		if id == PAD || id == CLS {
			continue
		}
		if id >= 0 && id < VocabSize {
			sb.WriteByte(idToSym[id])
		}
	}
	return sb.String()
}

// Batch is one tokenized mini-batch. It lives for a single training or
// scoring step and is discarded afterwards.
type Batch struct {
	IDs  [][]int
	Mask [][]float64
}

// Size returns the number of rows in the batch
func (b Batch) Size() int {
	return len(b.IDs)
}

// EncodeBatch tokenizes a slice of sequences into one padded batch
func (t Tokenizer) EncodeBatch(seqs []string) Batch {
	b := Batch{
		IDs:  make([][]int, len(seqs)),
		Mask: make([][]float64, len(seqs)),
	}
	for i, s := range seqs {
		b.IDs[i], b.Mask[i] = t.Encode(s)
	}
	return b
}
