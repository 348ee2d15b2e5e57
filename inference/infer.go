// Package inference implements the float scoring stage: sequence embeddings
// and variant effect scores from frozen or adapter-merged weights.
package inference

import (
	"math"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/neurlang/genetune/datasets/brca"
	"github.com/neurlang/genetune/model"
	"github.com/neurlang/genetune/net/projection"
	"github.com/neurlang/genetune/parallel"
	"github.com/neurlang/genetune/tokenizer"
)

// Embedder scores sequences with an encoder and an optional projection head.
// Build it from the frozen encoder for the baseline, or from
// Encoder.Merge(adapter) plus the tuned head for the fine-tuned model.
type Embedder struct {
	enc     *model.Encoder
	head    *projection.Head
	tok     tokenizer.Tokenizer
	threads int
}

// NewEmbedder wires an embedder. head may be nil, in which case the pooled
// hidden state itself is the embedding. threads bounds EmbedAll parallelism.
func NewEmbedder(enc *model.Encoder, head *projection.Head, threads int) (*Embedder, error) {
	if head != nil && head.Hidden != enc.Cfg.Hidden {
		return nil, errors.Errorf("inference: head expects hidden %d, encoder has %d", head.Hidden, enc.Cfg.Hidden)
	}
	if threads < 1 {
		threads = 1
	}
	return &Embedder{
		enc:     enc,
		head:    head,
		tok:     tokenizer.New(enc.Cfg.Window),
		threads: threads,
	}, nil
}

// Embed returns the embedding of one sequence
func (e *Embedder) Embed(seq string) []float64 {
	ids, mask := e.tok.Encode(seq)
	pooled := e.enc.Embed(ids, mask)
	if e.head == nil {
		return pooled
	}
	return e.head.Forward(pooled)
}

// EmbedAll embeds sequences with bounded parallelism
func (e *Embedder) EmbedAll(seqs []string) [][]float64 {
	out := make([][]float64, len(seqs))
	parallel.ForEach(len(seqs), e.threads, func(i int) {
		out[i] = e.Embed(seqs[i])
	})
	return out
}

func l2dist(a, b []float64) float64 {
	s := 0.0
	for i := range a {
		d := a[i] - b[i]
		s += d * d
	}
	return math.Sqrt(s)
}

// windows cuts the reference and alternate context around one variant.
// Positions are 1-based; the window is the encoder window minus the CLS slot,
// centered on the variant.
func (e *Embedder) windows(reference string, v brca.Variant) (refCtx, altCtx string, err error) {
	pos := v.Position - 1
	if pos < 0 || pos >= len(reference) {
		return "", "", errors.Errorf("inference: variant position %d outside reference of length %d", v.Position, len(reference))
	}
	if reference[pos] != v.Ref[0] {
		log.Warn().
			Int("pos", v.Position).
			Str("ref", v.Ref).
			Str("reference_base", string(reference[pos])).
			Msg("variant ref allele disagrees with reference sequence")
	}
	span := e.enc.Cfg.Window - 1
	half := span / 2
	lo := pos - half
	if lo < 0 {
		lo = 0
	}
	hi := lo + span
	if hi > len(reference) {
		hi = len(reference)
		if lo = hi - span; lo < 0 {
			lo = 0
		}
	}
	refCtx = reference[lo:hi]
	alt := []byte(refCtx)
	alt[pos-lo] = v.Alt[0]
	return refCtx, string(alt), nil
}

// ScoreVariants computes one effect score per variant: the distance between
// the embeddings of the reference-allele and alternate-allele windows. Higher
// means the substitution moved the representation further.
func (e *Embedder) ScoreVariants(reference string, vs []brca.Variant) ([]float64, error) {
	seqs := make([]string, 0, 2*len(vs))
	for _, v := range vs {
		refCtx, altCtx, err := e.windows(reference, v)
		if err != nil {
			return nil, err
		}
		seqs = append(seqs, refCtx, altCtx)
	}
	embs := e.EmbedAll(seqs)
	scores := make([]float64, len(vs))
	for i := range vs {
		scores[i] = l2dist(embs[2*i], embs[2*i+1])
	}
	return scores, nil
}
