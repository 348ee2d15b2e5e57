// Command infer_embedding embeds FASTA records with the tuned adapter and
// projection head, printing one latent vector per record.
package main

import (
	"flag"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/neurlang/genetune/config"
	"github.com/neurlang/genetune/datasets/genomic"
	"github.com/neurlang/genetune/hub"
	"github.com/neurlang/genetune/inference"
	"github.com/neurlang/genetune/model"
	"github.com/neurlang/genetune/net/projection"
)

func main() {
	cfgPath := flag.String("config", "", "experiment config file")
	fastaPath := flag.String("fasta", "", "sequences to embed (defaults to the fine-tuning fasta)")
	flag.Parse()
	zerolog.SetGlobalLevel(zerolog.WarnLevel)

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	path := *fastaPath
	if path == "" {
		path = cfg.Data.FASTA
	}

	var enc *model.Encoder
	if cfg.Model.ID == "" {
		enc, err = model.NewRandom(model.DefaultConfig(), cfg.Train.Seed)
	} else {
		var ckpt string
		ckpt, err = hub.Resolve(cfg.Model.ID, cfg.Model.HubURL, cfg.Model.CacheDir)
		if err == nil {
			enc, err = model.Load(ckpt)
		}
	}
	if err != nil {
		log.Fatal().Err(err).Msg("load encoder")
	}

	adapter, err := model.LoadAdapter(cfg.Train.AdapterPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load adapter")
	}
	head, err := projection.Load(cfg.Train.HeadPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load head")
	}
	merged, err := enc.Merge(adapter)
	if err != nil {
		log.Fatal().Err(err).Msg("merge adapter")
	}
	emb, err := inference.NewEmbedder(merged, head, cfg.Train.Threads)
	if err != nil {
		log.Fatal().Err(err).Msg("embedder")
	}

	recs, err := genomic.LoadFile(path)
	if err != nil {
		log.Fatal().Err(err).Msg("load fasta")
	}
	vecs := emb.EmbedAll(genomic.Sequences(recs))
	for i, rec := range recs {
		parts := make([]string, len(vecs[i]))
		for j, x := range vecs[i] {
			parts[j] = fmt.Sprintf("%.6f", x)
		}
		fmt.Printf("%s\t%s\n", rec.ID, strings.Join(parts, ","))
	}
}
