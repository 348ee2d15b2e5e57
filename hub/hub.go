// Package hub resolves pretrained model identifiers against a remote checkpoint repository
package hub

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// DefaultBaseURL is the checkpoint repository queried when the config names none
const DefaultBaseURL = "https://huggingface.co"

// Resolve maps a model id onto a local checkpoint path, downloading it into
// cacheDir on first use. The remote layout is <base>/<id>/resolve/main/checkpoint.json.
// A missing or unreachable model is fatal to the caller; there is no fallback.
func Resolve(id, baseURL, cacheDir string) (string, error) {
	if id == "" {
		return "", errors.New("hub: empty model id")
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return "", errors.Wrapf(err, "hub: cache dir %s", cacheDir)
	}
	local := filepath.Join(cacheDir, sanitize(id)+".json")
	if _, err := os.Stat(local); err == nil {
		log.Debug().Str("model", id).Str("path", local).Msg("checkpoint cached")
		return local, nil
	}
	url := strings.TrimRight(baseURL, "/") + "/" + id + "/resolve/main/checkpoint.json"
	log.Info().Str("model", id).Str("url", url).Msg("downloading checkpoint")
	resp, err := http.Get(url)
	if err != nil {
		return "", errors.Wrapf(err, "hub: fetch %s", id)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", errors.Errorf("hub: fetch %s: %s", id, resp.Status)
	}
	tmp := local + ".part"
	out, err := os.Create(tmp)
	if err != nil {
		return "", errors.Wrap(err, "hub: create cache file")
	}
	h := sha256.New()
	n, err := io.Copy(io.MultiWriter(out, h), resp.Body)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmp)
		return "", errors.Wrapf(err, "hub: download %s", id)
	}
	if err := os.Rename(tmp, local); err != nil {
		return "", errors.Wrap(err, "hub: finalize cache file")
	}
	log.Info().
		Str("model", id).
		Int64("bytes", n).
		Str("sha256", hex.EncodeToString(h.Sum(nil))).
		Msg("checkpoint downloaded")
	return local, nil
}

func sanitize(id string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '.', r == '_':
			return r
		}
		return '_'
	}, id)
}
