package corpus

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/siherrmann/chunkcompare/helper"
)

//go:embed corpus.yaml
var defaultCorpus []byte

// Corpus lists the entities to ingest and the demo queries to compare
type Corpus struct {
	Entities []string `yaml:"entities"`
	Queries  []string `yaml:"queries"`
}

// Default returns the embedded corpus
func Default() (*Corpus, error) {
	return Parse(defaultCorpus)
}

// Load reads the corpus file at path, or the embedded corpus if path is empty
func Load(path string) (*Corpus, error) {
	if path == "" {
		return Default()
	}

	data, err := os.ReadFile(path) // #nosec G304 -- path is operator configuration
	if err != nil {
		return nil, helper.NewError("read corpus file", err)
	}

	return Parse(data)
}

// Parse decodes a corpus. Blank and duplicate entries are dropped and
// at least one entity is required.
func Parse(data []byte) (*Corpus, error) {
	corpus := &Corpus{}
	if err := yaml.Unmarshal(data, corpus); err != nil {
		return nil, helper.NewError("parse corpus", err)
	}

	corpus.Entities = uniqueTrimmed(corpus.Entities)
	corpus.Queries = uniqueTrimmed(corpus.Queries)

	if len(corpus.Entities) == 0 {
		return nil, helper.NewError("validate corpus", fmt.Errorf("corpus has no entities"))
	}

	return corpus, nil
}

func uniqueTrimmed(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
