package corpus

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

//go:embed data/corpus.json
var defaultData []byte

// File is the on-disk JSON layout of a corpus.
type File struct {
	Version    string      `json:"version"`
	Books      []Book      `json:"books"`
	Paragraphs []Paragraph `json:"paragraphs"`
}

// Parse decodes and validates a corpus document.
func Parse(data []byte) (*Corpus, error) {
	if err := validateDocument(data); err != nil {
		return nil, err
	}

	var f File
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode corpus: %w", err)
	}
	if err := checkVersion(f.Version); err != nil {
		return nil, err
	}
	return build(f)
}

// LoadFile reads and parses the corpus at path.
func LoadFile(path string) (*Corpus, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read corpus: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return c, nil
}

var loadDefault = sync.OnceValues(func() (*Corpus, error) {
	return Parse(defaultData)
})

// Default returns the corpus compiled into the binary.
func Default() (*Corpus, error) {
	return loadDefault()
}

// MustLoadDefault is like Default but panics if the embedded corpus is
// invalid.
func MustLoadDefault() *Corpus {
	c, err := Default()
	if err != nil {
		panic(fmt.Sprintf("embedded corpus: %v", err))
	}
	return c
}

// Load returns the corpus at path, or the embedded one when path is empty.
func Load(path string) (*Corpus, error) {
	if path == "" {
		return Default()
	}
	return LoadFile(path)
}
