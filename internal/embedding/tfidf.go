package embedding

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"os"
	"regexp"
	"sort"
	"strings"
)

// TFIDFEmbedder implements a simple TF-IDF vectorizer as an offline
// Embedder. Prepare fits vocabulary and IDF values over the chunk
// corpus and persists them to disk, so question-time embeddings stay
// consistent with the persisted index across process restarts.
type TFIDFEmbedder struct {
	path         string
	vocabulary   map[string]int
	idf          []float64
	prepared     bool
	tokenPattern *regexp.Regexp
	stopwords    map[string]struct{}
}

func NewTFIDFEmbedder(modelPath string) *TFIDFEmbedder {
	return &TFIDFEmbedder{
		path:         modelPath,
		vocabulary:   make(map[string]int),
		tokenPattern: regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`),
		stopwords:    defaultStopwords(),
	}
}

func (e *TFIDFEmbedder) Name() string { return "tfidf" }

// Prepare builds the vocabulary and IDF table from the corpus and
// saves the fitted model next to the index.
func (e *TFIDFEmbedder) Prepare(corpus []string) error {
	if len(corpus) == 0 {
		return errors.New("empty corpus for TF-IDF prepare")
	}
	df := make(map[string]int)
	for _, text := range corpus {
		seen := make(map[string]struct{})
		for _, tok := range e.tokenize(text) {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}
	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Strings(terms)
	if len(terms) == 0 {
		return errors.New("no tokens found in corpus")
	}
	e.vocabulary = make(map[string]int, len(terms))
	e.idf = make([]float64, len(terms))
	n := float64(len(corpus))
	for i, term := range terms {
		e.vocabulary[term] = i
		// Smoothed IDF
		e.idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1.0
	}
	e.prepared = true
	return e.save(terms)
}

// Embed computes an L2-normalized TF-IDF vector for the text. If the
// model has not been fitted in this process, the persisted model is
// loaded first.
func (e *TFIDFEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if !e.prepared {
		if err := e.load(); err != nil {
			return nil, err
		}
	}
	vec := make([]float64, len(e.idf))
	tf := make(map[int]int)
	total := 0
	for _, tok := range e.tokenize(text) {
		if idx, ok := e.vocabulary[tok]; ok {
			tf[idx]++
			total++
		}
	}
	out := make([]float32, len(vec))
	if total == 0 {
		return out, nil
	}
	norm := 0.0
	for idx, count := range tf {
		v := float64(count) / float64(total) * e.idf[idx]
		vec[idx] = v
		norm += v * v
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		for i := range vec {
			out[i] = float32(vec[i] / norm)
		}
	}
	return out, nil
}

type tfidfModel struct {
	Terms []string  `json:"terms"`
	IDF   []float64 `json:"idf"`
}

func (e *TFIDFEmbedder) save(terms []string) error {
	data, err := json.Marshal(tfidfModel{Terms: terms, IDF: e.idf})
	if err != nil {
		return err
	}
	return os.WriteFile(e.path, data, 0o644)
}

func (e *TFIDFEmbedder) load() error {
	data, err := os.ReadFile(e.path)
	if err != nil {
		return errors.New("tfidf model not fitted: process content first")
	}
	var m tfidfModel
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	if len(m.Terms) == 0 || len(m.Terms) != len(m.IDF) {
		return errors.New("tfidf model file is corrupt")
	}
	e.vocabulary = make(map[string]int, len(m.Terms))
	for i, term := range m.Terms {
		e.vocabulary[term] = i
	}
	e.idf = m.IDF
	e.prepared = true
	return nil
}

func (e *TFIDFEmbedder) tokenize(text string) []string {
	raw := e.tokenPattern.FindAllString(strings.ToLower(text), -1)
	out := raw[:0]
	for _, t := range raw {
		if _, isStop := e.stopwords[t]; isStop {
			continue
		}
		out = append(out, t)
	}
	return out
}

func defaultStopwords() map[string]struct{} {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "for", "to", "of", "in", "on", "at", "by", "with", "as", "is", "are", "was", "were", "be", "been", "being", "it", "this", "that", "these", "those", "from", "up", "down", "over", "under", "again", "further", "than", "so", "such", "into", "about", "between", "through", "during", "before", "after", "above", "below", "out", "off", "own", "same", "too", "very", "can", "will", "just", "don", "should", "now",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
