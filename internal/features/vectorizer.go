package features

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/scalynx/idea-validator/internal/textproc"
)

// Vectorizer turns normalized text into a sparse vector
type Vectorizer interface {
	Fit(docs []string) error
	Transform(text string) (SparseVector, error)
	Dim() int
}

// VectorizerOptions controls how the vocabulary is built.
type VectorizerOptions struct {
	MaxFeatures int
	NgramMin    int
	NgramMax    int
	SublinearTF bool
	StopWords   bool
}

// DefaultVectorizerOptions mirrors the production training settings.
func DefaultVectorizerOptions() VectorizerOptions {
	return VectorizerOptions{
		MaxFeatures: 15000,
		NgramMin:    1,
		NgramMax:    2,
		SublinearTF: true,
		StopWords:   true,
	}
}

// TFIDFVectorizer implements Term Frequency - Inverse Document Frequency
// over word n-grams.
type TFIDFVectorizer struct {
	Vocabulary  map[string]int `json:"vocabulary"`
	IDF         []float64      `json:"idf"`
	NgramRange  [2]int         `json:"ngram_range"`
	MaxFeatures int            `json:"max_features"`
	SublinearTF bool           `json:"sublinear_tf"`
	StopWords   bool           `json:"stop_words"`
}

func NewTFIDFVectorizer(opts VectorizerOptions) *TFIDFVectorizer {
	if opts.NgramMin < 1 {
		opts.NgramMin = 1
	}
	if opts.NgramMax < opts.NgramMin {
		opts.NgramMax = opts.NgramMin
	}
	return &TFIDFVectorizer{
		NgramRange:  [2]int{opts.NgramMin, opts.NgramMax},
		MaxFeatures: opts.MaxFeatures,
		SublinearTF: opts.SublinearTF,
		StopWords:   opts.StopWords,
	}
}

// Fit analyzes the corpus to build vocabulary and IDF stats
func (v *TFIDFVectorizer) Fit(docs []string) error {
	if len(docs) == 0 {
		return ErrEmptyCorpus
	}

	// 1. Count document and corpus frequencies
	docFreq := make(map[string]int)
	termFreq := make(map[string]int)
	for _, doc := range docs {
		seenInDoc := make(map[string]bool)
		for _, term := range v.analyze(doc) {
			termFreq[term]++
			if !seenInDoc[term] {
				docFreq[term]++
				seenInDoc[term] = true
			}
		}
	}
	if len(termFreq) == 0 {
		return ErrEmptyVocabulary
	}

	// 2. Keep the most frequent terms, then index them in sorted order
	terms := make([]string, 0, len(termFreq))
	for term := range termFreq {
		terms = append(terms, term)
	}
	if v.MaxFeatures > 0 && len(terms) > v.MaxFeatures {
		sort.Slice(terms, func(i, j int) bool {
			if termFreq[terms[i]] != termFreq[terms[j]] {
				return termFreq[terms[i]] > termFreq[terms[j]]
			}
			return terms[i] < terms[j]
		})
		terms = terms[:v.MaxFeatures]
	}
	sort.Strings(terms)

	// 3. Smoothed IDF: log((1 + n) / (1 + df)) + 1
	n := float64(len(docs))
	v.Vocabulary = make(map[string]int, len(terms))
	v.IDF = make([]float64, len(terms))
	for i, term := range terms {
		v.Vocabulary[term] = i
		v.IDF[i] = math.Log((1+n)/(1+float64(docFreq[term]))) + 1
	}
	return nil
}

// FitTransform fits the vectorizer and transforms the corpus.
func (v *TFIDFVectorizer) FitTransform(docs []string) ([]SparseVector, error) {
	if err := v.Fit(docs); err != nil {
		return nil, err
	}
	out := make([]SparseVector, len(docs))
	for i, doc := range docs {
		vec, err := v.Transform(doc)
		if err != nil {
			return nil, fmt.Errorf("transform document %d: %w", i, err)
		}
		out[i] = vec
	}
	return out, nil
}

// Transform converts text to an L2-normalized TF-IDF vector over the learned
// vocabulary. Unknown terms are ignored.
func (v *TFIDFVectorizer) Transform(text string) (SparseVector, error) {
	if v.IDF == nil {
		return SparseVector{}, ErrNotFitted
	}

	counts := make(map[int]float64)
	for _, term := range v.analyze(text) {
		if idx, ok := v.Vocabulary[term]; ok {
			counts[idx]++
		}
	}

	for idx, count := range counts {
		tf := count
		if v.SublinearTF {
			tf = 1 + math.Log(count)
		}
		counts[idx] = tf * v.IDF[idx]
	}

	vec := newSparseVector(len(v.IDF), counts)
	vec.normalizeL2()
	return vec, nil
}

// Dim returns the vocabulary size, zero before Fit.
func (v *TFIDFVectorizer) Dim() int {
	return len(v.IDF)
}

// Terms returns the vocabulary ordered by feature index.
func (v *TFIDFVectorizer) Terms() []string {
	terms := make([]string, len(v.Vocabulary))
	for term, idx := range v.Vocabulary {
		terms[idx] = term
	}
	return terms
}

// analyze returns the n-grams of the stop-word-filtered tokens of text.
func (v *TFIDFVectorizer) analyze(text string) []string {
	tokens := textproc.Tokenize(text)
	if v.StopWords {
		kept := tokens[:0]
		for _, tok := range tokens {
			if !IsStopWord(tok) {
				kept = append(kept, tok)
			}
		}
		tokens = kept
	}

	minN, maxN := v.NgramRange[0], v.NgramRange[1]
	if minN < 1 {
		minN = 1
	}
	var grams []string
	for n := minN; n <= maxN; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			grams = append(grams, strings.Join(tokens[i:i+n], " "))
		}
	}
	return grams
}

// Fitted reports whether Fit has completed.
func (v *TFIDFVectorizer) Fitted() bool {
	return v.IDF != nil
}

// UnmarshalJSON restores a fitted vectorizer. Every vocabulary index must be
// unique and address an IDF entry.
func (v *TFIDFVectorizer) UnmarshalJSON(data []byte) error {
	type alias TFIDFVectorizer
	if err := json.Unmarshal(data, (*alias)(v)); err != nil {
		return err
	}
	if len(v.Vocabulary) != len(v.IDF) {
		return fmt.Errorf("vocabulary has %d terms but idf has %d entries: %w", len(v.Vocabulary), len(v.IDF), ErrDimensionMismatch)
	}
	seen := make([]bool, len(v.IDF))
	for term, idx := range v.Vocabulary {
		if idx < 0 || idx >= len(v.IDF) {
			return fmt.Errorf("term %q index %d outside dim %d: %w", term, idx, len(v.IDF), ErrDimensionMismatch)
		}
		if seen[idx] {
			return fmt.Errorf("term %q reuses index %d: %w", term, idx, ErrDimensionMismatch)
		}
		seen[idx] = true
	}
	return nil
}
