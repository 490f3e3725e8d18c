package features

import "errors"

var (
	ErrNotFitted         = errors.New("features: transform called before fit")
	ErrDimensionMismatch = errors.New("features: vector dimension does not match fitted state")
	ErrEmptyCorpus       = errors.New("features: empty corpus")
	ErrEmptyVocabulary   = errors.New("features: empty vocabulary, documents contain only stop words")
)
