package classifier

import "errors"

var (
	ErrNotFitted         = errors.New("classifier: predict called before fit")
	ErrDimensionMismatch = errors.New("classifier: feature dimension does not match trained model")
	ErrEmptyTrainingSet  = errors.New("classifier: empty training set")
	ErrSingleClass       = errors.New("classifier: training labels contain a single class")
	ErrInvalidLabel      = errors.New("classifier: label outside {0,1}")
	ErrBadSplit          = errors.New("classifier: invalid split parameters")
)
