package pipeline_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scalynx/idea-validator/internal/classifier"
	"github.com/scalynx/idea-validator/internal/dataset"
	"github.com/scalynx/idea-validator/internal/features"
	"github.com/scalynx/idea-validator/internal/pipeline"
	"github.com/scalynx/idea-validator/internal/storage"
)

func testLogger() *logrus.Entry {
	logger, _ := test.NewNullLogger()
	return logrus.NewEntry(logger).WithField("service", "pipeline_test")
}

func trainSample(t *testing.T) *pipeline.TrainResult {
	t.Helper()
	result, err := pipeline.Train(dataset.Sample(), pipeline.DefaultTrainOptions(), testLogger())
	require.NoError(t, err)
	require.NotNil(t, result.Pipeline)
	return result
}

// alwaysValid swaps in a classifier whose margin is +1 for every input.
func alwaysValid(t *testing.T, p *pipeline.Pipeline) *pipeline.Pipeline {
	t.Helper()
	dim := p.Selector.OutputDim()
	svc := &classifier.LinearSVC{Dim: dim, Weights: make([]float64, dim), Bias: 1}
	forced, err := pipeline.New(p.Vectorizer, p.Selector, svc, p.Filter, "forced")
	require.NoError(t, err)
	return forced
}

func TestTrain(t *testing.T) {
	result := trainSample(t)

	assert.NotEmpty(t, result.Pipeline.FitID)
	assert.Equal(t, 38, result.TrainSize)
	assert.Equal(t, 10, result.TestSize)
	assert.Equal(t, 10, result.Report.Total)
	assert.Equal(t, []int{0, 1}, result.Report.Labels)
	require.NotNil(t, result.CV)
	assert.Len(t, result.CV.Scores, 5)
	assert.Len(t, result.TopTerms, 15)

	p := result.Pipeline
	assert.Equal(t, p.Vectorizer.Dim(), p.Selector.InputDim)
	assert.Equal(t, p.Selector.OutputDim(), p.Classifier.Dim)
}

func TestTrain_SmallSelector(t *testing.T) {
	opts := pipeline.DefaultTrainOptions()
	opts.SelectorK = 20
	result, err := pipeline.Train(dataset.Sample(), opts, testLogger())
	require.NoError(t, err)
	assert.Equal(t, 20, result.Pipeline.Selector.OutputDim())
	assert.Equal(t, 20, result.Pipeline.Classifier.Dim)
}

func TestTrain_Errors(t *testing.T) {
	_, err := pipeline.Train(nil, pipeline.DefaultTrainOptions(), testLogger())
	assert.ErrorIs(t, err, dataset.ErrEmptyDataset)

	oneClass := []dataset.Record{
		{Text: "mobile app for farmers", Label: 1},
		{Text: "cloud invoicing software", Label: 1},
		{Text: "drone delivery platform", Label: 1},
	}
	_, err = pipeline.Train(oneClass, pipeline.DefaultTrainOptions(), testLogger())
	assert.ErrorIs(t, err, classifier.ErrSingleClass)
}

func TestTrain_SkipsCrossValidationOnTinyData(t *testing.T) {
	records := []dataset.Record{
		{Text: "mobile app for farmers", Label: 1},
		{Text: "cloud invoicing software", Label: 1},
		{Text: "ghost hunting potion", Label: 0},
		{Text: "magic flying carpet", Label: 0},
	}
	opts := pipeline.DefaultTrainOptions()
	opts.TestSize = 0.5
	result, err := pipeline.Train(records, opts, testLogger())
	require.NoError(t, err)
	assert.Nil(t, result.CV)
}

func TestPredict_Scenarios(t *testing.T) {
	p := trainSample(t).Pipeline

	detailed, err := p.PredictDetailed([]string{
		"Detect ghost emotions using neural networks and crystal energy.",
		"AI system to improve crop prediction using satellite data.",
		"asdf qwer zxcv",
	})
	require.NoError(t, err)
	require.Len(t, detailed, 3)

	// unrealistic term vetoes
	assert.False(t, detailed[0].Sanity.Passed)
	assert.Equal(t, pipeline.Invalid, detailed[0].Label)
	assert.Equal(t, "Likely Invalid", detailed[0].Label.Feedback())

	// plausible terms defer to the classifier
	assert.True(t, detailed[1].Sanity.Passed)
	assert.Contains(t, detailed[1].Sanity.Plausible, "ai")
	assert.Contains(t, detailed[1].Sanity.Plausible, "crop")
	assert.Equal(t, detailed[1].RawLabel, detailed[1].Label)

	// nothing recognisable at all
	assert.True(t, detailed[2].EmptyFeatures)
	assert.False(t, detailed[2].Sanity.Passed)
	assert.Equal(t, pipeline.Invalid, detailed[2].RawLabel)
	assert.Equal(t, pipeline.Invalid, detailed[2].Label)
}

func TestPredict_BatchOrder(t *testing.T) {
	p := alwaysValid(t, trainSample(t).Pipeline)

	ideas := []string{
		"Mobile app connecting farmers with grocery stores",
		"Magic potion that makes people immortal",
		"",
		"Cloud software that automates invoicing",
		"Haunted house mobile app",
	}
	labels, err := p.Predict(ideas)
	require.NoError(t, err)
	assert.Equal(t, []pipeline.Label{
		pipeline.Valid,
		pipeline.Invalid,
		pipeline.Invalid,
		pipeline.Valid,
		pipeline.Invalid,
	}, labels)

	empty, err := p.Predict(nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestPredict_SanityOverridesClassifier(t *testing.T) {
	p := alwaysValid(t, trainSample(t).Pipeline)

	detailed, err := p.PredictDetailed([]string{"Mobile app with ghost detection"})
	require.NoError(t, err)

	d := detailed[0]
	assert.False(t, d.EmptyFeatures)
	assert.InDelta(t, 1.0, d.Margin, 1e-12)
	assert.Equal(t, pipeline.Valid, d.RawLabel)
	assert.Equal(t, []string{"ghost"}, d.Sanity.Unrealistic)
	assert.Equal(t, pipeline.Invalid, d.Label)
}

func TestPredict_EmptyFeaturesAreInvalid(t *testing.T) {
	p := alwaysValid(t, trainSample(t).Pipeline)

	// passes the filter ("app") but shares no term with the vocabulary
	detailed, err := p.PredictDetailed([]string{"zzapp qqq"})
	require.NoError(t, err)
	assert.True(t, detailed[0].EmptyFeatures)
	assert.True(t, detailed[0].Sanity.Passed)
	assert.Equal(t, pipeline.Invalid, detailed[0].Label)
}

func TestFeatures_NormalizesInput(t *testing.T) {
	p := trainSample(t).Pipeline

	raw, err := p.Features("Mobile APP, connecting FARMERS!! https://example.com")
	require.NoError(t, err)
	clean, err := p.Features("mobile app connecting farmers")
	require.NoError(t, err)
	assert.Equal(t, clean, raw)
	assert.Positive(t, raw.NNZ())
}

func TestPredict_Concurrent(t *testing.T) {
	p := trainSample(t).Pipeline
	ideas := dataset.Texts(dataset.Sample())

	want, err := p.Predict(ideas)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := p.Predict(ideas)
			assert.NoError(t, err)
			assert.Equal(t, want, got)
		}()
	}
	wg.Wait()
}

func TestNew_Errors(t *testing.T) {
	p := trainSample(t).Pipeline

	_, err := pipeline.New(nil, p.Selector, p.Classifier, nil, "x")
	assert.ErrorIs(t, err, pipeline.ErrNotFitted)

	_, err = pipeline.New(p.Vectorizer, features.NewChiSquareSelector(10), p.Classifier, nil, "x")
	assert.ErrorIs(t, err, pipeline.ErrNotFitted)

	_, err = pipeline.New(p.Vectorizer, p.Selector, classifier.NewLinearSVC(classifier.DefaultOptions()), nil, "x")
	assert.ErrorIs(t, err, pipeline.ErrNotFitted)

	short := &classifier.LinearSVC{Dim: 3, Weights: make([]float64, 3)}
	_, err = pipeline.New(p.Vectorizer, p.Selector, short, nil, "x")
	assert.ErrorIs(t, err, pipeline.ErrArtifactMismatch)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	p := trainSample(t).Pipeline
	store, err := storage.NewFileStorage(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, pipeline.Save(store, p))
	names, err := store.List()
	require.NoError(t, err)
	assert.ElementsMatch(t, pipeline.ArtifactNames, names)

	loaded, err := pipeline.Load(store, nil)
	require.NoError(t, err)
	assert.Equal(t, p.FitID, loaded.FitID)

	ideas := append(dataset.Texts(dataset.Sample()), "asdf qwer zxcv", "")
	want, err := p.PredictDetailed(ideas)
	require.NoError(t, err)
	got, err := loaded.PredictDetailed(ideas)
	require.NoError(t, err)
	for i := range want {
		assert.Equal(t, want[i].Label, got[i].Label, ideas[i])
		assert.InDelta(t, want[i].Margin, got[i].Margin, 1e-9, ideas[i])
	}
}

func TestLoad_MixedRuns(t *testing.T) {
	first := trainSample(t).Pipeline
	second := trainSample(t).Pipeline
	require.NotEqual(t, first.FitID, second.FitID)

	dirA, dirB := t.TempDir(), t.TempDir()
	storeA, err := storage.NewFileStorage(dirA)
	require.NoError(t, err)
	storeB, err := storage.NewFileStorage(dirB)
	require.NoError(t, err)
	require.NoError(t, pipeline.Save(storeA, first))
	require.NoError(t, pipeline.Save(storeB, second))

	data, err := os.ReadFile(filepath.Join(dirB, "classifier.json"))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dirA, "classifier.json"), data, 0644))

	_, err = pipeline.Load(storeA, nil)
	assert.ErrorIs(t, err, pipeline.ErrArtifactMismatch)
}

func TestLoad_Missing(t *testing.T) {
	store, err := storage.NewFileStorage(t.TempDir())
	require.NoError(t, err)

	_, err = pipeline.Load(store, nil)
	assert.ErrorIs(t, err, storage.ErrArtifactNotFound)
}

func TestLoad_WrongKind(t *testing.T) {
	p := trainSample(t).Pipeline
	dir := t.TempDir()
	store, err := storage.NewFileStorage(dir)
	require.NoError(t, err)
	require.NoError(t, pipeline.Save(store, p))

	data, err := os.ReadFile(filepath.Join(dir, "selector.json"))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "vectorizer.json"), data, 0644))

	_, err = pipeline.Load(store, nil)
	assert.ErrorIs(t, err, pipeline.ErrArtifactMismatch)
}

// rewriteModel saves a freshly trained pipeline and edits the model of one
// artifact on disk.
func rewriteModel(t *testing.T, name string, edit func(model map[string]any)) storage.ArtifactStorage {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewFileStorage(dir)
	require.NoError(t, err)
	require.NoError(t, pipeline.Save(store, trainSample(t).Pipeline))

	path := filepath.Join(dir, name+".json")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var env map[string]any
	require.NoError(t, json.Unmarshal(data, &env))
	model, ok := env["model"].(map[string]any)
	require.True(t, ok)
	edit(model)
	data, err = json.Marshal(env)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0644))
	return store
}

func TestLoad_TruncatedWeights(t *testing.T) {
	store := rewriteModel(t, pipeline.ClassifierArtifact, func(model map[string]any) {
		model["weights"] = []float64{0.5}
	})

	p, err := pipeline.Load(store, nil)
	assert.Nil(t, p)
	assert.ErrorIs(t, err, pipeline.ErrArtifactMismatch)
	assert.ErrorIs(t, err, classifier.ErrDimensionMismatch)
}

func TestLoad_VocabularyIndexOutOfRange(t *testing.T) {
	store := rewriteModel(t, pipeline.VectorizerArtifact, func(model map[string]any) {
		vocab, ok := model["vocabulary"].(map[string]any)
		require.True(t, ok)
		vocab["mobile"] = 999999
	})

	var p *pipeline.Pipeline
	var err error
	require.NotPanics(t, func() { p, err = pipeline.Load(store, nil) })
	assert.Nil(t, p)
	assert.ErrorIs(t, err, pipeline.ErrArtifactMismatch)
	assert.ErrorIs(t, err, features.ErrDimensionMismatch)
}

func TestNew_ShortWeights(t *testing.T) {
	p := trainSample(t).Pipeline
	short := *p.Classifier
	short.Weights = short.Weights[:1]

	_, err := pipeline.New(p.Vectorizer, p.Selector, &short, nil, p.FitID)
	assert.ErrorIs(t, err, pipeline.ErrArtifactMismatch)
}

func TestLabel(t *testing.T) {
	assert.True(t, pipeline.Valid.IsValid())
	assert.False(t, pipeline.Invalid.IsValid())
	assert.Equal(t, "Likely Valid", pipeline.Valid.Feedback())
	assert.Equal(t, "Likely Invalid", pipeline.Invalid.Feedback())
}
