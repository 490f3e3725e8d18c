package engine_test

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/scalynx/idea-validator/internal/config"
	"github.com/scalynx/idea-validator/internal/dataset"
	"github.com/scalynx/idea-validator/internal/engine"
	"github.com/scalynx/idea-validator/internal/pipeline"
	"github.com/scalynx/idea-validator/internal/storage"
)

// Mocks

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) Save(name string, artifact any) error {
	args := m.Called(name, artifact)
	return args.Error(0)
}

func (m *MockStorage) Load(name string, artifact any) error {
	args := m.Called(name, artifact)
	return args.Error(0)
}

func (m *MockStorage) List() ([]string, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockStorage) Close() error {
	args := m.Called()
	return args.Error(0)
}

func testLogger() *logrus.Entry {
	logger, _ := test.NewNullLogger()
	return logger.WithField("test", "engine")
}

// fittedArtifacts trains on the sample set and captures what Save writes.
func fittedArtifacts(t *testing.T) map[string][]byte {
	t.Helper()
	result, err := pipeline.Train(dataset.Sample(), pipeline.DefaultTrainOptions(), testLogger())
	require.NoError(t, err)

	blobs := map[string][]byte{}
	capture := new(MockStorage)
	capture.On("Save", mock.AnythingOfType("string"), mock.Anything).
		Run(func(args mock.Arguments) {
			data, err := json.Marshal(args.Get(1))
			require.NoError(t, err)
			blobs[args.String(0)] = data
		}).
		Return(nil)
	require.NoError(t, pipeline.Save(capture, result.Pipeline))
	capture.AssertNumberOfCalls(t, "Save", 3)
	return blobs
}

// serving returns a mock store whose Load replays blobs.
func serving(t *testing.T, blobs map[string][]byte) *MockStorage {
	store := new(MockStorage)
	for name, data := range blobs {
		data := data
		store.On("Load", name, mock.Anything).
			Run(func(args mock.Arguments) {
				require.NoError(t, json.Unmarshal(data, args.Get(1)))
			}).
			Return(nil)
	}
	return store
}

func newEngine(t *testing.T) (*engine.Engine, *MockStorage) {
	t.Helper()
	store := serving(t, fittedArtifacts(t))
	eng, err := engine.NewEngine(config.Load(), testLogger(), store)
	require.NoError(t, err)
	return eng, store
}

func TestNewEngine(t *testing.T) {
	eng, store := newEngine(t)

	assert.NotNil(t, eng)
	assert.NotEmpty(t, eng.FitID())
	assert.False(t, eng.Stats().StartTime.IsZero())
	store.AssertNumberOfCalls(t, "Load", 3)
}

func TestNewEngine_MissingArtifacts(t *testing.T) {
	store := new(MockStorage)
	store.On("Load", mock.Anything, mock.Anything).Return(storage.ErrArtifactNotFound)

	eng, err := engine.NewEngine(config.Load(), testLogger(), store)
	assert.Nil(t, eng)
	assert.ErrorIs(t, err, storage.ErrArtifactNotFound)
}

func TestEngine_Validate(t *testing.T) {
	eng, _ := newEngine(t)

	verdicts, err := eng.Validate([]string{
		"Detect ghost emotions using neural networks and crystal energy.",
		"asdf qwer zxcv",
		"AI system to improve crop prediction using satellite data.",
	})
	require.NoError(t, err)
	require.Len(t, verdicts, 3)

	assert.Equal(t, "Detect ghost emotions using neural networks and crystal energy.", verdicts[0].Idea)
	assert.False(t, verdicts[0].Valid)
	assert.Equal(t, 0, verdicts[0].Label)
	assert.Equal(t, "Likely Invalid", verdicts[0].Feedback)

	assert.False(t, verdicts[1].Valid)
	assert.Equal(t, "asdf qwer zxcv", verdicts[1].Idea)

	for _, v := range verdicts {
		assert.Equal(t, v.Label == 1, v.Valid)
		if v.Valid {
			assert.Equal(t, "Likely Valid", v.Feedback)
		}
	}

	stats := eng.Stats()
	assert.Equal(t, int64(3), stats.Validations)
	assert.Equal(t, stats.Validations, stats.Accepted+stats.Rejected)
	assert.GreaterOrEqual(t, stats.Rejected, int64(2))
}

func TestEngine_ValidateBlank(t *testing.T) {
	eng, _ := newEngine(t)

	_, err := eng.Validate([]string{"mobile app for farmers", "   "})
	assert.ErrorIs(t, err, pipeline.ErrMalformedInput)
	assert.Zero(t, eng.Stats().Validations)
}

func TestEngine_Explain(t *testing.T) {
	eng, _ := newEngine(t)

	detailed, err := eng.Explain([]string{"Magic potion that makes people immortal"})
	require.NoError(t, err)
	require.Len(t, detailed, 1)
	assert.Contains(t, detailed[0].Sanity.Unrealistic, "magic")
	assert.Equal(t, pipeline.Invalid, detailed[0].Label)
}

func TestEngine_Reload(t *testing.T) {
	eng, _ := newEngine(t)
	first := eng.FitID()

	eng.Store = serving(t, fittedArtifacts(t))
	require.NoError(t, eng.Reload())
	assert.NotEqual(t, first, eng.FitID())
	assert.Equal(t, int64(1), eng.Stats().Reloads)
}

func TestEngine_ReloadFailureKeepsPipeline(t *testing.T) {
	eng, _ := newEngine(t)
	fitID := eng.FitID()

	broken := new(MockStorage)
	broken.On("Load", mock.Anything, mock.Anything).Return(storage.ErrArtifactNotFound)
	eng.Store = broken

	assert.ErrorIs(t, eng.Reload(), storage.ErrArtifactNotFound)
	assert.Equal(t, fitID, eng.FitID())
	assert.NotEmpty(t, eng.Stats().LastError)

	_, err := eng.Validate([]string{"mobile app for farmers"})
	assert.NoError(t, err)
}

func TestEngine_ConcurrentValidate(t *testing.T) {
	eng, _ := newEngine(t)
	ideas := dataset.Texts(dataset.Sample())

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := eng.Validate(ideas)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(4*len(ideas)), eng.Stats().Validations)
}
