package filter

import (
	"testing"
	"time"

	"github.com/mikey/phishing-detector/internal/adapters/cache"
	"github.com/mikey/phishing-detector/internal/adapters/linear"
	"github.com/mikey/phishing-detector/internal/core"
	"github.com/mikey/phishing-detector/internal/utils"
	"github.com/mikey/phishing-detector/internal/whitelist"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// newTestService builds a detection service whose model flags "verify" and "password"
func newTestService(t *testing.T) *core.DetectionService {
	t.Helper()
	logger := zap.NewNop()

	vectorizer, err := linear.NewVectorizer(&linear.VectorizerSpec{
		Vocabulary: map[string]int{"verify": 0, "password": 1, "lunch": 2},
		IDF:        []float64{1, 1, 1},
	}, utils.NewTextProcessor(logger), 0)
	require.NoError(t, err)

	model, err := linear.NewModel(&linear.ModelSpec{
		Type:    linear.KindLogisticRegression,
		Classes: []int{0, 1},
		Coef:    []float64{3, 3, -3},
	}, vectorizer.Dim())
	require.NoError(t, err)

	memCache := cache.NewMemoryCache(logger, 0)
	t.Cleanup(memCache.Stop)

	return core.NewDetectionService(
		core.NewAnalyzer(vectorizer, model, logger),
		memCache,
		logger,
		true,
		time.Hour,
		whitelist.NewChecker([]string{"trusted.example"}, logger),
		nil,
	)
}
