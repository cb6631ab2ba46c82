package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"taskquest/internal/models"
)

func TestRecordCompletion(t *testing.T) {
	beforeCount := testutil.ToFloat64(TaskCompletions.WithLabelValues("agility"))
	beforePoints := testutil.ToFloat64(PointsAwarded.WithLabelValues("agility"))
	beforeUps := testutil.ToFloat64(LevelUps.WithLabelValues("2"))

	RecordCompletion("agility", 50, true, 2)
	RecordCompletion("agility", 25, false, 2)

	assert.Equal(t, beforeCount+2, testutil.ToFloat64(TaskCompletions.WithLabelValues("agility")))
	assert.Equal(t, beforePoints+75, testutil.ToFloat64(PointsAwarded.WithLabelValues("agility")))
	assert.Equal(t, beforeUps+1, testutil.ToFloat64(LevelUps.WithLabelValues("2")))
}

func TestCustomCategoriesShareOneSeries(t *testing.T) {
	before := testutil.ToFloat64(TaskCompletions.WithLabelValues(OtherCategory))
	series := testutil.CollectAndCount(TaskCompletions)

	RecordCompletion("knitting", 10, false, 1)
	RecordCompletion("yoga-"+t.Name(), 10, false, 1)

	assert.Equal(t, before+2, testutil.ToFloat64(TaskCompletions.WithLabelValues(OtherCategory)))
	// At most the "other" series is new.
	assert.LessOrEqual(t, testutil.CollectAndCount(TaskCompletions), series+1)
}

func TestCategoryLabel(t *testing.T) {
	for _, c := range models.DefaultCategories {
		assert.Equal(t, c, CategoryLabel(c))
	}
	assert.Equal(t, OtherCategory, CategoryLabel("Strength"))
	assert.Equal(t, OtherCategory, CategoryLabel(""))
}

func TestRecordHTTPRequest(t *testing.T) {
	RecordHTTPRequest("GET", "/api/health", 200, 10*time.Millisecond)
	assert.GreaterOrEqual(t, testutil.CollectAndCount(HTTPRequestDuration), 1)
}
