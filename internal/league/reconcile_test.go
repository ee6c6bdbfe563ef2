package league

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"predleague/engine/internal/crypto"
	"predleague/engine/internal/models"
	"predleague/engine/internal/repository"
	"predleague/engine/internal/store"
)

var testWeights = models.PointsSystem{ExactScore: 5, CorrectResult: 3, GoalDifference: 1}

func newTestEngine(t *testing.T) (*Engine, *repository.Repository, *store.MemoryStore, *crypto.Codec) {
	t.Helper()

	codec, err := crypto.NewCodec("", "test-password")
	require.NoError(t, err)

	mem := store.NewMemoryStore()
	repo := repository.New(mem, codec)
	return NewEngine(repo), repo, mem, codec
}

func seedWeek(t *testing.T, repo *repository.Repository, week int, results []models.Result) {
	t.Helper()
	ctx := context.Background()

	fixtures := make([]models.Fixture, len(results))
	for i, r := range results {
		fixtures[i] = models.Fixture{HomeTeam: r.HomeTeam, AwayTeam: r.AwayTeam}
	}
	require.NoError(t, repo.Fixtures.SaveWeek(ctx, week, fixtures))
	require.NoError(t, repo.Results.SaveWeek(ctx, week, results))
}

func TestReconcileWeek_NoResultsIsNotScorable(t *testing.T) {
	engine, _, _, _ := newTestEngine(t)

	points, scorable, err := engine.ReconcileWeek(context.Background(), 1, testWeights)
	require.NoError(t, err)
	assert.False(t, scorable)
	assert.Nil(t, points)
}

func TestReconcileWeek_ScoresEachUser(t *testing.T) {
	engine, repo, _, _ := newTestEngine(t)
	ctx := context.Background()

	seedWeek(t, repo, 1, []models.Result{
		{HomeTeam: "TeamA", AwayTeam: "TeamB", HomeScore: intp(2), AwayScore: intp(1)},
		{HomeTeam: "TeamC", AwayTeam: "TeamD", HomeScore: intp(0), AwayScore: intp(0)},
	})

	require.NoError(t, repo.Predictions.Save(ctx, 1, "alice", []models.Prediction{
		pred(2, 1), // exact: 5
		pred(1, 1), // outcome + difference: 4
	}))
	require.NoError(t, repo.Predictions.Save(ctx, 1, "bob", []models.Prediction{
		pred(1, 0), // outcome only: 3
		pred(2, 0), // nothing: 0
	}))

	points, scorable, err := engine.ReconcileWeek(ctx, 1, testWeights)
	require.NoError(t, err)
	require.True(t, scorable)
	assert.Equal(t, map[string]int{"alice": 9, "bob": 3}, points)
}

func TestReconcileWeek_ExcludesReservedAdmin(t *testing.T) {
	engine, repo, _, _ := newTestEngine(t)
	ctx := context.Background()

	seedWeek(t, repo, 1, []models.Result{
		{HomeTeam: "TeamA", AwayTeam: "TeamB", HomeScore: intp(1), AwayScore: intp(0)},
	})
	require.NoError(t, repo.Predictions.Save(ctx, 1, models.AdminUsername, []models.Prediction{pred(1, 0)}))
	require.NoError(t, repo.Predictions.Save(ctx, 1, "alice", []models.Prediction{pred(1, 0)}))

	points, scorable, err := engine.ReconcileWeek(ctx, 1, testWeights)
	require.NoError(t, err)
	require.True(t, scorable)
	assert.NotContains(t, points, models.AdminUsername)
	assert.Contains(t, points, "alice")
}

func TestReconcileWeek_PositionalAlignment(t *testing.T) {
	engine, repo, _, _ := newTestEngine(t)
	ctx := context.Background()

	seedWeek(t, repo, 1, []models.Result{
		{HomeTeam: "TeamA", AwayTeam: "TeamB", HomeScore: intp(1), AwayScore: intp(0)},
		{HomeTeam: "TeamC", AwayTeam: "TeamD", HomeScore: intp(2), AwayScore: intp(2)},
	})

	// Fewer predictions than results: only the overlap scores.
	require.NoError(t, repo.Predictions.Save(ctx, 1, "short", []models.Prediction{pred(1, 0)}))
	// More predictions than results: the excess scores nothing.
	require.NoError(t, repo.Predictions.Save(ctx, 1, "long", []models.Prediction{
		pred(1, 0), pred(2, 2), pred(9, 9),
	}))

	points, scorable, err := engine.ReconcileWeek(ctx, 1, testWeights)
	require.NoError(t, err)
	require.True(t, scorable)
	assert.Equal(t, 5, points["short"])
	assert.Equal(t, 10, points["long"])
}

func TestReconcileWeek_UnplayedResultRowsScoreZero(t *testing.T) {
	engine, repo, _, _ := newTestEngine(t)
	ctx := context.Background()

	seedWeek(t, repo, 1, []models.Result{
		{HomeTeam: "TeamA", AwayTeam: "TeamB", HomeScore: intp(3), AwayScore: intp(1)},
		{HomeTeam: "TeamC", AwayTeam: "TeamD"}, // not yet played
	})
	require.NoError(t, repo.Predictions.Save(ctx, 1, "alice", []models.Prediction{
		pred(3, 1), pred(1, 0),
	}))

	points, _, err := engine.ReconcileWeek(ctx, 1, testWeights)
	require.NoError(t, err)
	assert.Equal(t, 5, points["alice"])
}

func TestReconcileWeek_CorruptPredictionsSurfacesDecodeError(t *testing.T) {
	engine, repo, mem, _ := newTestEngine(t)
	ctx := context.Background()

	seedWeek(t, repo, 1, []models.Result{
		{HomeTeam: "TeamA", AwayTeam: "TeamB", HomeScore: intp(1), AwayScore: intp(0)},
	})
	_, err := mem.Put(ctx, "predictions/week1.json", "not-a-token", "", "corrupt")
	require.NoError(t, err)

	_, _, err = engine.ReconcileWeek(ctx, 1, testWeights)
	require.Error(t, err)
	assert.True(t, store.IsDecodeError(err), "corrupt document must not read as empty")
}
