package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"predleague/engine/internal/models"
	"predleague/engine/internal/store"
)

func TestFixtures_SaveAndGetWeek(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	fixtures := []models.Fixture{
		{HomeTeam: "Arsenal", AwayTeam: "Chelsea"},
		{HomeTeam: "Leeds United", AwayTeam: "Spurs"},
	}
	require.NoError(t, repo.Fixtures.SaveWeek(ctx, 1, fixtures))

	got, err := repo.Fixtures.GetWeek(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, fixtures, got)
}

func TestFixtures_AbsentWeekIsNotFound(t *testing.T) {
	repo, _ := newTestRepo(t)

	_, err := repo.Fixtures.GetWeek(context.Background(), 9)
	require.Error(t, err)
	assert.True(t, store.IsNotFound(err))
}

func TestFixtures_EmptyTeamNameRejected(t *testing.T) {
	repo, _ := newTestRepo(t)

	err := repo.Fixtures.SaveWeek(context.Background(), 1, []models.Fixture{{HomeTeam: "", AwayTeam: "Chelsea"}})
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestResults_RoundTripWithMissingScores(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	home := 2
	away := 1
	results := []models.Result{
		{HomeTeam: "Arsenal", AwayTeam: "Chelsea", HomeScore: &home, AwayScore: &away},
		{HomeTeam: "Leeds United", AwayTeam: "Spurs"}, // postponed
	}
	require.NoError(t, repo.Results.SaveWeek(ctx, 1, results))

	got, err := repo.Results.GetWeek(ctx, 1)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.NotNil(t, got[0].HomeScore)
	assert.Equal(t, 2, *got[0].HomeScore)
	assert.Equal(t, 1, *got[0].AwayScore)
	assert.Nil(t, got[1].HomeScore)
	assert.Nil(t, got[1].AwayScore)
}

func TestResults_OverwriteReplacesWeek(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	one := 1
	require.NoError(t, repo.Results.SaveWeek(ctx, 1, []models.Result{
		{HomeTeam: "Arsenal", AwayTeam: "Chelsea", HomeScore: &one, AwayScore: &one},
	}))

	three := 3
	require.NoError(t, repo.Results.SaveWeek(ctx, 1, []models.Result{
		{HomeTeam: "Arsenal", AwayTeam: "Chelsea", HomeScore: &three, AwayScore: &one},
	}))

	got, err := repo.Results.GetWeek(ctx, 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 3, *got[0].HomeScore)
}

func TestDecodeResultsCSV_LenientCells(t *testing.T) {
	content := "home_team,away_team,home_score,away_score\n" +
		"Arsenal,Chelsea,2,1\n" +
		"Leeds United,Spurs,NaN,\n" +
		"Everton,Villa,-3,junk\n"

	results, err := decodeResultsCSV(content)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, 2, *results[0].HomeScore)
	assert.Nil(t, results[1].HomeScore)
	assert.Nil(t, results[1].AwayScore)
	// Negative or unparseable cells read as not played, never as an error.
	assert.Nil(t, results[2].HomeScore)
	assert.Nil(t, results[2].AwayScore)
}

func TestDecodeResultsCSV_TwoColumnLegacyFixtures(t *testing.T) {
	content := "home_team,away_team\nArsenal,Chelsea\n"

	results, err := decodeResultsCSV(content)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Arsenal", results[0].HomeTeam)
	assert.Nil(t, results[0].HomeScore)
}

func TestDecodeResultsCSV_BadHeaderIsError(t *testing.T) {
	_, err := decodeResultsCSV("foo,bar\nx,y\n")
	require.Error(t, err)

	_, err = decodeResultsCSV("")
	require.Error(t, err)
}

func TestFixtures_MalformedDocumentIsDecodeError(t *testing.T) {
	repo, mem := newTestRepo(t)
	ctx := context.Background()

	_, err := mem.Put(ctx, fixturesPath(1), "foo,bar\nx,y\n", "", "bad upload")
	require.NoError(t, err)

	_, err = repo.Fixtures.GetWeek(ctx, 1)
	require.Error(t, err)
	assert.True(t, store.IsDecodeError(err))
}
