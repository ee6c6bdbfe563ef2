package repository

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"predleague/engine/internal/models"
)

// Fixtures and results share one tabular format:
//
//	home_team,away_team,home_score,away_score
//
// Fixture rows leave the score columns empty; result rows may leave them
// empty for matches not yet played.
var csvHeader = []string{"home_team", "away_team", "home_score", "away_score"}

func decodeResultsCSV(content string) ([]models.Result, error) {
	reader := csv.NewReader(strings.NewReader(content))
	reader.TrimLeadingSpace = true
	// Older fixture files carry only the two team columns.
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("invalid CSV: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("invalid CSV: missing header row")
	}

	header := rows[0]
	if len(header) < 2 || !strings.EqualFold(header[0], csvHeader[0]) || !strings.EqualFold(header[1], csvHeader[1]) {
		return nil, fmt.Errorf("invalid CSV: unexpected header %v", header)
	}

	results := make([]models.Result, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) < 2 {
			return nil, fmt.Errorf("invalid CSV: row %v has fewer than two columns", row)
		}
		result := models.Result{
			HomeTeam: strings.TrimSpace(row[0]),
			AwayTeam: strings.TrimSpace(row[1]),
		}
		if len(row) > 2 {
			result.HomeScore = parseScoreCell(row[2])
		}
		if len(row) > 3 {
			result.AwayScore = parseScoreCell(row[3])
		}
		results = append(results, result)
	}
	return results, nil
}

// parseScoreCell returns nil for anything that is not a non-negative integer:
// empty cells, "NaN" from older exports, or garbage. A missing score means
// the match has not been played, which scores as zero everywhere downstream.
func parseScoreCell(cell string) *int {
	cell = strings.TrimSpace(cell)
	if cell == "" || strings.EqualFold(cell, "nan") {
		return nil
	}
	n, err := strconv.Atoi(cell)
	if err != nil || n < 0 {
		return nil
	}
	return &n
}

func encodeResultsCSV(results []models.Result) (string, error) {
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	if err := writer.Write(csvHeader); err != nil {
		return "", err
	}
	for _, result := range results {
		row := []string{result.HomeTeam, result.AwayTeam, "", ""}
		if result.HomeScore != nil {
			row[2] = strconv.Itoa(*result.HomeScore)
		}
		if result.AwayScore != nil {
			row[3] = strconv.Itoa(*result.AwayScore)
		}
		if err := writer.Write(row); err != nil {
			return "", err
		}
	}
	writer.Flush()
	return sb.String(), writer.Error()
}

func encodeFixturesCSV(fixtures []models.Fixture) (string, error) {
	results := make([]models.Result, len(fixtures))
	for i, fixture := range fixtures {
		results[i] = models.Result{HomeTeam: fixture.HomeTeam, AwayTeam: fixture.AwayTeam}
	}
	return encodeResultsCSV(results)
}
