package metrica

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/trackmetrics/pitchsync/internal/domain/match"
	"github.com/trackmetrics/pitchsync/internal/domain/tracking"
)

const trackingHeaderRows = 3

// ParseTracking decodes the wide tracking CSV: three header rows (team names,
// shirt numbers, column labels) followed by one row per frame with x/y pairs
// per player and the ball pair last. Unparsable or empty cells become missing
// positions instead of failing the whole file, rows outside every period are
// dropped, and an empty document parses as zero frames.
func ParseTracking(raw []byte, m match.Match) ([]tracking.Frame, error) {
	reader := csv.NewReader(bytes.NewReader(raw))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read tracking csv: %w", err)
	}
	if len(rows) == 0 {
		return []tracking.Frame{}, nil
	}
	if len(rows) < trackingHeaderRows {
		return nil, fmt.Errorf("tracking csv is missing header rows")
	}

	columns, err := resolveTrackingColumns(rows[0], rows[1], m)
	if err != nil {
		return nil, err
	}

	out := make([]tracking.Frame, 0, len(rows)-trackingHeaderRows)
	lastFrameID := int64(-1)
	for rowIdx, row := range rows[trackingHeaderRows:] {
		if len(row) < columns.ballX+2 {
			return nil, fmt.Errorf("tracking row %d has %d columns, expected at least %d", rowIdx, len(row), columns.ballX+2)
		}

		periodID, err := strconv.Atoi(strings.TrimSpace(row[0]))
		if err != nil {
			return nil, fmt.Errorf("tracking row %d: parse period: %w", rowIdx, err)
		}
		frameID, err := strconv.ParseInt(strings.TrimSpace(row[1]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("tracking row %d: parse frame: %w", rowIdx, err)
		}
		if frameID <= lastFrameID {
			return nil, fmt.Errorf("tracking row %d: frame ids must be strictly increasing", rowIdx)
		}
		lastFrameID = frameID

		// Rows outside the period's frame bounds (e.g. the half-time
		// break) carry no playable data.
		period, ok := periodByID(m, periodID)
		if !ok || frameID < period.StartFrame || frameID > period.EndFrame {
			continue
		}

		seconds, err := strconv.ParseFloat(strings.TrimSpace(row[2]), 64)
		if err != nil {
			return nil, fmt.Errorf("tracking row %d: parse time: %w", rowIdx, err)
		}

		positions := make(map[string]tracking.Position, len(columns.playerByX))
		for col, playerID := range columns.playerByX {
			positions[playerID] = parsePositionPair(row[col], row[col+1], m)
		}

		ballPosition := parsePositionPair(row[columns.ballX], row[columns.ballX+1], m)
		ballStatus := tracking.BallStatusAlive
		if ballPosition.Missing() {
			ballStatus = tracking.BallStatusDead
		}

		out = append(out, tracking.Frame{
			MatchID:     m.ID,
			FrameID:     frameID,
			PeriodID:    periodID,
			TimestampMS: int64(math.Round(seconds * 1000)),
			Ball: tracking.Ball{
				Position: ballPosition,
				Status:   ballStatus,
			},
			Positions: positions,
		})
	}

	return out, nil
}

type trackingColumns struct {
	playerByX map[int]string // x-column index -> player id
	ballX     int
}

// resolveTrackingColumns pairs the team-name and shirt-number header rows
// with the roster from metadata. Column pairs start after the three fixed
// columns; the last pair is the ball.
func resolveTrackingColumns(teamRow, numberRow []string, m match.Match) (trackingColumns, error) {
	if len(teamRow) != len(numberRow) {
		return trackingColumns{}, fmt.Errorf("tracking header rows disagree on column count")
	}
	if len(teamRow) < 5 || (len(teamRow)-3)%2 != 0 {
		return trackingColumns{}, fmt.Errorf("tracking csv has malformed columns: %d", len(teamRow))
	}

	rosters := map[string]map[int]string{
		m.HomeTeam.Name: rosterByNumber(m.HomeTeam),
		m.AwayTeam.Name: rosterByNumber(m.AwayTeam),
	}

	out := trackingColumns{
		playerByX: make(map[int]string, (len(teamRow)-5)/2),
		ballX:     len(teamRow) - 2,
	}
	for col := 3; col < out.ballX; col += 2 {
		teamName := strings.TrimSpace(teamRow[col])
		roster, ok := rosters[teamName]
		if !ok {
			return trackingColumns{}, fmt.Errorf("tracking column %d references unknown team %q", col, teamName)
		}
		number, err := strconv.Atoi(strings.TrimSpace(numberRow[col]))
		if err != nil {
			return trackingColumns{}, fmt.Errorf("tracking column %d: parse shirt number: %w", col, err)
		}
		playerID, ok := roster[number]
		if !ok {
			return trackingColumns{}, fmt.Errorf("tracking column %d references unknown player %d of team %q", col, number, teamName)
		}
		out.playerByX[col] = playerID
	}

	return out, nil
}

func rosterByNumber(team match.Team) map[int]string {
	out := make(map[int]string, len(team.Players))
	for _, player := range team.Players {
		out[player.ShirtNumber] = player.ID
	}
	return out
}

func parsePositionPair(rawX, rawY string, m match.Match) tracking.Position {
	x, okX := parseTrackingCell(rawX)
	y, okY := parseTrackingCell(rawY)
	if !okX || !okY {
		return tracking.MissingPosition()
	}
	return tracking.Position{
		X: x*m.PitchLength - m.PitchLength/2,
		Y: y*m.PitchWidth - m.PitchWidth/2,
	}
}

func parseTrackingCell(raw string) (float64, bool) {
	value := strings.TrimSpace(raw)
	if value == "" || strings.EqualFold(value, "nan") {
		return 0, false
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(parsed) {
		return 0, false
	}
	return parsed, true
}
