package metrica

import (
	"encoding/xml"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/trackmetrics/pitchsync/internal/domain/match"
)

type metadataDocument struct {
	XMLName xml.Name        `xml:"Metadata"`
	Session metadataSession `xml:"Session"`
	Teams   []metadataTeam  `xml:"Teams>Team"`
}

type metadataSession struct {
	MatchID   string           `xml:"matchId,attr"`
	FrameRate int              `xml:"frameRate,attr"`
	PitchSize metadataPitch    `xml:"PitchSize"`
	Periods   []metadataPeriod `xml:"Periods>Period"`
}

type metadataPitch struct {
	Length float64 `xml:"length,attr"`
	Width  float64 `xml:"width,attr"`
}

type metadataPeriod struct {
	ID         int    `xml:"id,attr"`
	StartFrame int64  `xml:"startFrame,attr"`
	EndFrame   int64  `xml:"endFrame,attr"`
	StartTime  string `xml:"startTime,attr"`
}

type metadataTeam struct {
	ID      string           `xml:"id,attr"`
	Side    string           `xml:"side,attr"`
	Name    string           `xml:"name,attr"`
	Players []metadataPlayer `xml:"Player"`
}

type metadataPlayer struct {
	ID         string `xml:"id,attr"`
	Number     int    `xml:"number,attr"`
	Position   string `xml:"position,attr"`
	Name       string `xml:"name,attr"`
	StartFrame int64  `xml:"startFrame,attr"`
	EndFrame   int64  `xml:"endFrame,attr"`
}

// ParseMetadata builds the match description from the metadata XML. Missing
// pitch dimensions fall back to the standard 106x68 pitch; timestamps without
// a zone are taken as UTC.
func ParseMetadata(raw []byte) (match.Match, error) {
	var doc metadataDocument
	if err := xml.Unmarshal(raw, &doc); err != nil {
		return match.Match{}, fmt.Errorf("decode metadata xml: %w", err)
	}

	if strings.TrimSpace(doc.Session.MatchID) == "" {
		return match.Match{}, fmt.Errorf("metadata is missing a match id")
	}
	if doc.Session.FrameRate <= 0 {
		return match.Match{}, fmt.Errorf("metadata frame rate must be greater than zero")
	}
	if len(doc.Session.Periods) == 0 {
		return match.Match{}, fmt.Errorf("metadata has no periods")
	}

	pitchLength := doc.Session.PitchSize.Length
	pitchWidth := doc.Session.PitchSize.Width
	if pitchLength <= 0 {
		pitchLength = match.DefaultPitchLength
	}
	if pitchWidth <= 0 {
		pitchWidth = match.DefaultPitchWidth
	}

	periods := make([]match.Period, 0, len(doc.Session.Periods))
	for _, item := range doc.Session.Periods {
		if item.ID <= 0 {
			return match.Match{}, fmt.Errorf("metadata period id must be greater than zero")
		}
		if item.EndFrame < item.StartFrame {
			return match.Match{}, fmt.Errorf("metadata period %d frame bounds are inverted", item.ID)
		}
		startAt, err := parseMetadataTime(item.StartTime)
		if err != nil {
			return match.Match{}, fmt.Errorf("parse period %d start time: %w", item.ID, err)
		}
		periods = append(periods, match.Period{
			ID:              item.ID,
			StartFrame:      item.StartFrame,
			EndFrame:        item.EndFrame,
			TrackingStartAt: startAt,
			EventStartAt:    startAt,
		})
	}
	sort.SliceStable(periods, func(i, j int) bool { return periods[i].ID < periods[j].ID })

	var homeTeam, awayTeam match.Team
	var homeSet, awaySet bool
	for _, item := range doc.Teams {
		team, err := parseMetadataTeam(item)
		if err != nil {
			return match.Match{}, err
		}
		switch team.Side {
		case match.SideHome:
			if homeSet {
				return match.Match{}, fmt.Errorf("metadata has more than one home team")
			}
			homeTeam = team
			homeSet = true
		case match.SideAway:
			if awaySet {
				return match.Match{}, fmt.Errorf("metadata has more than one away team")
			}
			awayTeam = team
			awaySet = true
		}
	}
	if !homeSet || !awaySet {
		return match.Match{}, fmt.Errorf("metadata requires one home and one away team")
	}

	out := match.Match{
		ID:          strings.TrimSpace(doc.Session.MatchID),
		Provider:    ProviderName,
		HomeTeam:    homeTeam,
		AwayTeam:    awayTeam,
		PitchLength: pitchLength,
		PitchWidth:  pitchWidth,
		FrameRate:   doc.Session.FrameRate,
		Periods:     periods,
		Status:      match.StatusLoaded,
	}
	if err := out.Validate(); err != nil {
		return match.Match{}, err
	}
	return out, nil
}

func parseMetadataTeam(item metadataTeam) (match.Team, error) {
	side := strings.ToLower(strings.TrimSpace(item.Side))
	if side != match.SideHome && side != match.SideAway {
		return match.Team{}, fmt.Errorf("invalid team side %q", item.Side)
	}
	if strings.TrimSpace(item.ID) == "" {
		return match.Team{}, fmt.Errorf("metadata team is missing an id")
	}

	players := make([]match.Player, 0, len(item.Players))
	for _, p := range item.Players {
		playerID := strings.TrimSpace(p.ID)
		if playerID == "" {
			return match.Team{}, fmt.Errorf("team %s has a player without an id", item.ID)
		}
		players = append(players, match.Player{
			ID:          playerID,
			ExternalID:  playerID,
			Name:        strings.TrimSpace(p.Name),
			ShirtNumber: p.Number,
			Position:    strings.TrimSpace(p.Position),
			StartFrame:  p.StartFrame,
			EndFrame:    p.EndFrame,
		})
	}

	return match.Team{
		ID:         strings.TrimSpace(item.ID),
		ExternalID: strings.TrimSpace(item.ID),
		Name:       strings.TrimSpace(item.Name),
		Side:       side,
		Players:    players,
	}, nil
}

func parseMetadataTime(raw string) (time.Time, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}, fmt.Errorf("start time is required")
	}

	layouts := []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
	}
	var lastErr error
	for _, layout := range layouts {
		parsed, err := time.Parse(layout, value)
		if err == nil {
			return parsed.UTC(), nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
