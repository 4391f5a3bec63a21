package metrica

import (
	"bytes"
	"fmt"
	"math"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/trackmetrics/pitchsync/internal/domain/event"
	"github.com/trackmetrics/pitchsync/internal/domain/match"
)

type eventsDocument struct {
	Data []eventItem `json:"data"`
}

type eventItem struct {
	Team     nameRef     `json:"team"`
	Type     nameRef     `json:"type"`
	Subtypes subtypeList `json:"subtypes"`
	Period   int         `json:"period"`
	Start    eventAnchor `json:"start"`
	End      eventAnchor `json:"end"`
	From     *nameRef    `json:"from"`
	To       *nameRef    `json:"to"`
}

type nameRef struct {
	ID   any    `json:"id"`
	Name string `json:"name"`
}

func (r nameRef) idString() string {
	switch typed := r.ID.(type) {
	case string:
		return strings.TrimSpace(typed)
	case float64:
		return fmt.Sprintf("%d", int64(typed))
	default:
		return ""
	}
}

func (r nameRef) idInt() int {
	if typed, ok := r.ID.(float64); ok {
		return int(typed)
	}
	return 0
}

// subtypeList accepts both the single-object and the array shape the
// provider uses for event subtypes.
type subtypeList []nameRef

func (s *subtypeList) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*s = nil
		return nil
	}

	if trimmed[0] == '[' {
		var items []nameRef
		if err := sonic.Unmarshal(trimmed, &items); err != nil {
			return err
		}
		*s = items
		return nil
	}

	var item nameRef
	if err := sonic.Unmarshal(trimmed, &item); err != nil {
		return err
	}
	*s = subtypeList{item}
	return nil
}

type eventAnchor struct {
	Frame int64    `json:"frame"`
	Time  float64  `json:"time"`
	X     *float64 `json:"x"`
	Y     *float64 `json:"y"`
}

// ParseEvents decodes the events JSON and maps provider rows into canonical
// events. Coordinates are rescaled from the provider's 0..1 range to meters
// from pitch center. Pass and dribble outcomes the provider leaves implicit
// are inferred from the subtypes and the following event.
func ParseEvents(raw []byte, m match.Match) ([]event.Event, error) {
	var doc eventsDocument
	if err := sonic.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode events json: %w", err)
	}

	out := make([]event.Event, 0, len(doc.Data))
	for i, item := range doc.Data {
		if item.Period <= 0 {
			return nil, fmt.Errorf("event %d has invalid period %d", i, item.Period)
		}
		period, ok := periodByID(m, item.Period)
		if !ok {
			return nil, fmt.Errorf("event %d references unknown period %d", i, item.Period)
		}

		providerKind := strings.ToLower(strings.TrimSpace(item.Type.Name))
		periodSeconds := item.Start.Time
		minutes := int(periodSeconds) / 60

		row := event.Event{
			ID:           int64(i + 1),
			MatchID:      m.ID,
			TypeID:       item.Type.idInt(),
			ProviderKind: providerKind,
			Kind:         canonicalKind(providerKind),
			PeriodID:     item.Period,
			Minutes:      minutes,
			Seconds:      periodSeconds - float64(minutes)*60,
			TeamID:       item.Team.idString(),
			StartX:       rescaleCoordinate(item.Start.X, m.PitchLength),
			StartY:       rescaleCoordinate(item.Start.Y, m.PitchWidth),
			EndX:         rescaleCoordinate(item.End.X, m.PitchLength),
			EndY:         rescaleCoordinate(item.End.Y, m.PitchWidth),
			TDFrame:      event.MissingFrame,
			SyncedFrame:  event.MissingFrame,
			DateTime:     period.EventStartAt.Add(secondsToDuration(periodSeconds)),
		}
		if item.Start.Frame > 0 {
			row.TDFrame = item.Start.Frame
		}
		if item.From != nil {
			row.PlayerID = item.From.idString()
			row.PlayerName = strings.TrimSpace(item.From.Name)
		}
		if item.To != nil {
			row.ToPlayerID = item.To.idString()
			row.ToPlayerName = strings.TrimSpace(item.To.Name)
		}
		row.Outcome = outcomeFromSubtypes(row.Kind, item.Subtypes)

		if err := row.Validate(); err != nil {
			return nil, fmt.Errorf("event %d: %w", i, err)
		}
		out = append(out, row)
	}

	inferOutcomesFromFollowingEvent(out)
	return out, nil
}

func canonicalKind(providerKind string) string {
	switch providerKind {
	case "pass":
		return event.KindPass
	case "carry", "dribble":
		return event.KindDribble
	case "shot":
		return event.KindShot
	default:
		return ""
	}
}

// outcomeFromSubtypes resolves outcomes the provider states explicitly.
// Shots are always decided here: a goal subtype means success, anything
// else is a miss.
func outcomeFromSubtypes(kind string, subtypes subtypeList) int {
	joined := make([]string, 0, len(subtypes))
	for _, item := range subtypes {
		joined = append(joined, strings.ToLower(strings.TrimSpace(item.Name)))
	}
	names := strings.Join(joined, " ")

	switch kind {
	case event.KindShot:
		if strings.Contains(names, "goal") && !strings.Contains(names, "own goal") {
			return event.OutcomeSuccess
		}
		return event.OutcomeFail
	case event.KindPass:
		if strings.Contains(names, "incomplete") || strings.Contains(names, "intercept") || strings.Contains(names, "out") {
			return event.OutcomeFail
		}
	case event.KindDribble:
		if strings.Contains(names, "lost") {
			return event.OutcomeFail
		}
	}
	return event.OutcomeUnspecified
}

// Provider kinds signalling that the acting team holds or has taken the
// ball, and kinds signalling it just gave the ball away.
var inPossessionKinds = map[string]struct{}{
	"pass":     {},
	"carry":    {},
	"recovery": {},
	"shot":     {},
}

var outOfPossessionKinds = map[string]struct{}{
	"fault received": {},
	"ball out":       {},
	"ball lost":      {},
}

// inferOutcomesFromFollowingEvent fills the outcomes subtypes left open.
// The immediately following event decides: the same team giving the ball
// away, or the opponent taking possession, fails the pass or dribble;
// anything else succeeds. The trailing event of a stream stays unspecified.
func inferOutcomesFromFollowingEvent(events []event.Event) {
	for i := 0; i+1 < len(events); i++ {
		if events[i].Outcome != event.OutcomeUnspecified {
			continue
		}
		if events[i].Kind != event.KindPass && events[i].Kind != event.KindDribble {
			continue
		}

		next := events[i+1]
		sameTeam := next.TeamID == events[i].TeamID
		_, gaveAway := outOfPossessionKinds[next.ProviderKind]
		_, tookOver := inPossessionKinds[next.ProviderKind]
		if (gaveAway && sameTeam) || (tookOver && !sameTeam) {
			events[i].Outcome = event.OutcomeFail
		} else {
			events[i].Outcome = event.OutcomeSuccess
		}
	}
}

// rescaleCoordinate maps a normalized 0..1 value to meters from pitch
// center. Absent cells become NaN so downstream stages can skip them.
func rescaleCoordinate(value *float64, dimension float64) float64 {
	if value == nil || math.IsNaN(*value) {
		return math.NaN()
	}
	return *value*dimension - dimension/2
}

func periodByID(m match.Match, periodID int) (match.Period, bool) {
	for _, period := range m.Periods {
		if period.ID == periodID {
			return period, true
		}
	}
	return match.Period{}, false
}

func secondsToDuration(seconds float64) time.Duration {
	return time.Duration(seconds * float64(time.Second))
}
