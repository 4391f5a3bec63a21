package metrica

import (
	"time"

	"github.com/trackmetrics/pitchsync/internal/domain/match"
)

const sampleMetadataXML = `<Metadata>
  <Session matchId="game-1" frameRate="25">
    <PitchSize length="105" width="68"/>
    <Periods>
      <Period id="1" startFrame="1" endFrame="1000" startTime="2024-05-01T18:00:00Z"/>
      <Period id="2" startFrame="1500" endFrame="2500" startTime="2024-05-01T19:05:00Z"/>
    </Periods>
  </Session>
  <Teams>
    <Team id="TMA" side="home" name="Team A">
      <Player id="P1" number="1" position="GK" name="Keeper A"/>
      <Player id="P2" number="7" position="FW" name="Striker A"/>
    </Team>
    <Team id="TMB" side="away" name="Team B">
      <Player id="P11" number="1" position="GK" name="Keeper B"/>
    </Team>
  </Teams>
</Metadata>`

const sampleEventsJSON = `{"data":[
  {"team":{"id":"TMA","name":"Team A"},"type":{"id":5,"name":"PASS"},"subtypes":{"id":30,"name":"INCOMPLETE"},"period":1,
   "start":{"frame":10,"time":2.0,"x":0.5,"y":0.5},"end":{"frame":20,"time":3.0,"x":null,"y":0.5},
   "from":{"id":"P1","name":"Keeper A"}},
  {"team":{"id":"TMA","name":"Team A"},"type":{"id":5,"name":"PASS"},"period":1,
   "start":{"frame":30,"time":65.5,"x":0.25,"y":1.0},"end":{"frame":40,"time":66.5,"x":0.3,"y":0.9},
   "from":{"id":"P2","name":"Striker A"},"to":{"id":"P1","name":"Keeper A"}},
  {"team":{"id":"TMA","name":"Team A"},"type":{"id":2,"name":"CARRY"},"period":1,
   "start":{"frame":50,"time":70.0,"x":0.3,"y":0.9},"end":{"frame":60,"time":72.0,"x":0.4,"y":0.8},
   "from":{"id":"P1","name":"Keeper A"}},
  {"team":{"id":"TMB","name":"Team B"},"type":{"id":1,"name":"SHOT"},"subtypes":[{"id":81,"name":"ON TARGET"},{"id":82,"name":"GOAL"}],"period":1,
   "start":{"frame":80,"time":80.0,"x":0.9,"y":0.5},"end":{"frame":85,"time":81.0,"x":1.0,"y":0.5},
   "from":{"id":"P11","name":"Keeper B"}}
]}`

const sampleTrackingCSV = `,,,Team A,,Team A,,Team B,,Ball,
,,,1,,7,,1,,,
Period,Frame,Time [s],Player1,,Player7,,Player11,,Ball,
1,1,0.04,0.5,0.5,0.6,0.4,NaN,NaN,0.5,0.5
1,2,0.08,0.5,0.52,,,0.3,0.7,NaN,NaN
`

func testMatch() match.Match {
	periodStart := time.Date(2024, 5, 1, 18, 0, 0, 0, time.UTC)
	return match.Match{
		ID:       "game-1",
		Provider: ProviderName,
		HomeTeam: match.Team{
			ID:   "TMA",
			Name: "Team A",
			Side: match.SideHome,
			Players: []match.Player{
				{ID: "P1", Name: "Keeper A", ShirtNumber: 1, Position: "GK"},
				{ID: "P2", Name: "Striker A", ShirtNumber: 7, Position: "FW"},
			},
		},
		AwayTeam: match.Team{
			ID:   "TMB",
			Name: "Team B",
			Side: match.SideAway,
			Players: []match.Player{
				{ID: "P11", Name: "Keeper B", ShirtNumber: 1, Position: "GK"},
			},
		},
		PitchLength: 100,
		PitchWidth:  50,
		FrameRate:   25,
		Periods: []match.Period{
			{ID: 1, StartFrame: 1, EndFrame: 1000, TrackingStartAt: periodStart, EventStartAt: periodStart},
		},
		Status: match.StatusLoaded,
	}
}
