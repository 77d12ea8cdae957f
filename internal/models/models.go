package models

// Position is a roster position as it appears in the rankings data
type Position string

const (
	PositionQB  Position = "QB"
	PositionRB  Position = "RB"
	PositionWR  Position = "WR"
	PositionTE  Position = "TE"
	PositionK   Position = "K"
	PositionDST Position = "D/ST"
)

// Player represents a ranked player. Players are loaded once and never mutated.
type Player struct {
	Name     string   `json:"name"`
	Position Position `json:"position"`
	Team     string   `json:"team"`
	ByeWeek  string   `json:"byeWeek"`
	Overall  int      `json:"overall"`
}

var positionColors = map[Position]string{
	PositionQB:  "red",
	PositionRB:  "green",
	PositionWR:  "yellow",
	PositionTE:  "purple",
	PositionK:   "orange",
	PositionDST: "white",
}

// ColorFor returns the display color tag for a position, white if unknown
func ColorFor(pos Position) string {
	if c, ok := positionColors[pos]; ok {
		return c
	}
	return "white"
}

// TopPlayer is the presentational shape of a best-available player
type TopPlayer struct {
	Name     string   `json:"name"`
	Position Position `json:"position"`
	ByeWeek  string   `json:"byeWeek"`
	ColorTag string   `json:"colorTag"`
}

// PickRecord describes one completed pick
type PickRecord struct {
	Pick   int    `json:"pick"` // 1-based overall pick number
	Round  int    `json:"round"`
	Seat   int    `json:"seat"` // 0-based seat index
	Team   string `json:"team"`
	Player Player `json:"player"`
	Auto   bool   `json:"auto"`
}

// DraftView is the state a client needs to render a draft
type DraftView struct {
	Round      int         `json:"round"`
	Teams      []string    `json:"teams"`
	Board      [][]string  `json:"board"`
	Top20      []TopPlayer `json:"top20"`
	YourRoster []Player    `json:"yourRoster"`
	OnTheClock string      `json:"onTheClock"`
	Slot       int         `json:"slot"`
	Pick       int         `json:"pick"`
	TotalPicks int         `json:"totalPicks"`
	Complete   bool        `json:"complete"`
}

// SearchResult is a live pool match with the index usable for a pick
type SearchResult struct {
	Index  int    `json:"index"`
	Player Player `json:"player"`
}
