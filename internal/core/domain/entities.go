package domain

// Domain collections rendered by the site. Identifiers are generated locally
// and are only unique within this store. Inputs are trusted: no referential
// integrity is enforced across collections (removing a team does not touch
// the drivers assigned to it).

// Driver is a championship entrant.
type Driver struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Team     string `json:"team"`
	Points   int    `json:"points"`
	Country  string `json:"country"`
	Number   int    `json:"number"`
	Color    string `json:"color"`
	ImageURL string `json:"image_url,omitempty"`
}

// Team is a constructor entry in the standings.
type Team struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Points int    `json:"points"`
	Color  string `json:"color"`
}

// GridRow is a single per-driver result row in a race's detail grid.
type GridRow struct {
	Position   int    `json:"position"`
	DriverID   string `json:"driver_id"`
	DriverName string `json:"driver_name"`
	Points     int    `json:"points"`
	FastestLap bool   `json:"fastest_lap,omitempty"`
}

// RaceDetails carries the result grid. The grid is stored in the order it
// was submitted; reordering only happens through an explicit sort operation.
type RaceDetails struct {
	Grid []GridRow `json:"grid"`
}

// Race is one calendar entry.
type Race struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Circuit   string       `json:"circuit"`
	Date      string       `json:"date"`
	Location  string       `json:"location"`
	Completed bool         `json:"completed"`
	Winner    string       `json:"winner,omitempty"`
	Details   *RaceDetails `json:"details,omitempty"`
}

// NewsItem is a published article, optionally featured on the home page.
type NewsItem struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	Date     string `json:"date"`
	ImageURL string `json:"image_url,omitempty"`
	VideoURL string `json:"video_url,omitempty"`
	Featured bool   `json:"featured"`
}

// Streamer is a Twitch channel shown on the streaming page.
type Streamer struct {
	Username string `json:"username"`
}

// TournamentConfig is the single tournament-wide settings record.
type TournamentConfig struct {
	Title        string      `json:"title"`
	Season       string      `json:"season"`
	PointsSystem map[int]int `json:"points_system"`
	Streamers    []Streamer  `json:"streamers"`
}
