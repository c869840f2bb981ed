package model

// RosterSummary holds roster-wide totals for status views.
type RosterSummary struct {
	Characters   int            `json:"characters"`
	TotalLevel   int            `json:"totalLevel"`
	AverageLevel float64        `json:"averageLevel"`
	HighestLevel int            `json:"highestLevel"`
	HighestIGN   string         `json:"highestIgn"`
	ArcaneForce  int            `json:"arcaneForce"`
	SacredForce  int            `json:"sacredForce"`
	MaxedSymbols int            `json:"maxedSymbols"`
	Factions     map[string]int `json:"factions"`
	Warnings     int            `json:"warnings"`
}
