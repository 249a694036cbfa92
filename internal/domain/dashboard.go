package domain

// Dashboard is the projection page of one simulation: the fetched series and
// everything derived from them for display
type Dashboard struct {
	Simulation    *Simulation       `json:"simulation"`
	ReferenceYear int               `json:"referenceYear"`
	NetWorth      Amount            `json:"netWorth"`
	AgeSnapshots  []AgeSnapshot     `json:"ageSnapshots"`
	Series        []SeriesPoint     `json:"series"`
	Timeline      []RankedEvent     `json:"timeline"`
	Projection    []ProjectionPoint `json:"projection"`
}
