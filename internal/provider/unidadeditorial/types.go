package unidadeditorial

// Wire types for the Unidad Editorial sports events API. Only the fields the
// tracker consumes are declared; the decoder ignores the rest.

type eventsResponse struct {
	Status    string      `json:"status"`
	Data      []matchData `json:"data"`
	Timestamp string      `json:"timestamp"`
}

type matchData struct {
	ID         string     `json:"id"`
	LastUpdate string     `json:"lastUpdate"`
	StartDate  string     `json:"startDate"`
	SportEvent sportEvent `json:"sportEvent"`
	Score      score      `json:"score"`
}

type sportEvent struct {
	Name        string      `json:"name"`
	Competitors competitors `json:"competitors"`
	MatchDay    string      `json:"matchDay"`
	Status      status      `json:"status"`
}

type competitors struct {
	HomeTeam team `json:"homeTeam"`
	AwayTeam team `json:"awayTeam"`
}

type team struct {
	ID          string         `json:"id"`
	AbbName     string         `json:"abbName"`
	FullName    string         `json:"fullName"`
	CommonName  string         `json:"commonName"`
	CountryName string         `json:"countryName"`
	ImageURL    string         `json:"imageUrl"`
	Alternates  alternateNames `json:"alternateCommonNames"`
}

type alternateNames struct {
	EsES string `json:"esES"`
	EnEN string `json:"enEN"`
}

type status struct {
	ID         int            `json:"id"`
	Name       string         `json:"name"`
	Alternates alternateNames `json:"alternateNames"`
}

type score struct {
	HomeTeam teamScore `json:"homeTeam"`
	AwayTeam teamScore `json:"awayTeam"`
}

// totalScore/subScore arrive as strings; they stay strings all the way to the
// diff engine.
type teamScore struct {
	TotalScore string `json:"totalScore"`
	SubScore   string `json:"subScore"`
}
