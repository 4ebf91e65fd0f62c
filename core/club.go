package core

import "math"

// A Country is the three letter code of a national association.
type Country string

// Returns the full name of the association or the code itself
// when the code is not known.
func (c Country) Name() string {
	if name, ok := countryNames[c]; ok {
		return name
	}
	return string(c)
}

// Returns true when the code belongs to a known association.
func (c Country) Known() bool {
	_, ok := countryNames[c]
	return ok
}

var countryNames = map[Country]string{
	"ENG": "England",
	"ITA": "Italy",
	"ESP": "Spain",
	"GER": "Germany",
	"FRA": "France",
	"NED": "Netherlands",
	"POR": "Portugal",
	"BEL": "Belgium",
	"TUR": "Turkey",
	"CZE": "Czech Republic",
	"SCO": "Scotland",
	"SUI": "Switzerland",
	"AUT": "Austria",
	"NOR": "Norway",
	"DEN": "Denmark",
	"GRE": "Greece",
	"ISR": "Israel",
	"UKR": "Ukraine",
	"SRB": "Serbia",
	"CRO": "Croatia",
	"POL": "Poland",
	"RUS": "Russia",
	"CYP": "Cyprus",
	"HUN": "Hungary",
	"SWE": "Sweden",
	"ROM": "Romania",
	"BUL": "Bulgaria",
	"AZE": "Azerbaijan",
	"SLK": "Slovakia",
	"SVN": "Slovenia",
	"MOL": "Moldova",
	"KOS": "Kosovo",
	"KAZ": "Kazakhstan",
	"FIN": "Finland",
	"IRL": "Ireland",
	"ARM": "Armenia",
	"LAT": "Latvia",
	"FAR": "Faroe Islands",
	"BHZ": "Bosnia and Herzegovina",
	"LIE": "Liechtenstein",
	"ISL": "Iceland",
	"NIR": "Northern Ireland",
	"LUX": "Luxembourg",
	"LIT": "Lithuania",
	"MLT": "Malta",
	"GEO": "Georgia",
	"ALB": "Albania",
	"EST": "Estonia",
	"BLR": "Belarus",
	"MAC": "North Macedonia",
	"AND": "Andorra",
	"WAL": "Wales",
	"MNT": "Montenegro",
	"GIB": "Gibraltar",
	"SMR": "San Marino",
}

const (
	// The rating of a club that the rating feed does not know
	UnknownRating = 0.0
)

// The ranking used for a club id that is missing from the registry.
// It sorts behind every real club.
var NeutralRanking = math.MaxFloat64

// A Club is one participant of the competitions.
//
// The Ranking is the club's position in the coefficient
// ranking, lower is stronger. The Rating is auxiliary
// strength data from an external feed.
type Club struct {
	Id      int
	Name    string
	Country Country
	Ranking float64
	Rating  float64
}

// An Entry is a club as it appears in the static competition data.
type Entry struct {
	Name    string
	Country Country
	Ranking float64
}
