package model

// Dataset names used in logs, metrics and the report.
const (
	AppStore   = "app_store"
	GooglePlay = "google_play"
)

// Schema maps semantic fields to column indices for one source file.
// A negative index means the field is absent from that source.
type Schema struct {
	Dataset  string
	Arity    int
	Name     int
	Price    int
	Category int
	Genre    int
	// Popularity is rating_count_tot for the App Store and Installs for Google Play.
	Popularity int
	Reviews    int
}

// AppStoreSchema describes AppleStore.csv.
var AppStoreSchema = Schema{
	Dataset:    AppStore,
	Arity:      16,
	Name:       1,
	Price:      4,
	Category:   11,
	Genre:      11,
	Popularity: 5,
	Reviews:    -1,
}

// GooglePlaySchema describes googleplaystore.csv.
var GooglePlaySchema = Schema{
	Dataset:    GooglePlay,
	Arity:      13,
	Name:       0,
	Price:      7,
	Category:   1,
	Genre:      9,
	Popularity: 5,
	Reviews:    3,
}
