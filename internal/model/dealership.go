package model

// Dealership is a row of the local `dealerships` table.
type Dealership struct {
	ID        uint64 `json:"id"`
	FullName  string `json:"full_name"`
	ShortName string `json:"-"`
	City      string `json:"city"`
	Address   string `json:"address"`
	Zip       string `json:"zip"`
	State     string `json:"state"`
}

// Dealer is a dealer object exactly as the remote backend sends it. Keys
// are kept verbatim, so fields this service never reads (Mongo's _id and
// __v, lat/long as strings or numbers) reach the client unchanged.
type Dealer map[string]any
