package model

// Body types accepted for CarModel.BodyType.
const (
	BodySedan = "Sedan"
	BodySUV   = "SUV"
	BodyWagon = "WAGON"
)

// CarMake mirrors the `car_makes` table.
type CarMake struct {
	ID          uint64
	Name        string
	Description string
}

// CarModel mirrors the `car_models` table. Make is populated when the
// repository joins car_makes.
type CarModel struct {
	ID       uint64
	MakeID   uint64
	Name     string
	BodyType string
	Year     int
	DealerID uint64
	Make     *CarMake
}
