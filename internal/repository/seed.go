package repository

import "github.com/iliyamo/dealership-reviews/internal/model"

// SeedMake is one make plus the models inserted with it.
type SeedMake struct {
	Name        string
	Description string
	Models      []SeedModel
}

// SeedModel is a model row of the reference catalog.
type SeedModel struct {
	Name     string
	BodyType string
	Year     int
	DealerID uint64
}

// DefaultCatalog is the reference data loaded into an empty catalog.
var DefaultCatalog = []SeedMake{
	{Name: "NISSAN", Description: "Great cars. Japanese technology", Models: []SeedModel{
		{Name: "Pathfinder", BodyType: model.BodySUV, Year: 2023, DealerID: 1},
		{Name: "Qashqai", BodyType: model.BodySUV, Year: 2023, DealerID: 1},
		{Name: "XTRAIL", BodyType: model.BodySUV, Year: 2023, DealerID: 1},
	}},
	{Name: "Mercedes", Description: "Great cars. German technology", Models: []SeedModel{
		{Name: "A-Class", BodyType: model.BodySUV, Year: 2023, DealerID: 2},
		{Name: "C-Class", BodyType: model.BodySUV, Year: 2023, DealerID: 2},
		{Name: "E-Class", BodyType: model.BodySUV, Year: 2023, DealerID: 2},
	}},
	{Name: "Audi", Description: "Great cars. German technology", Models: []SeedModel{
		{Name: "A4", BodyType: model.BodySUV, Year: 2023, DealerID: 3},
		{Name: "A5", BodyType: model.BodySUV, Year: 2023, DealerID: 3},
		{Name: "A6", BodyType: model.BodySUV, Year: 2023, DealerID: 3},
	}},
	{Name: "Kia", Description: "Great cars. Korean technology", Models: []SeedModel{
		{Name: "Sorrento", BodyType: model.BodySUV, Year: 2023, DealerID: 4},
		{Name: "Carnival", BodyType: model.BodySUV, Year: 2023, DealerID: 4},
		{Name: "Cerato", BodyType: model.BodySedan, Year: 2023, DealerID: 4},
	}},
	{Name: "Toyota", Description: "Great cars. Japanese technology", Models: []SeedModel{
		{Name: "Corolla", BodyType: model.BodySedan, Year: 2023, DealerID: 5},
		{Name: "Camry", BodyType: model.BodySedan, Year: 2023, DealerID: 5},
		{Name: "Kluger", BodyType: model.BodySUV, Year: 2023, DealerID: 5},
	}},
}
