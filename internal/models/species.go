package models

// Species is one entry in the identification pipeline's reference catalog.
// Served read-only; the real pipeline supplies an ImpactSnapshot built from
// figures like these.
type Species struct {
	SpeciesName string  `json:"speciesName"`
	CommonName  string  `json:"commonName"`
	PlantType   string  `json:"plantType"`
	Description string  `json:"description"`
	CO2Annual   float64 `json:"co2AbsorbedAnnual"`
	CO2Daily    float64 `json:"co2AbsorbedDaily"`
	Height      float64 `json:"height"`
	CanopyArea  float64 `json:"canopyArea"`
	OptimalTemp float64 `json:"optimalTemp"`
	Rainfall    float64 `json:"rainfall"`
	SoilType    string  `json:"soilType"`
	Confidence  float64 `json:"confidence"`
}

// Snapshot converts a catalog entry into a mintable impact snapshot.
func (s Species) Snapshot(location string) ImpactSnapshot {
	return ImpactSnapshot{
		SpeciesName:       s.SpeciesName,
		CommonName:        s.CommonName,
		PlantType:         s.PlantType,
		Description:       s.Description,
		CO2AbsorbedAnnual: s.CO2Annual,
		CO2AbsorbedDaily:  s.CO2Daily,
		CanopyArea:        s.CanopyArea,
		Height:            s.Height,
		Location:          location,
		Confidence:        s.Confidence,
		OptimalTemp:       s.OptimalTemp,
		Rainfall:          s.Rainfall,
		SoilType:          s.SoilType,
	}
}

// SampleSpecies is the built-in reference catalog used by demos and seeds.
var SampleSpecies = []Species{
	{
		SpeciesName: "Mangifera indica",
		CommonName:  "Mango Tree",
		PlantType:   "tree",
		Description: "Tropical fruit tree known for its delicious fruits and excellent carbon sequestration capabilities.",
		CO2Annual:   52.5,
		CO2Daily:    0.144,
		Height:      14.98,
		CanopyArea:  61.162,
		OptimalTemp: 20.71,
		Rainfall:    530.4,
		SoilType:    "Loam",
		Confidence:  0.95,
	},
	{
		SpeciesName: "Jacaranda mimosifolia",
		CommonName:  "Jacaranda Tree",
		PlantType:   "tree",
		Description: "Beautiful ornamental tree with purple flowers. Excellent for urban landscaping.",
		CO2Annual:   28.9,
		CO2Daily:    0.079,
		Height:      17.685,
		CanopyArea:  7.692,
		OptimalTemp: 10.16,
		Rainfall:    335.9,
		SoilType:    "Sandy",
		Confidence:  0.92,
	},
	{
		SpeciesName: "Delonix regia",
		CommonName:  "Flame Tree",
		PlantType:   "tree",
		Description: "Striking ornamental tree with brilliant red-orange flowers. Fast-growing and excellent for carbon sequestration.",
		CO2Annual:   51.0,
		CO2Daily:    0.140,
		Height:      6.965,
		CanopyArea:  42.891,
		OptimalTemp: 26.17,
		Rainfall:    1377.9,
		SoilType:    "Peaty",
		Confidence:  0.94,
	},
}
