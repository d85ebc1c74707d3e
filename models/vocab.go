package models

// Fixed vocabularies used by record forms and label generation.

// PlantSizes are the deliverable plant formats an order can ask for.
var PlantSizes = []string{"In Vitro Shoots", "Clones", "Teens", "Other"}

// ExplantTypes describe the starting tissue of a batch.
var ExplantTypes = []string{"Node", "Microshoot", "Meristem", "Other"}

// RootingMedia is the media type that moves explants into the rooting
// stage when a transfer lands on it.
const RootingMedia = "Rooting Media"

// MediaTypes are the culture media offered for initiation and transfer.
var MediaTypes = []string{
	"50% EECN",
	"100% EECN",
	"50% MS",
	"100% MS",
	"50% DKW",
	"100% DKW",
	RootingMedia,
}

// ContaminationTypes classify an infection event.
var ContaminationTypes = []string{"Bacterial", "Fungal"}

// PathogenOptions are the pathogens a batch can test positive for.
var PathogenOptions = []string{
	"Hop Latent Viroid",
	"Arabis Mosaic Virus",
	"Beet Curly Top Virus",
	"Lettuce Chlorosis Virus",
	"Cannabis Cryptic Virus",
	"Tomato Ringspot Virus",
	"Tobacco Mosaic Virus",
	"Tomato Mosaic Virus",
	"Botrytis cineria",
	"Pythium myriotylum",
	"Fusarium oxysporum",
	"Fusarium solani",
	"Golovinomyces ambrosiae",
}

// LabelStages are the propagation stages selectable on a printed
// label. Free-text custom stages are allowed alongside these.
var LabelStages = []string{
	"Initiation",
	"Multiplication",
	"Elongation",
	"Rooting",
	"Acclimation",
	"Hardening",
	"Stock Plant",
	"Mother Plant",
}
