package domain

import (
	"encoding/json"
	"time"
)

// Role labels one side of a chat transcript.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatMessage is one turn of a persona chat. History is caller-owned; the
// server never stores transcripts.
type ChatMessage struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// Source is a citation attached to a search-grounded result.
type Source struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// DiseaseReport is the parsed reply for a disease diagnosis.
type DiseaseReport struct {
	PlantName     string         `json:"plantName"`
	DiseaseName   string         `json:"diseaseName"`
	Severity      string         `json:"severity"`
	Symptoms      []string       `json:"symptoms"`
	Cures         Cures          `json:"cures"`
	PurchaseLinks []PurchaseLink `json:"purchaseLinks"`
	Prevention    []string       `json:"prevention"`
}

type Cures struct {
	Organic  []string `json:"organic"`
	Chemical []string `json:"chemical"`
}

type PurchaseLink struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// SoilReport is the parsed reply for a soil composition analysis.
type SoilReport struct {
	PHValue         float64  `json:"phValue"`
	Nitrogen        string   `json:"nitrogen"`
	Phosphorus      string   `json:"phosphorus"`
	Potassium       string   `json:"potassium"`
	OrganicMatter   string   `json:"organicMatter"`
	SuitableCrops   []string `json:"suitableCrops"`
	ImprovementTips []string `json:"improvementTips"`
}

// SeedReport is the parsed reply for a seed identification.
type SeedReport struct {
	SeedName          string   `json:"seedName"`
	PlantName         string   `json:"plantName"`
	Description       string   `json:"description"`
	CultivationPlaces []string `json:"cultivationPlaces"`
	BestSoil          string   `json:"bestSoil"`
	GrowthTips        []string `json:"growthTips"`
}

// NutrientReport is the parsed reply for a nutrient deficiency check.
// HealthScore is whatever integer the model returned; the documented domain
// is 0-100 but out-of-range values pass through unchanged.
type NutrientReport struct {
	HealthScore     int      `json:"healthScore"`
	Deficiencies    []string `json:"deficiencies"`
	Symptoms        []string `json:"symptoms"`
	Recommendations []string `json:"recommendations"`
}

// WeatherReport is the parsed reply for a location weather-risk analysis.
// GroundingSources come from search-grounding metadata rather than from the
// model text, and are attached after parsing.
type WeatherReport struct {
	LocationName     string         `json:"locationName"`
	Current          CurrentWeather `json:"current"`
	Forecast         []ForecastDay  `json:"forecast"`
	Risks            WeatherRisks   `json:"risks"`
	FarmingTip       string         `json:"farmingTip"`
	GroundingSources []Source       `json:"groundingSources,omitempty"`
}

type CurrentWeather struct {
	Temp      string `json:"temp"`
	Condition string `json:"condition"`
	Humidity  string `json:"humidity"`
	Wind      string `json:"wind"`
}

type ForecastDay struct {
	Day       string `json:"day"`
	Temp      string `json:"temp"`
	Condition string `json:"condition"`
}

type WeatherRisks struct {
	FloodProbability   string `json:"floodProbability"`
	CycloneProbability string `json:"cycloneProbability"`
	Details            string `json:"details"`
}

// Analysis is one completed analysis as persisted to history. Result holds
// the report exactly as it was serialized; only successful analyses are
// recorded.
type Analysis struct {
	ID        string          `json:"id"`
	Kind      string          `json:"kind"`
	ImageKey  string          `json:"imageKey,omitempty"`
	Location  string          `json:"location,omitempty"`
	Result    json.RawMessage `json:"result"`
	CreatedAt time.Time       `json:"createdAt"`
}
