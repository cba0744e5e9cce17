package analysis

import "fmt"

// System instructions fix the assistant persona and hard constraints per
// analysis kind. User prompts embed the example JSON rendered from the kind's
// schema; the same schema validates the reply, so the two cannot drift apart.

const (
	diseaseSystem = "You are an expert plant pathologist. You diagnose plant diseases " +
		"from photos and recommend practical treatments a home gardener can apply. " +
		"You reply with JSON only, never prose."

	soilSystem = "You are an expert soil scientist. You estimate soil composition from " +
		"photos and suggest crops and amendments. You reply with JSON only, never prose."

	seedSystem = "You are an expert botanist specialising in seed identification. " +
		"You reply with JSON only, never prose."

	nutrientSystem = "You are an expert agronomist. You assess plant nutrient deficiencies " +
		"from leaf photos. You reply with JSON only, never prose."

	weatherSystem = "You are an agricultural weather advisor. You use current web search " +
		"results to report weather and farming risk for a location. You reply with JSON " +
		"only, never prose."

	translateSystem = "You are a precise translator for agricultural advice. Preserve all " +
		"formatting, line breaks, and list structure of the source text. Reply with the " +
		"translation only, no commentary."
)

var DiseaseSchema = &Schema{Fields: []Field{
	{Name: "plantName", Type: TypeString, Example: "Tomato"},
	{Name: "diseaseName", Type: TypeString, Example: "Early Blight"},
	{Name: "severity", Type: TypeString, Enum: []string{"Low", "Medium", "High"}},
	{Name: "symptoms", Type: TypeArray, Elem: &Field{Type: TypeString}, Example: []string{"dark concentric leaf spots"}},
	{Name: "cures", Type: TypeObject, Fields: []Field{
		{Name: "organic", Type: TypeArray, Elem: &Field{Type: TypeString}, Example: []string{"neem oil spray"}},
		{Name: "chemical", Type: TypeArray, Elem: &Field{Type: TypeString}, Example: []string{"chlorothalonil fungicide"}},
	}},
	{Name: "purchaseLinks", Type: TypeArray, Elem: &Field{Type: TypeObject, Fields: []Field{
		{Name: "name", Type: TypeString, Example: "Neem oil"},
		{Name: "url", Type: TypeString, Example: "https://example.com/neem-oil"},
	}}},
	{Name: "prevention", Type: TypeArray, Elem: &Field{Type: TypeString}, Example: []string{"rotate crops yearly"}},
}}

var SoilSchema = &Schema{Fields: []Field{
	{Name: "phValue", Type: TypeNumber, Example: 6.5},
	{Name: "nitrogen", Type: TypeString, Enum: []string{"Low", "Medium", "High"}},
	{Name: "phosphorus", Type: TypeString, Enum: []string{"Low", "Medium", "High"}},
	{Name: "potassium", Type: TypeString, Enum: []string{"Low", "Medium", "High"}},
	{Name: "organicMatter", Type: TypeString, Example: "Moderate, dark topsoil visible"},
	{Name: "suitableCrops", Type: TypeArray, Elem: &Field{Type: TypeString}, Example: []string{"potato", "maize"}},
	{Name: "improvementTips", Type: TypeArray, Elem: &Field{Type: TypeString}, Example: []string{"add compost before planting"}},
}}

var SeedSchema = &Schema{Fields: []Field{
	{Name: "seedName", Type: TypeString, Example: "Sunflower seed"},
	{Name: "plantName", Type: TypeString, Example: "Helianthus annuus"},
	{Name: "description", Type: TypeString, Example: "Large striped achene with a pointed tip"},
	{Name: "cultivationPlaces", Type: TypeArray, Elem: &Field{Type: TypeString}, Example: []string{"temperate plains"}},
	{Name: "bestSoil", Type: TypeString, Example: "Well-drained loam, pH 6.0-7.5"},
	{Name: "growthTips", Type: TypeArray, Elem: &Field{Type: TypeString}, Example: []string{"sow after the last frost"}},
}}

var NutrientSchema = &Schema{Fields: []Field{
	{Name: "healthScore", Type: TypeInteger, Example: 83},
	{Name: "deficiencies", Type: TypeArray, Elem: &Field{Type: TypeString}, Example: []string{"Nitrogen"}},
	{Name: "symptoms", Type: TypeArray, Elem: &Field{Type: TypeString}, Example: []string{"yellowing of older leaves"}},
	{Name: "recommendations", Type: TypeArray, Elem: &Field{Type: TypeString}, Example: []string{"apply nitrogen-rich fertilizer"}},
}}

var WeatherSchema = &Schema{Fields: []Field{
	{Name: "locationName", Type: TypeString, Example: "Dhaka, Bangladesh"},
	{Name: "current", Type: TypeObject, Fields: []Field{
		{Name: "temp", Type: TypeString, Example: "31°C"},
		{Name: "condition", Type: TypeString, Example: "Partly cloudy"},
		{Name: "humidity", Type: TypeString, Example: "78%"},
		{Name: "wind", Type: TypeString, Example: "12 km/h SW"},
	}},
	{Name: "forecast", Type: TypeArray, Elem: &Field{Type: TypeObject, Fields: []Field{
		{Name: "day", Type: TypeString, Example: "Tomorrow"},
		{Name: "temp", Type: TypeString, Example: "29°C"},
		{Name: "condition", Type: TypeString, Example: "Showers"},
	}}},
	{Name: "risks", Type: TypeObject, Fields: []Field{
		{Name: "floodProbability", Type: TypeString, Example: "Low"},
		{Name: "cycloneProbability", Type: TypeString, Example: "None"},
		{Name: "details", Type: TypeString, Example: "River levels normal for the season"},
	}},
	{Name: "farmingTip", Type: TypeString, Example: "Delay irrigation until after the forecast showers"},
}}

// schemaFor maps a kind to its reply schema.
func schemaFor(kind Kind) *Schema {
	switch kind {
	case KindDisease:
		return DiseaseSchema
	case KindSoil:
		return SoilSchema
	case KindSeed:
		return SeedSchema
	case KindNutrient:
		return NutrientSchema
	case KindWeather:
		return WeatherSchema
	}
	return nil
}

func systemFor(kind Kind) string {
	switch kind {
	case KindDisease:
		return diseaseSystem
	case KindSoil:
		return soilSystem
	case KindSeed:
		return seedSystem
	case KindNutrient:
		return nutrientSystem
	case KindWeather:
		return weatherSystem
	}
	return ""
}

const jsonRules = "Respond with only valid JSON matching exactly this shape, with no markdown " +
	"fences and no commentary:\n"

const sentinelRule = "\nIf a list has no findings, use a single entry with the exact string " +
	`"None" rather than an empty list.`

func diseasePrompt() string {
	return "Identify the plant in this photo and diagnose any disease.\n" +
		jsonRules + DiseaseSchema.ExampleJSON() +
		"\nseverity must be exactly one of \"Low\", \"Medium\" or \"High\"." +
		sentinelRule
}

func soilPrompt() string {
	return "Analyse the soil visible in this photo: estimated pH, N-P-K levels, and organic matter.\n" +
		jsonRules + SoilSchema.ExampleJSON() +
		"\nnitrogen, phosphorus and potassium must each be exactly one of \"Low\", \"Medium\" or \"High\"." +
		sentinelRule
}

func seedPrompt() string {
	return "Identify the seed in this photo and describe how to cultivate it.\n" +
		jsonRules + SeedSchema.ExampleJSON() +
		sentinelRule
}

func nutrientPrompt() string {
	return "Assess the plant in this photo for nutrient deficiencies and give an overall " +
		"health score from 0 to 100.\n" +
		jsonRules + NutrientSchema.ExampleJSON() +
		sentinelRule
}

func weatherPrompt(location string) string {
	return fmt.Sprintf("Using current web search results, report the weather and farming risk "+
		"for %q. Include today's conditions, a 3-day forecast, and flood and cyclone risk.\n", location) +
		jsonRules + WeatherSchema.ExampleJSON() +
		sentinelRule
}

func translatePrompt(text, language string) string {
	return fmt.Sprintf("Translate the following text to %s:\n\n%s", language, text)
}

// Persona selects a chat assistant.
type Persona string

const (
	PersonaDisease Persona = "disease"
	PersonaGarden  Persona = "garden"
	PersonaSoil    Persona = "soil"
)

var personaSystems = map[Persona]string{
	PersonaDisease: "You are a friendly plant disease expert. Answer follow-up questions about " +
		"diagnoses, treatments, and plant recovery in short, practical paragraphs.",
	PersonaGarden: "You are a friendly gardening mentor. Answer questions about planting, " +
		"watering, pruning, and seasonal care in short, practical paragraphs.",
	PersonaSoil: "You are a friendly soil health expert. Answer questions about soil testing, " +
		"amendments, and crop suitability in short, practical paragraphs.",
}

// ParsePersona returns the Persona for s, or false if s names no persona.
func ParsePersona(s string) (Persona, bool) {
	if _, ok := personaSystems[Persona(s)]; ok {
		return Persona(s), true
	}
	return "", false
}
