package analysis

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The example JSON rendered into each prompt must satisfy the same schema
// the parser validates against; a drift between the two fails here instead
// of surfacing as a runtime parse failure.
func TestExampleJSONMatchesSchema(t *testing.T) {
	for _, kind := range []Kind{KindDisease, KindSoil, KindSeed, KindNutrient, KindWeather} {
		t.Run(string(kind), func(t *testing.T) {
			schema := schemaFor(kind)
			require.NotNil(t, schema)

			example := schema.ExampleJSON()
			assert.True(t, json.Valid([]byte(example)), "example must be valid JSON:\n%s", example)
			assert.NoError(t, schema.Validate([]byte(example)))
		})
	}
}

func TestValidateMissingRequiredField(t *testing.T) {
	err := NutrientSchema.Validate([]byte(`{"healthScore": 50, "deficiencies": [], "symptoms": []}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "recommendations")
}

func TestValidateNullRequiredField(t *testing.T) {
	err := NutrientSchema.Validate([]byte(`{"healthScore": 50, "deficiencies": null, "symptoms": [], "recommendations": []}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "deficiencies")
}

func TestValidateWrongType(t *testing.T) {
	err := NutrientSchema.Validate([]byte(`{"healthScore": "fine", "deficiencies": [], "symptoms": [], "recommendations": []}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "healthScore")
}

func TestValidateNonIntegerScore(t *testing.T) {
	err := NutrientSchema.Validate([]byte(`{"healthScore": 82.5, "deficiencies": [], "symptoms": [], "recommendations": []}`))
	assert.Error(t, err)
}

func TestValidateNestedObjectField(t *testing.T) {
	complete := `{
		"phValue": 6.1, "nitrogen": "Low", "phosphorus": "Low", "potassium": "Low",
		"organicMatter": "thin", "suitableCrops": [], "improvementTips": []
	}`
	assert.NoError(t, SoilSchema.Validate([]byte(complete)))

	err := WeatherSchema.Validate([]byte(`{
		"locationName": "Dhaka",
		"current": {"temp": "30", "condition": "Sunny", "humidity": "70%"},
		"forecast": [], "risks": {"floodProbability": "Low", "cycloneProbability": "None", "details": ""},
		"farmingTip": ""
	}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "current.wind")
}

func TestValidateArrayElementType(t *testing.T) {
	err := NutrientSchema.Validate([]byte(`{"healthScore": 50, "deficiencies": [1, 2], "symptoms": [], "recommendations": []}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "deficiencies[0]")
}

func TestValidateUnknownFieldsTolerated(t *testing.T) {
	err := NutrientSchema.Validate([]byte(`{
		"healthScore": 50, "deficiencies": [], "symptoms": [], "recommendations": [],
		"extra": "the model added this"
	}`))
	assert.NoError(t, err)
}

func TestValidateRejectsNonObject(t *testing.T) {
	assert.Error(t, NutrientSchema.Validate([]byte(`[1, 2, 3]`)))
	assert.Error(t, NutrientSchema.Validate([]byte(`"just a string"`)))
}
