package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCreateSchema(t *testing.T) {
	type metrics struct {
		CTR  float64 `json:"ctr"`
		ROAS float64 `json:"roas"`
	}
	type strategy struct {
		Name     string   `json:"campaign_name"`
		Days     int      `json:"duration_days"`
		Active   bool     `json:"active"`
		Channels []string `json:"channels"`
		Metrics  metrics  `json:"target_metrics"`
		Labels   map[string]string
		Note     *string `json:"note"`
		hidden   int
		Internal string `json:"-"`
	}

	schema := CreateSchema(strategy{})

	assert.Equal(t, "string", schema["campaign_name"])
	assert.Equal(t, "number", schema["duration_days"])
	assert.Equal(t, "boolean", schema["active"])
	assert.Equal(t, []any{"string"}, schema["channels"])
	assert.Equal(t, map[string]any{"ctr": "number", "roas": "number"}, schema["target_metrics"])
	assert.Equal(t, map[string]any{}, schema["Labels"], "untagged exported field keeps its Go name")
	assert.Equal(t, "string", schema["note"], "pointer fields describe their element type")
	assert.NotContains(t, schema, "hidden")
	assert.NotContains(t, schema, "Internal")
}

func TestCreateSchemaPointerInput(t *testing.T) {
	type sample struct {
		Name string `json:"name"`
	}

	assert.Equal(t, CreateSchema(sample{}), CreateSchema(&sample{}))
}

func TestCreateSchemaNonStruct(t *testing.T) {
	assert.Empty(t, CreateSchema("not a struct"))
	assert.Empty(t, CreateSchema(42))
}
