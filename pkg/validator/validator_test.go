package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type stageReq struct {
	Stage string `validate:"required,stage"`
	When  string `validate:"required,rfc3339"`
}

func TestStageValidator(t *testing.T) {
	assert.NoError(t, Validate.Struct(&stageReq{Stage: "set_apart", When: "2026-11-01T10:00:00Z"}))
	assert.Error(t, Validate.Struct(&stageReq{Stage: "released", When: "2026-11-01T10:00:00Z"}))
	assert.Error(t, Validate.Struct(&stageReq{When: "2026-11-01T10:00:00Z"}))
}

func TestRFC3339(t *testing.T) {
	assert.NoError(t, Validate.Struct(&stageReq{Stage: "proposed", When: "2026-11-01T10:00:00+03:00"}))
	assert.Error(t, Validate.Struct(&stageReq{Stage: "proposed", When: "2026-11-01"}))
	assert.Error(t, Validate.Struct(&stageReq{Stage: "proposed"}))
}
