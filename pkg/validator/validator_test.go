package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sample struct {
	Name string `validate:"required"`
	Mode string `validate:"oneof=a b"`
}

func TestValidateStruct(t *testing.T) {
	assert.NoError(t, ValidateStruct(sample{Name: "x", Mode: "a"}))

	err := ValidateStruct(sample{Mode: "c"})
	assert.ErrorContains(t, err, "sample.Name")
	assert.ErrorContains(t, err, "Tag: oneof")
}

func TestValidateVar(t *testing.T) {
	assert.NoError(t, ValidateVar("alice", "required,max=5"))
	assert.Error(t, ValidateVar("", "required"))
	assert.Error(t, ValidateVar("toolong", "max=5"))
}
