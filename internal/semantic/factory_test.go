package semantic

import (
	"testing"

	"github.com/rmaragno/sigilo/internal/model"
)

func modelValidatorConfig(key string) model.ValidatorConfig {
	return model.ValidatorConfig{Provider: "openai", APIKey: key}
}

func TestNewValidator_Disabled(t *testing.T) {
	v, err := NewValidator(model.ValidatorConfig{Provider: ""})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != nil {
		t.Error("expected nil validator when disabled")
	}
}

func TestNewValidator_UnknownProvider(t *testing.T) {
	if _, err := NewValidator(model.ValidatorConfig{Provider: "oracle"}); err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestNewValidator_OpenAI(t *testing.T) {
	v, err := NewValidator(modelValidatorConfig("sk-test"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v == nil || v.Name() != "openai" {
		t.Errorf("expected openai validator, got %v", v)
	}
}
