package ai

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFallbackIsDeterministic(t *testing.T) {
	gen := NewGenerator("")
	_, ok := gen.(*FallbackGenerator)
	assert.True(t, ok, "no credential configured must select the fallback")

	first := gen.GenerateDescription(context.Background(), "Troca de Chuveiro", []string{"rápido", "seguro"}, "")
	second := gen.GenerateDescription(context.Background(), "Troca de Chuveiro", []string{"rápido", "seguro"}, "")

	assert.Equal(t, first, second)
	assert.Contains(t, first, "Troca de Chuveiro")
	assert.Contains(t, first, "rápido, seguro")
	assert.NotContains(t, first, "Não foi possível", "fallback is content, not an error message")
}

func TestFallbackWithoutKeywords(t *testing.T) {
	gen := FallbackGenerator{}
	got := gen.GenerateDescription(context.Background(), "Pintura Residencial", nil, "")
	assert.Contains(t, got, "Pintura Residencial")
	assert.NotContains(t, got, "Destaques")
}

func TestBuildPrompt(t *testing.T) {
	prompt := buildPrompt("Troca de Chuveiro", []string{"rápido", "seguro"}, "Troco chuveiros.")

	assert.Contains(t, prompt, `"Troca de Chuveiro"`)
	assert.Contains(t, prompt, "rápido, seguro")
	assert.Contains(t, prompt, "Troco chuveiros.")
	assert.True(t, strings.Contains(prompt, "português"))
}
