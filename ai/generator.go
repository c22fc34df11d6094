// Package ai wraps the external language-model endpoint that writes
// promotional service descriptions. The single operation never fails to
// return something: without a configured credential it degrades to a
// deterministic template, and on transport failure it returns a
// localized message as content.
package ai

import (
	"context"
	"fmt"
	"strings"

	"resolveai/utils"

	genai "github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// Generator produces a short promotional description from a title and a
// keyword list, optionally refining an existing description.
type Generator interface {
	GenerateDescription(ctx context.Context, title string, keywords []string, existing string) string
}

const unavailableMessage = "Não foi possível gerar a descrição automaticamente. Tente novamente em instantes."

// NewGenerator returns a Gemini-backed generator, or the deterministic
// fallback when no API key is configured or the client cannot be built.
func NewGenerator(apiKey string) Generator {
	logger := utils.GetLogger()
	if apiKey == "" {
		logger.Info("no text-generation credential configured, using fallback generator")
		return &FallbackGenerator{}
	}
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		logger.Warn("failed to create Gemini client, using fallback generator", zap.Error(err))
		return &FallbackGenerator{}
	}
	return &GeminiGenerator{
		model:  client.GenerativeModel("models/gemini-1.5-flash"),
		logger: logger,
	}
}

// GeminiGenerator calls the Gemini endpoint.
type GeminiGenerator struct {
	model  *genai.GenerativeModel
	logger *zap.Logger
}

func (g *GeminiGenerator) GenerateDescription(ctx context.Context, title string, keywords []string, existing string) string {
	resp, err := g.model.GenerateContent(ctx, genai.Text(buildPrompt(title, keywords, existing)))
	if err != nil {
		g.logger.Warn("gemini generate error", zap.Error(err))
		return unavailableMessage
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return unavailableMessage
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if textPart, ok := part.(genai.Text); ok {
			sb.WriteString(string(textPart))
		}
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return unavailableMessage
	}
	return text
}

func buildPrompt(title string, keywords []string, existing string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Escreva uma descrição curta e atraente para o serviço %q oferecido em um marketplace de profissionais.\n", title)
	if len(keywords) > 0 {
		fmt.Fprintf(&sb, "Palavras-chave: %s.\n", strings.Join(keywords, ", "))
	}
	if existing != "" {
		fmt.Fprintf(&sb, "Descrição atual, para referência: %q.\n", existing)
	}
	sb.WriteString("Use tom profissional e convidativo, no máximo 3 frases, em português. Responda apenas com o texto da descrição.")
	return sb.String()
}

// FallbackGenerator builds the description locally, always from the same
// inputs to the same output.
type FallbackGenerator struct{}

func (FallbackGenerator) GenerateDescription(_ context.Context, title string, keywords []string, _ string) string {
	if len(keywords) == 0 {
		return fmt.Sprintf("%s com qualidade e confiança. Solicite já o seu orçamento!", title)
	}
	return fmt.Sprintf("%s com qualidade e confiança. Destaques: %s. Solicite já o seu orçamento!",
		title, strings.Join(keywords, ", "))
}
