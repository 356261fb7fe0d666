package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"agroskills-platform/internal/domain"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/schema"
)

// maxInlineVideo is the largest answer sent inline to the model.
const maxInlineVideo = 20 << 20

var ErrEmptyModelResponse = errors.New("analysis: empty model response")

// GeminiAnalyzer sends the answer video to a multimodal model and asks for
// a transcription and an evaluation in JSON.
type GeminiAnalyzer struct {
	model llms.Model
}

func NewGeminiAnalyzer(ctx context.Context, apiKey, model string) (*GeminiAnalyzer, error) {
	llm, err := googleai.New(ctx,
		googleai.WithAPIKey(apiKey),
		googleai.WithDefaultModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &GeminiAnalyzer{model: llm}, nil
}

// NewLLMAnalyzer wraps any langchaingo model.
func NewLLMAnalyzer(model llms.Model) *GeminiAnalyzer {
	return &GeminiAnalyzer{model: model}
}

const evaluationPrompt = `Você é um recrutador experiente do agronegócio avaliando uma entrevista simulada em vídeo.

Vaga: %s
Empresa: %s
Área: %s
Pergunta %d (%s): %s
Duração da resposta: %d segundos
Análise facial: %s

Transcreva a fala do candidato em português e avalie a resposta.
Responda SOMENTE com JSON válido, sem blocos de código, no formato:
{
  "transcription": "texto falado pelo candidato",
  "score": número de 0 a 10,
  "feedback": "parágrafo curto com a avaliação",
  "strengths": ["ponto forte"],
  "improvements": ["ponto a melhorar"],
  "emotion": "emoção predominante",
  "confidence": número de 0 a 1 indicando a segurança do candidato
}`

type modelVerdict struct {
	Transcription string   `json:"transcription"`
	Score         float64  `json:"score"`
	Feedback      string   `json:"feedback"`
	Strengths     []string `json:"strengths"`
	Improvements  []string `json:"improvements"`
	Emotion       string   `json:"emotion"`
	Confidence    float64  `json:"confidence"`
}

func (g *GeminiAnalyzer) Analyze(ctx context.Context, in domain.AnalysisInput) (*domain.AnalysisResult, error) {
	if in.Video == nil {
		return nil, errors.New("analysis: missing video")
	}
	video, err := io.ReadAll(io.LimitReader(in.Video, maxInlineVideo+1))
	if err != nil {
		return nil, fmt.Errorf("read video: %w", err)
	}
	if len(video) > maxInlineVideo {
		return nil, fmt.Errorf("analysis: video larger than %d MB", maxInlineVideo>>20)
	}

	faces := summarizeFaces(in.FaceSamples)
	vaga := in.Vaga
	if vaga == nil {
		vaga = &domain.VagaTeste{}
	}
	prompt := fmt.Sprintf(evaluationPrompt,
		vaga.Nome, vaga.Empresa, vaga.Area,
		in.Question.Number, in.Question.Type, in.Question.Text,
		in.DurationSeconds, faces.describe())

	contentType := in.ContentType
	if contentType == "" {
		contentType = "video/webm"
	}
	resp, err := g.model.GenerateContent(ctx, []llms.MessageContent{{
		Role: schema.ChatMessageTypeHuman,
		Parts: []llms.ContentPart{
			llms.BinaryPart(contentType, video),
			llms.TextPart(prompt),
		},
	}}, llms.WithTemperature(0.2))
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Content) == "" {
		return nil, ErrEmptyModelResponse
	}

	verdict, err := parseVerdict(resp.Choices[0].Content)
	if err != nil {
		return nil, err
	}

	result := &domain.AnalysisResult{
		Transcription:   strings.TrimSpace(verdict.Transcription),
		Score:           clamp(verdict.Score, 0, 10),
		Feedback:        strings.TrimSpace(verdict.Feedback),
		Strengths:       verdict.Strengths,
		Improvements:    verdict.Improvements,
		EmotionDetected: verdict.Emotion,
		ConfidenceLevel: clamp(verdict.Confidence, 0, 1),
	}
	if result.EmotionDetected == "" {
		result.EmotionDetected = faces.Dominant
	}
	return result, nil
}

// parseVerdict tolerates markdown fences and text around the JSON object.
func parseVerdict(raw string) (*modelVerdict, error) {
	s := strings.TrimSpace(raw)
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end < start {
		return nil, fmt.Errorf("analysis: no JSON object in model response")
	}
	var v modelVerdict
	if err := json.Unmarshal([]byte(s[start:end+1]), &v); err != nil {
		return nil, fmt.Errorf("analysis: decode model response: %w", err)
	}
	return &v, nil
}
