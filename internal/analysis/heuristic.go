package analysis

import (
	"context"
	"fmt"

	"agroskills-platform/internal/domain"
)

// HeuristicAnalyzer scores an answer from its duration and the face samples
// alone. It is used when no model is configured or the model call fails.
type HeuristicAnalyzer struct{}

var positiveExpressions = map[string]bool{"neutral": true, "happy": true}
var negativeExpressions = map[string]bool{"fearful": true, "sad": true, "angry": true, "disgusted": true}

func (HeuristicAnalyzer) Analyze(_ context.Context, in domain.AnalysisInput) (*domain.AnalysisResult, error) {
	faces := summarizeFaces(in.FaceSamples)
	score := 5.0
	var strengths, improvements []string

	switch d := in.DurationSeconds; {
	case d == 0:
	case d < 15:
		score -= 2
		improvements = append(improvements, "Desenvolver mais a resposta, ela foi muito curta")
	case d <= 90:
		score += 1.5
		strengths = append(strengths, "Resposta com duração adequada")
	default:
		score += 0.5
		improvements = append(improvements, "Ser mais objetivo")
	}

	if faces.Samples > 0 {
		var pos, neg float64
		for k, v := range faces.Shares {
			switch {
			case positiveExpressions[k]:
				pos += v
			case negativeExpressions[k]:
				neg += v
			}
		}
		score += 2*pos - 2*neg
		if pos >= 0.6 {
			strengths = append(strengths, "Postura calma durante a resposta")
		}
		if neg >= 0.3 {
			improvements = append(improvements, "Trabalhar o nervosismo diante da câmera")
		}
		if faces.Confidence > 0 {
			score += (faces.Confidence - 0.5) * 2
		}
	}

	confidence := faces.Confidence
	if confidence == 0 {
		confidence = 0.5
	}
	score = clamp(score, 0, 10)
	return &domain.AnalysisResult{
		Score:           float64(int(score*10+0.5)) / 10,
		Feedback:        fmt.Sprintf("Avaliação automática baseada em duração e expressões (%s).", faces.describe()),
		Strengths:       strengths,
		Improvements:    improvements,
		EmotionDetected: faces.Dominant,
		ConfidenceLevel: clamp(confidence, 0, 1),
	}, nil
}
