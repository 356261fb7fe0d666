package usecase

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"agroskills-platform/internal/domain"
)

const (
	hireThreshold     = 8.0
	evaluateThreshold = 6.0
	// per-answer score that counts as a strength or a gap
	strongAnswer = 7.5
	weakAnswer   = 5.0
)

func round1(v float64) float64 { return math.Round(v*10) / 10 }

// averageScore is the mean of the analysed answers, nil while none is scored.
func averageScore(responses []domain.InterviewResponse) *float64 {
	var sum float64
	var n int
	for _, r := range responses {
		if r.ProcessingStatus == domain.ProcessingCompleted && r.Score != nil {
			sum += *r.Score
			n++
		}
	}
	if n == 0 {
		return nil
	}
	avg := round1(sum / float64(n))
	return &avg
}

// EmotionSummary averages the expression probabilities of every face sample
// across all answers. Samples that only carry a dominant expression count as
// probability 1 for it.
func EmotionSummary(responses []domain.InterviewResponse) map[string]float64 {
	totals := map[string]float64{}
	var samples int
	for _, r := range responses {
		for _, s := range r.FaceAnalysis {
			switch {
			case len(s.Expressions) > 0:
				for k, v := range s.Expressions {
					totals[k] += v
				}
			case s.Expression != "":
				totals[s.Expression]++
			default:
				continue
			}
			samples++
		}
	}
	if samples == 0 {
		return nil
	}
	out := make(map[string]float64, len(totals))
	for k, v := range totals {
		out[k] = math.Round(v/float64(samples)*1000) / 1000
	}
	return out
}

func dominantEmotion(summary map[string]float64) string {
	var best string
	var bestV float64
	keys := make([]string, 0, len(summary))
	for k := range summary {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if summary[k] > bestV {
			best, bestV = k, summary[k]
		}
	}
	return best
}

// Recommendation maps an overall 0-10 score to the hiring recommendation.
func Recommendation(score float64) string {
	switch {
	case score >= hireThreshold:
		return domain.RecommendationHire
	case score >= evaluateThreshold:
		return domain.RecommendationEvaluate
	default:
		return domain.RecommendationNoHire
	}
}

var emotionLabels = map[string]string{
	"neutral":   "neutra",
	"happy":     "alegre",
	"sad":       "triste",
	"angry":     "tensa",
	"fearful":   "apreensiva",
	"disgusted": "desconfortável",
	"surprised": "surpresa",
}

var questionTypeLabels = map[string]string{
	"geral":          "apresentação e motivação",
	"tecnica":        "conhecimento técnico",
	"comportamental": "comportamento",
	"situacional":    "resolução de situações",
}

func typeLabel(t string) string {
	if l, ok := questionTypeLabels[t]; ok {
		return l
	}
	return t
}

// BuildReport assembles the final report from the stored answers.
func BuildReport(iv *domain.Interview, responses []domain.InterviewResponse, vaga *domain.VagaTeste, now time.Time) domain.Report {
	total := iv.QuestionsCount
	if total == 0 {
		total = len(iv.Questions)
	}

	rep := domain.Report{
		CandidateName:      iv.CandidateName,
		CompletedQuestions: len(responses),
		TotalQuestions:     total,
		EmotionSummary:     EmotionSummary(responses),
		Responses:          make([]domain.ResponseStatus, 0, len(responses)),
		Timestamp:          now,
	}
	for i := range responses {
		rep.Responses = append(rep.Responses, *statusOf(&responses[i]))
	}

	avg := averageScore(responses)
	if avg == nil {
		rep.Recommendation = domain.RecommendationEvaluate
		rep.Summary = fmt.Sprintf("%s respondeu %d de %d perguntas. A análise das respostas ainda não foi concluída.",
			iv.CandidateName, rep.CompletedQuestions, total)
		rep.DetailedAnalysis = "Nenhuma resposta analisada até o momento."
		rep.Sections = buildSections(responses, vaga, 0)
		return rep
	}

	rep.OverallScore = *avg
	rep.Recommendation = Recommendation(rep.OverallScore)
	rep.Summary = fmt.Sprintf("%s respondeu %d de %d perguntas com nota média %.1f de 10. Recomendação: %s.",
		iv.CandidateName, rep.CompletedQuestions, total, rep.OverallScore, rep.Recommendation)
	rep.DetailedAnalysis = detailedAnalysis(responses, rep.EmotionSummary)
	rep.Sections = buildSections(responses, vaga, rep.OverallScore)
	return rep
}

func detailedAnalysis(responses []domain.InterviewResponse, emotions map[string]float64) string {
	var b strings.Builder
	for _, r := range responses {
		fmt.Fprintf(&b, "Pergunta %d (%s): ", r.QuestionNumber, typeLabel(r.QuestionType))
		switch {
		case r.ProcessingStatus == domain.ProcessingCompleted && r.Score != nil:
			fmt.Fprintf(&b, "nota %.1f.", *r.Score)
			if r.AIAnalysis != "" {
				b.WriteString(" " + r.AIAnalysis)
			}
		case r.ProcessingStatus == domain.ProcessingFailed:
			b.WriteString("não foi possível analisar a resposta.")
		default:
			b.WriteString("análise em andamento.")
		}
		b.WriteString("\n")
	}
	if d := dominantEmotion(emotions); d != "" {
		label := emotionLabels[d]
		if label == "" {
			label = d
		}
		fmt.Fprintf(&b, "Expressão predominante durante a entrevista: %s.", label)
	}
	return strings.TrimSpace(b.String())
}

func buildSections(responses []domain.InterviewResponse, vaga *domain.VagaTeste, overall float64) domain.ReportSections {
	s := domain.ReportSections{
		PontosFortes:          []string{},
		AreasDesenvolvimento:  []string{},
		RecomendacoesCarreira: []string{},
		PlanoDesenvolvimento:  []string{},
	}

	weakTypes := map[string]bool{}
	for _, r := range responses {
		if r.Score == nil || r.ProcessingStatus != domain.ProcessingCompleted {
			continue
		}
		switch {
		case *r.Score >= strongAnswer:
			s.PontosFortes = append(s.PontosFortes,
				fmt.Sprintf("Boa resposta sobre %s (pergunta %d)", typeLabel(r.QuestionType), r.QuestionNumber))
		case *r.Score < weakAnswer:
			s.AreasDesenvolvimento = append(s.AreasDesenvolvimento,
				fmt.Sprintf("Aprofundar respostas sobre %s (pergunta %d)", typeLabel(r.QuestionType), r.QuestionNumber))
			weakTypes[r.QuestionType] = true
		}
		if r.ConfidenceLevel != nil && *r.ConfidenceLevel < 0.5 {
			weakTypes["confidence"] = true
		}
	}
	if weakTypes["confidence"] {
		s.AreasDesenvolvimento = append(s.AreasDesenvolvimento, "Demonstrar mais segurança ao responder")
	}

	area := "agronegócio"
	if vaga != nil && vaga.Area != "" {
		area = vaga.Area
	}
	switch {
	case overall >= hireThreshold:
		s.RecomendacoesCarreira = append(s.RecomendacoesCarreira,
			fmt.Sprintf("Candidatar-se a vagas reais na área de %s", area),
			"Buscar posições com maior responsabilidade técnica")
	case overall >= evaluateThreshold:
		s.RecomendacoesCarreira = append(s.RecomendacoesCarreira,
			fmt.Sprintf("Continuar praticando entrevistas para vagas de %s", area),
			"Preparar exemplos concretos de experiências anteriores")
	default:
		s.RecomendacoesCarreira = append(s.RecomendacoesCarreira,
			fmt.Sprintf("Concluir trilhas de capacitação em %s", area),
			"Refazer a entrevista simulada após a capacitação")
	}

	types := make([]string, 0, len(weakTypes))
	for t := range weakTypes {
		types = append(types, t)
	}
	sort.Strings(types)
	for _, t := range types {
		switch t {
		case "confidence":
			s.PlanoDesenvolvimento = append(s.PlanoDesenvolvimento, "Gravar respostas de treino e revisar postura e tom de voz")
		case "tecnica":
			s.PlanoDesenvolvimento = append(s.PlanoDesenvolvimento, fmt.Sprintf("Estudar os fundamentos técnicos de %s", area))
		default:
			s.PlanoDesenvolvimento = append(s.PlanoDesenvolvimento,
				fmt.Sprintf("Praticar respostas de %s usando o método STAR", typeLabel(t)))
		}
	}
	if len(s.PlanoDesenvolvimento) == 0 {
		s.PlanoDesenvolvimento = append(s.PlanoDesenvolvimento, "Manter a prática com novas entrevistas simuladas")
	}
	return s
}
