// Package analysis scores recorded interview answers in the background.
package analysis

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"agroskills-platform/internal/domain"
)

// Analyzer turns one recorded answer into a transcription and a 0-10 score.
type Analyzer interface {
	Analyze(ctx context.Context, in domain.AnalysisInput) (*domain.AnalysisResult, error)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// faceStats condenses the face samples of one answer.
type faceStats struct {
	Samples    int
	Dominant   string
	Confidence float64
	Shares     map[string]float64
}

func summarizeFaces(samples []domain.FaceSample) faceStats {
	st := faceStats{Shares: map[string]float64{}}
	var confSum float64
	for _, s := range samples {
		switch {
		case len(s.Expressions) > 0:
			for k, v := range s.Expressions {
				st.Shares[k] += v
			}
		case s.Expression != "":
			st.Shares[s.Expression]++
		default:
			continue
		}
		confSum += s.Confidence
		st.Samples++
	}
	if st.Samples == 0 {
		return st
	}

	keys := make([]string, 0, len(st.Shares))
	for k := range st.Shares {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var best float64
	for _, k := range keys {
		st.Shares[k] /= float64(st.Samples)
		if st.Shares[k] > best {
			st.Dominant, best = k, st.Shares[k]
		}
	}
	st.Confidence = confSum / float64(st.Samples)
	return st
}

func (s faceStats) describe() string {
	if s.Samples == 0 {
		return "sem dados de expressão facial"
	}
	keys := make([]string, 0, len(s.Shares))
	for k := range s.Shares {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s %.0f%%", k, s.Shares[k]*100))
	}
	return fmt.Sprintf("%d amostras; expressão predominante %s; distribuição: %s",
		s.Samples, s.Dominant, strings.Join(parts, ", "))
}

// FormatFeedback renders the result as the text stored with the answer.
func FormatFeedback(r *domain.AnalysisResult) string {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(r.Feedback))
	if len(r.Strengths) > 0 {
		b.WriteString("\nPontos fortes: " + strings.Join(r.Strengths, "; "))
	}
	if len(r.Improvements) > 0 {
		b.WriteString("\nA melhorar: " + strings.Join(r.Improvements, "; "))
	}
	return strings.TrimSpace(b.String())
}
