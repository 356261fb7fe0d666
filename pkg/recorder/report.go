package recorder

import (
	"time"

	"agroskills-platform/internal/domain"
)

// QuestionResult is one row of the final report.
type QuestionResult struct {
	QuestionNumber int
	QuestionText   string
	Uploaded       bool
	Skipped        bool
	Duration       time.Duration
	FaceSamples    int
	Status         string
	Transcription  string
	Score          *float64
	Feedback       string
	// FromServer is set when the row came from the server report rather
	// than from what the session saw while polling.
	FromServer bool
}

// FinalReport is the server report merged with locally known results.
type FinalReport struct {
	Server    *domain.InterviewReport
	Questions []QuestionResult
	// Partial is set when some uploaded answer has no finished analysis.
	Partial bool
}

// Merge combines a server report (possibly nil) with local answers. A
// finished server row wins over local knowledge; otherwise the latest local
// poll result is used.
func Merge(server *domain.InterviewReport, answers []Answer) *FinalReport {
	byNumber := map[int]domain.ResponseStatus{}
	if server != nil {
		for _, st := range server.Report.Responses {
			if st.QuestionNumber > 0 {
				byNumber[st.QuestionNumber] = st
			}
		}
	}

	out := &FinalReport{Server: server, Questions: make([]QuestionResult, 0, len(answers))}
	for _, a := range answers {
		row := QuestionResult{
			QuestionNumber: a.QuestionNumber,
			QuestionText:   a.QuestionText,
			Uploaded:       a.Uploaded,
			Skipped:        a.Skipped || !a.Uploaded,
			Duration:       a.Duration,
			FaceSamples:    a.FaceSamples,
		}
		if a.Analysis != nil {
			applyStatus(&row, *a.Analysis)
		}
		if st, ok := byNumber[a.QuestionNumber]; ok && (st.Status == domain.ProcessingCompleted || row.Status == "") {
			applyStatus(&row, st)
			row.FromServer = true
		}
		if row.Uploaded && row.Status != domain.ProcessingCompleted && row.Status != domain.ProcessingFailed {
			out.Partial = true
		}
		out.Questions = append(out.Questions, row)
	}
	return out
}

func applyStatus(row *QuestionResult, st domain.ResponseStatus) {
	row.Status = st.Status
	row.Transcription = st.Transcription
	row.Score = st.AnalysisScore
	row.Feedback = st.AIAnalysis
}

// Answered counts uploaded questions.
func (r *FinalReport) Answered() int {
	n := 0
	for _, q := range r.Questions {
		if q.Uploaded {
			n++
		}
	}
	return n
}
