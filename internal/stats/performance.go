package stats

import (
	"quizboard/internal/quiz"
)

type QuizStat struct {
	QuizType string `json:"quiz_type"`
	Title    string `json:"title"`
	Attempts int    `json:"attempts"`
	Best     int    `json:"best"`
	Avg      int    `json:"avg"`
}

type Bucket struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type Performance struct {
	TotalQuizzes     int        `json:"total_quizzes"`
	AverageScore     int        `json:"average_score"`
	BestScore        int        `json:"best_score"`
	TotalTimeSeconds int        `json:"total_time_seconds"`
	ByQuiz           []QuizStat `json:"by_quiz"`
	Distribution     []Bucket   `json:"distribution"`
}

var distributionBuckets = []struct {
	name     string
	min, max int
}{
	{"Excellent (80%+)", 80, 101},
	{"Good (60-79%)", 60, 80},
	{"Average (40-59%)", 40, 60},
	{"Needs Practice (<40%)", -1, 40},
}

// BuildPerformance aggregates results per quiz type, keeping the order in
// which each type first appears in the log.
func BuildPerformance(results []quiz.Result) Performance {
	perf := Performance{
		TotalQuizzes: len(results),
		ByQuiz:       []QuizStat{},
		Distribution: []Bucket{},
	}

	index := make(map[string]int)
	totals := make([]int, 0)
	totalPercentage := 0
	for i, result := range results {
		totalPercentage += result.Percentage
		if i == 0 || result.Percentage > perf.BestScore {
			perf.BestScore = result.Percentage
		}
		if seconds, ok := quiz.TimeTakenSeconds(result.TimeTaken); ok {
			perf.TotalTimeSeconds += seconds
		}

		pos, ok := index[result.QuizType]
		if !ok {
			pos = len(perf.ByQuiz)
			index[result.QuizType] = pos
			perf.ByQuiz = append(perf.ByQuiz, QuizStat{QuizType: result.QuizType, Title: result.QuizTitle})
			totals = append(totals, 0)
		}
		stat := &perf.ByQuiz[pos]
		stat.Attempts++
		totals[pos] += result.Percentage
		if result.Percentage > stat.Best {
			stat.Best = result.Percentage
		}
	}

	for pos := range perf.ByQuiz {
		perf.ByQuiz[pos].Avg = quiz.RoundHalfUp(float64(totals[pos]) / float64(perf.ByQuiz[pos].Attempts))
	}
	if len(results) > 0 {
		perf.AverageScore = quiz.RoundHalfUp(float64(totalPercentage) / float64(len(results)))
	}

	for _, bucket := range distributionBuckets {
		count := 0
		for _, result := range results {
			if result.Percentage >= bucket.min && result.Percentage < bucket.max {
				count++
			}
		}
		if count > 0 {
			perf.Distribution = append(perf.Distribution, Bucket{Name: bucket.name, Count: count})
		}
	}
	return perf
}
