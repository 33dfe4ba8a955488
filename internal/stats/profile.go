// Package stats derives the profile and performance views from a user's
// result log. Everything here is a pure function of the results passed in.
package stats

import (
	"sort"

	"quizboard/internal/quiz"
)

const (
	PointsPerCorrectAnswer = 10
	unknownQuizTitle       = "Unknown Quiz"
)

type Rank string

const (
	RankBronze   Rank = "Bronze"
	RankSilver   Rank = "Silver"
	RankGold     Rank = "Gold"
	RankPlatinum Rank = "Platinum"
	RankDiamond  Rank = "Diamond"
)

// RankFor maps the number of completed quizzes to a rank.
func RankFor(quizzesTaken int) Rank {
	switch {
	case quizzesTaken >= 50:
		return RankDiamond
	case quizzesTaken >= 30:
		return RankPlatinum
	case quizzesTaken >= 20:
		return RankGold
	case quizzesTaken >= 10:
		return RankSilver
	default:
		return RankBronze
	}
}

type Summary struct {
	QuizzesTaken   int  `json:"quizzes_taken"`
	TotalPoints    int  `json:"total_points"`
	CorrectAnswers int  `json:"correct_answers"`
	AverageScore   int  `json:"average_score"`
	Streak         int  `json:"streak"`
	Rank           Rank `json:"rank"`
}

type CategoryStat struct {
	Name     string `json:"name"`
	Quizzes  int    `json:"quizzes"`
	AvgScore int    `json:"avg_score"`
}

type Profile struct {
	Summary      Summary        `json:"summary"`
	Categories   []CategoryStat `json:"categories"`
	Achievements []Achievement  `json:"achievements"`
	Activity     []quiz.Result  `json:"activity"`
}

func Summarize(results []quiz.Result, streak int) Summary {
	summary := Summary{
		QuizzesTaken: len(results),
		Streak:       streak,
		Rank:         RankFor(len(results)),
	}
	totalPercentage := 0
	for _, result := range results {
		summary.CorrectAnswers += result.Score
		totalPercentage += result.Percentage
	}
	summary.TotalPoints = summary.CorrectAnswers * PointsPerCorrectAnswer
	if len(results) > 0 {
		summary.AverageScore = quiz.RoundHalfUp(float64(totalPercentage) / float64(len(results)))
	}
	return summary
}

// NewestFirst returns a copy of results ordered by completion date, latest
// first. Equal dates keep their log order.
func NewestFirst(results []quiz.Result) []quiz.Result {
	out := make([]quiz.Result, len(results))
	copy(out, results)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out
}

// CategoryStats groups results by the title recorded on each result and
// sorts the groups by average score, best first.
func CategoryStats(results []quiz.Result) []CategoryStat {
	type bucket struct {
		quizzes         int
		totalPercentage int
	}

	order := make([]string, 0)
	buckets := make(map[string]*bucket)
	for _, result := range results {
		title := result.QuizTitle
		if title == "" {
			title = unknownQuizTitle
		}
		b, ok := buckets[title]
		if !ok {
			b = &bucket{}
			buckets[title] = b
			order = append(order, title)
		}
		b.quizzes++
		b.totalPercentage += result.Percentage
	}

	out := make([]CategoryStat, 0, len(order))
	for _, title := range order {
		b := buckets[title]
		out = append(out, CategoryStat{
			Name:     title,
			Quizzes:  b.quizzes,
			AvgScore: quiz.RoundHalfUp(float64(b.totalPercentage) / float64(b.quizzes)),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].AvgScore > out[j].AvgScore
	})
	return out
}

// BuildProfile assembles the profile page for the given results and the
// current streak.
func BuildProfile(results []quiz.Result, streak int) Profile {
	activity := NewestFirst(results)
	summary := Summarize(activity, streak)
	return Profile{
		Summary:      summary,
		Categories:   CategoryStats(activity),
		Achievements: Achievements(activity, summary),
		Activity:     activity,
	}
}
