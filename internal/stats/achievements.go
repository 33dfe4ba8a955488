package stats

import (
	"quizboard/internal/quiz"
)

// Achievement is a badge on the profile. Coming badges are listed but not
// announced yet.
type Achievement struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Earned      bool   `json:"earned"`
	Coming      bool   `json:"coming"`
}

type achievementRule struct {
	id          int
	title       string
	description string
	coming      bool
	earned      func(results []quiz.Result, summary Summary) bool
}

var achievementRules = []achievementRule{
	{
		id: 1, title: "First Quiz", description: "Complete your first quiz",
		earned: func(results []quiz.Result, _ Summary) bool { return len(results) >= 1 },
	},
	{
		id: 2, title: "Perfect Score", description: "Get 100% on any quiz",
		earned: func(results []quiz.Result, _ Summary) bool { return countPerfect(results) >= 1 },
	},
	{
		id: 3, title: "Quick Learner", description: "Complete 10 quizzes",
		earned: func(results []quiz.Result, _ Summary) bool { return len(results) >= 10 },
	},
	{
		id: 4, title: "Speed Demon", description: "Finish a quiz in under 3 minutes",
		earned: func(results []quiz.Result, _ Summary) bool {
			for _, result := range results {
				if minutes, ok := quiz.TimeTakenMinutes(result.TimeTaken); ok && minutes < 3 {
					return true
				}
			}
			return false
		},
	},
	{
		id: 5, title: "Consistency King", description: "7-day streak",
		earned: func(_ []quiz.Result, summary Summary) bool { return summary.Streak >= 7 },
	},
	{
		id: 6, title: "Master", description: "Average score above 90%",
		earned: func(_ []quiz.Result, summary Summary) bool { return summary.AverageScore >= 90 },
	},
	{
		id: 7, title: "Quiz Marathon", description: "Complete 50 quizzes", coming: true,
		earned: func(results []quiz.Result, _ Summary) bool { return len(results) >= 50 },
	},
	{
		id: 8, title: "Perfectionist", description: "5 perfect scores", coming: true,
		earned: func(results []quiz.Result, _ Summary) bool { return countPerfect(results) >= 5 },
	},
}

func Achievements(results []quiz.Result, summary Summary) []Achievement {
	out := make([]Achievement, 0, len(achievementRules))
	for _, rule := range achievementRules {
		out = append(out, Achievement{
			ID:          rule.id,
			Title:       rule.title,
			Description: rule.description,
			Earned:      rule.earned(results, summary),
			Coming:      rule.coming,
		})
	}
	return out
}

// NewlyEarned lists achievements earned in after but not in before. Coming
// achievements are never reported.
func NewlyEarned(before, after []Achievement) []Achievement {
	had := make(map[int]bool, len(before))
	for _, achievement := range before {
		if achievement.Earned {
			had[achievement.ID] = true
		}
	}

	var out []Achievement
	for _, achievement := range after {
		if achievement.Earned && !achievement.Coming && !had[achievement.ID] {
			out = append(out, achievement)
		}
	}
	return out
}

func countPerfect(results []quiz.Result) int {
	count := 0
	for _, result := range results {
		if result.Percentage == 100 {
			count++
		}
	}
	return count
}
