package quiz

import (
	"crypto/sha1"
	"encoding/hex"
	"html"
	"math/rand"
	"strings"

	"quizboard/internal/opentdb"
)

type Option struct {
	Letter string `json:"letter"`
	Text   string `json:"text"`
}

// PublicQuestion is what a player sees: lettered options and no answer key.
type PublicQuestion struct {
	QuestionID string   `json:"question_id"`
	Question   string   `json:"question"`
	Options    []Option `json:"options"`
}

func ToPublicQuestions(questions []Question) []PublicQuestion {
	public := make([]PublicQuestion, 0, len(questions))
	for _, question := range questions {
		options := make([]Option, len(question.Answers))
		for idx, answer := range question.Answers {
			options[idx] = Option{
				Letter: letterFor(idx),
				Text:   answer.Text,
			}
		}
		public = append(public, PublicQuestion{
			QuestionID: question.ID,
			Question:   question.Question,
			Options:    options,
		})
	}
	return public
}

// BuildCategory turns OpenTriviaDB questions into a catalog category with
// shuffled answers.
func BuildCategory(key, title string, raw []opentdb.RawQuestion) Category {
	questions := make([]Question, 0, len(raw))
	for _, item := range raw {
		question := buildQuestion(item)
		question.ID = makeQuestionID(question)
		questions = append(questions, question)
	}

	return Category{
		Key:         key,
		Title:       title,
		Icon:        "Globe",
		Description: "General knowledge questions from OpenTriviaDB.",
		Questions:   questions,
	}
}

func makeQuestionID(question Question) string {
	var keyBuilder strings.Builder
	keyBuilder.WriteString(question.Question)
	for _, answer := range question.Answers {
		keyBuilder.WriteString("|")
		keyBuilder.WriteString(answer.Text)
	}

	hash := sha1.Sum([]byte(keyBuilder.String()))
	return "q_" + hex.EncodeToString(hash[:])
}

func letterFor(index int) string {
	return string(rune('A' + index))
}

// NormalizeLetter upper-cases a single-letter answer; anything else is "".
func NormalizeLetter(answer string) string {
	letter := strings.ToUpper(strings.TrimSpace(answer))
	if len(letter) != 1 || letter[0] < 'A' || letter[0] > 'Z' {
		return ""
	}
	return letter
}

func buildQuestion(raw opentdb.RawQuestion) Question {
	answers := make([]Answer, 0, len(raw.IncorrectAnswers)+1)
	for _, incorrect := range raw.IncorrectAnswers {
		answers = append(answers, Answer{
			Text:    html.UnescapeString(incorrect),
			Correct: false,
		})
	}

	answers = append(answers, Answer{
		Text:    html.UnescapeString(raw.CorrectAnswer),
		Correct: true,
	})

	rand.Shuffle(len(answers), func(i, j int) {
		answers[i], answers[j] = answers[j], answers[i]
	})

	return Question{
		Question: html.UnescapeString(raw.Question),
		Answers:  answers,
	}
}
