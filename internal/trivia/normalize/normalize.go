// Package normalize turns raw store records into canonical questions.
//
// Everything here is a pure function of its input; the run date used for
// records without a creation date is passed in by the caller.
package normalize

import (
	"fmt"
	"strings"
	"time"

	"trivia/internal/trivia/models"
	"trivia/pkg/platform/sentinel"
)

const dateLayout = "2006-01-02"

// difficultyLevels maps every known source label (lower-cased) to its
// canonical level. Labels not listed here normalize to Medium.
var difficultyLevels = map[string]models.Difficulty{
	"low":   models.DifficultyLow,
	"easy":  models.DifficultyLow,
	"1":     models.DifficultyLow,
	"baja":  models.DifficultyLow,
	"fácil": models.DifficultyLow,
	"facil": models.DifficultyLow,

	"medium": models.DifficultyMedium,
	"2":      models.DifficultyMedium,
	"media":  models.DifficultyMedium,
	"medio":  models.DifficultyMedium,

	"high":    models.DifficultyHigh,
	"hard":    models.DifficultyHigh,
	"3":       models.DifficultyHigh,
	"expert":  models.DifficultyHigh,
	"experto": models.DifficultyHigh,
	"alta":    models.DifficultyHigh,
	"dificil": models.DifficultyHigh,
	"difícil": models.DifficultyHigh,
}

// Whitespace collapses runs of whitespace into single spaces and trims both ends.
func Whitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Difficulty maps a free-text or numeric label onto Low, Medium or High.
func Difficulty(label string) models.Difficulty {
	if d, ok := difficultyLevels[strings.ToLower(strings.TrimSpace(label))]; ok {
		return d
	}
	return models.DifficultyMedium
}

// CreatedDate keeps the YYYY-MM-DD prefix of a source timestamp, or falls
// back to the date of now when the source value is missing or unreadable.
func CreatedDate(raw string, now time.Time) string {
	raw = strings.TrimSpace(raw)
	if len(raw) >= len(dateLayout) {
		prefix := raw[:len(dateLayout)]
		if _, err := time.Parse(dateLayout, prefix); err == nil {
			return prefix
		}
	}
	return now.Format(dateLayout)
}

// Normalize builds a CanonicalQuestion from a raw record.
//
// Options that are blank after whitespace collapse are dropped together with
// their correctness flag. The correct answer is, in order of precedence: the
// explicit answer text, the last option flagged as correct, or the first
// option. The last rule is a deliberate fallback for stores that do not flag
// any option.
//
// Errors: returns a MalformedRecord failure when the record has no non-blank
// options, no question text, or an explicit answer that matches no option.
func Normalize(source models.SourceName, raw models.RawRecord, now time.Time) (*models.CanonicalQuestion, error) {
	options, flags := keptOptions(raw)
	if len(options) == 0 {
		return nil, malformed(source, "record has no options")
	}

	question := Whitespace(raw.Question)
	if question == "" {
		return nil, malformed(source, "record has no question text")
	}

	correct, err := correctAnswer(raw.CorrectAnswer, options, flags)
	if err != nil {
		return nil, models.NewFailure(models.KindMalformedRecord, source, "normalize record", err)
	}

	return &models.CanonicalQuestion{
		Source:        source,
		Question:      question,
		Options:       options,
		CorrectAnswer: strings.ToUpper(correct),
		Difficulty:    Difficulty(raw.Difficulty),
		CreatedDate:   CreatedDate(raw.CreatedAt, now),
	}, nil
}

// keptOptions collapses whitespace in every option and drops the blank ones.
// flags stays index-aligned with options.
func keptOptions(raw models.RawRecord) (options []string, flags []bool) {
	options = make([]string, 0, len(raw.Options))
	flags = make([]bool, 0, len(raw.Options))
	for i, opt := range raw.Options {
		opt = Whitespace(opt)
		if opt == "" {
			continue
		}
		options = append(options, opt)
		flags = append(flags, i < len(raw.CorrectFlags) && raw.CorrectFlags[i])
	}
	return options, flags
}

func correctAnswer(explicit string, options []string, flags []bool) (string, error) {
	if explicit = Whitespace(explicit); explicit != "" {
		for _, opt := range options {
			if strings.EqualFold(opt, explicit) {
				return opt, nil
			}
		}
		return "", fmt.Errorf("correct answer %q is not one of the options: %w", explicit, sentinel.ErrMalformed)
	}

	// A store that flags several options keeps the last one.
	for i := len(flags) - 1; i >= 0; i-- {
		if flags[i] {
			return options[i], nil
		}
	}

	return options[0], nil
}

// AnswerMatches reports whether answer equals one of the options, ignoring
// case and whitespace differences.
func AnswerMatches(answer string, options []string) bool {
	answer = Whitespace(answer)
	for _, opt := range options {
		if strings.EqualFold(Whitespace(opt), answer) {
			return true
		}
	}
	return false
}

func malformed(source models.SourceName, msg string) error {
	return models.NewFailure(models.KindMalformedRecord, source, msg, sentinel.ErrMalformed)
}
