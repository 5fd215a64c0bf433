package service

import "horizon/coach-api/internal/domain"

const (
	progressionFactor = 1.05
	eliteFactor       = 1.25
)

// SuggestWeight picks the weight a participant should use for an exercise.
// A logged weight always wins and is progressed by 5%. Without history the
// catalog baseline for the participant's sex and level is used; Elite lifters
// get the advanced baseline plus 25%. An unknown level yields nil.
func SuggestWeight(level *domain.Level, sex *int, lastWeight *float64, b domain.Baselines) (*float64, bool) {
	if lastWeight != nil {
		w := *lastWeight * progressionFactor
		return &w, true
	}
	if level == nil {
		return nil, false
	}

	male := sex != nil && *sex == domain.SexMale
	pick := func(men, women *float64) *float64 {
		if male {
			return men
		}
		return women
	}

	switch *level {
	case domain.LevelUntrained, domain.LevelNovice:
		return pick(b.MenStarter, b.WomenStarter), false
	case domain.LevelIntermediate:
		return pick(b.MenIntermediate, b.WomenIntermediate), false
	case domain.LevelAdvanced:
		return pick(b.MenAdvanced, b.WomenAdvanced), false
	case domain.LevelElite:
		advanced := pick(b.MenAdvanced, b.WomenAdvanced)
		if advanced == nil {
			return nil, false
		}
		w := *advanced * eliteFactor
		return &w, false
	}
	return nil, false
}

// suggestWeights applies SuggestWeight to every row.
func suggestWeights(rows []domain.SuggestionRow) []domain.SuggestedWeight {
	out := make([]domain.SuggestedWeight, 0, len(rows))
	for _, row := range rows {
		weight, fromHistory := SuggestWeight(row.Level, row.Sex, row.LastWeight, row.Baselines())
		out = append(out, domain.SuggestedWeight{
			UserID:          row.UserID,
			Level:           row.Level,
			Sex:             row.Sex,
			ExerciseID:      row.ExerciseID,
			ExerciseName:    row.ExerciseName,
			SuggestedWeight: weight,
			FromHistory:     fromHistory,
		})
	}
	return out
}
