package repository

import (
	"fmt"

	"github.com/yourusername/match-oracle/internal/database"
)

// Repositories holds all repository implementations
type Repositories struct {
	Team       TeamRepository
	Fixture    FixtureRepository
	Odds       OddsRepository
	Prediction PredictionRepository
	Clone      CloneRepository
}

// NewRepositories creates and returns all repository implementations
func NewRepositories(db *database.DB) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	return &Repositories{
		Team:       NewPostgresTeamRepository(db),
		Fixture:    NewPostgresFixtureRepository(db),
		Odds:       NewPostgresOddsRepository(db),
		Prediction: NewPostgresPredictionRepository(db),
		Clone:      NewPostgresCloneRepository(db),
	}, nil
}
