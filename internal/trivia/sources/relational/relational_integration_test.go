//go:build integration

package relational_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"trivia/internal/trivia/models"
	"trivia/internal/trivia/sources/relational"
	"trivia/pkg/testutil/containers"
)

// RelationalSuite runs the join queries against PostgreSQL; the MySQL dialect
// differs only in the random function and placeholder.
type RelationalSuite struct {
	suite.Suite
	pg     *containers.PostgresContainer
	source *relational.Source
}

func TestRelationalSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RelationalSuite))
}

func (s *RelationalSuite) SetupSuite() {
	s.pg = containers.NewPostgresContainer(s.T())
	s.pg.Exec(s.T(),
		`CREATE TABLE preguntas (
			id SERIAL PRIMARY KEY,
			texto VARCHAR(500) NOT NULL,
			nivel VARCHAR(20) NOT NULL,
			fecha_registro DATE NOT NULL
		)`,
		`CREATE TABLE opciones (
			id SERIAL PRIMARY KEY,
			pregunta_id INT NOT NULL REFERENCES preguntas(id),
			texto_opcion VARCHAR(200) NOT NULL,
			es_correcta BOOLEAN NOT NULL
		)`,
	)

	source, err := relational.New(models.SourceMySQL, "postgres", s.pg.DSN)
	s.Require().NoError(err)
	s.source = source
}

func (s *RelationalSuite) SetupTest() {
	s.pg.Exec(s.T(), `TRUNCATE opciones, preguntas RESTART IDENTITY`)
}

func (s *RelationalSuite) TestFetchRandomJoinsOptionsInOrder() {
	s.pg.Exec(s.T(),
		`INSERT INTO preguntas (texto, nivel, fecha_registro) VALUES ('¿Cuál es la capital de Australia?', 'medio', '2024-01-15')`,
		`INSERT INTO opciones (pregunta_id, texto_opcion, es_correcta) VALUES
			(1, 'Sídney', false), (1, 'Canberra', true), (1, 'Melbourne', false), (1, 'Perth', false)`,
	)

	raw, err := s.source.FetchRandom(context.Background())
	s.Require().NoError(err)
	s.Equal("¿Cuál es la capital de Australia?", raw.Question)
	s.Equal("medio", raw.Difficulty)
	s.Equal("2024-01-15", raw.CreatedAt[:10])
	s.Equal([]string{"Sídney", "Canberra", "Melbourne", "Perth"}, raw.Options)
	s.Equal([]bool{false, true, false, false}, raw.CorrectFlags)
}

func (s *RelationalSuite) TestEmptyTableIsNotFound() {
	_, err := s.source.FetchRandom(context.Background())
	s.Require().Error(err)
	s.Equal(models.KindNotFound, models.KindOf(err))
}

func (s *RelationalSuite) TestQuestionWithoutOptions() {
	s.pg.Exec(s.T(), `INSERT INTO preguntas (texto, nivel, fecha_registro) VALUES ('huérfana', 'fácil', '2024-02-01')`)

	raw, err := s.source.FetchRandom(context.Background())
	s.Require().NoError(err)
	s.Empty(raw.Options)
}

func (s *RelationalSuite) TestHealth() {
	s.NoError(s.source.Health(context.Background()))
}
