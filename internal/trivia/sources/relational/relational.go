// Package relational reads questions stored across a question table and an
// options table, joined by question id, through database/sql. Both the MySQL
// and the PostgreSQL drivers are registered.
package relational

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"

	"trivia/internal/trivia/models"
	"trivia/pkg/platform/sentinel"
)

// dialect holds the driver-specific pieces of the two queries.
type dialect struct {
	driver      string
	random      string
	placeholder string
}

var dialects = map[string]dialect{
	"mysql":    {driver: "mysql", random: "RAND()", placeholder: "?"},
	"postgres": {driver: "postgres", random: "RANDOM()", placeholder: "$1"},
}

// Source picks one random question row and its options.
type Source struct {
	name    models.SourceName
	dsn     string
	dialect dialect
}

// New constructs a relational source for the given driver ("mysql" or
// "postgres").
func New(name models.SourceName, driver, dsn string) (*Source, error) {
	d, ok := dialects[driver]
	if !ok {
		return nil, fmt.Errorf("unsupported relational driver %q", driver)
	}
	if dsn == "" {
		return nil, fmt.Errorf("dsn is required")
	}
	return &Source{name: name, dsn: dsn, dialect: d}, nil
}

func (s *Source) Name() models.SourceName {
	return s.name
}

func (s *Source) questionQuery() string {
	return "SELECT id, texto, nivel, fecha_registro FROM preguntas ORDER BY " + s.dialect.random + " LIMIT 1"
}

func (s *Source) optionsQuery() string {
	return "SELECT texto_opcion, es_correcta FROM opciones WHERE pregunta_id = " + s.dialect.placeholder + " ORDER BY id"
}

// FetchRandom opens a handle, reads one random question with its options in
// insertion order and closes the handle again.
func (s *Source) FetchRandom(ctx context.Context) (*models.RawRecord, error) {
	db, err := s.open(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	var (
		id      int64
		raw     models.RawRecord
		created sql.NullString
		level   sql.NullString
	)
	err = db.QueryRowContext(ctx, s.questionQuery()).Scan(&id, &raw.Question, &level, &created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, s.fail(models.KindNotFound, "question table is empty", sentinel.ErrNotFound)
		}
		return nil, s.fail(models.KindSourceUnavailable, "select random question", err)
	}
	raw.Difficulty = level.String
	raw.CreatedAt = created.String

	rows, err := db.QueryContext(ctx, s.optionsQuery(), id)
	if err != nil {
		return nil, s.fail(models.KindSourceUnavailable, "select options", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			text    string
			correct bool
		)
		if err := rows.Scan(&text, &correct); err != nil {
			return nil, s.fail(models.KindMalformedRecord, "scan option", err)
		}
		raw.Options = append(raw.Options, text)
		raw.CorrectFlags = append(raw.CorrectFlags, correct)
	}
	if err := rows.Err(); err != nil {
		return nil, s.fail(models.KindSourceUnavailable, "iterate options", err)
	}
	return &raw, nil
}

// Health opens a handle and pings the server.
func (s *Source) Health(ctx context.Context) error {
	db, err := s.open(ctx)
	if err != nil {
		return err
	}
	defer db.Close()
	return nil
}

// open returns a pinged single-connection handle.
func (s *Source) open(ctx context.Context) (*sql.DB, error) {
	db, err := sql.Open(s.dialect.driver, s.dsn)
	if err != nil {
		return nil, s.fail(models.KindSourceUnavailable, "open", err)
	}
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, s.fail(models.KindSourceUnavailable, "connect", err)
	}
	return db, nil
}

func (s *Source) fail(kind models.FailureKind, msg string, err error) error {
	return models.NewFailure(kind, s.name, msg, err)
}
