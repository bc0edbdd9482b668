// Package delimited reads questions packed into a single pipe-delimited text
// column of a PostgreSQL table:
//
//	Question|Difficulty|Date|Option1|Option2|Option3|Option4|CorrectAnswer
package delimited

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"trivia/internal/trivia/models"
	"trivia/pkg/platform/sentinel"
)

const (
	DefaultTable  = "trivial"
	DefaultColumn = "pregunta_datos"

	separator   = "|"
	fieldCount  = 8
	optionCount = 4
)

// Source selects one random row and splits its payload.
type Source struct {
	name   models.SourceName
	dsn    string
	table  string
	column string
}

// New constructs a delimited-column source. Empty table or column names fall
// back to DefaultTable and DefaultColumn.
func New(name models.SourceName, dsn, table, column string) *Source {
	if table == "" {
		table = DefaultTable
	}
	if column == "" {
		column = DefaultColumn
	}
	return &Source{name: name, dsn: dsn, table: table, column: column}
}

func (s *Source) Name() models.SourceName {
	return s.name
}

func (s *Source) query() string {
	return fmt.Sprintf("SELECT %s FROM %s ORDER BY RANDOM() LIMIT 1",
		pgx.Identifier{s.column}.Sanitize(),
		pgx.Identifier{s.table}.Sanitize(),
	)
}

// FetchRandom opens a connection, reads one random payload and parses it.
func (s *Source) FetchRandom(ctx context.Context) (*models.RawRecord, error) {
	conn, err := pgx.Connect(ctx, s.dsn)
	if err != nil {
		return nil, s.fail(models.KindSourceUnavailable, "connect", err)
	}
	defer conn.Close(context.WithoutCancel(ctx))

	var payload string
	if err := conn.QueryRow(ctx, s.query()).Scan(&payload); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, s.fail(models.KindNotFound, "table "+s.table+" is empty", sentinel.ErrNotFound)
		}
		return nil, s.fail(models.KindSourceUnavailable, "select random row", err)
	}

	raw, err := parse(payload)
	if err != nil {
		return nil, s.fail(models.KindMalformedRecord, "parse payload", err)
	}
	return raw, nil
}

// Health opens a connection and pings it.
func (s *Source) Health(ctx context.Context) error {
	conn, err := pgx.Connect(ctx, s.dsn)
	if err != nil {
		return s.fail(models.KindSourceUnavailable, "connect", err)
	}
	defer conn.Close(context.WithoutCancel(ctx))
	return conn.Ping(ctx)
}

func (s *Source) fail(kind models.FailureKind, msg string, err error) error {
	return models.NewFailure(kind, s.name, msg, err)
}

func parse(payload string) (*models.RawRecord, error) {
	parts := strings.Split(payload, separator)
	if len(parts) < fieldCount {
		return nil, fmt.Errorf("%w: expected %d fields, got %d", sentinel.ErrMalformed, fieldCount, len(parts))
	}
	return &models.RawRecord{
		Question:      parts[0],
		Difficulty:    parts[1],
		CreatedAt:     parts[2],
		Options:       append([]string(nil), parts[3:3+optionCount]...),
		CorrectAnswer: parts[3+optionCount],
	}, nil
}
