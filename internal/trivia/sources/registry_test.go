package sources

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"trivia/internal/platform/config"
	"trivia/internal/trivia/models"
	"trivia/internal/trivia/ports/mocks"
)

func TestRegistry(t *testing.T) {
	ctrl := gomock.NewController(t)

	redis := mocks.NewMockSource(ctrl)
	redis.EXPECT().Name().Return(models.SourceRedis).AnyTimes()
	mysql := mocks.NewMockSource(ctrl)
	mysql.EXPECT().Name().Return(models.SourceMySQL).AnyTimes()

	reg := NewRegistry()
	require.NoError(t, reg.Register(redis))
	require.NoError(t, reg.Register(mysql))

	t.Run("keeps registration order", func(t *testing.T) {
		all := reg.All()
		require.Len(t, all, 2)
		assert.Equal(t, models.SourceRedis, all[0].Name())
		assert.Equal(t, models.SourceMySQL, all[1].Name())
		assert.Equal(t, 2, reg.Len())
	})

	t.Run("rejects duplicates", func(t *testing.T) {
		assert.ErrorContains(t, reg.Register(redis), "already registered")
	})

	t.Run("rejects unknown names", func(t *testing.T) {
		odd := mocks.NewMockSource(ctrl)
		odd.EXPECT().Name().Return(models.SourceName("Cassandra")).AnyTimes()
		assert.Error(t, reg.Register(odd))
	})

	t.Run("get", func(t *testing.T) {
		got, ok := reg.Get(models.SourceMySQL)
		assert.True(t, ok)
		assert.Same(t, mysql, got)

		_, ok = reg.Get(models.SourceMongoDB)
		assert.False(t, ok)
	})
}

func TestFromConfig(t *testing.T) {
	cfg := &config.Config{
		FetchTimeout: 5 * time.Second,
		Sources: []config.Source{
			{Name: "MySQL", Type: config.SourceRelational, Enabled: true, Driver: "mysql", DSN: "root:pw@tcp(localhost:3306)/trivial_mysql"},
			{Name: "redis", Type: config.SourceKeyValue, Enabled: true, DSN: "redis://localhost:6379/0"},
			{Name: "PostgreSQL", Type: config.SourceDelimited, Enabled: false, DSN: "postgres://localhost/trivia"},
			{Name: "MongoDB", Type: config.SourceDocument, Enabled: true, DSN: "mongodb://localhost:27017", Database: "trivial_mongodb", Collection: "questions"},
		},
	}

	reg, err := FromConfig(cfg)
	require.NoError(t, err)

	var names []models.SourceName
	for _, s := range reg.All() {
		names = append(names, s.Name())
	}
	assert.Equal(t, []models.SourceName{models.SourceMySQL, models.SourceRedis, models.SourceMongoDB}, names)
}

func TestFromConfigErrors(t *testing.T) {
	tests := []struct {
		name   string
		source config.Source
		want   string
	}{
		{"unknown name", config.Source{Name: "Oracle", Type: config.SourceRelational, Enabled: true, Driver: "mysql", DSN: "x"}, "unknown source name"},
		{"unknown type", config.Source{Name: "MySQL", Type: "graph", Enabled: true, DSN: "x"}, "unknown source type"},
		{"unsupported driver", config.Source{Name: "MySQL", Type: config.SourceRelational, Enabled: true, Driver: "oracle", DSN: "x"}, "unsupported relational driver"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromConfig(&config.Config{Sources: []config.Source{tt.source}})
			assert.ErrorContains(t, err, tt.want)
		})
	}
}
