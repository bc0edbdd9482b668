package metrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteTextfile(t *testing.T) {
	reg := NewRegistry()
	promauto.With(reg).NewCounter(prometheus.CounterOpts{
		Name: "trivia_test_total",
		Help: "test counter",
	}).Add(3)

	path := filepath.Join(t.TempDir(), "trivia.prom")
	require.NoError(t, WriteTextfile(path, reg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "trivia_test_total 3")
	assert.Contains(t, string(data), "go_goroutines")
}

func TestWriteTextfileEmptyPath(t *testing.T) {
	assert.NoError(t, WriteTextfile("", NewRegistry()))
}
