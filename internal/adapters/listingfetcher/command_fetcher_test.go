package listingfetcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeScript создает sh-скрипт, который имитирует парсер
func writeScript(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "parser.sh")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o755))
	return p
}

func newFetcher(t *testing.T, script string, timeout time.Duration) *CommandFetcher {
	t.Helper()
	f, err := NewCommandFetcher(Config{Command: "sh", ScriptPath: script, Timeout: timeout})
	require.NoError(t, err)
	return f
}

func TestCommandFetcher_FetchListings(t *testing.T) {
	t.Parallel()

	script := writeScript(t, `
echo "Открываем страницу: $1"
cat <<'JSON'
[
  {"make": " Toyota ", "model": "Camry", "year": 2019, "price": 2500000, "mileage": 0,
   "engine": "Бензин, 2.5 л", "horsePower": 0, "url": "https://auto.ru/1"},
  {"make": "BMW", "model": "X5", "year": 0, "price": 0, "horsePower": 249}
]
JSON
`)
	f := newFetcher(t, script, 5*time.Second)

	listings, err := f.FetchListings(context.Background(), "https://auto.ru/cars")
	require.NoError(t, err)
	require.Len(t, listings, 2)

	first := listings[0]
	assert.Equal(t, "Toyota", first.Make)
	require.NotNil(t, first.Year)
	assert.Equal(t, 2019, *first.Year)
	require.NotNil(t, first.Mileage)
	assert.Equal(t, 0, *first.Mileage)
	assert.Nil(t, first.HorsePower)

	second := listings[1]
	assert.Nil(t, second.Year)
	assert.Nil(t, second.Price)
	require.NotNil(t, second.HorsePower)
	assert.Equal(t, 249, *second.HorsePower)
}

func TestCommandFetcher_FetchDetailPassesFlag(t *testing.T) {
	t.Parallel()

	script := writeScript(t, `
if [ "$2" != "--details" ]; then exit 3; fi
echo '{"make": "Lada", "model": "Vesta", "year": 2021}'
`)
	f := newFetcher(t, script, 5*time.Second)

	listing, err := f.FetchDetail(context.Background(), "https://auto.ru/cars/used/sale/1")
	require.NoError(t, err)
	assert.Equal(t, "Lada", listing.Make)
	assert.Equal(t, "https://auto.ru/cars/used/sale/1", listing.URL)
}

func TestCommandFetcher_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		script  string
		timeout time.Duration
		errText string
	}{
		{name: "non-zero exit", script: "echo 'captcha' >&2\nexit 1", timeout: 5 * time.Second, errText: "captcha"},
		{name: "no json", script: "echo done", timeout: 5 * time.Second, errText: "no JSON"},
		{name: "malformed json", script: "echo '[{'", timeout: 5 * time.Second, errText: "malformed"},
		{name: "timeout", script: "exec sleep 5", timeout: 100 * time.Millisecond, errText: "timed out"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newFetcher(t, writeScript(t, tt.script), tt.timeout)
			_, err := f.FetchListings(context.Background(), "https://auto.ru/cars")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errText)
		})
	}
}

func TestNewCommandFetcher_RequiresCommand(t *testing.T) {
	_, err := NewCommandFetcher(Config{ScriptPath: "parser.js"})
	assert.Error(t, err)
}
