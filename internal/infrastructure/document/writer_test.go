package document

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	tickv1 "github.com/muhammadchandra19/tickfeed/internal/domain/tick/v1"
	"github.com/muhammadchandra19/tickfeed/pkg/errors"
	"github.com/muhammadchandra19/tickfeed/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ticks() []tickv1.Tick {
	return []tickv1.Tick{
		{Symbol: [4]byte{'M', 'S', 'F', 'T'}, Side: 'B', Quantity: 50, Price: 100, Sequence: 1},
		{Symbol: [4]byte{'A', 'A', 'P', 'L'}, Side: 'S', Quantity: 30, Price: 95, Sequence: 2},
	}
}

func TestRender(t *testing.T) {
	data, err := Render(ticks()[:1])
	require.NoError(t, err)

	expected := "[\n\t{\n" +
		"\t\t\"symbol\": \"MSFT\",\n" +
		"\t\t\"buysellindicator\": \"B\",\n" +
		"\t\t\"quantity\": 50,\n" +
		"\t\t\"price\": 100,\n" +
		"\t\t\"packetSequence\": 1\n" +
		"\t}\n]"
	assert.Equal(t, expected, string(data))
}

func TestRender_Empty(t *testing.T) {
	data, err := Render(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestWriter_Write(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tick_data.json")
	require.NoError(t, os.WriteFile(path, []byte("stale"), 0o644))

	w := NewWriter(path, logger.NewNop())
	assert.Equal(t, "json", w.Name())
	require.NoError(t, w.Write(context.Background(), ticks()))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var records []tickv1.Record
	require.NoError(t, json.Unmarshal(raw, &records))
	assert.Equal(t, []tickv1.Record{
		{Symbol: "MSFT", BuySellIndicator: "B", Quantity: 50, Price: 100, PacketSequence: 1},
		{Symbol: "AAPL", BuySellIndicator: "S", Quantity: 30, Price: 95, PacketSequence: 2},
	}, records)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file must not be left behind")
}

func TestWriter_Write_MissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "tick_data.json")

	err := NewWriter(path, logger.NewNop()).Write(context.Background(), ticks())

	assert.True(t, errors.ErrorCodeEquals(err, string(errors.DocumentWriteError)))
	assert.NoFileExists(t, path)
}
