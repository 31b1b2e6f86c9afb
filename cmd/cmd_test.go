package cmd

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/freightdispatch/core/model"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestParsePoint(t *testing.T) {
	p, err := parsePoint("-23.5505, -46.6333")
	require.NoError(t, err)
	assert.Equal(t, -23.5505, p.Latitude)
	assert.Equal(t, -46.6333, p.Longitude)

	for _, bad := range []string{"", "1", "a,b", "91,0"} {
		_, err := parsePoint(bad)
		assert.Error(t, err, bad)
	}
}

func TestDispatchCommand(t *testing.T) {
	out, err := execute(t, "dispatch",
		"--cargo-id", "CARGA-CLI-1",
		"--origin", "-23.5505,-46.6333",
		"--dest", "-19.9191,-43.9386",
		"--weight", "18000",
		"--types", "heavy-trailer,flatbed-trailer",
		"--price", "3500",
		"--sla", "12",
		"--radius", "150",
	)
	require.NoError(t, err, out)

	var resp model.DispatchResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "CARGA-CLI-1", resp.CargoID)
	assert.Equal(t, model.StatusApproved, resp.Status)
	assert.Equal(t, "XYZ-5678", resp.Asset.Plate)
}

func TestDispatchCommandDefaultsSLA(t *testing.T) {
	sla := dispatchCmd.Flags().Lookup("sla")
	require.NotNil(t, sla)
	assert.Equal(t, "24", sla.DefValue)
	require.NoError(t, sla.Value.Set(sla.DefValue))

	out, err := execute(t, "dispatch",
		"--cargo-id", "CARGA-CLI-2",
		"--origin", "-23.5505,-46.6333",
		"--dest", "-19.9191,-43.9386",
		"--weight", "18000",
		"--types", "heavy-trailer,flatbed-trailer",
		"--price", "3500",
	)
	require.NoError(t, err, out)
	var resp model.DispatchResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, model.StatusApproved, resp.Status)
}

func TestDispatchCommandRejectsNaNRadius(t *testing.T) {
	t.Cleanup(func() { dispatchFlags.radius = 0 })
	_, err := execute(t, "dispatch",
		"--cargo-id", "CARGA-CLI-3",
		"--origin", "-23.5505,-46.6333",
		"--dest", "-19.9191,-43.9386",
		"--weight", "18000",
		"--types", "heavy-trailer",
		"--price", "3500",
		"--radius", "NaN",
	)
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrInvalidRequest)
}

func TestSimulateCommand(t *testing.T) {
	out, err := execute(t, "simulate", "--runs", "2")
	require.NoError(t, err, out)
	assert.Contains(t, out, "CARGA-2026-001")
	assert.Contains(t, out, "CARGA-2026-003")
	assert.Contains(t, out, "runs=6")
	assert.Equal(t, 6, strings.Count(out, "CARGA-2026-"))
}

func TestSimulateExport(t *testing.T) {
	t.Cleanup(func() { simulateExport = ""; simulateRuns = 1 })
	path := filepath.Join(t.TempDir(), "decisions.csv")

	out, err := execute(t, "simulate", "--runs", "1", "--export", path)
	require.NoError(t, err, out)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "CARGA-2026-001", rows[1][1])
	assert.Equal(t, "approved", rows[1][4])
}

func TestSimulateExportRejectsUnknownExtension(t *testing.T) {
	t.Cleanup(func() { simulateExport = "" })
	_, err := execute(t, "simulate", "--export", filepath.Join(t.TempDir(), "out.xml"))
	assert.Error(t, err)
}
