package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/kilianp07/freightdispatch/core/model"
)

// Header is the column order of WriteCSV.
var Header = []string{
	"execution_id", "cargo_id", "plate", "fleet_type", "status",
	"freight_value", "margin", "exploration", "distance_km", "candidates", "latency_ms", "block_reason",
}

// WriteJSON writes the decision records to w as a JSON array.
func WriteJSON(w io.Writer, decisions []model.DispatchResponse) error {
	if decisions == nil {
		decisions = []model.DispatchResponse{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(decisions)
}

// WriteCSV writes one row per decision record.
func WriteCSV(w io.Writer, decisions []model.DispatchResponse) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, d := range decisions {
		rec := []string{
			d.ExecutionID,
			d.CargoID,
			d.Asset.Plate,
			d.Asset.FleetType.String(),
			d.Status.String(),
			strconv.FormatFloat(d.FreightValue, 'f', 2, 64),
			strconv.FormatFloat(d.Margin, 'f', 4, 64),
			strconv.FormatBool(d.Metadata.Exploration),
			strconv.FormatFloat(d.Metadata.DistanceKm, 'f', 2, 64),
			strconv.Itoa(d.Metadata.Candidates),
			strconv.FormatFloat(float64(d.TotalLatency.Microseconds())/1000, 'f', 3, 64),
			d.Metadata.BlockReason,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Write dispatches on format, "json" or "csv".
func Write(w io.Writer, format string, decisions []model.DispatchResponse) error {
	switch format {
	case "json":
		return WriteJSON(w, decisions)
	case "csv":
		return WriteCSV(w, decisions)
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
}
