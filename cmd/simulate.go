package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kilianp07/freightdispatch/app"
	"github.com/kilianp07/freightdispatch/core/model"
	"github.com/kilianp07/freightdispatch/core/pipeline"
	"github.com/kilianp07/freightdispatch/infra/logger"
	"github.com/kilianp07/freightdispatch/pkg/export"
)

var (
	simulateRuns   int
	simulateExport string
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run the sample cargos and report decisions and latency",
	RunE:  simulate,
}

func init() {
	simulateCmd.Flags().IntVarP(&simulateRuns, "runs", "n", 1, "passes over the sample cargos")
	simulateCmd.Flags().StringVar(&simulateExport, "export", "", "write the decision records to a .csv or .json file")
	rootCmd.AddCommand(simulateCmd)
}

func simulate(cmd *cobra.Command, args []string) error {
	if simulateRuns <= 0 {
		return fmt.Errorf("runs must be positive")
	}
	format, err := exportFormat(simulateExport)
	if err != nil {
		return err
	}
	svc, err := newService(cmd.Context())
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("simulate-command").Errorf("service close: %v", err)
		}
	}()

	var decisions []model.DispatchResponse
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RUN\tCARGO\tSTATUS\tASSET\tMARGIN\tLATENCY")
	for i := 1; i <= simulateRuns; i++ {
		for _, req := range app.SampleCargos() {
			resp, err := svc.Dispatch(cmd.Context(), req)
			if err != nil {
				var pe *pipeline.PipelineError
				if errors.As(err, &pe) {
					fmt.Fprintf(w, "%d\t%s\tfailed (%s)\t-\t-\t-\n", i, req.CargoID, pe.Stage)
					continue
				}
				return err
			}
			decisions = append(decisions, resp)
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%.2f%%\t%s\n", i, resp.CargoID, resp.Status, resp.Asset.Plate, resp.Margin*100, resp.TotalLatency)
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}

	st := svc.Orchestrator.Latency().Snapshot()
	fmt.Fprintf(cmd.OutOrStdout(), "\nruns=%d mean=%s p50=%s p95=%s p99=%s max=%s classes=%v\n",
		st.Count, st.Mean, st.P50, st.P95, st.P99, st.Max, st.Classes)

	if format == "" {
		return nil
	}
	return writeExport(simulateExport, format, decisions)
}

func exportFormat(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv", ".json":
		return ext[1:], nil
	default:
		return "", fmt.Errorf("export file must end in .csv or .json, got %q", path)
	}
}

func writeExport(path, format string, decisions []model.DispatchResponse) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return export.Write(f, format, decisions)
}
