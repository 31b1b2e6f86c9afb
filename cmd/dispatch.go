package cmd

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kilianp07/freightdispatch/core/model"
	"github.com/kilianp07/freightdispatch/infra/logger"
)

var dispatchFlags struct {
	cargoID string
	origin  string
	dest    string
	weight  float64
	types   []string
	price   float64
	sla     int
	radius  float64
	topK    int
}

var dispatchCmd = &cobra.Command{
	Use:   "dispatch",
	Short: "Dispatch one cargo and print the decision as JSON",
	RunE:  dispatchCargo,
}

func init() {
	f := dispatchCmd.Flags()
	f.StringVar(&dispatchFlags.cargoID, "cargo-id", "", "cargo identifier")
	f.StringVar(&dispatchFlags.origin, "origin", "", "pickup point as lat,lon")
	f.StringVar(&dispatchFlags.dest, "dest", "", "delivery point as lat,lon")
	f.Float64Var(&dispatchFlags.weight, "weight", 0, "cargo weight in kg")
	f.StringSliceVar(&dispatchFlags.types, "types", nil, "accepted fleet types")
	f.Float64Var(&dispatchFlags.price, "price", 0, "target freight price")
	f.IntVar(&dispatchFlags.sla, "sla", 24, "delivery SLA in hours")
	f.Float64Var(&dispatchFlags.radius, "radius", 0, "search radius in km")
	f.IntVar(&dispatchFlags.topK, "top-k", 0, "maximum candidates kept")
	for _, name := range []string{"cargo-id", "origin", "dest", "weight", "types", "price"} {
		_ = dispatchCmd.MarkFlagRequired(name)
	}
	rootCmd.AddCommand(dispatchCmd)
}

func dispatchCargo(cmd *cobra.Command, args []string) error {
	req, err := buildRequest()
	if err != nil {
		return err
	}
	svc, err := newService(cmd.Context())
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("dispatch-command").Errorf("service close: %v", err)
		}
	}()

	resp, err := svc.Dispatch(cmd.Context(), req)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}

func buildRequest() (model.DispatchRequest, error) {
	origin, err := parsePoint(dispatchFlags.origin)
	if err != nil {
		return model.DispatchRequest{}, fmt.Errorf("origin: %w", err)
	}
	dest, err := parsePoint(dispatchFlags.dest)
	if err != nil {
		return model.DispatchRequest{}, fmt.Errorf("dest: %w", err)
	}
	types := make([]model.FleetType, 0, len(dispatchFlags.types))
	for _, s := range dispatchFlags.types {
		ft, err := model.ParseFleetType(s)
		if err != nil {
			return model.DispatchRequest{}, err
		}
		types = append(types, ft)
	}
	return model.DispatchRequest{
		CargoID:       dispatchFlags.cargoID,
		Origin:        origin,
		Destination:   dest,
		WeightKg:      dispatchFlags.weight,
		AcceptedTypes: types,
		TargetPrice:   dispatchFlags.price,
		SLAHours:      dispatchFlags.sla,
		RadiusKm:      dispatchFlags.radius,
		TopK:          dispatchFlags.topK,
	}, nil
}

// parsePoint reads "lat,lon".
func parsePoint(s string) (model.GeoPoint, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return model.GeoPoint{}, fmt.Errorf("expected lat,lon, got %q", s)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return model.GeoPoint{}, err
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return model.GeoPoint{}, err
	}
	p := model.GeoPoint{Latitude: lat, Longitude: lon}
	return p, p.Validate()
}
