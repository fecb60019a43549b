package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ramanasai/tripboard/internal/geo"
	"github.com/ramanasai/tripboard/internal/utils"
)

var geocodeFormat string

var geocodeCmd = &cobra.Command{
	Use:   "geocode <place>...",
	Short: "Resolve places to coordinates",
	Long: `Looks each place up in the built-in city list, then the map service when a
key is configured. Unknown places fall back to the default location.

Examples:
  tripboard geocode Paris Tokyo
  tripboard geocode "New York" --format json
  tripboard geocode Lisbon --format quiet`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}
		resolver, _, _ := services(cfg, stderrLogger(cmd))

		places := make([]utils.Place, 0, len(args))
		for _, q := range args {
			res := resolver.Resolve(cmd.Context(), q)
			p := utils.Place{
				Query:   q,
				Lng:     res.Location.Lng,
				Lat:     res.Location.Lat,
				Source:  res.Origin.String(),
				Address: res.Address,
			}
			if res.Origin == geo.FromFallback {
				p.Warning = "not found, using the default location"
				if res.Err != nil && !errors.Is(res.Err, geo.ErrNotFound) {
					p.Warning = res.Err.Error()
				}
			}
			places = append(places, p)
		}

		rc := utils.DefaultRenderConfig()
		rc.Format = utils.ParseFormat(geocodeFormat)
		rc.Color = !noColor
		out, err := utils.NewRenderer(rc).RenderPlaces(places)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	geocodeCmd.Flags().StringVarP(&geocodeFormat, "format", "f", "default", "output format: default|json|csv|compact|quiet")
}
