package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ramanasai/tripboard/internal/board"
	"github.com/ramanasai/tripboard/internal/export"
)

var (
	exportPlaces []string
	exportSeed   uint64
)

// demoViewport is the board size the exported notes are laid out on.
var demoViewport = board.Size{W: 120, H: 40}

var exportCmd = &cobra.Command{
	Use:   "export <file.png>",
	Short: "Render a board to a PNG image",
	Long: `Renders the welcome note plus one note per --place to an image, using the
configured background.

Examples:
  tripboard export board.png
  tripboard export trip.png --place Paris --place Rome --place Kyoto`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}
		store := board.NewStore(board.WithSeed(exportSeed))
		if cfg.NightMode {
			store.ToggleNightMode()
		}
		store.SetBackground(cfg.Background())
		store.Bootstrap(demoViewport)

		for i, place := range exportPlaces {
			store.CreateNote(board.Overrides{
				Location: board.Ptr(place),
				Position: board.Ptr(board.Point{X: 4 + float64(i%4)*(board.NoteWidth+4), Y: 2 + float64(i/4)*(board.NoteHeight+2)}),
			})
		}

		notes := store.Notes()
		if err := export.SavePNG(args[0], notes, export.Options{Background: store.Background()}); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved %s (%d notes)\n", args[0], len(notes))
		return nil
	},
}

func init() {
	exportCmd.Flags().StringArrayVarP(&exportPlaces, "place", "p", nil, "add a note for this place (repeatable)")
	exportCmd.Flags().Uint64Var(&exportSeed, "seed", 1, "seed for note colours and tilt")
}
