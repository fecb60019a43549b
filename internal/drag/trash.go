package drag

import "github.com/ramanasai/tripboard/internal/board"

// TrashConfig anchors the trash to the bottom-right corner of the viewport.
type TrashConfig struct {
	Right  float64 `mapstructure:"right"`
	Bottom float64 `mapstructure:"bottom"`
	Width  float64 `mapstructure:"width"`
	Height float64 `mapstructure:"height"`
}

// DefaultTrash fits a terminal: two cells from the right edge, one from the
// bottom.
var DefaultTrash = TrashConfig{Right: 2, Bottom: 1, Width: 12, Height: 5}

// TrashZone is the drop rectangle for a viewport.
func TrashZone(c TrashConfig, viewport board.Size) board.Rect {
	return board.Rect{
		X: viewport.W - c.Right - c.Width,
		Y: viewport.H - c.Bottom - c.Height,
		W: c.Width,
		H: c.Height,
	}
}
