package browser

import (
	"autoclicker/domain/entities"
	"autoclicker/domain/interfaces"
	"context"
	"fmt"

	"github.com/playwright-community/playwright-go"
)

// pageSurface performs the DOM side of a page agent on one playwright page
type pageSurface struct {
	page playwright.Page
}

func newPageSurface(page playwright.Page) *pageSurface {
	return &pageSurface{page: page}
}

// DispatchClick - clicks the topmost element at p with synthetic mouse events
func (s *pageSurface) DispatchClick(ctx context.Context, p entities.Point) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	result, err := s.page.Evaluate(clickScript, map[string]interface{}{
		"x": p.X,
		"y": p.Y,
	})
	if err != nil {
		return false, fmt.Errorf("failed to dispatch click: %w", err)
	}
	found, _ := result.(bool)
	return found, nil
}

// ShowOverlay - adds the capture layer, mouse follower and help banner
func (s *pageSurface) ShowOverlay(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := s.page.Evaluate(overlayScript, helpText); err != nil {
		return fmt.Errorf("failed to show overlay: %w", err)
	}
	return nil
}

// RemoveOverlay - removes every configuration-mode element
func (s *pageSurface) RemoveOverlay(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := s.page.Evaluate(removeOverlayScript); err != nil {
		return fmt.Errorf("failed to remove overlay: %w", err)
	}
	return nil
}

// RenderMarkers - redraws one marker per point
func (s *pageSurface) RenderMarkers(ctx context.Context, points []entities.Point) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	result, err := s.page.Evaluate(renderMarkersScript, markerArgs(points))
	if err != nil {
		return fmt.Errorf("failed to render markers: %w", err)
	}
	if rendered := getInt(result); rendered != len(points) {
		return fmt.Errorf("rendered %d markers, expected %d", rendered, len(points))
	}
	return nil
}

// markerArgs - converts points to plain maps for the page script
func markerArgs(points []entities.Point) []map[string]interface{} {
	args := make([]map[string]interface{}, 0, len(points))
	for _, p := range points {
		args = append(args, map[string]interface{}{"x": p.X, "y": p.Y})
	}
	return args
}

// pointFromArgs - reads the (x, y) pair passed to the point binding
func pointFromArgs(args []interface{}) (entities.Point, bool) {
	if len(args) < 2 {
		return entities.Point{}, false
	}
	x, okX := getFloat(args[0])
	y, okY := getFloat(args[1])
	if !okX || !okY {
		return entities.Point{}, false
	}
	return entities.Point{X: x, Y: y}, true
}

// getFloat - extracts a number decoded from the page
func getFloat(v interface{}) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	}
	return 0, false
}

// getInt - extracts an integer decoded from the page
func getInt(v interface{}) int {
	f, _ := getFloat(v)
	return int(f)
}

var _ interfaces.PageSurface = (*pageSurface)(nil)
