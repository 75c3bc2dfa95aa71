package interfaces

import (
	"autoclicker/domain/entities"
	"context"
)

// PageSurface is the DOM side of a single browser tab
type PageSurface interface {
	// DispatchClick resolves the topmost element at p and dispatches
	// mousemove, mousedown, mouseup and click on it. Returns false when
	// nothing is at that position.
	DispatchClick(ctx context.Context, p entities.Point) (bool, error)

	// ShowOverlay adds the capture layer, the mouse follower and the help banner
	ShowOverlay(ctx context.Context) error

	// RemoveOverlay removes every configuration-mode element
	RemoveOverlay(ctx context.Context) error

	// RenderMarkers replaces all point markers with one per point
	RenderMarkers(ctx context.Context, points []entities.Point) error
}

// TabListener receives tab lifecycle and page events from the browser
type TabListener interface {
	TabOpened(tab string, page PageSurface)
	TabClosed(tab string)
	OverlayClicked(tab string, p entities.Point)
	EscapePressed(tab string)
}
