package dnd

// Box is the vertical extent of an item on screen.
type Box struct {
	Top    float64 `json:"top"`
	Height float64 `json:"height"`
}

// Midpoint returns the vertical center of the box.
func (b Box) Midpoint() float64 {
	return b.Top + b.Height/2
}

// Measurer reports the current on-screen box of a rendered item.
// The handle is whatever the rendering layer uses to find the element.
type Measurer interface {
	Measure(handle any) (Box, error)
}

// MeasurerFunc adapts a function to the Measurer interface.
type MeasurerFunc func(handle any) (Box, error)

// Measure calls f(handle).
func (f MeasurerFunc) Measure(handle any) (Box, error) {
	return f(handle)
}
