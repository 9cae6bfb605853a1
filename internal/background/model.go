// internal/background/model.go
//
// Closed sum types for page and card backgrounds.
//
// Context
// -------
// A page background is exactly one of Solid, Gradient, Image, Custom, or
// Sandbox.  A card background is Solid or Gradient only.  The unexported
// marker methods keep both sets closed, so "solid with gradient fields" can
// not be expressed.
//
// Notes
// -----
//   - Values are plain data.  Validation happens on save (internal/profile);
//     the resolver still tolerates bad values and degrades to defaults.
package background

// Kind is the wire tag of a background variant.
type Kind string

const (
	KindSolid    Kind = "solid"
	KindGradient Kind = "gradient"
	KindImage    Kind = "image"
	KindCustom   Kind = "custom"
	KindSandbox  Kind = "sandbox"
)

// Default colors per surface.
const (
	PageDefault = "#000000"
	CardDefault = "#ffffff"
)

// MaxGradientColors is the number of stops kept; extras are dropped.
const MaxGradientColors = 3

// Background is a page background.
type Background interface {
	Kind() Kind
	pageBackground()
}

// CardBackground is a card background.
type CardBackground interface {
	Kind() Kind
	cardBackground()
}

// Solid fills with one color.
type Solid struct {
	Color string
}

// Gradient is a linear gradient of 2-3 stops.
type Gradient struct {
	Colors []string
	Angle  int
}

// Image covers the page with an uploaded image.  URL is resolved from
// MediaID at read time and never stored.
type Image struct {
	MediaID int64
	URL     string
}

// Custom is same-origin HTML/CSS, sanitised by sanitize.Custom.
type Custom struct {
	Code string
}

// Sandbox is isolated HTML/CSS/JS, sanitised by sanitize.Sandbox.
type Sandbox struct {
	Code string
}

func (Solid) Kind() Kind    { return KindSolid }
func (Gradient) Kind() Kind { return KindGradient }
func (Image) Kind() Kind    { return KindImage }
func (Custom) Kind() Kind   { return KindCustom }
func (Sandbox) Kind() Kind  { return KindSandbox }

func (Solid) pageBackground()    {}
func (Gradient) pageBackground() {}
func (Image) pageBackground()    {}
func (Custom) pageBackground()   {}
func (Sandbox) pageBackground()  {}

func (Solid) cardBackground()    {}
func (Gradient) cardBackground() {}

// ClampAngle bounds a gradient angle to [0,360].
func ClampAngle(a int) int {
	switch {
	case a < 0:
		return 0
	case a > 360:
		return 360
	default:
		return a
	}
}
