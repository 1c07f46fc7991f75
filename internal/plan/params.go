package plan

import (
	"fmt"
	"strconv"
)

// Channel names one adjustable planning parameter
type Channel string

const (
	VarusValgus      Channel = "varusValgus"
	FlexionExtension Channel = "flexionExtension"
	ResectionDepth   Channel = "resectionDepth"
)

// Channels lists the parameter channels in control order
var Channels = []Channel{VarusValgus, FlexionExtension, ResectionDepth}

// Step is the change applied by one increment or decrement
const Step = 1.0

// Range is an inclusive parameter bound
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Clamp limits v to r
func (r Range) Clamp(v float64) float64 {
	return min(max(v, r.Min), r.Max)
}

var ranges = map[Channel]Range{
	VarusValgus:      {Min: -10, Max: 10},
	FlexionExtension: {Min: -15, Max: 15},
	ResectionDepth:   {Min: 0, Max: 50},
}

// RangeOf returns the bounds of ch
func RangeOf(ch Channel) Range {
	return ranges[ch]
}

// ParseChannel validates a channel name
func ParseChannel(s string) (Channel, error) {
	for _, ch := range Channels {
		if string(ch) == s {
			return ch, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownChannel, s)
}

// Parameters are the live planning inputs. Angles are in degrees, depth in millimeters.
type Parameters struct {
	VarusValgus      float64 `json:"varusValgus" yaml:"varus_valgus"`
	FlexionExtension float64 `json:"flexionExtension" yaml:"flexion_extension"`
	ResectionDepth   float64 `json:"resectionDepth" yaml:"resection_depth"`
}

// DefaultParameters returns the values a new session starts with
func DefaultParameters() Parameters {
	return Parameters{VarusValgus: 3, FlexionExtension: 3, ResectionDepth: 10}
}

// Clamped returns p with every value inside its range
func (p Parameters) Clamped() Parameters {
	return Parameters{
		VarusValgus:      ranges[VarusValgus].Clamp(p.VarusValgus),
		FlexionExtension: ranges[FlexionExtension].Clamp(p.FlexionExtension),
		ResectionDepth:   ranges[ResectionDepth].Clamp(p.ResectionDepth),
	}
}

// Get returns the value of ch
func (p Parameters) Get(ch Channel) float64 {
	switch ch {
	case VarusValgus:
		return p.VarusValgus
	case FlexionExtension:
		return p.FlexionExtension
	case ResectionDepth:
		return p.ResectionDepth
	}
	return 0
}

func (p *Parameters) adjust(ch Channel, delta float64) error {
	r, ok := ranges[ch]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownChannel, ch)
	}
	switch ch {
	case VarusValgus:
		p.VarusValgus = r.Clamp(p.VarusValgus + delta)
	case FlexionExtension:
		p.FlexionExtension = r.Clamp(p.FlexionExtension + delta)
	case ResectionDepth:
		p.ResectionDepth = r.Clamp(p.ResectionDepth + delta)
	}
	return nil
}

// ControlValues are the display strings shown next to each control
type ControlValues struct {
	VarusValgus      string `json:"varusValgus"`
	FlexionExtension string `json:"flexionExtension"`
	ResectionDepth   string `json:"resectionDepth"`
}

// Display formats p the way the controls show it, e.g. "3°" and "10 mm"
func (p Parameters) Display() ControlValues {
	return ControlValues{
		VarusValgus:      formatNumber(p.VarusValgus) + "°",
		FlexionExtension: formatNumber(p.FlexionExtension) + "°",
		ResectionDepth:   formatNumber(p.ResectionDepth) + " mm",
	}
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
