package measurement

import (
	"fmt"
	"math"

	"github.com/souradeepAsh/Knee-Preop-Planning/pkg/geometry"
)

// Label is a floating text anchored at a scene position
type Label struct {
	Text     string           `json:"text"`
	Position geometry.Vector3 `json:"position"`
}

// RoundTenths rounds to one decimal place
func RoundTenths(v float64) float64 {
	return math.Round(v*10) / 10
}

// FormatMillimeters renders a distance as "12.3 mm"
func FormatMillimeters(mm float64) string {
	return fmt.Sprintf("%.1f mm", RoundTenths(mm))
}
