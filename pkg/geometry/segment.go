package geometry

// Segment is a straight line between two points
type Segment struct {
	Start Vector3 `json:"start"`
	End   Vector3 `json:"end"`
}

// NewSegment creates a segment from start to end
func NewSegment(start, end Vector3) Segment {
	return Segment{Start: start, End: end}
}

// SegmentFrom creates a segment starting at origin running length units along dir
func SegmentFrom(origin, dir Vector3, length float64) Segment {
	return Segment{Start: origin, End: origin.Add(dir.Normalize().Mul(length))}
}

// Delta returns End - Start
func (s Segment) Delta() Vector3 {
	return s.End.Sub(s.Start)
}

// Direction returns the unit direction from Start to End
func (s Segment) Direction() Vector3 {
	return s.Delta().Normalize()
}

// Length returns the distance between the endpoints
func (s Segment) Length() float64 {
	return s.Start.Distance(s.End)
}

// Center returns the midpoint of the segment
func (s Segment) Center() Vector3 {
	return s.Start.Midpoint(s.End)
}
