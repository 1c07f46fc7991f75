package geometry

import (
	"math"

	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Quaternion is a rotation stored as x, y, z (vector part) and w (scalar part).
// Rotations compose right to left: a.Mul(b) applies b first, then a.
type Quaternion struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
	W float64 `json:"w"`
}

// IdentityQuaternion returns the rotation that leaves every vector unchanged
func IdentityQuaternion() Quaternion {
	return Quaternion{W: 1}
}

func fromNumber(n quat.Number) Quaternion {
	return Quaternion{X: n.Imag, Y: n.Jmag, Z: n.Kmag, W: n.Real}
}

func (q Quaternion) number() quat.Number {
	return quat.Number{Real: q.W, Imag: q.X, Jmag: q.Y, Kmag: q.Z}
}

// DegToRad converts degrees to radians
func DegToRad(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// QuaternionFromAxisAngle returns the rotation of angle radians about axis.
// A zero axis or zero angle yields the identity.
func QuaternionFromAxisAngle(axis Vector3, angle float64) Quaternion {
	if axis.IsZero() || angle == 0 {
		return IdentityQuaternion()
	}
	return fromNumber(quat.Number(r3.NewRotation(angle, axis.Normalize().vec())))
}

// QuaternionFromUnitVectors returns the shortest-arc rotation taking unit vector from onto
// unit vector to. Antiparallel inputs rotate half a turn about an axis orthogonal to from.
func QuaternionFromUnitVectors(from, to Vector3) Quaternion {
	const eps = 1e-8

	r := from.Dot(to) + 1
	var q Quaternion
	if r < eps {
		if math.Abs(from.X) > math.Abs(from.Z) {
			q = Quaternion{X: -from.Y, Y: from.X, Z: 0, W: 0}
		} else {
			q = Quaternion{X: 0, Y: -from.Z, Z: from.Y, W: 0}
		}
	} else {
		c := from.Cross(to)
		q = Quaternion{X: c.X, Y: c.Y, Z: c.Z, W: r}
	}
	return q.Normalize()
}

// QuaternionFromEuler builds a rotation from XYZ-ordered Euler angles in radians,
// equivalent to rotating about X, then the rotated Y, then the rotated Z.
func QuaternionFromEuler(euler Vector3) Quaternion {
	qx := QuaternionFromAxisAngle(UnitX, euler.X)
	qy := QuaternionFromAxisAngle(UnitY, euler.Y)
	qz := QuaternionFromAxisAngle(UnitZ, euler.Z)
	return qx.Mul(qy).Mul(qz)
}

// Mul returns the Hamilton product q*other
func (q Quaternion) Mul(other Quaternion) Quaternion {
	return fromNumber(quat.Mul(q.number(), other.number()))
}

// Length returns the norm of the quaternion
func (q Quaternion) Length() float64 {
	return quat.Abs(q.number())
}

// Normalize returns the unit quaternion with the same orientation
func (q Quaternion) Normalize() Quaternion {
	l := q.Length()
	if l == 0 {
		return IdentityQuaternion()
	}
	return fromNumber(quat.Scale(1/l, q.number()))
}

// Conjugate returns the inverse rotation of a unit quaternion
func (q Quaternion) Conjugate() Quaternion {
	return fromNumber(quat.Conj(q.number()))
}

// Rotate applies the rotation to v
func (q Quaternion) Rotate(v Vector3) Vector3 {
	return fromVec(r3.Rotation(q.number()).Rotate(v.vec()))
}

// RotateLocal rotates about an axis expressed in the rotated (local) frame
func (q Quaternion) RotateLocal(axis Vector3, angle float64) Quaternion {
	return q.Mul(QuaternionFromAxisAngle(axis, angle))
}

// RotateWorld rotates about an axis expressed in world coordinates
func (q Quaternion) RotateWorld(axis Vector3, angle float64) Quaternion {
	return QuaternionFromAxisAngle(axis, angle).Mul(q)
}

// LocalX returns the local +X axis in world coordinates
func (q Quaternion) LocalX() Vector3 { return q.Rotate(UnitX) }

// LocalY returns the local +Y axis in world coordinates
func (q Quaternion) LocalY() Vector3 { return q.Rotate(UnitY) }

// LocalZ returns the local +Z axis in world coordinates. For a plane this is its normal.
func (q Quaternion) LocalZ() Vector3 { return q.Rotate(UnitZ) }

// ApproxEqual compares rotations component-wise within tol.
// q and -q describe the same rotation but are not considered equal here.
func (q Quaternion) ApproxEqual(other Quaternion, tol float64) bool {
	return scalar.EqualWithinAbs(q.X, other.X, tol) &&
		scalar.EqualWithinAbs(q.Y, other.Y, tol) &&
		scalar.EqualWithinAbs(q.Z, other.Z, tol) &&
		scalar.EqualWithinAbs(q.W, other.W, tol)
}
