package proj

import "math"

// Mat4 is a 4x4 matrix in column-major order, so m[col*4+row].
// It covers the linear stages of the projection pipeline: viewport
// view/projection matrices and per-layer model matrices.
type Mat4 [16]float64

// Identity returns the identity matrix.
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Translate returns a translation matrix.
func Translate(x, y, z float64) Mat4 {
	m := Identity()
	m[12], m[13], m[14] = x, y, z
	return m
}

// Scale returns a scaling matrix.
func Scale(x, y, z float64) Mat4 {
	m := Identity()
	m[0], m[5], m[10] = x, y, z
	return m
}

// RotateX returns a rotation matrix about the x axis (angle in radians).
func RotateX(angle float64) Mat4 {
	c, s := math.Cos(angle), math.Sin(angle)
	m := Identity()
	m[5], m[9] = c, -s
	m[6], m[10] = s, c
	return m
}

// RotateZ returns a rotation matrix about the z axis (angle in radians).
func RotateZ(angle float64) Mat4 {
	c, s := math.Cos(angle), math.Sin(angle)
	m := Identity()
	m[0], m[4] = c, -s
	m[1], m[5] = s, c
	return m
}

// Perspective returns a standard perspective projection matrix mapping
// view space to clip space. fovy is the vertical field of view in radians.
func Perspective(fovy, aspect, near, far float64) Mat4 {
	f := 1 / math.Tan(fovy/2)
	nf := 1 / (near - far)
	var m Mat4
	m[0] = f / aspect
	m[5] = f
	m[10] = (far + near) * nf
	m[11] = -1
	m[14] = 2 * far * near * nf
	return m
}

// Mul returns m * other. The combined matrix applies other first.
func (m Mat4) Mul(other Mat4) Mat4 {
	var out Mat4
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			sum := 0.0
			for k := 0; k < 4; k++ {
				sum += m[k*4+row] * other[col*4+k]
			}
			out[col*4+row] = sum
		}
	}
	return out
}

// TransformVec4 applies the matrix to a homogeneous vector.
func (m Mat4) TransformVec4(v [4]float64) [4]float64 {
	var out [4]float64
	for row := 0; row < 4; row++ {
		out[row] = m[0*4+row]*v[0] + m[1*4+row]*v[1] + m[2*4+row]*v[2] + m[3*4+row]*v[3]
	}
	return out
}

// Transform applies the matrix to a position with an implicit w of 1 and
// performs the homogeneous divide. The second return is false when the
// result lies at or behind the projection plane (w <= 0), where the
// divide is undefined.
func (m Mat4) Transform(p Position) (Position, bool) {
	v := m.TransformVec4([4]float64{p[0], p[1], p[2], 1})
	if v[3] <= 0 {
		return Position{}, false
	}
	return Position{v[0] / v[3], v[1] / v[3], v[2] / v[3]}, true
}

// Invert returns the inverse of the matrix. The second return is false
// when the matrix is singular.
func (m Mat4) Invert() (Mat4, bool) {
	b00 := m[0]*m[5] - m[1]*m[4]
	b01 := m[0]*m[6] - m[2]*m[4]
	b02 := m[0]*m[7] - m[3]*m[4]
	b03 := m[1]*m[6] - m[2]*m[5]
	b04 := m[1]*m[7] - m[3]*m[5]
	b05 := m[2]*m[7] - m[3]*m[6]
	b06 := m[8]*m[13] - m[9]*m[12]
	b07 := m[8]*m[14] - m[10]*m[12]
	b08 := m[8]*m[15] - m[11]*m[12]
	b09 := m[9]*m[14] - m[10]*m[13]
	b10 := m[9]*m[15] - m[11]*m[13]
	b11 := m[10]*m[15] - m[11]*m[14]

	det := b00*b11 - b01*b10 + b02*b09 + b03*b08 - b04*b07 + b05*b06
	if det == 0 {
		return Mat4{}, false
	}
	inv := 1 / det

	var out Mat4
	out[0] = (m[5]*b11 - m[6]*b10 + m[7]*b09) * inv
	out[1] = (m[2]*b10 - m[1]*b11 - m[3]*b09) * inv
	out[2] = (m[13]*b05 - m[14]*b04 + m[15]*b03) * inv
	out[3] = (m[10]*b04 - m[9]*b05 - m[11]*b03) * inv
	out[4] = (m[6]*b08 - m[4]*b11 - m[7]*b07) * inv
	out[5] = (m[0]*b11 - m[2]*b08 + m[3]*b07) * inv
	out[6] = (m[14]*b02 - m[12]*b05 - m[15]*b01) * inv
	out[7] = (m[8]*b05 - m[10]*b02 + m[11]*b01) * inv
	out[8] = (m[4]*b10 - m[5]*b08 + m[7]*b06) * inv
	out[9] = (m[1]*b08 - m[0]*b10 - m[3]*b06) * inv
	out[10] = (m[12]*b04 - m[13]*b02 + m[15]*b00) * inv
	out[11] = (m[9]*b02 - m[8]*b04 - m[11]*b00) * inv
	out[12] = (m[5]*b07 - m[4]*b09 - m[6]*b06) * inv
	out[13] = (m[0]*b09 - m[1]*b07 + m[2]*b06) * inv
	out[14] = (m[13]*b01 - m[12]*b03 - m[14]*b00) * inv
	out[15] = (m[8]*b03 - m[9]*b01 + m[10]*b00) * inv
	return out, true
}

// mat3 is a 3x3 matrix in column-major order, used internally for the
// ground-plane homography that makes Unproject an exact inverse.
type mat3 [9]float64

// groundHomography extracts the 2D projective map for the z=0 plane from
// a full 4x4 projection matrix: columns x, y, w of rows x, y, w.
func groundHomography(m Mat4) mat3 {
	return mat3{
		m[0], m[1], m[3],
		m[4], m[5], m[7],
		m[12], m[13], m[15],
	}
}

func (m mat3) transform(x, y float64) (float64, float64, float64) {
	ox := m[0]*x + m[3]*y + m[6]
	oy := m[1]*x + m[4]*y + m[7]
	ow := m[2]*x + m[5]*y + m[8]
	return ox, oy, ow
}

func (m mat3) invert() (mat3, bool) {
	a00, a01, a02 := m[0], m[1], m[2]
	a10, a11, a12 := m[3], m[4], m[5]
	a20, a21, a22 := m[6], m[7], m[8]

	b01 := a22*a11 - a12*a21
	b11 := -a22*a10 + a12*a20
	b21 := a21*a10 - a11*a20

	det := a00*b01 + a01*b11 + a02*b21
	if det == 0 {
		return mat3{}, false
	}
	inv := 1 / det

	return mat3{
		b01 * inv,
		(-a22*a01 + a02*a21) * inv,
		(a12*a01 - a02*a11) * inv,
		b11 * inv,
		(a22*a00 - a02*a20) * inv,
		(-a12*a00 + a02*a10) * inv,
		b21 * inv,
		(-a21*a00 + a01*a20) * inv,
		(a11*a00 - a01*a10) * inv,
	}, true
}
