package geometry

import "math"

// Mat3 is a 3x3 matrix stored row-major. Used as the direction matrix of a
// volume or resampled image: its columns are the physical-space unit vectors
// of the image axes, the same flattened layout medical image headers use.
type Mat3 [9]float64

// Identity returns the identity matrix (axis-aligned orientation).
func Identity() Mat3 {
	return Mat3{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	}
}

// ColumnMatrix builds a matrix whose columns are c0, c1 and c2.
func ColumnMatrix(c0, c1, c2 Vec3) Mat3 {
	return Mat3{
		c0[0], c1[0], c2[0],
		c0[1], c1[1], c2[1],
		c0[2], c1[2], c2[2],
	}
}

// Col returns the i-th column of the matrix.
func (m Mat3) Col(i int) Vec3 {
	return Vec3{m[i], m[3+i], m[6+i]}
}

// MulVec returns the matrix-vector product m*v.
func (m Mat3) MulVec(v Vec3) Vec3 {
	return Vec3{
		m[0]*v[0] + m[1]*v[1] + m[2]*v[2],
		m[3]*v[0] + m[4]*v[1] + m[5]*v[2],
		m[6]*v[0] + m[7]*v[1] + m[8]*v[2],
	}
}

// Transpose returns the transposed matrix. For an orthonormal direction
// matrix the transpose is also the inverse, which is how physical
// coordinates are mapped back into index space.
func (m Mat3) Transpose() Mat3 {
	return Mat3{
		m[0], m[3], m[6],
		m[1], m[4], m[7],
		m[2], m[5], m[8],
	}
}

// IsOrthonormal reports whether the matrix columns are unit length and
// mutually orthogonal within tol.
func (m Mat3) IsOrthonormal(tol float64) bool {
	for i := 0; i < 3; i++ {
		for j := i; j < 3; j++ {
			d := m.Col(i).Dot(m.Col(j))
			want := 0.0
			if i == j {
				want = 1.0
			}
			if math.Abs(d-want) > tol {
				return false
			}
		}
	}
	return true
}
