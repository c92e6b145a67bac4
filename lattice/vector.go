package lattice

import "math"

// Vec3 is a 3-vector, used for both fractional and Cartesian coordinates.
type Vec3 [3]float64

// Mat3 is a row-major 3x3 matrix. Cell matrices store one lattice vector
// per row, the XSF convention.
type Mat3 [3][3]float64

func (v Vec3) Add(w Vec3) Vec3 {
	return Vec3{v[0] + w[0], v[1] + w[1], v[2] + w[2]}
}

func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v[0] * s, v[1] * s, v[2] * s}
}

func (v Vec3) Dot(w Vec3) float64 {
	return v[0]*w[0] + v[1]*w[1] + v[2]*w[2]
}

func (v Vec3) Norm() float64 {
	return math.Sqrt(v.Dot(v))
}

func (m Mat3) Row(i int) Vec3 {
	return Vec3{m[i][0], m[i][1], m[i][2]}
}

func (m Mat3) Det() float64 {
	return m[0][0]*(m[1][1]*m[2][2]-m[1][2]*m[2][1]) -
		m[0][1]*(m[1][0]*m[2][2]-m[1][2]*m[2][0]) +
		m[0][2]*(m[1][0]*m[2][1]-m[1][1]*m[2][0])
}

func (m Mat3) Mul(n Mat3) Mat3 {
	var out Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 3; k++ {
				out[i][j] += m[i][k] * n[k][j]
			}
		}
	}
	return out
}

// MulVec treats v as a column vector: out_i = sum_j m_ij v_j.
func (m Mat3) MulVec(v Vec3) Vec3 {
	var out Vec3
	for i := 0; i < 3; i++ {
		out[i] = m[i][0]*v[0] + m[i][1]*v[1] + m[i][2]*v[2]
	}
	return out
}

func (m Mat3) Transpose() Mat3 {
	var out Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = m[j][i]
		}
	}
	return out
}

// Inverse returns the matrix inverse. The second return is false when m is
// singular.
func (m Mat3) Inverse() (Mat3, bool) {
	det := m.Det()
	if math.Abs(det) < 1e-12 {
		return Mat3{}, false
	}
	inv := Mat3{
		{m[1][1]*m[2][2] - m[1][2]*m[2][1], m[0][2]*m[2][1] - m[0][1]*m[2][2], m[0][1]*m[1][2] - m[0][2]*m[1][1]},
		{m[1][2]*m[2][0] - m[1][0]*m[2][2], m[0][0]*m[2][2] - m[0][2]*m[2][0], m[0][2]*m[1][0] - m[0][0]*m[1][2]},
		{m[1][0]*m[2][1] - m[1][1]*m[2][0], m[0][1]*m[2][0] - m[0][0]*m[2][1], m[0][0]*m[1][1] - m[0][1]*m[1][0]},
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			inv[i][j] /= det
		}
	}
	return inv, true
}

// wrap maps x into [0, 1). Sites sitting numerically on 1.0 wrap to 0.
func wrap(x float64) float64 {
	x -= math.Floor(x)
	if x >= 1 {
		x = 0
	}
	// Avoid -0 leaking into output files
	if x == 0 {
		return 0
	}
	return x
}
