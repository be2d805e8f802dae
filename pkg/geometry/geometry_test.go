package geometry

import (
	"errors"
	"math"
	"testing"
)

const tol = 1e-12

// TestVec3Ops verifies the basic vector arithmetic used throughout the
// reslicing pipeline.
func TestVec3Ops(t *testing.T) {
	a := Vec3{1, 2, 3}
	b := Vec3{-4, 5, 0.5}

	sum := a.Add(b)
	if sum != (Vec3{-3, 7, 3.5}) {
		t.Errorf("Add: expected (-3,7,3.5), got %v", sum)
	}

	diff := a.Sub(b)
	if diff != (Vec3{5, -3, 2.5}) {
		t.Errorf("Sub: expected (5,-3,2.5), got %v", diff)
	}

	scaled := a.Scale(2)
	if scaled != (Vec3{2, 4, 6}) {
		t.Errorf("Scale: expected (2,4,6), got %v", scaled)
	}

	dot := a.Dot(b)
	if math.Abs(dot-7.5) > tol {
		t.Errorf("Dot: expected 7.5, got %f", dot)
	}

	// Cross product of the standard basis vectors.
	x := Vec3{1, 0, 0}
	y := Vec3{0, 1, 0}
	z := x.Cross(y)
	if z != (Vec3{0, 0, 1}) {
		t.Errorf("Cross: expected (0,0,1), got %v", z)
	}
}

// TestNormalize verifies unit-length output and zero-vector rejection.
func TestNormalize(t *testing.T) {
	v := Vec3{3, 4, 0}
	u, err := v.Normalize()
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if math.Abs(u.Norm()-1.0) > tol {
		t.Errorf("Expected unit length, got %f", u.Norm())
	}
	if math.Abs(u[0]-0.6) > tol || math.Abs(u[1]-0.8) > tol {
		t.Errorf("Expected (0.6,0.8,0), got %v", u)
	}

	_, err = (Vec3{0, 0, 0}).Normalize()
	if !errors.Is(err, ErrInvalidGeometry) {
		t.Errorf("Expected ErrInvalidGeometry for zero vector, got %v", err)
	}
}

// TestMat3ColumnMatrix verifies column layout and the column accessor.
func TestMat3ColumnMatrix(t *testing.T) {
	c0 := Vec3{1, 2, 3}
	c1 := Vec3{4, 5, 6}
	c2 := Vec3{7, 8, 9}
	m := ColumnMatrix(c0, c1, c2)

	if m.Col(0) != c0 || m.Col(1) != c1 || m.Col(2) != c2 {
		t.Errorf("Column round trip failed: %v %v %v", m.Col(0), m.Col(1), m.Col(2))
	}
}

// TestMat3MulVec checks the matrix-vector product against a hand-computed
// case and the identity.
func TestMat3MulVec(t *testing.T) {
	v := Vec3{1, -2, 0.5}
	if got := Identity().MulVec(v); got != v {
		t.Errorf("Identity.MulVec: expected %v, got %v", v, got)
	}

	// 90 degree rotation about Z: x -> y, y -> -x.
	rot := ColumnMatrix(Vec3{0, 1, 0}, Vec3{-1, 0, 0}, Vec3{0, 0, 1})
	got := rot.MulVec(Vec3{1, 0, 0})
	if got != (Vec3{0, 1, 0}) {
		t.Errorf("Rotation: expected (0,1,0), got %v", got)
	}
}

// TestMat3TransposeInvertsRotation verifies that the transpose of an
// orthonormal matrix acts as its inverse.
func TestMat3TransposeInvertsRotation(t *testing.T) {
	rot := ColumnMatrix(Vec3{0, 1, 0}, Vec3{-1, 0, 0}, Vec3{0, 0, 1})
	v := Vec3{0.3, -1.7, 2.2}
	back := rot.Transpose().MulVec(rot.MulVec(v))
	for i := 0; i < 3; i++ {
		if math.Abs(back[i]-v[i]) > tol {
			t.Errorf("Round trip component %d: expected %f, got %f", i, v[i], back[i])
		}
	}
}

// TestIsOrthonormal checks both the accepting and rejecting cases.
func TestIsOrthonormal(t *testing.T) {
	if !Identity().IsOrthonormal(1e-9) {
		t.Errorf("Identity should be orthonormal")
	}
	skewed := ColumnMatrix(Vec3{1, 0, 0}, Vec3{1, 1, 0}, Vec3{0, 0, 1})
	if skewed.IsOrthonormal(1e-9) {
		t.Errorf("Skewed matrix should not be orthonormal")
	}
}

// checkBasis asserts that the triple is orthonormal within floating
// tolerance.
func checkBasis(t *testing.T, e0, e1, n Vec3) {
	t.Helper()
	vecs := []Vec3{e0, e1, n}
	for i, v := range vecs {
		if math.Abs(v.Norm()-1.0) > 1e-9 {
			t.Errorf("Basis vector %d not unit length: %f", i, v.Norm())
		}
	}
	pairs := [][2]Vec3{{e0, e1}, {e0, n}, {e1, n}}
	for i, p := range pairs {
		if d := math.Abs(p[0].Dot(p[1])); d > 1e-9 {
			t.Errorf("Basis pair %d not orthogonal: dot=%g", i, d)
		}
	}
}

// TestOrthonormalBasis verifies orthonormality for a spread of normal and
// up-hint combinations, including non-orthogonal hints.
func TestOrthonormalBasis(t *testing.T) {
	cases := []struct {
		name           string
		normal, upHint Vec3
	}{
		{"axial", Vec3{0, 0, 1}, Vec3{0, 1, 0}},
		{"coronal", Vec3{0, 1, 0}, Vec3{0, 0, 1}},
		{"sagittal", Vec3{1, 0, 0}, Vec3{0, 0, 1}},
		{"oblique", Vec3{1, 1, 1}, Vec3{0, 1, 0}},
		{"unnormalized", Vec3{0, 0, 10}, Vec3{0, 5, 0}},
		{"hint not orthogonal", Vec3{0, 0, 1}, Vec3{0, 1, 0.5}},
		{"negative normal", Vec3{-0.2, 0.4, -0.9}, Vec3{1, 0, 0}},
	}

	for _, tc := range cases {
		e0, e1, n, err := OrthonormalBasis(tc.normal, tc.upHint, DefaultNearParallelThreshold)
		if err != nil {
			t.Errorf("%s: unexpected error: %v", tc.name, err)
			continue
		}
		checkBasis(t, e0, e1, n)

		// n must point along the requested normal.
		want, _ := tc.normal.Normalize()
		if math.Abs(n.Dot(want)-1.0) > 1e-9 {
			t.Errorf("%s: normal direction not preserved: %v vs %v", tc.name, n, want)
		}
	}
}

// TestOrthonormalBasisNearParallelGuard feeds an up hint identical to the
// normal; the permutation guard must still produce an orthonormal triple
// instead of a degenerate cross product.
func TestOrthonormalBasisNearParallelGuard(t *testing.T) {
	e0, e1, n, err := OrthonormalBasis(Vec3{0, 0, 1}, Vec3{0, 0, 1}, DefaultNearParallelThreshold)
	if err != nil {
		t.Fatalf("Expected guard to recover, got error: %v", err)
	}
	checkBasis(t, e0, e1, n)

	// Nearly (but not exactly) parallel hints must be handled the same way.
	e0, e1, n, err = OrthonormalBasis(Vec3{0, 0, 1}, Vec3{0, 0.01, 1}, DefaultNearParallelThreshold)
	if err != nil {
		t.Fatalf("Expected guard to recover for near-parallel hint, got error: %v", err)
	}
	checkBasis(t, e0, e1, n)
}

// TestOrthonormalBasisZeroVectors verifies the precondition failures.
func TestOrthonormalBasisZeroVectors(t *testing.T) {
	_, _, _, err := OrthonormalBasis(Vec3{0, 0, 0}, Vec3{0, 1, 0}, DefaultNearParallelThreshold)
	if !errors.Is(err, ErrInvalidGeometry) {
		t.Errorf("Expected ErrInvalidGeometry for zero normal, got %v", err)
	}

	_, _, _, err = OrthonormalBasis(Vec3{0, 0, 1}, Vec3{0, 0, 0}, DefaultNearParallelThreshold)
	if !errors.Is(err, ErrInvalidGeometry) {
		t.Errorf("Expected ErrInvalidGeometry for zero up hint, got %v", err)
	}
}

// TestOrthonormalBasisThreshold makes the threshold strict enough that a
// mildly tilted hint triggers the permutation, exercising the tunable.
func TestOrthonormalBasisThreshold(t *testing.T) {
	// dot(n, uh) ~ 0.707 here, above a 0.5 threshold.
	e0, e1, n, err := OrthonormalBasis(Vec3{0, 0, 1}, Vec3{0, 1, 1}, 0.5)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	checkBasis(t, e0, e1, n)
}
