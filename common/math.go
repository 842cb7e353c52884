package common

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Canonical basis vectors. Forward is +Z (left-handed).
var (
	AxisRight   = mgl32.Vec3{1, 0, 0}
	AxisUp      = mgl32.Vec3{0, 1, 0}
	AxisForward = mgl32.Vec3{0, 0, 1}
)

// gimbalThreshold is the |sin(pitch)| above which EulerFromRotation treats the
// rotation as gimbal locked and folds roll into yaw.
const gimbalThreshold = 0.99999

// EulerToQuat converts pitch/yaw/roll euler angles into a single combined
// Roll-Pitch-Yaw rotation: roll about Z is applied first, then pitch about X,
// then yaw about Y. The same quaternion drives both model matrices and
// direction vectors so the two never disagree.
//
// Parameters:
//   - euler: (pitch, yaw, roll) in radians
//
// Returns:
//   - mgl32.Quat: the combined orientation
func EulerToQuat(euler mgl32.Vec3) mgl32.Quat {
	pitch := mgl32.QuatRotate(euler[0], AxisRight)
	yaw := mgl32.QuatRotate(euler[1], AxisUp)
	roll := mgl32.QuatRotate(euler[2], AxisForward)
	return yaw.Mul(pitch).Mul(roll)
}

// ComposeTRS builds a column-major model matrix as T * R * S, so scale is
// applied first and translation last.
//
// Parameters:
//   - position: translation
//   - euler: (pitch, yaw, roll) in radians
//   - scale: per-axis scale factors
//
// Returns:
//   - mgl32.Mat4: the composed matrix
func ComposeTRS(position, euler, scale mgl32.Vec3) mgl32.Mat4 {
	t := mgl32.Translate3D(position[0], position[1], position[2])
	r := EulerToQuat(euler).Mat4()
	s := mgl32.Scale3D(scale[0], scale[1], scale[2])
	return t.Mul4(r).Mul4(s)
}

// DecomposeTRS splits an affine matrix back into translation, euler rotation,
// and scale such that ComposeTRS(DecomposeTRS(m)) reproduces m when m carries
// no shear. A negative determinant is attributed to the X scale. Zero-length
// axes are left as the canonical axis so the rotation stays orthonormal.
//
// Parameters:
//   - m: the matrix to decompose
//
// Returns:
//   - position: translation column
//   - euler: (pitch, yaw, roll) in radians
//   - scale: per-axis scale factors
func DecomposeTRS(m mgl32.Mat4) (position, euler, scale mgl32.Vec3) {
	position = m.Col(3).Vec3()

	cols := [3]mgl32.Vec3{m.Col(0).Vec3(), m.Col(1).Vec3(), m.Col(2).Vec3()}
	axes := [3]mgl32.Vec3{AxisRight, AxisUp, AxisForward}
	for i := range cols {
		scale[i] = cols[i].Len()
	}
	if m.Mat3().Det() < 0 {
		scale[0] = -scale[0]
	}
	for i := range cols {
		if scale[i] == 0 {
			cols[i] = axes[i]
			continue
		}
		cols[i] = cols[i].Mul(1 / scale[i])
	}

	euler = EulerFromRotation(mgl32.Mat3FromCols(cols[0], cols[1], cols[2]))
	return position, euler, scale
}

// EulerFromRotation extracts (pitch, yaw, roll) from a pure rotation matrix
// built as Ry * Rx * Rz, the inverse of EulerToQuat. At gimbal lock roll is
// reported as zero and the remaining twist is assigned to yaw.
//
// Parameters:
//   - r: orthonormal rotation matrix
//
// Returns:
//   - mgl32.Vec3: (pitch, yaw, roll) in radians
func EulerFromRotation(r mgl32.Mat3) mgl32.Vec3 {
	sinPitch := mgl32.Clamp(-r.At(1, 2), -1, 1)
	pitch := math32.Asin(sinPitch)

	if math32.Abs(sinPitch) < gimbalThreshold {
		yaw := math32.Atan2(r.At(0, 2), r.At(2, 2))
		roll := math32.Atan2(r.At(1, 0), r.At(1, 1))
		return mgl32.Vec3{pitch, yaw, roll}
	}

	yaw := math32.Atan2(-r.At(2, 0), r.At(0, 0))
	return mgl32.Vec3{pitch, yaw, 0}
}

// InverseTranspose returns the transpose of the inverse of m, used to carry
// normals through non-uniformly scaled transforms. A singular m yields the zero
// matrix, matching mgl32.Mat4.Inv.
//
// Parameters:
//   - m: source matrix
//
// Returns:
//   - mgl32.Mat4: (m^-1)^T
func InverseTranspose(m mgl32.Mat4) mgl32.Mat4 {
	return m.Inv().Transpose()
}

// LookToLH creates a left-handed view matrix for an eye at eye looking along
// dir. The resulting matrix maps world space to view space with +Z forward.
//
// Parameters:
//   - eye: camera position in world space
//   - dir: view direction (need not be normalized)
//   - up: world up hint, typically (0, 1, 0)
//
// Returns:
//   - mgl32.Mat4: the view matrix
func LookToLH(eye, dir, up mgl32.Vec3) mgl32.Mat4 {
	z := safeNormalize(dir, AxisForward)
	x := safeNormalize(up.Cross(z), AxisRight)
	y := z.Cross(x)

	return mgl32.Mat4{
		x[0], y[0], z[0], 0,
		x[1], y[1], z[1], 0,
		x[2], y[2], z[2], 0,
		-x.Dot(eye), -y.Dot(eye), -z.Dot(eye), 1,
	}
}

// PerspectiveFovLH creates a left-handed perspective projection with depth
// mapped to the [0, 1] clip range.
//
// Parameters:
//   - fovY: vertical field of view in radians
//   - aspect: viewport aspect ratio (width / height)
//   - near: near clipping plane distance (must be > 0)
//   - far: far clipping plane distance (must be > near)
//
// Returns:
//   - mgl32.Mat4: the projection matrix
func PerspectiveFovLH(fovY, aspect, near, far float32) mgl32.Mat4 {
	yScale := 1 / math32.Tan(fovY/2)
	xScale := yScale / aspect
	depth := far / (far - near)

	var m mgl32.Mat4
	m[0] = xScale
	m[5] = yScale
	m[10] = depth
	m[11] = 1
	m[14] = -near * depth
	return m
}

// safeNormalize returns v normalized, or fallback when v has no length.
func safeNormalize(v, fallback mgl32.Vec3) mgl32.Vec3 {
	if v.Len() == 0 {
		return fallback
	}
	return v.Normalize()
}
