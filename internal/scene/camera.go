package scene

import "github.com/go-gl/mathgl/mgl32"

const (
	cameraFOV  = 75.0 // degrees, vertical
	cameraNear = 0.1
	cameraFar  = 1000.0

	// Portrait viewports pull the camera back to keep the grid in frame.
	portraitCameraZ = 20.0
)

// Camera is a perspective camera looking down -Z.
type Camera struct {
	Position mgl32.Vec3
	Aspect   float32
	FOV      float32 // degrees
	Near     float32
	Far      float32
}

func newCamera(aspect float32) Camera {
	return Camera{
		Position: mgl32.Vec3{0, 2, 10},
		Aspect:   aspect,
		FOV:      cameraFOV,
		Near:     cameraNear,
		Far:      cameraFar,
	}
}

func (c Camera) Projection() mgl32.Mat4 {
	aspect := c.Aspect
	if aspect <= 0 {
		aspect = 1
	}
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), aspect, c.Near, c.Far)
}

func (c Camera) View() mgl32.Mat4 {
	target := c.Position.Add(mgl32.Vec3{0, 0, -1})
	return mgl32.LookAtV(c.Position, target, mgl32.Vec3{0, 1, 0})
}

// modePose is the fixed camera position of each mode.
func modePose(m Mode) mgl32.Vec3 {
	if m == ModeAlternate {
		return mgl32.Vec3{0, 2, 12}
	}
	return mgl32.Vec3{0, 2, 10}
}
