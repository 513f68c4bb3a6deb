package main

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/daniacca/bondsim/internal/bonding"
	"github.com/daniacca/bondsim/internal/sandbox"
)

// hydrogenCollisionScene fires two free hydrogen atoms at each other. The
// contact forms H2 through the bond decision engine.
func hydrogenCollisionScene() bonding.SceneConfig {
	left := atom("h-left", sandbox.Hydrogen, mgl64.Vec3{-2, 0, 0})
	left.Velocity = mgl64.Vec3{5, 0, 0}
	right := atom("h-right", sandbox.Hydrogen, mgl64.Vec3{2, 0, 0})
	right.Velocity = mgl64.Vec3{-5, 0, 0}

	return bonding.SceneConfig{Name: "hydrogen-collision", Particles: []bonding.ParticleConfig{left, right}}
}
