package main

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/daniacca/bondsim/internal/bonding"
	"github.com/daniacca/bondsim/internal/sandbox"
)

const waterAngle = 104.5

func waterScene() bonding.SceneConfig {
	return bonding.SceneConfig{
		Name: "water",
		Particles: []bonding.ParticleConfig{
			atom("o", sandbox.Oxygen, mgl64.Vec3{}, bond("h1", 1), bond("h2", 1)),
			atom("h1", sandbox.Hydrogen, planar(-waterAngle/2).Mul(bondLength)),
			atom("h2", sandbox.Hydrogen, planar(waterAngle/2).Mul(bondLength)),
		},
	}
}

// photolysisScene is water with one hydrogen fired away hard enough to snap
// its spring. The O-H bond dissolves through the breakage path.
func photolysisScene() bonding.SceneConfig {
	scene := waterScene()
	scene.Name = "water-photolysis"
	scene.Particles[1].Velocity = planar(-waterAngle / 2).Mul(30)
	return scene
}
