package main

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/daniacca/bondsim/internal/bonding"
	"github.com/daniacca/bondsim/internal/sandbox"
)

// formaldehydeScene is H2C=O.
func formaldehydeScene() bonding.SceneConfig {
	return bonding.SceneConfig{
		Name: "formaldehyde",
		Particles: []bonding.ParticleConfig{
			atom("c", sandbox.Carbon, mgl64.Vec3{}, bond("o", 2), bond("h1", 1), bond("h2", 1)),
			atom("o", sandbox.Oxygen, planar(0).Mul(bondLength)),
			atom("h1", sandbox.Hydrogen, planar(120).Mul(bondLength)),
			atom("h2", sandbox.Hydrogen, planar(240).Mul(bondLength)),
		},
	}
}
