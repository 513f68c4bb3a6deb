package main

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/daniacca/bondsim/internal/bonding"
	"github.com/daniacca/bondsim/internal/sandbox"
)

// ethyleneScene is H2C=CH2, planar with 120 degree angles.
func ethyleneScene() bonding.SceneConfig {
	left := mgl64.Vec3{-bondLength / 2, 0, 0}
	right := mgl64.Vec3{bondLength / 2, 0, 0}

	return bonding.SceneConfig{
		Name: "ethylene",
		Particles: []bonding.ParticleConfig{
			atom("c1", sandbox.Carbon, left, bond("c2", 2), bond("h1", 1), bond("h2", 1)),
			atom("c2", sandbox.Carbon, right, bond("h3", 1), bond("h4", 1)),
			atom("h1", sandbox.Hydrogen, left.Add(planar(120).Mul(bondLength))),
			atom("h2", sandbox.Hydrogen, left.Add(planar(240).Mul(bondLength))),
			atom("h3", sandbox.Hydrogen, right.Add(planar(60).Mul(bondLength))),
			atom("h4", sandbox.Hydrogen, right.Add(planar(-60).Mul(bondLength))),
		},
	}
}
