package main

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/daniacca/bondsim/internal/bonding"
	"github.com/daniacca/bondsim/internal/sandbox"
)

// methaneScene is CH4 with the hydrogens on the corners of a tetrahedron.
func methaneScene() bonding.SceneConfig {
	corners := []mgl64.Vec3{{1, 1, 1}, {1, -1, -1}, {-1, 1, -1}, {-1, -1, 1}}
	ids := []string{"h1", "h2", "h3", "h4"}

	carbon := atom("c", sandbox.Carbon, mgl64.Vec3{})
	particles := []bonding.ParticleConfig{carbon}
	for i, corner := range corners {
		particles[0].Bonds = append(particles[0].Bonds, bond(ids[i], 1))
		particles = append(particles, atom(ids[i], sandbox.Hydrogen, corner.Normalize().Mul(bondLength)))
	}

	return bonding.SceneConfig{Name: "methane", Particles: particles}
}
