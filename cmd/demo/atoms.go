package main

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/daniacca/bondsim/internal/bonding"
	"github.com/daniacca/bondsim/internal/sandbox"
)

// atom places an element at pos. Bonds are attached by the molecule builders.
func atom(id string, elem sandbox.Element, pos mgl64.Vec3, bonds ...bonding.BondConfig) bonding.ParticleConfig {
	return bonding.ParticleConfig{
		ID:                id,
		AtomicNumber:      elem.AtomicNumber,
		Electronegativity: elem.Electronegativity,
		Position:          pos,
		Bonds:             bonds,
	}
}

func bond(partner string, order int) bonding.BondConfig {
	return bonding.BondConfig{Partner: partner, Order: order}
}

// bondLength is the rest length of every sandbox spring between default-sized atoms.
const bondLength = 2 * bonding.DefaultRadius

// planar returns the unit vector at angle degrees in the xy plane.
func planar(degrees float64) mgl64.Vec3 {
	rad := mgl64.DegToRad(degrees)
	return mgl64.Vec3{math.Cos(rad), math.Sin(rad), 0}
}
