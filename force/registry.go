package force

import "projectilesim/environment"

// DefaultForces returns the environment's default force list: gravity,
// drag, the unified Coriolis (vertical term included), and
// centrifugal. EotvosForce/CoriolisHorizontalOnly are available for
// scenarios that explicitly want the split decomposition instead (see
// DESIGN.md, Open Question (a)) but are not part of the default to avoid
// double-counting the vertical deflection.
func DefaultForces() []environment.Force {
	return []environment.Force{
		NewNewtonianGravity(),
		NewDragForce(),
		NewCoriolisForce(),
		NewCentrifugalForce(),
	}
}
