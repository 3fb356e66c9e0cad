package embryo

// Profile names a dispatch table mapping phenotypic product ids to
// operators. The table length is the phenotypic factor count a session
// runs with, so a profile swap reshapes the grid's product space.
type Profile struct {
	Name string
	Ops  []Operator
}

// Phenotypic returns the factor count the profile binds.
func (p Profile) Phenotypic() int {
	return len(p.Ops)
}

// StandardProfile maps the fourteen core operators.
func StandardProfile() Profile {
	return Profile{
		Name: "standard",
		Ops: []Operator{
			changeType,
			changeSign,
			changeTopology,
			incrementWeight,
			decrementWeight,
			nextSynapse,
			splitSparse,
			splitFull,
			moveNorth,
			moveSouth,
			moveEast,
			moveWest,
			removeSynapse,
			removeNeuron,
		},
	}
}

// ExtendedProfile adds the synapse relocation operators and the
// isolated split on top of the standard table.
func ExtendedProfile() Profile {
	std := StandardProfile()
	return Profile{
		Name: "extended",
		Ops: append(std.Ops,
			moveSynapseNorth,
			moveSynapseSouth,
			moveSynapseEast,
			moveSynapseWest,
			splitIsolated,
		),
	}
}
