// Package model defines the persistent record shapes shared by the
// stores, the platform, and the CLI.
package model

import (
	"time"

	"github.com/google/uuid"
)

// VersionedRecord captures schema and codec evolution for persistent data.
type VersionedRecord struct {
	SchemaVersion int `json:"schema_version"`
	CodecVersion  int `json:"codec_version"`
}

// NewID returns a fresh record identifier.
func NewID() string {
	return uuid.New().String()
}

// Genome is a raw genetic buffer with its provenance.
type Genome struct {
	VersionedRecord
	ID        string    `json:"id"`
	Seed      uint64    `json:"seed"`
	Data      []byte    `json:"data"`
	CreatedAt time.Time `json:"created_at"`
}

// Topology is a developed phenotype flattened for persistence: the
// occupancy snapshot plus per-cell neurons and coordinate-addressed
// synapses, in network list order.
type Topology struct {
	VersionedRecord
	ID        string    `json:"id"`
	GenomeID  string    `json:"genome_id"`
	Profile   string    `json:"profile"`
	Rows      int       `json:"rows"`
	Columns   int       `json:"columns"`
	Ticks     int       `json:"ticks"`
	Faults    int       `json:"faults"`
	Snapshot  []byte    `json:"snapshot"`
	Neurons   []Neuron  `json:"neurons"`
	Synapses  []Synapse `json:"synapses"`
	CreatedAt time.Time `json:"created_at"`
}

// Neuron is one placed neuron, addressed by its cell.
type Neuron struct {
	X    int  `json:"x"`
	Y    int  `json:"y"`
	Type byte `json:"type"`
}

// Synapse is one connection, addressed by its endpoint cells.
type Synapse struct {
	FromX  int     `json:"from_x"`
	FromY  int     `json:"from_y"`
	ToX    int     `json:"to_x"`
	ToY    int     `json:"to_y"`
	Weight float64 `json:"weight"`
	Delay  int     `json:"delay"`
}

// ActuatorSample is one decoded actuator pair.
type ActuatorSample struct {
	Cycle  int   `json:"cycle"`
	Motor0 int16 `json:"motor0"`
	Motor1 int16 `json:"motor1"`
}

// Run summarizes one closed-loop session against an environment.
type Run struct {
	VersionedRecord
	ID          string           `json:"id"`
	TopologyID  string           `json:"topology_id"`
	Environment string           `json:"environment"`
	Codec       string           `json:"codec"`
	Plastic     bool             `json:"plastic"`
	Cycles      uint64           `json:"cycles"`
	Dropped     uint64           `json:"dropped"`
	OutOfGrid   uint64           `json:"out_of_grid"`
	Samples     []ActuatorSample `json:"samples"`
	StartedAt   time.Time        `json:"started_at"`
	FinishedAt  time.Time        `json:"finished_at"`
}
