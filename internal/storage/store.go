package storage

import (
	"context"

	"ontogen/internal/model"
)

// Store defines the persistence operations for genomes, developed
// topologies, and run results. Listings return sorted identifiers.
type Store interface {
	Init(ctx context.Context) error
	SaveGenome(ctx context.Context, genome model.Genome) error
	GetGenome(ctx context.Context, id string) (model.Genome, bool, error)
	ListGenomes(ctx context.Context) ([]string, error)
	SaveTopology(ctx context.Context, topology model.Topology) error
	GetTopology(ctx context.Context, id string) (model.Topology, bool, error)
	ListTopologies(ctx context.Context) ([]string, error)
	SaveRun(ctx context.Context, run model.Run) error
	GetRun(ctx context.Context, id string) (model.Run, bool, error)
	ListRuns(ctx context.Context) ([]string, error)
}
