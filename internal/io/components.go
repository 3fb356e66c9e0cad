package io

import (
	"fmt"

	"ontogen/internal/aer"
	"ontogen/internal/embryo"
	"ontogen/internal/env"
)

const (
	StandardProfileName = "standard"
	ExtendedProfileName = "extended"

	SteadyEnvironmentName = "steady"
	QuietEnvironmentName  = "quiet"
	SweepEnvironmentName  = "sweep"
)

var (
	steadyFrame = []byte{45, 45, 45}
	quietFrame  = []byte{255, 255, 255}
)

func mustEnvironment(e env.Environment, err error) env.Environment {
	if err != nil {
		panic(err)
	}
	return e
}

// bucketGeometry accepts the grids the bucketed codec can address:
// exactly five columns for the channel-to-cell mapping and at least
// four rows for the actuator cells on row three.
func bucketGeometry(geometry string) error {
	rows, columns, ok := parseGeometry(geometry)
	if !ok {
		return fmt.Errorf("unparseable geometry: %q", geometry)
	}
	if columns != 5 || rows < 4 {
		return fmt.Errorf("bucketed codec needs 5 columns and at least 4 rows, got %s", geometry)
	}
	return nil
}

func init() {
	initializeDefaultComponents()
}

func initializeDefaultComponents() {
	err := RegisterProfileWithSpec(ProfileSpec{
		Name:          StandardProfileName,
		Factory:       embryo.StandardProfile,
		SchemaVersion: SupportedSchemaVersion,
		CodecVersion:  SupportedCodecVersion,
	})
	if err != nil {
		panic(err)
	}
	err = RegisterProfileWithSpec(ProfileSpec{
		Name:          ExtendedProfileName,
		Factory:       embryo.ExtendedProfile,
		SchemaVersion: SupportedSchemaVersion,
		CodecVersion:  SupportedCodecVersion,
	})
	if err != nil {
		panic(err)
	}

	err = RegisterCodecWithSpec(CodecSpec{
		Name:          aer.BucketCodecName,
		Factory:       func() SensorCodec { return aer.BucketCodec{} },
		SchemaVersion: SupportedSchemaVersion,
		CodecVersion:  SupportedCodecVersion,
		Compatible:    bucketGeometry,
	})
	if err != nil {
		panic(err)
	}

	err = RegisterEnvironmentWithSpec(EnvironmentSpec{
		Name: SteadyEnvironmentName,
		Factory: func() env.Environment {
			return mustEnvironment(env.NewConstant(SteadyEnvironmentName, steadyFrame))
		},
		SchemaVersion: SupportedSchemaVersion,
		CodecVersion:  SupportedCodecVersion,
	})
	if err != nil {
		panic(err)
	}
	err = RegisterEnvironmentWithSpec(EnvironmentSpec{
		Name: QuietEnvironmentName,
		Factory: func() env.Environment {
			return mustEnvironment(env.NewConstant(QuietEnvironmentName, quietFrame))
		},
		SchemaVersion: SupportedSchemaVersion,
		CodecVersion:  SupportedCodecVersion,
	})
	if err != nil {
		panic(err)
	}
	err = RegisterEnvironmentWithSpec(EnvironmentSpec{
		Name: SweepEnvironmentName,
		Factory: func() env.Environment {
			return mustEnvironment(env.NewSweep(SweepEnvironmentName, 16, 50))
		},
		SchemaVersion: SupportedSchemaVersion,
		CodecVersion:  SupportedCodecVersion,
	})
	if err != nil {
		panic(err)
	}
}
