// Package io registers the pluggable run components: dispatch
// profiles, sensor codecs, and environments. Components resolve by
// name against a grid geometry, so a runtime never pairs a codec or
// profile with a grid it cannot address.
package io

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"ontogen/internal/embryo"
	"ontogen/internal/env"
)

const (
	SupportedSchemaVersion = 1
	SupportedCodecVersion  = 1
)

var (
	ErrProfileExists       = errors.New("profile already registered")
	ErrProfileNotFound     = errors.New("profile not found")
	ErrCodecExists         = errors.New("codec already registered")
	ErrCodecNotFound       = errors.New("codec not found")
	ErrEnvironmentExists   = errors.New("environment already registered")
	ErrEnvironmentNotFound = errors.New("environment not found")
	ErrVersionMismatch     = errors.New("registry version mismatch")
	ErrIncompatible        = errors.New("component incompatible with grid geometry")
)

// CompatibilityFn restricts a component to particular grid geometries,
// given as "rowsxcolumns" strings such as "5x5". A nil hook accepts
// every geometry.
type CompatibilityFn func(geometry string) error

type ProfileFactory func() embryo.Profile

type CodecFactory func() SensorCodec

type EnvironmentFactory func() env.Environment

type ProfileSpec struct {
	Name          string
	Factory       ProfileFactory
	SchemaVersion int
	CodecVersion  int
	Compatible    CompatibilityFn
}

type CodecSpec struct {
	Name          string
	Factory       CodecFactory
	SchemaVersion int
	CodecVersion  int
	Compatible    CompatibilityFn
}

type EnvironmentSpec struct {
	Name          string
	Factory       EnvironmentFactory
	SchemaVersion int
	CodecVersion  int
	Compatible    CompatibilityFn
}

type registeredProfile struct {
	factory       ProfileFactory
	schemaVersion int
	codecVersion  int
	compatible    CompatibilityFn
}

type registeredCodec struct {
	factory       CodecFactory
	schemaVersion int
	codecVersion  int
	compatible    CompatibilityFn
}

type registeredEnvironment struct {
	factory       EnvironmentFactory
	schemaVersion int
	codecVersion  int
	compatible    CompatibilityFn
}

var profileRegistry = struct {
	mu sync.RWMutex
	m  map[string]registeredProfile
}{
	m: make(map[string]registeredProfile),
}

var codecRegistry = struct {
	mu sync.RWMutex
	m  map[string]registeredCodec
}{
	m: make(map[string]registeredCodec),
}

var environmentRegistry = struct {
	mu sync.RWMutex
	m  map[string]registeredEnvironment
}{
	m: make(map[string]registeredEnvironment),
}

func RegisterProfile(name string, factory ProfileFactory) error {
	return RegisterProfileWithSpec(ProfileSpec{
		Name:          name,
		Factory:       factory,
		SchemaVersion: SupportedSchemaVersion,
		CodecVersion:  SupportedCodecVersion,
	})
}

func RegisterProfileWithSpec(spec ProfileSpec) error {
	if spec.Name == "" {
		return errors.New("profile name is required")
	}
	if spec.Factory == nil {
		return errors.New("profile factory is required")
	}
	if spec.SchemaVersion != SupportedSchemaVersion || spec.CodecVersion != SupportedCodecVersion {
		return fmt.Errorf("%w: schema=%d codec=%d", ErrVersionMismatch, spec.SchemaVersion, spec.CodecVersion)
	}

	profileRegistry.mu.Lock()
	defer profileRegistry.mu.Unlock()

	if _, exists := profileRegistry.m[spec.Name]; exists {
		return fmt.Errorf("%w: %s", ErrProfileExists, spec.Name)
	}
	profileRegistry.m[spec.Name] = registeredProfile{
		factory:       spec.Factory,
		schemaVersion: spec.SchemaVersion,
		codecVersion:  spec.CodecVersion,
		compatible:    spec.Compatible,
	}
	return nil
}

func ResolveProfile(name, geometry string) (embryo.Profile, error) {
	profileRegistry.mu.RLock()
	entry, ok := profileRegistry.m[name]
	profileRegistry.mu.RUnlock()
	if !ok {
		return embryo.Profile{}, fmt.Errorf("%w: %s", ErrProfileNotFound, name)
	}
	if err := profileCompatibilityError(name, entry, normalizeGeometry(geometry)); err != nil {
		return embryo.Profile{}, err
	}
	return entry.factory(), nil
}

func ListProfiles() []string {
	profileRegistry.mu.RLock()
	defer profileRegistry.mu.RUnlock()

	names := make([]string, 0, len(profileRegistry.m))
	for n := range profileRegistry.m {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func profileCompatibilityError(name string, entry registeredProfile, geometry string) error {
	if entry.schemaVersion != SupportedSchemaVersion || entry.codecVersion != SupportedCodecVersion {
		return fmt.Errorf("%w: %s", ErrVersionMismatch, name)
	}
	if entry.compatible != nil {
		if err := entry.compatible(geometry); err != nil {
			return fmt.Errorf("%w: profile=%s: %v", ErrIncompatible, name, err)
		}
	}
	return nil
}

func RegisterCodec(name string, factory CodecFactory) error {
	return RegisterCodecWithSpec(CodecSpec{
		Name:          name,
		Factory:       factory,
		SchemaVersion: SupportedSchemaVersion,
		CodecVersion:  SupportedCodecVersion,
	})
}

func RegisterCodecWithSpec(spec CodecSpec) error {
	if spec.Name == "" {
		return errors.New("codec name is required")
	}
	if spec.Factory == nil {
		return errors.New("codec factory is required")
	}
	if spec.SchemaVersion != SupportedSchemaVersion || spec.CodecVersion != SupportedCodecVersion {
		return fmt.Errorf("%w: schema=%d codec=%d", ErrVersionMismatch, spec.SchemaVersion, spec.CodecVersion)
	}

	codecRegistry.mu.Lock()
	defer codecRegistry.mu.Unlock()

	if _, exists := codecRegistry.m[spec.Name]; exists {
		return fmt.Errorf("%w: %s", ErrCodecExists, spec.Name)
	}
	codecRegistry.m[spec.Name] = registeredCodec{
		factory:       spec.Factory,
		schemaVersion: spec.SchemaVersion,
		codecVersion:  spec.CodecVersion,
		compatible:    spec.Compatible,
	}
	return nil
}

func ResolveCodec(name, geometry string) (SensorCodec, error) {
	codecRegistry.mu.RLock()
	entry, ok := codecRegistry.m[name]
	codecRegistry.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCodecNotFound, name)
	}
	if err := codecCompatibilityError(name, entry, normalizeGeometry(geometry)); err != nil {
		return nil, err
	}
	return entry.factory(), nil
}

func CodecCompatibleWithGeometry(name, geometry string) bool {
	codecRegistry.mu.RLock()
	entry, ok := codecRegistry.m[name]
	codecRegistry.mu.RUnlock()
	if !ok {
		return false
	}
	return codecCompatibilityError(name, entry, normalizeGeometry(geometry)) == nil
}

func ListCodecsForGeometry(geometry string) []string {
	normalized := normalizeGeometry(geometry)

	codecRegistry.mu.RLock()
	defer codecRegistry.mu.RUnlock()

	names := make([]string, 0, len(codecRegistry.m))
	for name, entry := range codecRegistry.m {
		if codecCompatibilityError(name, entry, normalized) != nil {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func ListCodecs() []string {
	codecRegistry.mu.RLock()
	defer codecRegistry.mu.RUnlock()

	names := make([]string, 0, len(codecRegistry.m))
	for n := range codecRegistry.m {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func codecCompatibilityError(name string, entry registeredCodec, geometry string) error {
	if entry.schemaVersion != SupportedSchemaVersion || entry.codecVersion != SupportedCodecVersion {
		return fmt.Errorf("%w: %s", ErrVersionMismatch, name)
	}
	if entry.compatible != nil {
		if err := entry.compatible(geometry); err != nil {
			return fmt.Errorf("%w: codec=%s: %v", ErrIncompatible, name, err)
		}
	}
	return nil
}

func RegisterEnvironment(name string, factory EnvironmentFactory) error {
	return RegisterEnvironmentWithSpec(EnvironmentSpec{
		Name:          name,
		Factory:       factory,
		SchemaVersion: SupportedSchemaVersion,
		CodecVersion:  SupportedCodecVersion,
	})
}

func RegisterEnvironmentWithSpec(spec EnvironmentSpec) error {
	if spec.Name == "" {
		return errors.New("environment name is required")
	}
	if spec.Factory == nil {
		return errors.New("environment factory is required")
	}
	if spec.SchemaVersion != SupportedSchemaVersion || spec.CodecVersion != SupportedCodecVersion {
		return fmt.Errorf("%w: schema=%d codec=%d", ErrVersionMismatch, spec.SchemaVersion, spec.CodecVersion)
	}

	environmentRegistry.mu.Lock()
	defer environmentRegistry.mu.Unlock()

	if _, exists := environmentRegistry.m[spec.Name]; exists {
		return fmt.Errorf("%w: %s", ErrEnvironmentExists, spec.Name)
	}
	environmentRegistry.m[spec.Name] = registeredEnvironment{
		factory:       spec.Factory,
		schemaVersion: spec.SchemaVersion,
		codecVersion:  spec.CodecVersion,
		compatible:    spec.Compatible,
	}
	return nil
}

// ResolveEnvironment accepts alias names alongside canonical ones, so
// CLI inputs like "constant" reach the steady environment.
func ResolveEnvironment(name, geometry string) (env.Environment, error) {
	entry, resolvedName, ok := findRegisteredEnvironment(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrEnvironmentNotFound, name)
	}
	if err := environmentCompatibilityError(resolvedName, entry, normalizeGeometry(geometry)); err != nil {
		return nil, err
	}
	return entry.factory(), nil
}

func EnvironmentCompatibleWithGeometry(name, geometry string) bool {
	entry, resolvedName, ok := findRegisteredEnvironment(name)
	if !ok {
		return false
	}
	return environmentCompatibilityError(resolvedName, entry, normalizeGeometry(geometry)) == nil
}

func ListEnvironments() []string {
	environmentRegistry.mu.RLock()
	defer environmentRegistry.mu.RUnlock()

	names := make([]string, 0, len(environmentRegistry.m))
	for n := range environmentRegistry.m {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func environmentCompatibilityError(name string, entry registeredEnvironment, geometry string) error {
	if entry.schemaVersion != SupportedSchemaVersion || entry.codecVersion != SupportedCodecVersion {
		return fmt.Errorf("%w: %s", ErrVersionMismatch, name)
	}
	if entry.compatible != nil {
		if err := entry.compatible(geometry); err != nil {
			return fmt.Errorf("%w: environment=%s: %v", ErrIncompatible, name, err)
		}
	}
	return nil
}

func findRegisteredEnvironment(name string) (registeredEnvironment, string, bool) {
	lookupName := strings.TrimSpace(name)
	if lookupName == "" {
		return registeredEnvironment{}, "", false
	}

	environmentRegistry.mu.RLock()
	defer environmentRegistry.mu.RUnlock()

	if entry, ok := environmentRegistry.m[lookupName]; ok {
		return entry, lookupName, true
	}

	canonicalName := CanonicalEnvironmentName(lookupName)
	if canonicalName != "" && canonicalName != lookupName {
		if entry, ok := environmentRegistry.m[canonicalName]; ok {
			return entry, canonicalName, true
		}
	}
	return registeredEnvironment{}, "", false
}

func resetRegistriesForTests() {
	profileRegistry.mu.Lock()
	profileRegistry.m = make(map[string]registeredProfile)
	profileRegistry.mu.Unlock()

	codecRegistry.mu.Lock()
	codecRegistry.m = make(map[string]registeredCodec)
	codecRegistry.mu.Unlock()

	environmentRegistry.mu.Lock()
	environmentRegistry.m = make(map[string]registeredEnvironment)
	environmentRegistry.mu.Unlock()

	initializeDefaultComponents()
}
