package io

import "strings"

const (
	ConstantEnvironmentAliasName = "constant"
	SilentEnvironmentAliasName   = "silent"
	RampEnvironmentAliasName     = "ramp"
)

var environmentAliasToCanonical = map[string]string{
	strings.ToLower(ConstantEnvironmentAliasName): SteadyEnvironmentName,
	strings.ToLower(SilentEnvironmentAliasName):   QuietEnvironmentName,
	strings.ToLower(RampEnvironmentAliasName):     SweepEnvironmentName,
}

func CanonicalEnvironmentName(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return ""
	}
	if canonical, ok := environmentAliasToCanonical[strings.ToLower(trimmed)]; ok {
		return canonical
	}
	return trimmed
}
