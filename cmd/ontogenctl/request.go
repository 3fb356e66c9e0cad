package main

import (
	"encoding/json"
	"fmt"
	"os"

	ontoapi "ontogen/pkg/ontogen"
)

func loadOrDefaultRunRequest(path string) (ontoapi.RunRequest, error) {
	if path == "" {
		return ontoapi.RunRequest{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return ontoapi.RunRequest{}, err
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return ontoapi.RunRequest{}, err
	}

	var req ontoapi.RunRequest
	if v, ok := asString(raw["topology_id"]); ok {
		req.TopologyID = v
	}
	if v, ok := asBool(raw["latest"]); ok {
		req.Latest = v
	}
	if v, ok := asString(raw["environment"]); ok {
		req.Environment = v
	}
	if v, ok := asString(raw["codec"]); ok {
		req.Codec = v
	}
	if v, ok := asInt(raw["cycles"]); ok {
		req.Cycles = v
	}
	if v, ok := asBool(raw["plastic"]); ok {
		req.Plastic = v
	}
	if v, ok := asBool(raw["check"]); ok {
		req.Check = v
	}
	return req, nil
}

func loadOrDefaultBatchRequest(path string) (ontoapi.BatchRequest, error) {
	if path == "" {
		return ontoapi.BatchRequest{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return ontoapi.BatchRequest{}, err
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return ontoapi.BatchRequest{}, err
	}

	var req ontoapi.BatchRequest
	if v, ok := asInt(raw["seeds"]); ok {
		req.Seeds = v
	}
	if v, ok := asUint64(raw["seed"]); ok {
		req.Seed = v
	}
	if v, ok := asInt(raw["workers"]); ok {
		req.Workers = v
	}
	if v, ok := asString(raw["profile"]); ok {
		req.Profile = v
	}
	if v, ok := asInt(raw["horizon"]); ok {
		req.Horizon = v
	}
	if v, ok := asInt(raw["size"]); ok {
		req.Size = v
	}
	return req, nil
}

func overrideRunRequest(req *ontoapi.RunRequest, set map[string]bool, flagValue map[string]any) error {
	for name, value := range flagValue {
		if !set[name] {
			continue
		}
		switch name {
		case "topology":
			v, ok := asString(value)
			if !ok {
				return fmt.Errorf("invalid override for %s", name)
			}
			req.TopologyID = v
		case "latest":
			v, ok := asBool(value)
			if !ok {
				return fmt.Errorf("invalid override for %s", name)
			}
			req.Latest = v
		case "env":
			v, ok := asString(value)
			if !ok {
				return fmt.Errorf("invalid override for %s", name)
			}
			req.Environment = v
		case "codec":
			v, ok := asString(value)
			if !ok {
				return fmt.Errorf("invalid override for %s", name)
			}
			req.Codec = v
		case "cycles":
			v, ok := asInt(value)
			if !ok {
				return fmt.Errorf("invalid override for %s", name)
			}
			req.Cycles = v
		case "plastic":
			v, ok := asBool(value)
			if !ok {
				return fmt.Errorf("invalid override for %s", name)
			}
			req.Plastic = v
		case "check":
			v, ok := asBool(value)
			if !ok {
				return fmt.Errorf("invalid override for %s", name)
			}
			req.Check = v
		default:
			return fmt.Errorf("unknown override flag: %s", name)
		}
	}
	return nil
}

func overrideBatchRequest(req *ontoapi.BatchRequest, set map[string]bool, flagValue map[string]any) error {
	for name, value := range flagValue {
		if !set[name] {
			continue
		}
		switch name {
		case "seeds":
			v, ok := asInt(value)
			if !ok {
				return fmt.Errorf("invalid override for %s", name)
			}
			req.Seeds = v
		case "seed":
			v, ok := asUint64(value)
			if !ok {
				return fmt.Errorf("invalid override for %s", name)
			}
			req.Seed = v
		case "workers":
			v, ok := asInt(value)
			if !ok {
				return fmt.Errorf("invalid override for %s", name)
			}
			req.Workers = v
		case "profile":
			v, ok := asString(value)
			if !ok {
				return fmt.Errorf("invalid override for %s", name)
			}
			req.Profile = v
		case "horizon":
			v, ok := asInt(value)
			if !ok {
				return fmt.Errorf("invalid override for %s", name)
			}
			req.Horizon = v
		case "size":
			v, ok := asInt(value)
			if !ok {
				return fmt.Errorf("invalid override for %s", name)
			}
			req.Size = v
		default:
			return fmt.Errorf("unknown override flag: %s", name)
		}
	}
	return nil
}

func asString(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	default:
		return "", false
	}
}

func asInt(v any) (int, bool) {
	switch x := v.(type) {
	case int:
		return x, true
	case int32:
		return int(x), true
	case int64:
		return int(x), true
	case float64:
		return int(x), true
	case float32:
		return int(x), true
	default:
		return 0, false
	}
}

func asUint64(v any) (uint64, bool) {
	switch x := v.(type) {
	case uint64:
		return x, true
	case int:
		if x < 0 {
			return 0, false
		}
		return uint64(x), true
	case int64:
		if x < 0 {
			return 0, false
		}
		return uint64(x), true
	case float64:
		if x < 0 {
			return 0, false
		}
		return uint64(x), true
	default:
		return 0, false
	}
}

func asBool(v any) (bool, bool) {
	switch x := v.(type) {
	case bool:
		return x, true
	default:
		return false, false
	}
}
