package store

import (
	"encoding/json"
	"fmt"

	"github.com/randalmurphal/retemplate/pkg/retemplate"
)

// Version is the current format of persisted mappings and template lists.
// Increment when making breaking changes to the stored JSON.
const Version = 1

// mappingRecord is the persisted form of a mapping.
type mappingRecord struct {
	Version int                `json:"version"`
	Mapping retemplate.Mapping `json:"mapping"`
}

func marshalMapping(m retemplate.Mapping) ([]byte, error) {
	data, err := json.Marshal(mappingRecord{Version: Version, Mapping: m})
	if err != nil {
		return nil, fmt.Errorf("encode mapping: %w", err)
	}
	return data, nil
}

func unmarshalMapping(data []byte) (retemplate.Mapping, error) {
	var rec mappingRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return retemplate.Mapping{}, fmt.Errorf("decode mapping: %w", err)
	}
	if rec.Version != Version {
		return retemplate.Mapping{}, fmt.Errorf("decode mapping: unsupported version %d", rec.Version)
	}
	return rec.Mapping, nil
}

func marshalTemplates(templates []string) ([]byte, error) {
	if templates == nil {
		templates = []string{}
	}
	data, err := json.Marshal(templates)
	if err != nil {
		return nil, fmt.Errorf("encode templates: %w", err)
	}
	return data, nil
}

func unmarshalTemplates(data []byte) ([]string, error) {
	var templates []string
	if err := json.Unmarshal(data, &templates); err != nil {
		return nil, fmt.Errorf("decode templates: %w", err)
	}
	return templates, nil
}
