package models

import (
	"encoding/json"
	"fmt"
)

// ForecastMetric holds planned, actual, forecasted and remaining hours for one work center.
type ForecastMetric struct {
	WorkCenter string `json:"work_center"`
	Planned    Number `json:"planned"`
	Actual     Number `json:"actual"`
	Forecasted Number `json:"forecasted"`
	Remaining  Number `json:"remaining"`
}

// ForecastSet keeps the backend's key order.
type ForecastSet []ForecastMetric

func (f *ForecastSet) UnmarshalJSON(b []byte) error {
	out := ForecastSet{}
	err := decodeOrderedObject(b, func(name string, raw json.RawMessage) error {
		var m ForecastMetric
		if err := json.Unmarshal(raw, &m); err != nil {
			return fmt.Errorf("forecast %q: %w", name, err)
		}
		m.WorkCenter = name
		out = append(out, m)
		return nil
	})
	if err != nil {
		return err
	}
	*f = out
	return nil
}
