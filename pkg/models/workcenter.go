package models

import (
	"encoding/json"
	"fmt"
)

// WorkCenterMetric is one entry of /api/work_centers.
type WorkCenterMetric struct {
	Name          string `json:"name"`
	AvailableWork Number `json:"available_work"`
	Backlog       Number `json:"backlog"`
	Efficiency    Number `json:"efficiency"`
}

// Load is available work plus backlog.
func (m WorkCenterMetric) Load() float64 {
	return m.AvailableWork.Value + m.Backlog.Value
}

// WorkCenters keeps the backend's key order.
type WorkCenters []WorkCenterMetric

func (w *WorkCenters) UnmarshalJSON(b []byte) error {
	out := WorkCenters{}
	err := decodeOrderedObject(b, func(name string, raw json.RawMessage) error {
		var m WorkCenterMetric
		if err := json.Unmarshal(raw, &m); err != nil {
			return fmt.Errorf("work center %q: %w", name, err)
		}
		m.Name = name
		out = append(out, m)
		return nil
	})
	if err != nil {
		return err
	}
	*w = out
	return nil
}

// Names returns the work-center names in order.
func (w WorkCenters) Names() []string {
	names := make([]string, len(w))
	for i, m := range w {
		names[i] = m.Name
	}
	return names
}
