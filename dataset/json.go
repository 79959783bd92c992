package dataset

import (
	"encoding/json"
	"time"
)

type tableJSON struct {
	SeriesID  []string             `json:"series_id"`
	Timestamp []time.Time          `json:"timestamp"`
	Cutoff    []time.Time          `json:"cutoff,omitempty"`
	Columns   []string             `json:"columns"`
	Data      map[string][]float64 `json:"data"`
}

// MarshalJSON serializes the table preserving data column order.
func (t *Table) MarshalJSON() ([]byte, error) {
	return json.Marshal(tableJSON{
		SeriesID:  t.ids,
		Timestamp: t.times,
		Cutoff:    t.cutoffs,
		Columns:   t.order,
		Data:      t.cols,
	})
}

func (t *Table) UnmarshalJSON(data []byte) error {
	var tj tableJSON
	if err := json.Unmarshal(data, &tj); err != nil {
		return err
	}
	if len(tj.SeriesID) == 0 {
		return ErrNoRows
	}
	if len(tj.Timestamp) != len(tj.SeriesID) {
		return ErrColLenMismatch
	}
	if tj.Cutoff != nil && len(tj.Cutoff) != len(tj.SeriesID) {
		return ErrColLenMismatch
	}
	for _, name := range tj.Columns {
		if len(tj.Data[name]) != len(tj.SeriesID) {
			return ErrColLenMismatch
		}
	}
	t.ids = tj.SeriesID
	t.times = tj.Timestamp
	t.cutoffs = tj.Cutoff
	t.order = tj.Columns
	t.cols = make(map[string][]float64, len(tj.Columns))
	for _, name := range tj.Columns {
		t.cols[name] = tj.Data[name]
	}
	return nil
}
