package nn

import "math"

// History records per-epoch training measurements under the keys "loss",
// "val_loss" and one entry per configured metric (validation metrics are
// prefixed with "val_").
type History map[string][]float64

func (h History) record(key string, value float64) {
	h[key] = append(h[key], value)
}

// Final returns the last recorded value for key, or NaN when the key was
// never recorded.
func (h History) Final(key string) float64 {
	values := h[key]
	if len(values) == 0 {
		return math.NaN()
	}
	return values[len(values)-1]
}

// Epochs returns the number of completed training epochs.
func (h History) Epochs() int {
	return len(h["loss"])
}
