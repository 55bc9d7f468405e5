package core

import (
	"fmt"
)

// SeriesBatch is a dense batch of multivariate series, stored row-major as
// (batch, steps, features) float32 values. Row views share the underlying
// array, so a window over consecutive steps of a row is itself a plain
// sub-slice with no copying.
type SeriesBatch struct {
	data     []float32
	batch    int
	steps    int
	features int
}

// NewSeriesBatch allocates a zeroed batch with the given dimensions.
// Dimensions must be positive.
func NewSeriesBatch(batch, steps, features int) *SeriesBatch {
	if batch < 0 || steps <= 0 || features <= 0 {
		panic(fmt.Sprintf("series batch: invalid dimensions (%d,%d,%d)", batch, steps, features))
	}

	return &SeriesBatch{
		data:     make([]float32, batch*steps*features),
		batch:    batch,
		steps:    steps,
		features: features,
	}
}

// SeriesBatchFromRows builds a batch from per-row flat slices. Every row must
// hold exactly steps*features values.
func SeriesBatchFromRows(rows [][]float32, steps, features int) (*SeriesBatch, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyBatch
	}

	out := NewSeriesBatch(len(rows), steps, features)
	for b, row := range rows {
		if len(row) != steps*features {
			return nil, fmt.Errorf("%w: row %d has %d values, want %d*%d",
				ErrShapeMismatch, b, len(row), steps, features)
		}
		copy(out.Row(b), row)
	}

	return out, nil
}

// Dims returns the batch, steps and features dimensions.
func (s *SeriesBatch) Dims() (batch, steps, features int) {
	return s.batch, s.steps, s.features
}

// Batch returns the number of series in the batch.
func (s *SeriesBatch) Batch() int { return s.batch }

// Steps returns the number of points per series.
func (s *SeriesBatch) Steps() int { return s.steps }

// Features returns the number of values per point.
func (s *SeriesBatch) Features() int { return s.features }

// Len returns the total number of stored values.
func (s *SeriesBatch) Len() int { return len(s.data) }

func (s *SeriesBatch) index(b, t, f int) int {
	if b < 0 || b >= s.batch || t < 0 || t >= s.steps || f < 0 || f >= s.features {
		panic(fmt.Sprintf("series batch: index (%d,%d,%d) out of range (%d,%d,%d)",
			b, t, f, s.batch, s.steps, s.features))
	}
	return (b*s.steps+t)*s.features + f
}

// At returns the value of feature f at step t of series b.
func (s *SeriesBatch) At(b, t, f int) float32 {
	return s.data[s.index(b, t, f)]
}

// Set assigns the value of feature f at step t of series b.
func (s *SeriesBatch) Set(b, t, f int, v float32) {
	s.data[s.index(b, t, f)] = v
}

// Row returns a view over series b, flattened to steps*features values.
// Mutating the view mutates the batch.
func (s *SeriesBatch) Row(b int) []float32 {
	if b < 0 || b >= s.batch {
		panic(fmt.Sprintf("series batch: row %d out of range %d", b, s.batch))
	}
	rowLen := s.steps * s.features
	return s.data[b*rowLen : (b+1)*rowLen]
}

// Rows returns views over every series in batch order.
func (s *SeriesBatch) Rows() [][]float32 {
	rows := make([][]float32, s.batch)
	for b := range rows {
		rows[b] = s.Row(b)
	}
	return rows
}

// SliceBatch returns a view over series rows [from, to). The view shares
// storage with the receiver.
func (s *SeriesBatch) SliceBatch(from, to int) *SeriesBatch {
	if from < 0 || to > s.batch || from > to {
		panic(fmt.Sprintf("series batch: rows [%d:%d] out of range %d", from, to, s.batch))
	}

	rowLen := s.steps * s.features
	return &SeriesBatch{
		data:     s.data[from*rowLen : to*rowLen],
		batch:    to - from,
		steps:    s.steps,
		features: s.features,
	}
}

// SliceSteps copies steps [from, to) of every series into a new batch.
func (s *SeriesBatch) SliceSteps(from, to int) *SeriesBatch {
	if from < 0 || to > s.steps || from >= to {
		panic(fmt.Sprintf("series batch: steps [%d:%d] out of range %d", from, to, s.steps))
	}

	out := NewSeriesBatch(s.batch, to-from, s.features)
	for b := 0; b < s.batch; b++ {
		copy(out.Row(b), s.Row(b)[from*s.features:to*s.features])
	}
	return out
}

// Split partitions the batch rows into consecutive views of the given sizes.
// The sizes must be non-negative and sum to the batch dimension.
func (s *SeriesBatch) Split(sizes ...int) ([]*SeriesBatch, error) {
	total := 0
	for _, size := range sizes {
		if size < 0 {
			return nil, fmt.Errorf("%w: negative size %d", ErrBadSplit, size)
		}
		total += size
	}

	if total != s.batch {
		return nil, fmt.Errorf("%w: sizes sum to %d, batch is %d", ErrBadSplit, total, s.batch)
	}

	parts := make([]*SeriesBatch, len(sizes))
	offset := 0
	for i, size := range sizes {
		parts[i] = s.SliceBatch(offset, offset+size)
		offset += size
	}
	return parts, nil
}

// Curve extracts feature f of series b as a float64 series, ready for
// plotting and statistics.
func (s *SeriesBatch) Curve(b, f int) Series[float64] {
	curve := make(Series[float64], s.steps)
	for t := 0; t < s.steps; t++ {
		curve[t] = float64(s.At(b, t, f))
	}
	return curve
}

// Clone returns a deep copy of the batch.
func (s *SeriesBatch) Clone() *SeriesBatch {
	out := NewSeriesBatch(s.batch, s.steps, s.features)
	copy(out.data, s.data)
	return out
}
