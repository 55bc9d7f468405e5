package core

import "errors"

var (
	ErrBadSplit       = errors.New("split sizes do not cover the batch")
	ErrBadWindow      = errors.New("input steps and horizon do not cover the series")
	ErrShapeMismatch  = errors.New("shape mismatch")
	ErrEmptyBatch     = errors.New("empty batch")
	ErrDuplicateCurve = errors.New("duplicate curve label")
)
