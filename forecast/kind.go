// Package forecast implements the benchmark's forecasting strategies, from
// the naive baseline to recurrent and convolutional sequence models.
package forecast

import "errors"

// ErrUnknownKind is returned by New for kinds outside the benchmark set.
var ErrUnknownKind = errors.New("unknown strategy kind")

// Kind identifies a forecasting strategy.
type Kind int

const (
	Naive Kind = iota
	Linear
	RNNIterative
	RNNVector
	RNNSequence
	LSTMSequence
	GRUSequence
	CNNVector
)

// All returns every benchmark strategy in canonical execution order.
func All() []Kind {
	return []Kind{
		Naive,
		Linear,
		RNNIterative,
		RNNVector,
		RNNSequence,
		LSTMSequence,
		GRUSequence,
		CNNVector,
	}
}

// String returns the strategy name used in log and result output.
func (k Kind) String() string {
	switch k {
	case Naive:
		return "naive forecasting"
	case Linear:
		return "linear regression forecasting"
	case RNNIterative:
		return "deep rnn iterative forecasting"
	case RNNVector:
		return "deep rnn vector forecasting"
	case RNNSequence:
		return "deep rnn sequence forecasting"
	case LSTMSequence:
		return "deep rnn lstm sequence forecasting"
	case GRUSequence:
		return "deep rnn gru sequence forecasting"
	case CNNVector:
		return "cnn vector forecasting"
	default:
		return "unknown forecasting"
	}
}

// Label returns the curve label the strategy's forecast is plotted under.
func (k Kind) Label() string {
	switch k {
	case Naive:
		return "naive prediction"
	case Linear:
		return "linear prediction"
	case RNNIterative:
		return "iterative prediction"
	case RNNVector:
		return "vector prediction"
	case RNNSequence:
		return "sequence prediction"
	case LSTMSequence:
		return "ltsm sequence prediction"
	case GRUSequence:
		return "gru sequence prediction"
	case CNNVector:
		return "cnn sequence prediction"
	default:
		return "unknown prediction"
	}
}
