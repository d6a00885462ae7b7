package nnet

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// The registries map type strings to functions returning blank values of that type, so that
// checkpoints can be decoded. Subpackages register their types in init().
var (
	operatorsByType   = make(map[string]func() Operator)
	costFuncsByType   = make(map[string]func() CostFunction)
	optimizersByType  = make(map[string]func() Optimizer)
	metricsByType     = make(map[string]func() Metric)
	hyperParamsByType = make(map[string]func() HyperParameter)
	initsByType       = make(map[string]func() Initializer)

	defaultInitializer Initializer
)

// RegisterOperator registers the Operator so that it may be loaded from checkpoints. The function
// should return a pointer to a blank value that the Operator's config can be decoded into.
//
// RegisterOperator panics with ErrAlreadyRegistered if the type string is already registered, and
// with ErrRegisterWrongType if the returned value has a different type string.
func RegisterOperator(typ string, f func() Operator) {
	if _, ok := operatorsByType[typ]; ok {
		panic(errors.Wrapf(ErrAlreadyRegistered, "operator %q", typ))
	}

	checkRegistered(typ, f())
	operatorsByType[typ] = f
}

// RegisterCostFunction registers the CostFunction so that it may be loaded from checkpoints
func RegisterCostFunction(typ string, f func() CostFunction) {
	if _, ok := costFuncsByType[typ]; ok {
		panic(errors.Wrapf(ErrAlreadyRegistered, "cost function %q", typ))
	}

	checkRegistered(typ, f())
	costFuncsByType[typ] = f
}

// RegisterOptimizer registers the Optimizer so that it may be loaded from checkpoints
func RegisterOptimizer(typ string, f func() Optimizer) {
	if _, ok := optimizersByType[typ]; ok {
		panic(errors.Wrapf(ErrAlreadyRegistered, "optimizer %q", typ))
	}

	checkRegistered(typ, f())
	optimizersByType[typ] = f
}

// RegisterMetric registers the Metric so that it may be loaded from checkpoints
func RegisterMetric(typ string, f func() Metric) {
	if _, ok := metricsByType[typ]; ok {
		panic(errors.Wrapf(ErrAlreadyRegistered, "metric %q", typ))
	}

	checkRegistered(typ, f())
	metricsByType[typ] = f
}

// RegisterHyperParameter registers the HyperParameter so that it may be decoded as part of the
// config of another type
func RegisterHyperParameter(typ string, f func() HyperParameter) {
	if _, ok := hyperParamsByType[typ]; ok {
		panic(errors.Wrapf(ErrAlreadyRegistered, "hyperparameter %q", typ))
	}

	checkRegistered(typ, f())
	hyperParamsByType[typ] = f
}

// RegisterInitializer registers the Initializer, so that it can be looked up with
// InitializerByName.
func RegisterInitializer(typ string, f func() Initializer) {
	if _, ok := initsByType[typ]; ok {
		panic(errors.Wrapf(ErrAlreadyRegistered, "initializer %q", typ))
	}

	checkRegistered(typ, f())
	initsByType[typ] = f
}

func checkRegistered(typ string, v interface{ TypeString() string }) {
	if v == nil {
		panic(errors.Wrapf(ErrRegisterNilReturn, "%q", typ))
	} else if v.TypeString() != typ {
		panic(errors.Wrapf(ErrRegisterWrongType, "registered as %q, has type string %q", typ, v.TypeString()))
	}
}

// SetDefaultInitializer sets the Initializer that is used for parameters that do not specify one.
// This is done by the initializers package when it is imported.
func SetDefaultInitializer(i Initializer) {
	if i == nil {
		panic(NilArgError{"Initializer"})
	}

	defaultInitializer = i
}

// InitializerByName returns a new Initializer of the registered type
func InitializerByName(typ string) (Initializer, error) {
	f, ok := initsByType[typ]
	if !ok {
		return nil, errors.Wrapf(ErrRegisterWrongType, "initializer %q", typ)
	}

	return f(), nil
}

// Envelope is the encoded form of a registered value: its type string and its JSON config.
type Envelope struct {
	Type   string          `json:"type"`
	Config json.RawMessage `json:"config,omitempty"`
}

func encode(v interface{ TypeString() string }) (Envelope, error) {
	c, err := json.Marshal(v)
	if err != nil {
		return Envelope{}, errors.Wrapf(err, "Failed to encode config of %q", v.TypeString())
	}

	return Envelope{Type: v.TypeString(), Config: c}, nil
}

func decodeConfig(e Envelope, v interface{}) error {
	if len(e.Config) == 0 {
		return nil
	}

	if err := json.Unmarshal(e.Config, v); err != nil {
		return errors.Wrapf(err, "Failed to decode config of %q", e.Type)
	}

	return nil
}

// EncodeOperator encodes the Operator with its type string, for use by Operators that wrap others.
func EncodeOperator(op Operator) (Envelope, error) {
	return encode(op)
}

// DecodeOperator returns a new Operator from the Envelope, using the registered types. The
// Operator has not been finalized.
func DecodeOperator(e Envelope) (Operator, error) {
	f, ok := operatorsByType[e.Type]
	if !ok {
		return nil, errors.Wrapf(ErrRegisterWrongType, "operator %q", e.Type)
	}

	op := f()
	return op, decodeConfig(e, op)
}

// EncodeHyperParameter encodes the HyperParameter with its type string
func EncodeHyperParameter(hp HyperParameter) (Envelope, error) {
	return encode(hp)
}

// DecodeHyperParameter returns a new HyperParameter from the Envelope, using the registered types
func DecodeHyperParameter(e Envelope) (HyperParameter, error) {
	f, ok := hyperParamsByType[e.Type]
	if !ok {
		return nil, errors.Wrapf(ErrRegisterWrongType, "hyperparameter %q", e.Type)
	}

	hp := f()
	return hp, decodeConfig(e, hp)
}

func decodeCostFunction(e Envelope) (CostFunction, error) {
	f, ok := costFuncsByType[e.Type]
	if !ok {
		return nil, errors.Wrapf(ErrRegisterWrongType, "cost function %q", e.Type)
	}

	cf := f()
	return cf, decodeConfig(e, cf)
}

func decodeOptimizer(e Envelope) (Optimizer, error) {
	f, ok := optimizersByType[e.Type]
	if !ok {
		return nil, errors.Wrapf(ErrRegisterWrongType, "optimizer %q", e.Type)
	}

	opt := f()
	return opt, decodeConfig(e, opt)
}

func decodeMetric(e Envelope) (Metric, error) {
	f, ok := metricsByType[e.Type]
	if !ok {
		return nil, errors.Wrapf(ErrRegisterWrongType, "metric %q", e.Type)
	}

	m := f()
	return m, decodeConfig(e, m)
}
