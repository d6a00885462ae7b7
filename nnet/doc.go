// Package nnet provides a small framework for building, training and saving sequential neural
// networks over float32 tensors. It is the layer library that the models package stacks its
// architectures from.
//
// Creating Networks
//
// The center of everything is the Network, created by:
//
//		net := nnet.New("name").SetSeed(seed)
//
// Networks are chains of Nodes, which are analagous to the typical layer or activation function.
// Each Node has an Operator, which determines its values and the backpropagation through it. All
// Operators can be found in the subpackage "operators", all Optimizers in "optimizers", and so
// forth, for other types.
//
// The standard procedure for adding Nodes to the Network is:
//
//		in := net.AddInput(40, 2048)
//		x := net.Add(operators.LSTM(2048).Dropout(0.5), in)
//		x = net.Add(operators.Dense(512), x).SetName("fc")
//		out := net.Add(operators.Softmax(), net.Add(operators.Dense(classes), x))
//
//		if err := net.Finalize(out); err != nil {
//			return err
//		}
//
// Errors while adding Nodes are stored in the Network, so that a whole architecture can be written
// out and checked once, either with net.Error() or through the error from Finalize.
//
// The dimensions of every Node are implied by its Operator and its input. Weights are not
// generated until they are first needed, so very large Networks can be built and summarized
// cheaply. Weights are generated from the seed of the Network and the name of the parameter, so a
// Network built twice with the same seed has the same weights. Parameters that do not give an
// Initializer use the default, which is set when the subpackage "initializers" is imported.
//
// Training and Testing
//
// Before training or evaluation, the Network must be compiled:
//
//		err := net.Compile(nnet.CompileArgs{
//			Cost:      costfuncs.CrossEntropy(),
//			Optimizer: optimizers.Adam().Decay(1e-6),
//			Metrics:   []nnet.Metric{metrics.Accuracy()},
//		})
//
// TrainBatch takes a single optimizer step over a mini-batch; Evaluate and Predict do not change
// the Network. Operators with recurrent state (a stateful LSTM) start from zero on each of these.
// To carry state from one call to the next, use a Session:
//
//		s, _ := net.NewSession()
//		for _, frame := range video {
//			out, err := s.Step(frame)
//			...
//		}
//		s.Reset()
//
// Saving and Loading
//
// A Network is saved to a directory with:
//
//		func (net *Network) Save(dirPath string, overwrite bool) error
//
// and loaded again, structure, compile arguments and weights together, with:
//
//		func Load(dirPath string) (*Network, error)
//
// Weights alone can be written and read with SaveWeights and LoadWeights, the latter of which can
// match parameters by name to bootstrap part of a Network from pretrained weights.
package nnet
