// Package walk generates discrete-time one-dimensional random walks.
//
// The package defines the core types shared by every other package:
//
//   - [Params]: step count, start value and step distribution of a walk
//   - [Kind]: tagged variant selecting the step distribution
//   - [Walk]: a single path of Steps+1 values starting at Start
//   - [Batch]: independent walks generated under the same Params
//   - [Generator]: owns the random stream and produces batches
//
// # Example
//
//	gen := walk.NewSeededGenerator(42)
//	batch, err := gen.Generate(walk.DefaultParams(), 100)
//	if err != nil {
//	    return err
//	}
//	last := batch.Terminals()
//
// # Thread Safety
//
// A Generator is NOT safe for concurrent use. Hosts serving concurrent
// requests must create one Generator per request; batches themselves are
// never mutated after Generate returns.
package walk
