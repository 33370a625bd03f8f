package eval

import (
	"context"
	"errors"
	"io"
	"strings"

	pool "github.com/jolestar/go-commons-pool"
)

// ErrClosed is returned by an Evaluator after Close has been called.
var ErrClosed = errors.New("evaluator has been closed")

// Evaluator evaluates expressions with machines taken from a pool.
// It is safe for concurrent use.
//
// Machines are short-lived, but consist of a couple of small objects. To
// avoid re-allocating them for every expression, we pool them.
type Evaluator struct {
	opool *pool.ObjectPool
	ctx   context.Context // context the pool has been created with
}

// NewEvaluator creates an evaluator. maxMachines limits the number of
// machines in use at the same time; evaluations exceeding it wait for a
// machine to be returned. maxMachines <= 0 means no limit.
func NewEvaluator(ctx context.Context, maxMachines int) *Evaluator {
	factory := pool.NewPooledObjectFactorySimple(
		func(context.Context) (interface{}, error) {
			return newMachine(), nil
		})
	config := pool.NewDefaultPoolConfig()
	if maxMachines > 0 {
		config.MaxTotal = maxMachines
		config.MaxIdle = maxMachines
		config.BlockWhenExhausted = true
	} else {
		config.MaxTotal = -1 // infinity
		config.BlockWhenExhausted = false
	}
	return &Evaluator{
		opool: pool.NewObjectPool(ctx, factory, config),
		ctx:   ctx,
	}
}

// Evaluate evaluates an arithmetic expression.
func (e *Evaluator) Evaluate(ctx context.Context, input string) (int, error) {
	return e.EvaluateReader(ctx, strings.NewReader(input))
}

// EvaluateReader evaluates an arithmetic expression read from input.
// It waits for a free machine as long as ctx permits.
func (e *Evaluator) EvaluateReader(ctx context.Context, input io.RuneReader) (int, error) {
	if e.opool.IsClosed() {
		return 0, ErrClosed
	}
	o, err := e.opool.BorrowObject(ctx)
	if err != nil {
		CT().Errorf("eval: no machine available: %v", err)
		return 0, err
	}
	m := o.(*machine)
	defer func() {
		m.reset()
		_ = e.opool.ReturnObject(e.ctx, m)
	}()
	return m.run(input)
}

// Active returns the number of machines currently in use.
func (e *Evaluator) Active() int {
	return e.opool.GetNumActive()
}

// Close releases the pooled machines. Subsequent evaluations return ErrClosed.
func (e *Evaluator) Close(ctx context.Context) {
	e.opool.Close(ctx)
}
