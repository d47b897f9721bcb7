package main

import (
	"fmt"

	"github.com/tliron/commonlog"

	"github.com/chazu/binop/vm"
	"github.com/chazu/binop/vm/tracefile"
)

var log = commonlog.GetLogger("binop")

type EvalCmd struct {
	Left  string `arg:"" help:"Left operand literal. Use -- before negative numbers."`
	Op    string `arg:"" help:"Operator: + - * @ / // % << >> & | ^ < <= == != > >= in."`
	Right string `arg:"" help:"Right operand literal."`

	NoFastPath bool   `help:"Disable the primitive fast paths."`
	NoCache    bool   `help:"Disable the method cache."`
	Trace      string `help:"Write a CBOR dispatch trace to FILE." placeholder:"FILE" type:"path"`
}

func (e *EvalCmd) Run(g *Globals) error {
	m, err := g.load()
	if err != nil {
		return err
	}

	opts := m.EngineOptions()
	if e.NoFastPath {
		opts.FastPaths = false
	}
	if e.NoCache {
		opts.MethodCache = false
	}
	v := vm.NewVMWithOptions(opts)

	traceOut := e.Trace
	if traceOut == "" && m.Trace.Enabled {
		traceOut = m.Trace.Output
	}
	var trace *vm.Trace
	if traceOut != "" {
		trace = vm.NewTrace()
		v.SetTracer(trace)
	}

	left, err := parseLiteral(v, e.Left)
	if err != nil {
		return fmt.Errorf("left operand: %w", err)
	}
	right, err := parseLiteral(v, e.Right)
	if err != nil {
		return fmt.Errorf("right operand: %w", err)
	}

	result, err := evaluate(v, e.Op, left, right)
	if trace != nil {
		if werr := tracefile.WriteFile(traceOut, trace); werr != nil {
			return werr
		}
		log.Infof("wrote %d trace events to %s", trace.Len(), traceOut)
	}
	if err != nil {
		return err
	}

	fmt.Println(v.Repr(result))
	return nil
}

var binaryOperators = map[string]*vm.OperatorSpec{}

var compareOperators = map[string]vm.CompareOp{}

func init() {
	for _, spec := range vm.BinaryOperators {
		binaryOperators[spec.Symbol] = spec
	}
	for _, which := range vm.CompareOps {
		compareOperators[which.String()] = which
	}
}

// evaluate applies the operator written as symbol.
func evaluate(v *vm.VM, symbol string, left, right vm.Value) (vm.Value, error) {
	if spec, ok := binaryOperators[symbol]; ok {
		return v.BinaryOp(spec, left, right)
	}
	if which, ok := compareOperators[symbol]; ok {
		return v.Compare(which, left, right)
	}
	if symbol == "in" {
		found, err := v.Contains(right, left)
		if err != nil {
			return vm.Value{}, err
		}
		return vm.FromBool(found), nil
	}
	return vm.Value{}, fmt.Errorf("unknown operator %q", symbol)
}
