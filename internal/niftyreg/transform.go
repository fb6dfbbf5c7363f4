package niftyreg

import (
	"context"

	"github.com/zjrosen/niftyregw/internal/runner"
)

// TransformOp is a reg_transform operation, named by its native flag.
type TransformOp string

const (
	OpDeformation     TransformOp = "def"
	OpDisplacement    TransformOp = "disp"
	OpFlow            TransformOp = "flow"
	OpCompose         TransformOp = "comp"
	OpLandmarks       TransformOp = "land"
	OpUpdateSform     TransformOp = "updSform"
	OpInvertAffine    TransformOp = "invAff"
	OpInvertNonRigid  TransformOp = "invNrr"
	OpHalf            TransformOp = "half"
	OpMakeAffine      TransformOp = "makeAff"
	OpAffineToRigid   TransformOp = "aff2rig"
	OpFlirtToNiftyReg TransformOp = "flirtAff2NR"
)

type opShape struct {
	inputs     int
	reference  bool
	reference2 bool
}

var transformOps = map[TransformOp]opShape{
	OpDeformation:     {inputs: 1, reference: true},
	OpDisplacement:    {inputs: 1, reference: true},
	OpFlow:            {inputs: 1, reference: true},
	OpCompose:         {inputs: 2, reference: true, reference2: true},
	OpLandmarks:       {inputs: 2, reference: true},
	OpUpdateSform:     {inputs: 2},
	OpInvertAffine:    {inputs: 1},
	OpInvertNonRigid:  {inputs: 2, reference: true},
	OpHalf:            {inputs: 1, reference: true},
	OpMakeAffine:      {},
	OpAffineToRigid:   {inputs: 1},
	OpFlirtToNiftyReg: {inputs: 3},
}

// TransformRequest describes one reg_transform invocation.
//
// Inputs holds the operation's operands in native order, for example
// {transformation, landmarks} for OpLandmarks or {flirt, reference,
// floating} for OpFlirtToNiftyReg. OpMakeAffine takes its parameters from
// the four triplets instead.
type TransformRequest struct {
	Op         TransformOp
	Reference  string // -ref
	Reference2 string // -ref2, compose only
	Inputs     []string
	Output     string

	Rotation    Triplet // makeAff, degrees
	Translation Triplet
	Scale       Triplet
	Shear       Triplet

	OMPThreads *int // -omp
}

// ParseTransformOp accepts the native operation names.
func ParseTransformOp(s string) (TransformOp, error) {
	op := TransformOp(s)
	if _, ok := transformOps[op]; !ok {
		return "", invalid("operation", "unknown transform operation %q", s)
	}
	return op, nil
}

// Args renders the reg_transform argument list.
func (r TransformRequest) Args() ([]string, error) {
	shape, ok := transformOps[r.Op]
	if !ok {
		return nil, invalid("operation", "unknown transform operation %q", r.Op)
	}
	if err := required("output", r.Output); err != nil {
		return nil, err
	}
	if len(r.Inputs) != shape.inputs {
		return nil, invalid("inputs", "%s takes %d input(s), got %d", r.Op, shape.inputs, len(r.Inputs))
	}
	for _, in := range r.Inputs {
		if err := required("inputs", in); err != nil {
			return nil, err
		}
	}
	if r.Reference != "" && !shape.reference {
		return nil, invalid("reference", "not used by %s", r.Op)
	}
	if r.Reference2 != "" && !shape.reference2 {
		return nil, invalid("reference2", "not used by %s", r.Op)
	}

	var a argv
	a.path("-ref", r.Reference)
	a.path("-ref2", r.Reference2)
	a.add("-" + string(r.Op))

	if r.Op == OpMakeAffine {
		for _, t := range []struct {
			field string
			v     Triplet
		}{
			{"rotation", r.Rotation},
			{"translation", r.Translation},
			{"scale", r.Scale},
			{"shear", r.Shear},
		} {
			if t.v == nil {
				return nil, invalid(t.field, "is required")
			}
			if err := checkTriplet(t.field, t.v); err != nil {
				return nil, err
			}
			a.add(FormatFloat(t.v[0]), FormatFloat(t.v[1]), FormatFloat(t.v[2]))
		}
	}

	a.add(r.Inputs...)
	a.add(r.Output)
	a.integer("-omp", r.OMPThreads)
	return a, nil
}

// Transform runs reg_transform.
func (c *Client) Transform(ctx context.Context, r TransformRequest) (runner.Result, error) {
	args, err := r.Args()
	if err != nil {
		return runner.Result{}, err
	}
	return c.Run(ctx, ToolTransform, args...)
}
