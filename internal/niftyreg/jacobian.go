package niftyreg

import (
	"context"

	"github.com/zjrosen/niftyregw/internal/runner"
)

// JacobianOptions configures reg_jacobian.
type JacobianOptions struct {
	Reference      string // -ref, required for spline grids
	JacobianMap    string // -jac
	JacobianMatrix string // -jacM
	LogJacobianMap string // -jacL
	OMPThreads     *int   // -omp
}

// JacobianArgs renders the reg_jacobian argument list.
func JacobianArgs(transformation string, o JacobianOptions) ([]string, error) {
	if err := required("transformation", transformation); err != nil {
		return nil, err
	}
	a := argv{"-trans", transformation}
	a.path("-ref", o.Reference)
	a.path("-jac", o.JacobianMap)
	a.path("-jacM", o.JacobianMatrix)
	a.path("-jacL", o.LogJacobianMap)
	a.integer("-omp", o.OMPThreads)
	return a, nil
}

// Jacobian computes Jacobian determinant maps of a transformation.
func (c *Client) Jacobian(ctx context.Context, transformation string, o JacobianOptions) (runner.Result, error) {
	args, err := JacobianArgs(transformation, o)
	if err != nil {
		return runner.Result{}, err
	}
	return c.Run(ctx, ToolJacobian, args...)
}
