package cmd

import (
	"github.com/spf13/cobra"

	"github.com/zjrosen/niftyregw/internal/niftyreg"
)

type operand struct {
	name, short, usage string
}

type transformSpec struct {
	use        string
	op         niftyreg.TransformOp
	short      string
	operands   []operand
	reference  string // usage of -ref, empty when the operation takes none
	reference2 string
}

var transformSpecs = []transformSpec{
	{
		use: "deformation", op: niftyreg.OpDeformation,
		short:     "Compute a deformation field from a transformation",
		operands:  []operand{{"input", "i", "input transformation"}},
		reference: "reference image, required when the input is a spline grid",
	},
	{
		use: "displacement", op: niftyreg.OpDisplacement,
		short:     "Compute a displacement field from a transformation",
		operands:  []operand{{"input", "i", "input transformation"}},
		reference: "reference image, required when the input is a spline grid",
	},
	{
		use: "flow", op: niftyreg.OpFlow,
		short:     "Compute a flow field from a spline parametrised SVF",
		operands:  []operand{{"input", "i", "input spline parametrised SVF"}},
		reference: "reference image",
	},
	{
		use: "compose", op: niftyreg.OpCompose,
		short: "Compose two transformations into a deformation field",
		operands: []operand{
			{"input1", "i", "first transformation"},
			{"input2", "j", "second transformation"},
		},
		reference:  "reference image for the first transformation (if spline)",
		reference2: "reference image for the second transformation (if spline)",
	},
	{
		use: "landmarks", op: niftyreg.OpLandmarks,
		short: "Apply a transformation to a set of landmarks",
		operands: []operand{
			{"transformation", "t", "transformation"},
			{"input", "i", "input landmark file (mm positions)"},
		},
		reference: "reference image, required when the transformation is a spline grid",
	},
	{
		use: "update-sform", op: niftyreg.OpUpdateSform,
		short: "Update the sform of an image with an affine transformation",
		operands: []operand{
			{"input", "i", "image to update"},
			{"affine", "a", "affine transformation (Affine*Reference=Floating)"},
		},
	},
	{
		use: "invert-affine", op: niftyreg.OpInvertAffine,
		short:    "Invert an affine matrix",
		operands: []operand{{"input", "i", "input affine transformation"}},
	},
	{
		use: "invert-nonrigid", op: niftyreg.OpInvertNonRigid,
		short: "Invert a non-rigid transformation and save it as a deformation field",
		operands: []operand{
			{"input", "i", "input transformation"},
			{"floating", "f", "floating image the transformation was computed for"},
		},
		reference: "reference image",
	},
	{
		use: "half", op: niftyreg.OpHalf,
		short:     "Halve a transformation, keeping its type",
		operands:  []operand{{"input", "i", "input transformation"}},
		reference: "reference image",
	},
	{
		use: "affine-to-rigid", op: niftyreg.OpAffineToRigid,
		short:    "Extract the rigid component of an affine transformation",
		operands: []operand{{"input", "i", "input affine transformation"}},
	},
	{
		use: "flirt-to-niftyreg", op: niftyreg.OpFlirtToNiftyReg,
		short: "Convert a FLIRT (FSL) affine to a NiftyReg affine",
		operands: []operand{
			{"input", "i", "input FLIRT affine transformation"},
			{"reference", "r", "reference image used in FLIRT (-ref)"},
			{"floating", "f", "floating image used in FLIRT (-in)"},
		},
	},
}

func newTransformCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transform",
		Short: "Convert, compose and invert transformations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if done, err := a.nativeInfo(cmd, niftyreg.ToolTransform); done {
				return err
			}
			return cmd.Help()
		},
	}
	infoFlags(cmd, niftyreg.ToolTransform)

	for _, spec := range transformSpecs {
		cmd.AddCommand(newTransformOpCmd(a, spec))
	}
	cmd.AddCommand(newMakeAffineCmd(a))
	return cmd
}

func newTransformOpCmd(a *app, spec transformSpec) *cobra.Command {
	cmd := &cobra.Command{
		Use:   spec.use,
		Short: spec.short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req := niftyreg.TransformRequest{
				Op:         spec.op,
				Output:     optString(cmd, "output"),
				OMPThreads: optInt(cmd, "omp-threads"),
			}
			for _, o := range spec.operands {
				req.Inputs = append(req.Inputs, optString(cmd, o.name))
			}
			if spec.reference != "" {
				req.Reference = optString(cmd, "reference")
			}
			if spec.reference2 != "" {
				req.Reference2 = optString(cmd, "reference2")
			}
			return a.transform(cmd, req)
		},
	}

	f := cmd.Flags()
	for _, o := range spec.operands {
		f.StringP(o.name, o.short, "", o.usage)
	}
	if spec.reference != "" {
		f.StringP("reference", "r", "", spec.reference)
	}
	if spec.reference2 != "" {
		f.String("reference2", "", spec.reference2)
	}
	f.StringP("output", "o", "", "output file")
	ompFlag(cmd)
	return cmd
}

func newMakeAffineCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "make-affine",
		Short: "Create an affine matrix from rotation, translation, scale and shear",
		Long: `Create an affine matrix. Each parameter takes three comma separated values:

  niftyregw transform make-affine --rotation 0,0,90 --translation 0,0,0 \
    --scale 1,1,1 --shear 0,0,0 -o affine.txt`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.transform(cmd, niftyreg.TransformRequest{
				Op:          niftyreg.OpMakeAffine,
				Rotation:    optTriplet(cmd, "rotation"),
				Translation: optTriplet(cmd, "translation"),
				Scale:       optTriplet(cmd, "scale"),
				Shear:       optTriplet(cmd, "shear"),
				Output:      optString(cmd, "output"),
				OMPThreads:  optInt(cmd, "omp-threads"),
			})
		},
	}

	f := cmd.Flags()
	f.Float64Slice("rotation", nil, "rotation angles in degrees (x,y,z)")
	f.Float64Slice("translation", nil, "translation in mm (x,y,z)")
	f.Float64Slice("scale", nil, "scaling factors (x,y,z)")
	f.Float64Slice("shear", nil, "shearing (x,y,z)")
	f.StringP("output", "o", "", "output affine transformation")
	ompFlag(cmd)
	return cmd
}

func (a *app) transform(cmd *cobra.Command, req niftyreg.TransformRequest) error {
	client, err := a.niftyreg()
	if err != nil {
		return err
	}
	_, err = client.Transform(cmd.Context(), req)
	return err
}
