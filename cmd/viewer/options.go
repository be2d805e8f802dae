package main

import (
	"fmt"
	"os"

	"github.com/DavidGamba/go-getoptions"
)

// Options holds the command line parameters.
type Options struct {
	Input  string
	Output string
	Config string

	Plane     string
	Index     int
	AllSlices bool
	Time      int
	MIP       string

	Level float64
	Width float64

	Center string
	Normal string
	Up     string

	OutWidth  int
	OutHeight int
	SpacingX  float64
	SpacingY  float64
	Slab      float64
	Fill      float64

	PNG   bool
	Npy   bool
	Debug bool
	Help  bool

	opt *getoptions.GetOpt
}

// InitOptions parses the command line.
func InitOptions() *Options {
	opts := &Options{opt: getoptions.New()}

	opts.opt.BoolVar(&opts.Help, "help", false, opts.opt.Alias("h"),
		opts.opt.Description("show help information"))
	opts.opt.BoolVar(&opts.Debug, "debug", false,
		opts.opt.Description("show debug logging"))
	opts.opt.StringVar(&opts.Input, "input", "", opts.opt.Alias("i"),
		opts.opt.Description("folder containing the DICOM series"))
	opts.opt.StringVar(&opts.Output, "output", "./slices", opts.opt.Alias("o"),
		opts.opt.Description("output directory for exported images"))
	opts.opt.StringVar(&opts.Config, "config", "viewer.yaml",
		opts.opt.Description("path to YAML configuration file"))

	opts.opt.StringVar(&opts.Plane, "plane", "axial",
		opts.opt.Description("plane to export: axial, coronal, sagittal or oblique"))
	opts.opt.IntVar(&opts.Index, "index", -1,
		opts.opt.Description("slice index for orthogonal planes (default: middle)"))
	opts.opt.BoolVar(&opts.AllSlices, "all-slices", false,
		opts.opt.Description("export the full slice sequence along the plane"))
	opts.opt.IntVar(&opts.Time, "time", 0, opts.opt.Alias("t"),
		opts.opt.Description("time point for dynamic series"))
	opts.opt.StringVar(&opts.MIP, "mip", "",
		opts.opt.Description("export a projection instead of a slice: max or mean"))

	opts.opt.Float64Var(&opts.Level, "level", 0, opts.opt.Alias("wl"),
		opts.opt.Description("window level override"))
	opts.opt.Float64Var(&opts.Width, "width", 0, opts.opt.Alias("ww"),
		opts.opt.Description("window width override"))

	opts.opt.StringVar(&opts.Center, "center", "",
		opts.opt.Description("oblique plane center as x,y,z in mm (default: volume center)"))
	opts.opt.StringVar(&opts.Normal, "normal", "0,0,1",
		opts.opt.Description("oblique plane normal as x,y,z"))
	opts.opt.StringVar(&opts.Up, "up", "0,1,0",
		opts.opt.Description("oblique in-plane up hint as x,y,z"))

	opts.opt.IntVar(&opts.OutWidth, "out-width", 0,
		opts.opt.Description("oblique output width in pixels (default: from config)"))
	opts.opt.IntVar(&opts.OutHeight, "out-height", 0,
		opts.opt.Description("oblique output height in pixels (default: from config)"))
	opts.opt.Float64Var(&opts.SpacingX, "spacing-x", 0,
		opts.opt.Description("oblique output pixel spacing in mm (default: from config)"))
	opts.opt.Float64Var(&opts.SpacingY, "spacing-y", 0,
		opts.opt.Description("oblique output pixel spacing in mm (default: from config)"))
	opts.opt.Float64Var(&opts.Slab, "slab", -1,
		opts.opt.Description("oblique slab thickness in mm (default: from config)"))
	opts.opt.Float64Var(&opts.Fill, "fill", 0,
		opts.opt.Description("intensity for pixels outside the volume"))

	opts.opt.BoolVar(&opts.PNG, "png", false,
		opts.opt.Description("export PNG instead of JPEG"))
	opts.opt.BoolVar(&opts.Npy, "npy", false,
		opts.opt.Description("additionally export each image as a NumPy .npy array"))

	_, err := opts.opt.Parse(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}

	if opts.Help || len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "%s", opts.opt.Help())
		os.Exit(1)
	}

	return opts
}

// Called reports whether a flag was given explicitly, used to distinguish
// overrides from defaults.
func (o *Options) Called(name string) bool {
	return o.opt.Called(name)
}
