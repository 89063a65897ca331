package config

import (
	"flag"
	"io"
)

// Flags are the command-line overrides. Zero values leave the loaded
// settings alone.
type Flags struct {
	Config   string
	Debug    bool
	Snapshot bool
	Width    int
	Height   int
	FPS      int
	Args     []string
}

// ParseFlags parses args, which exclude the program name.
func ParseFlags(args []string, usage io.Writer) (*Flags, error) {
	f := &Flags{}
	fs := flag.NewFlagSet("geomap3d", flag.ContinueOnError)
	fs.SetOutput(usage)
	fs.StringVar(&f.Config, "config", "", "Path to config file")
	fs.BoolVar(&f.Debug, "debug", false, "Enable debug logging")
	fs.BoolVar(&f.Snapshot, "snapshot", false, "Print one rendered frame and exit")
	fs.IntVar(&f.Width, "width", 0, "Snapshot width in cells")
	fs.IntVar(&f.Height, "height", 0, "Snapshot height in cells")
	fs.IntVar(&f.FPS, "fps", 0, "Frames per second")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	f.Args = fs.Args()
	return f, nil
}

func applyFlags(cfg *Config, f *Flags) {
	if f == nil {
		return
	}
	if f.Debug {
		cfg.Logging.Level = "debug"
	}
	if f.Snapshot {
		cfg.Snapshot = true
	}
	if f.Width > 0 {
		cfg.Render.Width = f.Width
	}
	if f.Height > 0 {
		cfg.Render.Height = f.Height
	}
	if f.FPS > 0 {
		cfg.Render.FPS = f.FPS
	}
	if len(f.Args) > 0 {
		cfg.Data = f.Args[0]
	}
}
