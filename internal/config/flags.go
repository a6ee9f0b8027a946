package config

import (
	"github.com/spf13/pflag"
)

// Flags holds the command line overrides shared by the kvfifo tools.
type Flags struct {
	Path   string
	Level  string
	Format string

	Capacity int
	Top      int
	MaxID    uint32

	fs *pflag.FlagSet
}

// AddFlags registers --config, --log-level and --log-format on fs.
func AddFlags(fs *pflag.FlagSet) *Flags {
	f := &Flags{fs: fs}
	fs.StringVarP(&f.Path, "config", "c", "", "YAML or JSON config file")
	fs.StringVar(&f.Level, "log-level", "", "Log level: debug|info|warn|error")
	fs.StringVar(&f.Format, "log-format", "", "Log format: text|json")
	return f
}

// AddQueueFlags registers --capacity.
func (f *Flags) AddQueueFlags() {
	f.fs.IntVar(&f.Capacity, "capacity", 0, "Preallocated entries per queue")
}

// AddChartFlags registers --top and --max-id.
func (f *Flags) AddChartFlags() {
	f.fs.IntVar(&f.Top, "top", 0, "Positions listed per summary (default 7)")
	f.fs.Uint32Var(&f.MaxID, "max-id", 0, "Largest maximum accepted by NEW (default 99999999)")
}

// Resolve loads the config file, overlays the environment and then every
// flag set explicitly on the command line.
func (f *Flags) Resolve() (Config, error) {
	cfg, err := Load(f.Path)
	if err != nil {
		return Config{}, err
	}
	FromEnv(&cfg)
	f.fs.Visit(func(fl *pflag.Flag) {
		switch fl.Name {
		case "log-level":
			cfg.Log.Level = f.Level
		case "log-format":
			cfg.Log.Format = f.Format
		case "capacity":
			cfg.Queue.Capacity = f.Capacity
		case "top":
			cfg.Chart.Top = f.Top
		case "max-id":
			cfg.Chart.MaxID = f.MaxID
		}
	})
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
