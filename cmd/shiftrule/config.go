package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/tuneinsight/shiftrule"
)

// Config is the content of a problem file. Command-line flags take
// precedence over its fields.
type Config struct {
	shiftrule.ProblemLiteral `yaml:",inline"`

	Precision  uint   `yaml:"precision"`
	Precisions []uint `yaml:"precisions"`
	Digits     int    `yaml:"digits"`
}

// DefaultConfig returns the configuration used when neither a file nor
// flags set a field.
func DefaultConfig() Config {
	return Config{
		ProblemLiteral: shiftrule.ProblemLiteral{Order: 1},
		Precision:      256,
		Precisions:     []uint{64, 256, 1024, 4096},
		Digits:         20,
	}
}

// LoadConfig reads a YAML problem file on top of DefaultConfig. Fields
// absent from the file keep their default value.
func LoadConfig(path string) (cfg Config, err error) {

	cfg = DefaultConfig()

	var data []byte
	if data, err = os.ReadFile(path); err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}

// options are the flags shared by all the commands.
type options struct {
	config      string
	frequencies []string
	order       int
	support     []string
	digits      int
}

func (o *options) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&o.config, "config", "", "YAML problem file")
	flags.StringSliceVar(&o.frequencies, "freq", nil, "comma separated frequencies, e.g. 2,3")
	flags.IntVar(&o.order, "order", 1, "derivative order")
	flags.StringSliceVar(&o.support, "support", nil, "comma separated support points, e.g. --support=-1/12,1/12")
	flags.IntVar(&o.digits, "digits", 20, "significant digits to print")
}

// resolve merges the configuration file and the flags that were set.
func (o *options) resolve(cmd *cobra.Command) (cfg Config, err error) {

	cfg = DefaultConfig()

	if o.config != "" {
		if cfg, err = LoadConfig(o.config); err != nil {
			return
		}
	}

	flags := cmd.Flags()

	if flags.Changed("freq") {
		cfg.Frequencies = o.frequencies
	}

	if flags.Changed("order") {
		cfg.Order = o.order
	}

	if flags.Changed("support") {
		cfg.Support = o.support
	}

	if flags.Changed("digits") {
		cfg.Digits = o.digits
	}

	return cfg, nil
}
