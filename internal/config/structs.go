package config

// Config represents the complete configuration for the imgproc application.
// It supports loading from configuration files, environment variables and
// command-line flags.
type Config struct {
	// Global settings
	LogLevel  string `mapstructure:"log_level" yaml:"log_level" json:"log_level"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format" json:"log_format"`
	Verbose   bool   `mapstructure:"verbose" yaml:"verbose" json:"verbose"`

	// Operations applied when none are given on the command line, as
	// tokens such as "rotate90" or "blur:5".
	Operations []string `mapstructure:"operations" yaml:"operations" json:"operations"`
	// Recipe is a YAML file with an operations list, used instead of
	// Operations when set.
	Recipe string `mapstructure:"recipe" yaml:"recipe" json:"recipe"`

	Output  OutputConfig  `mapstructure:"output" yaml:"output" json:"output"`
	Batch   BatchConfig   `mapstructure:"batch" yaml:"batch" json:"batch"`
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics" json:"metrics"`
}

// OutputConfig controls where and how results are written.
type OutputConfig struct {
	Path         string `mapstructure:"path" yaml:"path" json:"path"`
	Suffix       string `mapstructure:"suffix" yaml:"suffix" json:"suffix"`
	JPEGQuality  int    `mapstructure:"jpeg_quality" yaml:"jpeg_quality" json:"jpeg_quality"`
	ReportFormat string `mapstructure:"report_format" yaml:"report_format" json:"report_format"`
	ReportFile   string `mapstructure:"report_file" yaml:"report_file" json:"report_file"`
}

// BatchConfig contains file discovery and worker settings.
type BatchConfig struct {
	Workers   int      `mapstructure:"workers" yaml:"workers" json:"workers"`
	Recursive bool     `mapstructure:"recursive" yaml:"recursive" json:"recursive"`
	Include   []string `mapstructure:"include" yaml:"include" json:"include"`
	Exclude   []string `mapstructure:"exclude" yaml:"exclude" json:"exclude"`
	Progress  bool     `mapstructure:"progress" yaml:"progress" json:"progress"`
	Stats     bool     `mapstructure:"stats" yaml:"stats" json:"stats"`
}

// MetricsConfig controls the prometheus textfile export.
type MetricsConfig struct {
	File string `mapstructure:"file" yaml:"file" json:"file"`
}
