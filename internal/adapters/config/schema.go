package config

// File represents the structure of the optional config.yaml file.
type File struct {
	Path      string                  `yaml:"path"`
	Cookie    string                  `yaml:"cookie"`
	Dir       string                  `yaml:"dir"`
	Watch     *WatchDTO               `yaml:"watch"`
	Compilers map[string]*CompilerDTO `yaml:"compilers"`
}

// WatchDTO holds defaults for periodic genies.
type WatchDTO struct {
	Interval string `yaml:"interval"`
	Shell    string `yaml:"shell"`
	Bell     *bool  `yaml:"bell"`
	TTY      *bool  `yaml:"tty"`
}

// CompilerDTO describes a compiler profile for merge genies.
type CompilerDTO struct {
	Command []string `yaml:"command"`
	Start   string   `yaml:"start"`
	End     string   `yaml:"end"`
}
