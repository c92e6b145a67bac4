package config

import (
	"os"

	"github.com/BurntSushi/toml"
	"github.com/latticelab/xtal/util"
)

// See example_config.toml
type Config struct {
	Store struct {
		Path string `toml:"path"`
	} `toml:"store"`
	Webhook struct {
		Host string `toml:"host"`
	} `toml:"webhook"`
	Dirs struct {
		Output string `toml:"output"`
	} `toml:"dirs"`
	Watch struct {
		Folder         string   `toml:"folder"`
		FileExtensions []string `toml:"file_extensions"`
	} `toml:"watch"`
	Defaults struct {
		LatticeConstant float64 `toml:"lattice_constant"`
		Nx              int     `toml:"nx"`
		Ny              int     `toml:"ny"`
		Nz              int     `toml:"nz"`
		MajorPercent    float64 `toml:"major_percent"`
		DopantPercent   float64 `toml:"dopant_percent"`
	} `toml:"defaults"`
}

var conf *Config

// Defaults for the Al0.5CoCrFeNi nanotwin workflow. A missing config file is
// not an error, the tools work out of the current directory.
func defaultConfig() *Config {
	c := &Config{}
	c.Store.Path = "structures.db"
	c.Dirs.Output = "./output"
	c.Watch.FileExtensions = []string{".xsf", ".cif", ".cfg"}
	c.Defaults.LatticeConstant = 3.54
	c.Defaults.Nx = 10
	c.Defaults.Ny = 7
	c.Defaults.Nz = 10
	c.Defaults.MajorPercent = 22.22
	c.Defaults.DopantPercent = 11.12
	return c
}

func GetConfig() *Config {
	if conf != nil {
		// Already loaded
		return conf
	}

	configPath := os.Getenv("XTAL_CONFIG_PATH") // For debugging
	if configPath == "" {
		// Default well known path
		configPath = "/etc/xtal/config.toml"
	}
	conf = defaultConfig()
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return conf
	}
	_, err := toml.DecodeFile(configPath, conf)
	if err != nil {
		util.Die("failed to decode config (%s): %v", configPath, err)
	}
	return conf
}
