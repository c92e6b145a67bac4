package webhook

import (
	"os"
	"path/filepath"

	"github.com/latticelab/xtal/config"
)

// CopyOutputToFilePath mirrors an uploaded artifact into the output
// directory so downstream simulation tools can pick it up from disk.
func CopyOutputToFilePath(data []byte, filename string) error {
	outputDirectory := config.GetConfig().Dirs.Output
	if outputDirectory == "" {
		outputDirectory = "./output"
	}
	if _, err := os.Stat(outputDirectory); os.IsNotExist(err) {
		os.Mkdir(outputDirectory, 0755)
	}
	path := filepath.Join(outputDirectory, filepath.Base(filename))
	return os.WriteFile(path, data, 0644)
}
