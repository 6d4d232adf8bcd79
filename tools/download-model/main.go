// Setup tool that downloads the all-MiniLM-L6-v2 sentence transformer to the
// models directory for the local embedder.
//
// Usage: go run ./tools/download-model [dest]
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/knights-analytics/hugot"
)

func main() {
	dest := filepath.Join(defaultDataDir(), "models")
	if len(os.Args) > 1 {
		dest = os.Args[1]
	}

	if err := os.MkdirAll(dest, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "create directory: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Downloading model to %s...\n", dest)

	opts := hugot.NewDownloadOptions()
	opts.OnnxFilePath = "onnx/model.onnx"
	modelPath, err := hugot.DownloadModel("sentence-transformers/all-MiniLM-L6-v2", dest, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "download model: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Model downloaded to %s\n", modelPath)
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".floportop"
	}
	return filepath.Join(home, ".floportop")
}
