package main

import (
	"fmt"
	"os"

	"github.com/ironsheep/gray-fusion-mcp/internal/config"
	"github.com/ironsheep/gray-fusion-mcp/internal/logger"
	"github.com/ironsheep/gray-fusion-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("gray-fusion-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("gray-fusion-mcp - MCP server for grayscale image analysis and fusion")
			fmt.Println()
			fmt.Println("Usage: gray-fusion-mcp [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables:")
			fmt.Println("  IMAGE_MCP_LOG_LEVEL=debug    Log level: debug, info, warn, error, off (default info)")
			fmt.Println("  IMAGE_MCP_CANNY_LOW=20       Default Canny weak-edge threshold")
			fmt.Println("  IMAGE_MCP_CANNY_HIGH=90      Default Canny strong-edge threshold")
			fmt.Println("  IMAGE_MCP_MORPH_MODES=16     Default brightness bands for morphological fusion")
			fmt.Println()
			fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
			fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
			return
		}
	}

	cfg, err := config.Load()
	// stdout is reserved for the MCP protocol; logs go to stderr.
	log := logger.NewConsoleLogger(logger.ParseLevel(cfg.LogLevel))
	if err != nil {
		log.Error("main", err, map[string]interface{}{"stage": "config"})
		os.Exit(1)
	}

	log.Debug("main", "starting server", map[string]interface{}{
		"version":     Version,
		"build_time":  BuildTime,
		"git_commit":  GitCommit,
		"canny_low":   cfg.Canny.Min,
		"canny_high":  cfg.Canny.Max,
		"morph_modes": cfg.MorphModes,
	})

	srv := server.New(
		server.WithConfig(cfg),
		server.WithLogger(log),
		server.WithVersion(Version),
	)
	if err := srv.Run(); err != nil {
		log.Error("main", err, nil)
		os.Exit(1)
	}
}
