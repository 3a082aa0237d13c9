// Entry point for the NZDPU benchmarking MCP server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"

	"github.com/dp-veritas/nzdpu-mcp-server/pkg/config"
	"github.com/dp-veritas/nzdpu-mcp-server/utils"
)

const serverVersion = "v0.2.0"

func main() {
	args := os.Args[1:]
	configPath := "config.yaml"

	if len(args) == 0 {
		runServer(configPath)
		return
	}

	switch args[0] {
	case "-h", "--help", "help":
		printHelp()
		return
	case "--version", "-v":
		fmt.Println("nzdpu-mcp-server version:", serverVersion)
		return
	case "--config":
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "Error: --config requires a file path")
			os.Exit(1)
		}
		runServer(args[1])
		return
	case "--server":
		// Kept for compatibility with older invocations; --server [port]
		// overrides the configured port.
		if len(args) > 1 {
			os.Setenv("PORT", args[1])
		}
		runServer(configPath)
		return
	case "--db":
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "Error: --db requires a dataset path")
			os.Exit(1)
		}
		os.Setenv("DATABASE_PATH", args[1])
		runServer(configPath)
		return
	default:
		fmt.Fprintln(os.Stderr, "Unknown argument. Use --help for usage.")
		os.Exit(1)
	}
}

func runServer(configPath string) {
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}
	utils.InitLogger(cfg.LogLevel, cfg.LogFormat)

	server, err := NewServer(cfg)
	if err != nil {
		utils.GetLogger().Fatal("failed to start", err, utils.Component("main"))
	}

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	})

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      c.Handler(server.router),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		utils.GetLogger().Info("listening", utils.String("port", cfg.Port), utils.Component("main"))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			utils.GetLogger().Fatal("server error", err, utils.Component("main"))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	utils.GetLogger().Info("shutting down", utils.Component("main"))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		utils.GetLogger().Error("http server forced to shut down", err, utils.Component("main"))
	}
	if err := server.Shutdown(ctx); err != nil {
		utils.GetLogger().Error("server forced to shut down", err, utils.Component("main"))
	}
}

func printHelp() {
	fmt.Println("Usage:")
	fmt.Println("  (no arguments)        Start the server using config.yaml")
	fmt.Println("  --config <path>       Start the server with the given config file")
	fmt.Println("  --server [port]       Start the server, optionally overriding the port")
	fmt.Println("  --db <path>           Start the server over the given dataset file")
	fmt.Println("  -h, --help, help      Show this help message")
	fmt.Println("  -v, --version         Show server version")
}
