package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/tenbit/word10asm/api"
	"github.com/tenbit/word10asm/config"
	"github.com/tenbit/word10asm/internal/assembler"
	"github.com/tenbit/word10asm/internal/tui"
)

// Version information - can be overridden at build time with:
// go build -ldflags "-X main.Version=v1.2.3"
var (
	Version = "dev"     // Version number (set by git tag at build time)
	Commit  = "unknown" // Git commit hash
	Date    = "unknown" // Build date
)

func main() {
	var (
		showVersion = flag.Bool("version", false, "Show version information")
		showHelp    = flag.Bool("help", false, "Show help information")
		configPath  = flag.String("config", "", "Load configuration from this path instead of the platform default")
		watchAddr   = flag.String("watch", "", "Start the watch API server bound to this address instead of assembling once")
		showSymbols = flag.Bool("symbols", false, "After assembling, open the symbol/object browser")
		verboseMode = flag.Bool("verbose", false, "Print per-file IC/DC/error-count summary lines to stderr")
	)

	flag.Parse()

	if *showVersion {
		fmt.Printf("word10asm %s\n", Version)
		if Commit != "unknown" {
			fmt.Printf("Commit: %s\n", Commit)
		}
		if Date != "unknown" {
			fmt.Printf("Built: %s\n", Date)
		}
		os.Exit(0)
	}

	if *showHelp {
		printHelp()
		os.Exit(0)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	if *watchAddr != "" {
		runWatchServer(*watchAddr, cfg)
		return
	}

	if flag.NArg() == 0 {
		printHelp()
		os.Exit(0)
	}

	for _, basename := range flag.Args() {
		ctx := assembler.AssembleFile(basename)

		if *verboseMode {
			fmt.Fprintf(os.Stderr, "%s: IC=%d DC=%d errors=%d warnings=%d\n",
				basename, ctx.FinalIC(), ctx.FinalDC(), len(ctx.Diags.Errors()), len(ctx.Diags.Warnings()))
		}

		for _, d := range ctx.Diags.Diagnostics {
			fmt.Fprint(os.Stderr, d.Format(ctx.Source.Line(d.Line)))
		}

		if *showSymbols && !ctx.Diags.Failed() {
			browser, err := tui.New(ctx, basename)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error opening symbol browser: %v\n", err)
				continue
			}
			if err := browser.Run(); err != nil {
				fmt.Fprintf(os.Stderr, "Symbol browser error: %v\n", err)
			}
		}
	}

	// Exit code is always 0: per-file failures are reported to stderr
	// and by omission of output files, never by process exit status.
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFrom(path)
	}
	return config.Load()
}

func runWatchServer(addr string, cfg *config.Config) {
	server := api.NewServer(addr, cfg)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	var shutdownOnce sync.Once
	performShutdown := func() {
		shutdownOnce.Do(func() {
			fmt.Println("\nShutting down watch API server...")

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := server.Shutdown(ctx); err != nil {
				fmt.Fprintf(os.Stderr, "Error during shutdown: %v\n", err)
				os.Exit(1)
			}

			fmt.Println("watch API server stopped")
			os.Exit(0)
		})
	}

	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			fmt.Fprintf(os.Stderr, "watch API server error: %v\n", err)
			os.Exit(1)
		}
	}()

	<-sigChan
	performShutdown()
}

func printHelp() {
	fmt.Printf(`word10asm %s

Usage: word10asm [options] <basename>...
       word10asm -watch <addr>

Each <basename> names a "<basename>.as" source file; on success this
writes "<basename>.ob", "<basename>.ent" (if any .entry declarations),
and "<basename>.ext" (if any .extern references are used).

Options:
  -help            Show this help message
  -version         Show version information
  -config PATH     Load configuration from PATH instead of the platform default
  -watch ADDR       Start the watch API server bound to ADDR (e.g. 127.0.0.1:8765)
  -symbols         After assembling, open the read-only symbol/object browser
  -verbose         Print per-file IC/DC/error-count summary lines to stderr

Examples:
  word10asm prog
  word10asm -symbols prog
  word10asm -watch 127.0.0.1:8765
`, Version)
}
