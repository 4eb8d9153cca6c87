// Command docqa-cli uploads a PDF to a docqa server and asks questions about it.
//
//	docqa-cli -server http://localhost:8000 -file report.pdf -question "What is the revenue?"
//	docqa-cli -question "And the year before?"     # reuse the document already on the server
//	docqa-cli -status
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/Arpit-saxena-2004/documind-rag-pdf-qa/internal/version"
	"github.com/Arpit-saxena-2004/documind-rag-pdf-qa/pkg/sdk"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run() error {
	server := flag.String("server", envOr("DOCQA_SERVER", "http://localhost:8000"), "docqa server base URL")
	file := flag.String("file", "", "PDF to upload before asking")
	question := flag.String("question", "", "question to ask about the uploaded document")
	status := flag.Bool("status", false, "print session and health status")
	timeout := flag.Duration("timeout", 5*time.Minute, "overall request timeout")
	verbose := flag.Bool("v", false, "log SDK operations to stderr")
	flag.Parse()

	if *file == "" && *question == "" && !*status {
		flag.Usage()
		return errors.New("nothing to do: pass -file, -question or -status")
	}

	var opts []sdk.Option
	opts = append(opts, sdk.WithUserAgent("docqa-cli/"+version.Version))
	if *verbose {
		opts = append(opts, sdk.WithLogger(slog.New(slog.NewTextHandler(os.Stderr,
			&slog.HandlerOptions{Level: slog.LevelDebug}))))
	}
	client, err := sdk.New(*server, opts...)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	if *status {
		if err := printStatus(ctx, client); err != nil {
			return err
		}
	}

	if *file != "" {
		f, err := os.Open(*file)
		if err != nil {
			return fmt.Errorf("open %s: %w", *file, err)
		}
		res, err := client.Upload(ctx, *file, f)
		_ = f.Close()
		if err != nil {
			return fmt.Errorf("upload: %w", err)
		}
		fmt.Printf("%s: %s (%d pages, %d chunks, session %s)\n",
			res.Message, res.Source, res.Pages, res.Chunks, res.SessionID)
	}

	if *question != "" {
		answer, err := client.Ask(ctx, *question)
		if errors.Is(err, sdk.ErrNotReady) {
			return errors.New("no document on the server yet, pass -file first")
		}
		if err != nil {
			return fmt.Errorf("ask: %w", err)
		}
		fmt.Println(answer)
	}
	return nil
}

func printStatus(ctx context.Context, client *sdk.Client) error {
	health, err := client.Health(ctx)
	if err != nil {
		return fmt.Errorf("health: %w", err)
	}
	fmt.Printf("health: %s %v\n", health.Status, health.Checks)

	info, err := client.Session(ctx)
	if err != nil {
		return fmt.Errorf("session: %w", err)
	}
	if !info.Ready {
		fmt.Println("session: no document uploaded")
		return nil
	}
	fmt.Printf("session: %s %s (%d pages, %d chunks, built %s)\n",
		info.SessionID, info.Source, info.Pages, info.Chunks, info.BuiltAt.Format(time.RFC3339))
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
