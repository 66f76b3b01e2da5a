package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	cli "github.com/urfave/cli/v3"

	"auto_blog_article_writer/config"
	"auto_blog_article_writer/generator"
	"auto_blog_article_writer/logger"
	"auto_blog_article_writer/pipeline"
	"auto_blog_article_writer/server"
	"auto_blog_article_writer/ux"
)

var errRunFailed = errors.New("blog generation failed")

var quitWords = map[string]bool{"quit": true, "exit": true, "q": true}

func main() {
	if err := newApp(os.Stdin, os.Stdout).Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newApp(in io.Reader, out io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "blogwriter",
		Usage:     "Research a topic, outline it and write a blog article",
		ArgsUsage: "[topic...]",
		Writer:    out,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Value: config.DefaultConfigPath, Usage: "path to config file (yaml or json)"},
			&cli.StringFlag{Name: "out", Usage: "output directory (overrides output_dir)"},
			&cli.BoolFlag{Name: "no-save", Usage: "do not write the article to disk"},
			&cli.BoolFlag{Name: "html", Usage: "also write an HTML rendering"},
			&cli.BoolFlag{Name: "serve", Usage: "start the HTTP API instead of running a topic"},
			&cli.StringFlag{Name: "addr", Usage: "listen address when --serve (overrides server_addr)"},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "enable info logs"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := config.Load(cmd.String("config"))
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			if dir := cmd.String("out"); dir != "" {
				cfg.OutputDir = dir
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			log := logger.OpenOrNop(cfg.Log.Mode, cfg.Log.File)
			defer log.Sync()
			if !cmd.Bool("verbose") {
				log = logger.Quiet(log)
			}

			llm, err := buildLLM(cfg)
			if err != nil {
				return err
			}
			w, err := newWiring(cfg, llm, log)
			if err != nil {
				return err
			}
			defer w.Close()

			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			save := !cmd.Bool("no-save")
			withHTML := cmd.Bool("html")

			if cmd.Bool("serve") {
				listen := cfg.ServerAddr
				if addr := cmd.String("addr"); addr != "" {
					listen = addr
				}
				return serve(ctx, listen, w, save, withHTML, log)
			}

			console := ux.NewConsole(out)
			generate := func(ctx context.Context, topic string) pipeline.Result {
				p := w.Pipeline(save, withHTML)
				p.OnTransition = console.Transition
				console.Banner(topic)
				res := p.Run(ctx, topic)
				console.Result(res)
				return res
			}

			if args := cmd.Args().Slice(); len(args) > 0 {
				res := generate(ctx, strings.Join(args, " "))
				if !res.Succeeded() || res.PublishErr != nil {
					return errRunFailed
				}
				return nil
			}
			interactive(ctx, in, console, generate)
			return nil
		},
	}
}

// interactive reads topics line by line until a quit word or end of input.
func interactive(ctx context.Context, in io.Reader, console *ux.Console, generate func(context.Context, string) pipeline.Result) {
	console.Welcome()
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(console.W, "Enter a blog topic (or 'quit' to exit): ")
		if !scanner.Scan() {
			fmt.Fprintln(console.W)
			return
		}
		topic := strings.TrimSpace(scanner.Text())
		if quitWords[strings.ToLower(topic)] {
			console.Notice("Goodbye!")
			return
		}
		if topic == "" {
			console.Error("Please enter a valid topic.")
			continue
		}
		fmt.Fprintln(console.W)
		if res := generate(ctx, topic); !res.Succeeded() {
			console.Error("Generation failed. Please try again.")
		}
		if ctx.Err() != nil {
			return
		}
		fmt.Fprintln(console.W)
	}
}

func serve(ctx context.Context, addr string, w *wiring, save, withHTML bool, log *logger.Logger) error {
	srv, err := server.New(func() *pipeline.Pipeline { return w.Pipeline(save, withHTML) }, log)
	if err != nil {
		return err
	}
	httpSrv := &http.Server{Addr: addr, Handler: srv.Routes(), ReadHeaderTimeout: 10 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting web server", "addr", addr)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	}
}

func buildLLM(cfg config.Config) (generator.LLMClient, error) {
	switch cfg.LLM.Provider {
	case "mock":
		return generator.MockLLM{}, nil
	case "groq", "openai":
		return generator.NewOpenAILLMFromConfig(cfg.LLMSettings())
	case "deepseek":
		// DeepSeek exposes an OpenAI-compatible endpoint; base_url is required.
		if cfg.LLM.BaseURL == "" {
			return nil, fmt.Errorf("llm provider deepseek requires base_url (OpenAI-compatible endpoint)")
		}
		return generator.NewOpenAILLMFromConfig(cfg.LLMSettings())
	default:
		return nil, fmt.Errorf("llm provider %s not supported", cfg.LLM.Provider)
	}
}
