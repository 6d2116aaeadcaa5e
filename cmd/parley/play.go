package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aretw0/parley/internal/presentation/tui"
	"github.com/aretw0/parley/pkg/domain"
	"github.com/aretw0/parley/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// frame is the presenter tick interval (~60 fps).
const frame = 16 * time.Millisecond

var playCmd = &cobra.Command{
	Use:   "play [character]",
	Short: "Talk to a character in the terminal",
	Long: `Begins a conversation with a configured character (or with the tree of the given id)
and renders it in the terminal. W/S or the arrows choose, Enter or Space continue, Q quits.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		watch, _ := cmd.Flags().GetBool("watch")
		noBanner, _ := cmd.Flags().GetBool("no-banner")
		metricsAddr, _ := cmd.Flags().GetString("metrics-addr")

		p, err := openProject(cmd)
		exitOnError("Error loading project", err)
		defer p.close()

		var name string
		if len(args) > 0 {
			name = args[0]
		}
		ch, err := p.character(name)
		exitOnError("Error", err)

		var hooks []domain.LifecycleHooks
		if metricsAddr != "" {
			reg := prometheus.NewRegistry()
			hooks = append(hooks, observability.NewMetrics(reg).Hooks())
			srv := &http.Server{
				Addr:              metricsAddr,
				Handler:           promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
				ReadHeaderTimeout: 5 * time.Second,
			}
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					p.logger.Error("metrics server failed", "error", err)
				}
			}()
			defer srv.Close()
		}

		game, err := p.game(hooks...)
		exitOnError("Error initializing parley", err)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if watch {
			exitOnError("Error watching trees", game.Watch(ctx))
		}

		if !noBanner {
			tui.PrintBanner(os.Stdout)
		}

		if _, err := game.Talk(ctx, ch.Name, ch.Assignment()); err != nil {
			exitOnError(fmt.Sprintf("Error talking to %s", ch.Name), err)
		}

		kb, err := openInput()
		exitOnError("Error opening keyboard", err)
		defer kb.Close()

		// Input ending (piped stdin) ends the conversation.
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()
		go func() {
			<-kb.Done()
			// let the last decoded keys be polled
			time.Sleep(2 * frame)
			cancel()
		}()

		surface := tui.NewSurface(os.Stdout, tui.WithWidth(min(tui.Size(os.Stdout), tui.DefaultWidth)))
		err = game.Presenter(surface, kb).Run(ctx, frame)
		kb.Close()
		fmt.Println()
		if err != nil && ctx.Err() == nil {
			exitOnError("Error", err)
		}
		if err := kb.Err(); err != nil {
			exitOnError("Error reading input", err)
		}
	},
}

func openInput() (*tui.Keyboard, error) {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		return tui.OpenKeyboard(os.Stdin)
	}
	return tui.NewKeyboard(os.Stdin), nil
}

func init() {
	rootCmd.AddCommand(playCmd)

	playCmd.Flags().BoolP("watch", "w", false, "Reload trees when their files change (loam loader)")
	playCmd.Flags().Bool("no-banner", false, "Do not print the banner")
	playCmd.Flags().String("metrics-addr", "", "Serve Prometheus metrics of the session on this address (e.g. :9090)")

	rootCmd.Run = playCmd.Run
	rootCmd.Args = playCmd.Args
}
