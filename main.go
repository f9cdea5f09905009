package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/eclipse/paho.mqtt.golang"
	"github.com/matt-g-everett/volanim/api"
	"github.com/matt-g-everett/volanim/config"
	"github.com/matt-g-everett/volanim/render"
	"github.com/matt-g-everett/volanim/state"
	"github.com/matt-g-everett/volanim/stream"
	"github.com/matt-g-everett/volanim/timeline"
	"github.com/matt-g-everett/volanim/util"
	"golang.org/x/term"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

type app struct {
	Config     *config.Config
	Client     mqtt.Client
	Resolver   *timeline.Resolver
	Controller *stream.Controller
}

func newApp() *app {
	a := new(app)
	return a
}

func (a *app) handleOnConnect(client mqtt.Client) {
	log.Println("Connected")
	if err := a.Controller.Subscribe(client, a.Config.Mqtt.Topics.Control); err != nil {
		log.Printf("Subscribe %s: %v", a.Config.Mqtt.Topics.Control, err)
	}
}

// progress reports playback on a terminal, overwriting one line.
func progress(last int) func(*state.RenderingState, *render.Projection) {
	if !term.IsTerminal(int(os.Stderr.Fd())) {
		return nil
	}
	p := message.NewPrinter(language.English)
	rendered := 0
	return func(s *state.RenderingState, _ *render.Projection) {
		rendered++
		p.Fprintf(os.Stderr, "\rframe %d/%d (%d rendered)", s.Frame(), last, rendered)
	}
}

func (a *app) run(ctx context.Context) {
	if token := a.Client.Connect(); token.Wait() && token.Error() != nil {
		panic(token.Error())
	}
	defer a.Client.Disconnect(250)

	if err := a.Controller.Run(ctx); err != nil && err != context.Canceled {
		log.Printf("Playback stopped: %v", err)
	}
	fmt.Fprintln(os.Stderr)
}

func main() {
	// mqtt.DEBUG = log.New(os.Stdout, "", 0)
	mqtt.ERROR = log.New(os.Stdout, "", 0)

	// Parse command line parameters
	configPath := flag.String("config", "config.yaml", "YAML config file.")
	listen := flag.String("listen", ":3000", "Address of the frame view, empty to disable.")
	static := flag.String("static", "", "Directory of static pages served with the frame view.")
	debug := flag.Bool("debug", false, "Log each resolved frame.")
	flag.Parse()

	if *debug {
		util.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	// Read the config
	a := newApp()
	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(err)
	}
	a.Config = cfg
	log.Printf("Config: %+v", cfg.Playback)

	timeout, err := cfg.PublishTimeout()
	if err != nil {
		panic(err)
	}
	options := mqtt.NewClientOptions().
		AddBroker(cfg.Mqtt.URL).
		SetClientID(cfg.Mqtt.ClientID).
		SetUsername(cfg.Mqtt.Username).
		SetPassword(cfg.Mqtt.Password).
		SetKeepAlive(30 * time.Second).
		SetPingTimeout(5 * time.Second).
		SetOnConnectHandler(a.handleOnConnect)
	a.Client = mqtt.NewClient(options)

	volume, err := cfg.Volume.Source()
	if err != nil {
		panic(err)
	}
	streamer := stream.NewStreamer(a.Client, cfg.Mqtt.Topics.Stream, cfg.Mqtt.QoS, timeout)
	renderer, err := render.NewRenderer(volume, streamer, cfg.Output.Width, cfg.Output.Height)
	if err != nil {
		panic(err)
	}

	animations, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	a.Resolver = timeline.NewResolver(renderer.Default())
	a.Resolver.Add(animations...)

	a.Controller = stream.NewController(a.Resolver, renderer, cfg.Playback.FrameRate, cfg.Playback.LastFrame, cfg.Playback.Loop)
	a.Controller.OnFrame = progress(cfg.Playback.LastFrame)

	if *listen != "" {
		go func() {
			if err := api.NewApi(a.Resolver, *static).Serve(*listen); err != nil {
				log.Printf("Frame view: %v", err)
			}
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	a.run(ctx)
}
