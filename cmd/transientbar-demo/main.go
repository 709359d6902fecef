// Command transientbar-demo is an interactive playground for the transient
// bar scheduler.
//
// It simulates a host application: each "show" creates a bar whose
// presentation is a console line and whose animations are fixed delays, all
// coordinated by one scheduler instance.
//
// Usage:
//
//	transientbar-demo [flags]
//
// Flags:
//
//	-config string     Configuration file path (YAML)
//	-event-log string  Write CBOR event log to this path
//	-log-level string  Log level: debug, info, warn, error (default "info")
//	-a11y              Pause auto-dismiss while a screen reader is active
//
// Commands at the prompt:
//
//	show [short|long|indefinite|<duration>] <text>   request a bar
//	dismiss [swipe|action|manual]                    dismiss the active bar
//	pause                                            pause the auto-dismiss timer
//	resume                                           resume the auto-dismiss timer
//	status                                           print scheduler slots
//	exit                                             quit
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/chzyer/readline"

	"github.com/transientbar/transientbar-go/pkg/bar"
	"github.com/transientbar/transientbar-go/pkg/config"
	"github.com/transientbar/transientbar-go/pkg/envsignal"
	"github.com/transientbar/transientbar-go/pkg/envsignal/atspi"
	"github.com/transientbar/transientbar-go/pkg/log"
	"github.com/transientbar/transientbar-go/pkg/scheduler"
	"github.com/transientbar/transientbar-go/pkg/watchdog"
)

func main() {
	configPath := flag.String("config", "", "configuration file path")
	eventLogPath := flag.String("event-log", "", "write CBOR event log to this path")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	a11y := flag.Bool("a11y", false, "pause auto-dismiss while a screen reader is active")
	flag.Parse()

	if err := run(*configPath, *eventLogPath, *logLevel, *a11y); err != nil {
		fmt.Fprintf(os.Stderr, "transientbar-demo: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, eventLogPath, logLevel string, a11y bool) error {
	cfg := config.DefaultConfig()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}
	if eventLogPath != "" {
		cfg.EventLog = eventLogPath
	}
	if a11y {
		cfg.PauseOnScreenReader = true
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "bar> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("create readline: %w", err)
	}
	defer rl.Close()

	slogger := slog.New(slog.NewTextHandler(rl.Stderr(), &slog.HandlerOptions{
		Level: parseLevel(logLevel),
	}))

	loggers := []log.Logger{log.NewSlogAdapter(slogger)}
	if cfg.EventLog != "" {
		fl, err := log.NewFileLogger(cfg.EventLog)
		if err != nil {
			return fmt.Errorf("open event log: %w", err)
		}
		defer fl.Close()
		loggers = append(loggers, fl)
	}
	eventLogger := log.NewMultiLogger(loggers...)

	sched := scheduler.New()
	sched.SetLogger(eventLogger)
	sched.Start()
	defer sched.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.PauseOnScreenReader {
		src, err := atspi.New()
		if err != nil {
			slogger.Warn("accessibility bus unavailable, pause signal disabled", "err", err)
		} else if err := envsignal.Bind(ctx, src, sched); err != nil {
			slogger.Warn("accessibility watch failed, pause signal disabled", "err", err)
		}
	}

	d := &demo{
		cfg:    cfg,
		sched:  sched,
		logger: eventLogger,
		out:    rl.Stdout(),
		bars:   make(map[string]*bar.Controller),
	}
	return d.loop(rl)
}

// parseLevel maps a level name to an slog level, defaulting to info.
func parseLevel(name string) slog.Level {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// demo holds the interactive session state.
type demo struct {
	cfg    config.Config
	sched  *scheduler.Scheduler
	logger log.Logger
	out    io.Writer

	mu   sync.Mutex
	bars map[string]*bar.Controller // live controllers by id
}

// loop reads and executes commands until exit.
func (d *demo) loop(rl *readline.Instance) error {
	fmt.Fprintln(d.out, "transientbar-demo - type 'help' for commands")

	for {
		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				continue
			}
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "show":
			d.cmdShow(fields[1:])
		case "dismiss":
			d.cmdDismiss(fields[1:])
		case "pause":
			d.sched.PauseTimer()
		case "resume":
			d.sched.ResumeTimer()
		case "status":
			d.cmdStatus()
		case "help":
			d.cmdHelp()
		case "exit", "quit":
			return nil
		default:
			fmt.Fprintf(d.out, "unknown command %q - type 'help'\n", fields[0])
		}
	}
}

func (d *demo) cmdShow(args []string) {
	duration := d.cfg.DefaultDuration.Std()
	if len(args) > 0 {
		if parsed, ok := parseShowDuration(args[0]); ok {
			duration = parsed
			args = args[1:]
		}
	}
	text := strings.Join(args, " ")
	if text == "" {
		fmt.Fprintln(d.out, "usage: show [short|long|indefinite|<duration>] <text>")
		return
	}

	hook, err := watchdog.Wrap(
		timedAnimation{d: d.cfg.AnimationDuration.Std()},
		watchdog.Config{
			Timeout:       d.cfg.AnimationTimeout.Std(),
			ForceComplete: true,
			OnStuck: func(p watchdog.Phase) {
				fmt.Fprintf(d.out, "  [bar] animation stuck in %s, forcing completion\n", p)
			},
		},
	)
	if err != nil {
		fmt.Fprintf(d.out, "bad animation timeout: %v\n", err)
		return
	}

	c := bar.New(hook, &consoleView{out: d.out, text: text})
	c.SetLogger(d.logger)
	c.OnShown(func() {
		fmt.Fprintf(d.out, "  [bar] shown: %s\n", text)
	})
	c.OnDismissed(func(reason bar.DismissReason) {
		fmt.Fprintf(d.out, "  [bar] dismissed (%s): %s\n", reason, text)
		d.mu.Lock()
		delete(d.bars, c.ID())
		d.mu.Unlock()
	})

	d.mu.Lock()
	d.bars[c.ID()] = c
	d.mu.Unlock()

	d.sched.Show(c, duration)
}

func (d *demo) cmdDismiss(args []string) {
	reason := bar.ReasonManual
	if len(args) > 0 {
		switch args[0] {
		case "swipe":
			reason = bar.ReasonSwipe
		case "action":
			reason = bar.ReasonAction
		case "manual":
		default:
			fmt.Fprintln(d.out, "usage: dismiss [swipe|action|manual]")
			return
		}
	}

	id := d.sched.ActiveID()
	if id == "" {
		fmt.Fprintln(d.out, "nothing active")
		return
	}

	d.mu.Lock()
	c := d.bars[id]
	d.mu.Unlock()
	if c == nil {
		fmt.Fprintln(d.out, "nothing active")
		return
	}
	d.sched.Dismiss(c, reason)
}

func (d *demo) cmdStatus() {
	active, pending := d.sched.ActiveID(), d.sched.PendingID()
	if active == "" {
		active = "-"
	}
	if pending == "" {
		pending = "-"
	}
	fmt.Fprintf(d.out, "active:  %s\npending: %s\ntimer:   armed=%v paused=%v\n",
		active, pending, d.sched.TimerArmed(), d.sched.TimerPaused())
	if remaining, ok := d.sched.PausedRemaining(); ok {
		fmt.Fprintf(d.out, "paused remaining: %v\n", remaining)
	}
}

func (d *demo) cmdHelp() {
	fmt.Fprint(d.out, `commands:
  show [short|long|indefinite|<duration>] <text>   request a bar
  dismiss [swipe|action|manual]                    dismiss the active bar
  pause                                            pause the auto-dismiss timer
  resume                                           resume the auto-dismiss timer
  status                                           print scheduler slots
  exit                                             quit
`)
}

// parseShowDuration interprets the optional duration token of a show
// command.
func parseShowDuration(token string) (time.Duration, bool) {
	switch token {
	case "short":
		return bar.DurationShort, true
	case "long":
		return bar.DurationLong, true
	case "indefinite":
		return bar.DurationIndefinite, true
	}
	d, err := time.ParseDuration(token)
	if err != nil || d < 0 {
		return 0, false
	}
	return d, true
}
