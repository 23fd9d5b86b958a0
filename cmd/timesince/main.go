// Command timesince drives a 16x2 I2C character display showing elapsed
// time since configured events, with button navigation, remote polling, and
// MQTT telemetry.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sweeney/timesince/internal/button"
	"github.com/sweeney/timesince/internal/config"
	"github.com/sweeney/timesince/internal/display"
	"github.com/sweeney/timesince/internal/feed"
	"github.com/sweeney/timesince/internal/lcd"
	"github.com/sweeney/timesince/internal/mqtt"
	"github.com/sweeney/timesince/internal/status"
	"github.com/sweeney/timesince/internal/timer"
	"github.com/sweeney/timesince/internal/web"
)

func main() {
	configPath := flag.String("config", "/etc/timesince.yaml", "Timer configuration file")
	tick := flag.Duration("tick", 200*time.Millisecond, "Control loop tick interval")
	debounce := flag.Duration("debounce", 50*time.Millisecond, "Button debounce delay")
	broker := flag.String("broker", "tcp://192.168.1.200:1883", `MQTT broker address ("off" to disable)`)
	heartbeat := flag.Duration("heartbeat", 15*time.Minute, "Heartbeat interval (0 to disable)")
	httpAddr := flag.String("http", ":8080", "HTTP status address (empty to disable)")
	i2cBus := flag.String("i2c-bus", lcd.DefaultBus, "I2C bus device for the LCD")
	i2cAddr := flag.Int("i2c-addr", lcd.DefaultAddr, "I2C address of the LCD backpack")
	pinUp := flag.Int("pin-up", button.DefaultPinUp, "BCM pin number for the up button")
	pinDown := flag.Int("pin-down", button.DefaultPinDown, "BCM pin number for the down button")
	pinAction := flag.Int("pin-action", button.DefaultPinAction, "BCM pin number for the action button")
	listTimers := flag.Bool("list-timers", false, "Construct timers, print their seeds, and exit")

	flag.Parse()

	err := run(runOptions{
		configPath: *configPath,
		tick:       *tick,
		debounce:   *debounce,
		broker:     *broker,
		heartbeat:  *heartbeat,
		httpAddr:   *httpAddr,
		i2cBus:     *i2cBus,
		i2cAddr:    *i2cAddr,
		pinUp:      *pinUp,
		pinDown:    *pinDown,
		pinAction:  *pinAction,
		listTimers: *listTimers,
	})
	if err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

type runOptions struct {
	configPath string
	tick       time.Duration
	debounce   time.Duration
	broker     string
	heartbeat  time.Duration
	httpAddr   string
	i2cBus     string
	i2cAddr    int
	pinUp      int
	pinDown    int
	pinAction  int
	listTimers bool
}

func run(opts runOptions) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}

	fetcher := feed.NewHTTPFetcher(feed.DefaultTimeout)

	// List mode needs no hardware: construct (including remote seeding)
	// and print.
	if opts.listTimers {
		timers, kinds, err := buildTimers(cfg, fetcher, time.Now())
		if err != nil {
			return err
		}
		for i, tm := range timers {
			fmt.Printf("%-16s %-8s last trigger %s\n",
				tm.Name(), kinds[i], tm.LastTrigger().UTC().Format(time.RFC3339))
		}
		return nil
	}

	// Bring the display up first so seeding (which can block on the
	// network for a few seconds per remote timer) is visible.
	screen, err := lcd.Open(opts.i2cBus, uint8(opts.i2cAddr))
	if err != nil {
		return fmt.Errorf("init lcd: %w", err)
	}
	defer screen.Close()
	screen.SetCursor(0, 0)
	screen.Write("Initializing...")

	timers, kinds, err := buildTimers(cfg, fetcher, time.Now())
	if err != nil {
		return err
	}
	reg, err := timer.NewRegistry(timers)
	if err != nil {
		return err
	}

	buttons, err := button.NewRealReader(opts.pinUp, opts.pinDown, opts.pinAction)
	if err != nil {
		return fmt.Errorf("init buttons: %w", err)
	}
	defer buttons.Close()

	var publisher mqtt.Publisher
	var mqttStatus mqtt.ConnectionStatus
	if opts.broker != "off" {
		real, err := mqtt.NewRealPublisher(opts.broker)
		if err != nil {
			return fmt.Errorf("init mqtt: %w", err)
		}
		defer real.Close()
		publisher = real
		mqttStatus = real
	}

	tracker := status.NewTracker(time.Now(), status.Config{
		TickMs:      opts.tick.Milliseconds(),
		DebounceMs:  opts.debounce.Milliseconds(),
		HeartbeatMs: opts.heartbeat.Milliseconds(),
		Broker:      opts.broker,
		HTTPAddr:    opts.httpAddr,
		ConfigPath:  opts.configPath,
	})
	tracker.UpdateTimers(timerRows(reg, kinds), reg.Selected())

	if publisher != nil {
		startup := mqtt.SystemEvent{
			Timestamp:  time.Now(),
			Event:      "STARTUP",
			Retained:   true,
			RawPayload: status.FormatStatusEvent(tracker.Snapshot(), "STARTUP", ""),
		}
		if err := publisher.PublishSystem(startup); err != nil {
			log.Printf("failed to publish startup event: %v", err)
		} else {
			log.Printf("published startup event")
		}
	}

	if opts.httpAddr != "" {
		srv := web.New(opts.httpAddr, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", opts.httpAddr)
	}

	log.Printf("started: %d timers, tick=%v debounce=%v broker=%s heartbeat=%v",
		reg.Len(), opts.tick, opts.debounce, opts.broker, opts.heartbeat)

	ticker := time.NewTicker(opts.tick)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	ctrl := display.NewController(reg, screen, buttons, opts.debounce, nil)
	return runLoop(ctrl, reg, kinds, publisher, mqttStatus, tracker, opts.heartbeat, time.Now, ticker.C, sigCh)
}

func runLoop(ctrl *display.Controller, reg *timer.Registry, kinds []string, publisher mqtt.Publisher, mqttStatus mqtt.ConnectionStatus, tracker *status.Tracker, heartbeat time.Duration, now func() time.Time, tick <-chan time.Time, sig <-chan os.Signal) error {
	lastHeartbeat := now()

	for {
		select {
		case s := <-sig:
			log.Printf("received %v, shutting down", s)
			signalName := "UNKNOWN"
			if s == syscall.SIGINT {
				signalName = "SIGINT"
			} else if s == syscall.SIGTERM {
				signalName = "SIGTERM"
			}
			if publisher != nil {
				event := mqtt.SystemEvent{
					Timestamp: now(),
					Event:     "SHUTDOWN",
					Reason:    signalName,
					Retained:  true,
				}
				if tracker != nil {
					if mqttStatus != nil {
						tracker.SetMQTTConnected(mqttStatus.IsConnected())
					}
					event.RawPayload = status.FormatStatusEvent(tracker.Snapshot(), "SHUTDOWN", signalName)
				}
				if err := publisher.PublishSystem(event); err != nil {
					log.Printf("failed to publish shutdown event: %v", err)
				} else {
					log.Printf("published shutdown event")
				}
			}
			return nil

		case <-tick:
			t := now()
			events := ctrl.Update(t)

			triggered, refreshed := 0, 0
			for _, ev := range events {
				log.Printf("event: %s %s (elapsed %s)",
					ev.Kind, ev.Timer, display.FormatElapsed(ev.ElapsedSeconds))
				switch ev.Kind {
				case display.EventTriggered:
					triggered++
				case display.EventRefreshed:
					refreshed++
				}
				if publisher != nil {
					if err := publisher.Publish(ev); err != nil {
						log.Printf("publish error: %v", err)
						// Don't crash on publish failure
					}
				}
			}

			if tracker != nil {
				tracker.UpdateTimers(timerRows(reg, kinds), reg.Selected())
				if triggered > 0 || refreshed > 0 {
					tracker.AddCounts(triggered, refreshed)
				}
				if mqttStatus != nil {
					tracker.SetMQTTConnected(mqttStatus.IsConnected())
				}
			}

			if publisher != nil && heartbeat > 0 && t.Sub(lastHeartbeat) >= heartbeat {
				lastHeartbeat = t
				hb := mqtt.SystemEvent{Timestamp: t, Event: "HEARTBEAT"}
				if tracker != nil {
					hb.RawPayload = status.FormatStatusEvent(tracker.Snapshot(), "HEARTBEAT", "")
				}
				if err := publisher.PublishSystem(hb); err != nil {
					log.Printf("heartbeat publish error: %v", err)
				}
			}
		}
	}
}

// buildTimers constructs the timer slots from configuration. Remote timers
// seed best-effort: activity trackers attempt one initial poll, the freeze
// tracker backfills from the weather archive. Seeding failures log and fall
// back to the startup time; only invalid configuration is fatal.
func buildTimers(cfg *config.Config, fetcher feed.Fetcher, now time.Time) ([]*timer.Timer, []string, error) {
	timers := make([]*timer.Timer, 0, len(cfg.Timers))
	kinds := make([]string, 0, len(cfg.Timers))

	for i, tc := range cfg.Timers {
		var (
			tm  *timer.Timer
			err error
		)

		switch tc.Kind {
		case config.KindManual:
			tm, err = timer.New(tc.Name, now)

		case config.KindGitHub:
			var g *feed.GitHub
			g, err = feed.NewGitHub(tc.User, fetcher)
			if err == nil {
				tm, err = newSeededPolling(tc.Name, g, time.Duration(tc.Interval), now)
			}

		case config.KindBluesky:
			var b *feed.Bluesky
			b, err = feed.NewBluesky(tc.Handle, fetcher)
			if err == nil {
				tm, err = newSeededPolling(tc.Name, b, time.Duration(tc.Interval), now)
			}

		case config.KindWeather:
			var m *feed.OpenMeteo
			m, err = feed.NewOpenMeteo(*tc.Latitude, *tc.Longitude, fetcher)
			if err == nil {
				seed := m.Backfill(now)
				tm, err = timer.NewPolling(tc.Name, seed,
					timer.NewPollSource(m, time.Duration(tc.Interval), now))
			}
		}

		if err != nil {
			return nil, nil, fmt.Errorf("timer %d (%s): %w", i, tc.Name, err)
		}
		timers = append(timers, tm)
		kinds = append(kinds, tc.Kind)
	}
	return timers, kinds, nil
}

// newSeededPolling creates an activity timer seeded by one best-effort poll.
func newSeededPolling(name string, p timer.Poller, interval time.Duration, now time.Time) (*timer.Timer, error) {
	tm, err := timer.NewPolling(name, now, timer.NewPollSource(p, interval, now))
	if err != nil {
		return nil, err
	}
	if _, perr := tm.Poll(now); perr != nil {
		log.Printf("initial poll %s: %v", name, perr)
	}
	return tm, nil
}

// timerRows converts registry state into status rows for the tracker.
func timerRows(reg *timer.Registry, kinds []string) []status.TimerStatus {
	rows := make([]status.TimerStatus, reg.Len())
	for i := 0; i < reg.Len(); i++ {
		tm := reg.At(i)
		row := status.TimerStatus{
			Name:        tm.Name(),
			Kind:        kinds[i],
			Pollable:    tm.Pollable(),
			LastTrigger: tm.LastTrigger(),
		}
		if src := tm.Source(); src != nil {
			row.LastPoll = src.LastPoll()
			row.Interval = src.Interval()
		}
		rows[i] = row
	}
	return rows
}
