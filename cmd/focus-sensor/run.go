package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/sweeney/focus-sensor/internal/alert"
	"github.com/sweeney/focus-sensor/internal/config"
	"github.com/sweeney/focus-sensor/internal/logic"
	"github.com/sweeney/focus-sensor/internal/mqtt"
	"github.com/sweeney/focus-sensor/internal/sensor"
	"github.com/sweeney/focus-sensor/internal/status"
	"github.com/sweeney/focus-sensor/internal/store"
	"github.com/sweeney/focus-sensor/internal/web"
)

// publisher is what the ingestion loop needs from MQTT.
type publisher interface {
	mqtt.Publisher
	mqtt.ConnectionStatus
}

func run(cfg config.Config) error {
	appender, err := store.OpenAppender(cfg.LogPath)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer appender.Close()
	log.Printf("logging to %s", appender.Path())

	dispatcher, closeSinks := buildDispatcher(cfg)
	defer closeSinks()

	pub := newPublisher(cfg)
	defer pub.Close()

	tracker := status.NewTracker(uuid.NewString(), time.Now(), status.Config{
		SerialPort:    cfg.SerialPort,
		Baud:          cfg.Baud,
		LogPath:       cfg.LogPath,
		HTTPAddr:      cfg.HTTPAddr,
		Broker:        cfg.Broker,
		AlertGapMs:    cfg.AlertGap.Milliseconds(),
		HeartbeatMs:   cfg.Heartbeat.Milliseconds(),
		SecondsPerRow: cfg.SecondsPerRow,
		AlertSinks:    dispatcher.Sinks(),
	})
	tracker.SetMQTTConnected(pub.IsConnected())

	if cfg.HTTPAddr != "" {
		srv := web.New(cfg.HTTPAddr, cfg.LogPath, cfg.SecondsPerRow, tracker)
		addr, err := startHTTP(srv, cfg.HTTPAddr)
		if err != nil {
			return err
		}
		defer srv.Shutdown(context.Background())
		log.Printf("http server listening on %s", addr)
	}

	log.Printf("opening serial port %s @ %d", cfg.SerialPort, cfg.Baud)
	reader, err := sensor.OpenWithRetry(func() (sensor.Reader, error) {
		r, err := sensor.NewRealReader(cfg.SerialPort, cfg.Baud, readTimeout)
		if err != nil {
			return nil, err
		}
		return r, nil
	}, openAttempts, openRetryDelay, openSettleDelay, time.Sleep)
	if err != nil {
		return fmt.Errorf("init sensor: %w", err)
	}
	defer reader.Close()
	log.Printf("serial port ready")

	snap := tracker.Snapshot()
	startupEvent := mqtt.SystemEvent{
		Timestamp:  snap.Now,
		Event:      "STARTUP",
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
	}
	if err := pub.PublishSystem(startupEvent); err != nil {
		log.Printf("failed to publish startup event: %v", err)
	}

	log.Printf("started: run=%s alert_gap=%v label=%s sinks=%v heartbeat=%v",
		snap.RunID, cfg.AlertGap, cfg.DistractedLabel, dispatcher.Sinks(), cfg.Heartbeat)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	lines := make(chan lineResult)
	done := make(chan struct{})
	defer close(done)
	go readLines(reader, lines, done, time.Sleep)

	now := time.Now
	in := &ingester{
		appender:   appender,
		notifier:   dispatcher,
		publisher:  pub,
		mqttStatus: pub,
		tracker:    tracker,
		policy:     logic.NewAlertPolicy(cfg.DistractedLabel, cfg.AlertGap),
		detector:   logic.NewDetector(now()),
		heartbeat:  cfg.Heartbeat,
		message:    alert.DefaultMessage,
		now:        now,
		sleep:      time.Sleep,
	}
	var tick <-chan time.Time
	if cfg.Heartbeat > 0 {
		ticker := time.NewTicker(cfg.Heartbeat)
		defer ticker.Stop()
		tick = ticker.C
	}
	return runLoop(in, lines, tick, sigCh)
}

// startHTTP binds addr, then serves on it in the background. A bind error
// is returned so run can fail.
func startHTTP(srv *web.Server, addr string) (net.Addr, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("http listen: %w", err)
	}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()
	return ln.Addr(), nil
}

// buildDispatcher wires every available alert sink. The returned func
// releases hardware held by the sinks.
func buildDispatcher(cfg config.Config) (*alert.Dispatcher, func()) {
	var sinks []alert.Sink
	closeSinks := func() {}

	if s := alert.NewSoundSink(cfg.Player, cfg.SoundPath); s != nil {
		sinks = append(sinks, s)
	} else {
		log.Printf("alert: sound file %q not found, sound disabled", cfg.SoundPath)
	}

	if cfg.Desktop {
		sinks = append(sinks, alert.NewDesktopSink(alert.Title))
	}

	if cfg.BuzzerPin >= 0 {
		out, err := alert.NewGPIOOutput(cfg.BuzzerChip, cfg.BuzzerPin)
		if err != nil {
			log.Printf("alert: buzzer disabled: %v", err)
		} else {
			buzzer := alert.NewBuzzerSink(out)
			sinks = append(sinks, buzzer)
			closeSinks = func() { buzzer.Close() }
		}
	}

	return alert.NewDispatcher(sinks...), closeSinks
}

func newPublisher(cfg config.Config) publisher {
	if cfg.Broker == "" {
		log.Printf("mqtt: no broker configured, publishing disabled")
		return mqtt.NopPublisher{}
	}
	p, err := mqtt.NewRealPublisher(cfg.Broker, cfg.ClientID)
	if err != nil {
		log.Printf("mqtt: %v, publishing disabled", err)
		return mqtt.NopPublisher{}
	}
	return p
}

// lineResult is one read from the sensor.
type lineResult struct {
	text string
	err  error
}

// readLines forwards non-empty labels and read errors until done is closed.
// After an error it pauses so a failing port does not spin.
func readLines(r sensor.Reader, out chan<- lineResult, done <-chan struct{}, sleep func(time.Duration)) {
	for {
		text, err := r.ReadLine()
		if err == nil && text == "" {
			select {
			case <-done:
				return
			default:
				continue
			}
		}
		select {
		case out <- lineResult{text: text, err: err}:
		case <-done:
			return
		}
		if err != nil {
			sleep(errorPause)
		}
	}
}

// ingester turns sensor labels into log rows, alerts and published events.
type ingester struct {
	appender   store.Appender
	notifier   alert.Notifier
	publisher  mqtt.Publisher
	mqttStatus mqtt.ConnectionStatus
	tracker    *status.Tracker
	policy     *logic.AlertPolicy
	detector   *logic.Detector
	heartbeat  time.Duration
	message    string
	now        func() time.Time
	sleep      func(time.Duration)
}

// runLoop feeds sensor lines to the ingester until a signal arrives. tick
// drives heartbeats while the sensor is silent; it may be nil.
func runLoop(in *ingester, lines <-chan lineResult, tick <-chan time.Time, sig <-chan os.Signal) error {
	for {
		select {
		case s := <-sig:
			log.Printf("received %v, shutting down", s)
			in.shutdown(s)
			return nil

		case l := <-lines:
			if l.err != nil {
				log.Printf("sensor read error: %v", l.err)
				if in.tracker != nil {
					in.tracker.SetError(l.err.Error())
				}
				continue
			}
			in.handle(l.text)

		case <-tick:
			in.checkHeartbeat(in.now())
		}
	}
}

// handle processes one label. Errors are logged and the label is dropped.
func (in *ingester) handle(text string) {
	state := logic.State(text)
	if state == "" {
		return
	}

	t := in.now()
	rec := logic.NewRecord(state, t)
	if err := in.appender.Append(rec); err != nil {
		log.Printf("append error: %v", err)
		if in.tracker != nil {
			in.tracker.SetError(err.Error())
		}
		in.sleep(errorPause)
		return
	}

	if event := in.detector.Process(state, t); event != nil {
		log.Printf("state: %s -> %s", event.From, event.To)
		if err := in.publisher.Publish(*event); err != nil {
			log.Printf("publish error: %v", err)
		}
	}

	if in.policy.Check(state, t) {
		count := in.policy.Count()
		log.Printf("alert #%d: %s", count, in.message)
		in.notifier.Notify(in.message)
		alertEvent := mqtt.AlertEvent{
			Timestamp: t,
			State:     state,
			Message:   in.message,
			Count:     count,
		}
		if err := in.publisher.PublishAlert(alertEvent); err != nil {
			log.Printf("alert publish error: %v", err)
		}
		if in.tracker != nil {
			in.tracker.AlertFired(t, count)
		}
	}

	if in.tracker != nil {
		in.tracker.Record(rec, in.detector.Records(), in.detector.TransitionsSnapshot())
		if in.mqttStatus != nil {
			in.tracker.SetMQTTConnected(in.mqttStatus.IsConnected())
		}
	}

	in.checkHeartbeat(t)
}

func (in *ingester) checkHeartbeat(t time.Time) {
	hb := in.detector.CheckHeartbeat(t, in.heartbeat)
	if hb == nil {
		return
	}
	log.Printf("heartbeat: uptime=%v records=%d", hb.Uptime, hb.Records)
	hbEvent := mqtt.SystemEvent{
		Timestamp: hb.Timestamp,
		Event:     "HEARTBEAT",
	}
	if in.tracker != nil {
		if in.mqttStatus != nil {
			in.tracker.SetMQTTConnected(in.mqttStatus.IsConnected())
		}
		hbEvent.RawPayload = status.FormatStatusEvent(in.tracker.Snapshot(), "HEARTBEAT", "")
	}
	if err := in.publisher.PublishSystem(hbEvent); err != nil {
		log.Printf("heartbeat publish error: %v", err)
	}
}

func (in *ingester) shutdown(s os.Signal) {
	signalName := "UNKNOWN"
	if s == syscall.SIGINT {
		signalName = "SIGINT"
	} else if s == syscall.SIGTERM {
		signalName = "SIGTERM"
	}
	event := mqtt.SystemEvent{
		Timestamp: in.now(),
		Event:     "SHUTDOWN",
		Reason:    signalName,
		Retained:  true,
	}
	if in.tracker != nil {
		if in.mqttStatus != nil {
			in.tracker.SetMQTTConnected(in.mqttStatus.IsConnected())
		}
		event.RawPayload = status.FormatStatusEvent(in.tracker.Snapshot(), "SHUTDOWN", signalName)
	}
	if err := in.publisher.PublishSystem(event); err != nil {
		log.Printf("failed to publish shutdown event: %v", err)
	} else {
		log.Printf("published shutdown event")
	}
}
