// Command posecam shows a live camera preview with a human-skeleton overlay
// and a coarse action label per detected person.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/qidili2/Cv-on-human-on-camera/internal/classify"
	"github.com/qidili2/Cv-on-human-on-camera/internal/config"
	"github.com/qidili2/Cv-on-human-on-camera/internal/core"
	"github.com/qidili2/Cv-on-human-on-camera/internal/display"
	"github.com/qidili2/Cv-on-human-on-camera/internal/model"
	"github.com/qidili2/Cv-on-human-on-camera/internal/stream"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML configuration file (optional)")
	cameraIndex := flag.Int("camera", 0, "Camera device index")
	modelPath := flag.String("model", "", "Pose model reference for the inference worker")
	confidence := flag.Float64("conf", 0.3, "Keypoint confidence threshold")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	logLevel := slog.LevelInfo
	if *debug {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			slog.Error("failed to load config", "path", *configPath, "error", err)
			os.Exit(1)
		}
		cfg = *loaded
	}

	// Explicit flags win over the config file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "camera":
			cfg.Camera.Index = *cameraIndex
		case "model":
			cfg.Model.Path = *modelPath
		case "conf":
			cfg.Model.Confidence = *confidence
		}
	})

	slog.Info("starting posecam",
		"camera", cfg.Camera.Index,
		"model", cfg.Model.Path,
		"confidence", cfg.Model.Confidence,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("posecam failed", "error", err)
		os.Exit(1)
	}
	slog.Info("posecam stopped, camera released")
}

func run(ctx context.Context, cfg config.Config) error {
	camera, err := stream.NewCamera(cfg.Camera.Index, cfg.Camera.Width, cfg.Camera.Height)
	if err != nil {
		return err
	}

	worker, err := model.NewWorker(model.WorkerConfig{
		Command:   cfg.Model.WorkerCommand,
		ModelPath: cfg.Model.Path,
	})
	if err != nil {
		return err
	}
	if err := worker.Start(ctx); err != nil {
		return err
	}
	defer func() {
		if err := worker.Stop(); err != nil {
			slog.Warn("stopping pose worker", "error", err)
		}
	}()

	window := display.NewWindow(cfg.Display.WindowTitle)
	pipeline, err := core.New(core.Config{
		Source:     camera,
		Model:      worker,
		Classifier: classify.NewRules(cfg.Model.Confidence),
		Display:    window,
		Threshold:  cfg.Model.Confidence,
	})
	if err != nil {
		window.Close()
		return err
	}

	runErr := pipeline.Run(ctx)

	stats := pipeline.Stats()
	slog.Info("session summary",
		"frames", stats.Frames,
		"fps", stats.FPS,
		"classifier_errors", stats.ClassifierErrors,
	)
	return runErr
}
