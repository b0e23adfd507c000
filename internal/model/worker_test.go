package model_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gocv.io/x/gocv"

	"github.com/qidili2/Cv-on-human-on-camera/internal/model"
)

// stubWorker writes an executable shell script that answers every request
// line with the given canned response line.
func stubWorker(t *testing.T, response string) string {
	t.Helper()
	script := "#!/bin/sh\nwhile read line; do\n  echo '" + response + "'\ndone\n"
	path := filepath.Join(t.TempDir(), "worker.sh")
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub worker: %v", err)
	}
	return path
}

func testMat(t *testing.T) gocv.Mat {
	t.Helper()
	mat := gocv.NewMatWithSize(4, 4, gocv.MatTypeCV8UC3)
	t.Cleanup(func() { mat.Close() })
	return mat
}

// TestWorkerRoundTrip validates the request/response protocol: one frame in,
// one parsed detection list out, clean Stop.
func TestWorkerRoundTrip(t *testing.T) {
	cmd := stubWorker(t, `{"persons":[[[100,200,0.9],[110,210,0.8]]]}`)
	w, err := model.NewWorker(model.WorkerConfig{
		Command:        cmd,
		ModelPath:      "test-pose.onnx",
		RequestTimeout: 5 * time.Second,
	})
	if err != nil {
		t.Fatalf("NewWorker failed: %v", err)
	}

	ctx := context.Background()
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer w.Stop()

	persons, err := w.Infer(ctx, testMat(t), 0.3)
	if err != nil {
		t.Fatalf("Infer failed: %v", err)
	}
	if len(persons) != 1 {
		t.Fatalf("parsed %d persons, want 1", len(persons))
	}
	if len(persons[0]) != 2 {
		t.Fatalf("first person has %d joints, want 2", len(persons[0]))
	}
	kp := persons[0][0]
	if kp.X != 100 || kp.Y != 200 || kp.Confidence != 0.9 {
		t.Errorf("keypoint = %+v, want {100 200 0.9}", kp)
	}

	if err := w.Stop(); err != nil {
		t.Errorf("Stop failed: %v", err)
	}
	// Idempotent.
	if err := w.Stop(); err != nil {
		t.Errorf("second Stop failed: %v", err)
	}
}

// TestWorkerReportedError validates a worker-side error surfaces as an
// inference failure.
func TestWorkerReportedError(t *testing.T) {
	cmd := stubWorker(t, `{"error":"model not loaded"}`)
	w, err := model.NewWorker(model.WorkerConfig{Command: cmd, ModelPath: "test-pose.onnx"})
	if err != nil {
		t.Fatalf("NewWorker failed: %v", err)
	}

	ctx := context.Background()
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer w.Stop()

	_, err = w.Infer(ctx, testMat(t), 0.3)
	if err == nil || !strings.Contains(err.Error(), "model not loaded") {
		t.Fatalf("err = %v, want worker error surfaced", err)
	}
}

func TestNewWorkerValidation(t *testing.T) {
	if _, err := model.NewWorker(model.WorkerConfig{ModelPath: "x"}); err == nil {
		t.Error("missing command accepted")
	}
	if _, err := model.NewWorker(model.WorkerConfig{Command: "x"}); err == nil {
		t.Error("missing model path accepted")
	}
}
