package model

import (
	"bufio"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"
	"sync"
	"time"

	"gocv.io/x/gocv"

	"github.com/qidili2/Cv-on-human-on-camera/internal/types"
)

const (
	defaultRequestTimeout = 10 * time.Second
	stopTimeout           = 2 * time.Second

	// maxResponseBytes bounds a single worker response line. Keypoint
	// payloads are small; anything bigger is a protocol violation.
	maxResponseBytes = 4 << 20
)

// WorkerConfig configures the external pose worker process.
type WorkerConfig struct {
	// Command launches the worker, e.g. "models/run_pose_worker.sh".
	Command string
	// ModelPath is passed to the worker as --model.
	ModelPath string
	// RequestTimeout bounds one inference round trip (default 10s).
	RequestTimeout time.Duration
}

// Worker runs an external ONNX pose worker as a subprocess and speaks
// base64-framed JSON over its stdin/stdout, one request and one response
// line per frame. Worker stderr is relayed into slog.
//
// Infer is serialized: the protocol is strict request/response and the
// pipeline is single-threaded anyway.
type Worker struct {
	cfg WorkerConfig

	mu      sync.Mutex
	cmd     *exec.Cmd
	stdin   io.WriteCloser
	scanner *bufio.Scanner
	started bool
	stopped bool
	done    chan struct{} // closed when the process exits
}

type inferRequest struct {
	FrameData  string  `json:"frame_data"` // base64 BGR24 pixels
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	Confidence float64 `json:"confidence"`
}

type inferResponse struct {
	// Persons is a list of people, each 17 keypoints of [x, y, confidence].
	Persons  [][][3]float64 `json:"persons"`
	Error    string         `json:"error,omitempty"`
	TimingMS float64        `json:"timing_ms,omitempty"`
}

// NewWorker validates the config fail-fast and returns an unstarted worker.
func NewWorker(cfg WorkerConfig) (*Worker, error) {
	if cfg.Command == "" {
		return nil, fmt.Errorf("model: worker command is required")
	}
	if cfg.ModelPath == "" {
		return nil, fmt.Errorf("model: model path is required")
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaultRequestTimeout
	}
	return &Worker{cfg: cfg, done: make(chan struct{})}, nil
}

// Start launches the worker process and its stderr relay.
func (w *Worker) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started {
		return fmt.Errorf("model: worker already started")
	}

	cmd := exec.CommandContext(ctx, w.cfg.Command, "--model", w.cfg.ModelPath)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("model: stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("model: stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("model: stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("model: start worker %q: %w", w.cfg.Command, err)
	}

	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 64*1024), maxResponseBytes)

	w.cmd = cmd
	w.stdin = stdin
	w.scanner = scanner
	w.started = true

	go w.relayStderr(stderr)
	go w.waitProcess(ctx)

	slog.Info("pose worker started",
		"command", w.cfg.Command,
		"model", w.cfg.ModelPath,
		"pid", cmd.Process.Pid,
	)
	return nil
}

// Infer implements PoseModel: it ships the frame to the worker and blocks
// for the matching response line.
func (w *Worker) Infer(ctx context.Context, img gocv.Mat, threshold float64) ([]types.Person, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.started || w.stopped {
		return nil, fmt.Errorf("model: worker not running")
	}

	pixels, err := img.ToBytes()
	if err != nil {
		return nil, fmt.Errorf("model: encode frame: %w", err)
	}
	req := inferRequest{
		FrameData:  base64.StdEncoding.EncodeToString(pixels),
		Width:      img.Cols(),
		Height:     img.Rows(),
		Confidence: threshold,
	}
	if err := json.NewEncoder(w.stdin).Encode(req); err != nil {
		return nil, fmt.Errorf("model: send frame: %w", err)
	}

	line, err := w.readLine(ctx)
	if err != nil {
		return nil, err
	}

	var resp inferResponse
	if err := json.Unmarshal(line, &resp); err != nil {
		return nil, fmt.Errorf("model: parse response %q: %w", truncate(line, 120), err)
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("model: worker error: %s", resp.Error)
	}

	persons := make([]types.Person, 0, len(resp.Persons))
	for _, raw := range resp.Persons {
		p := make(types.Person, len(raw))
		for i, kp := range raw {
			p[i] = types.Keypoint{X: kp[0], Y: kp[1], Confidence: kp[2]}
		}
		persons = append(persons, p)
	}
	return persons, nil
}

// readLine reads one response line, bounded by the request timeout, the
// context and process death.
func (w *Worker) readLine(ctx context.Context) ([]byte, error) {
	type scanResult struct {
		line []byte
		err  error
	}
	ch := make(chan scanResult, 1)
	go func() {
		if w.scanner.Scan() {
			// Copy: the scanner reuses its buffer on the next Scan.
			line := make([]byte, len(w.scanner.Bytes()))
			copy(line, w.scanner.Bytes())
			ch <- scanResult{line: line}
			return
		}
		err := w.scanner.Err()
		if err == nil {
			err = io.EOF
		}
		ch <- scanResult{err: err}
	}()

	select {
	case res := <-ch:
		if res.err != nil {
			return nil, fmt.Errorf("model: read response: %w", res.err)
		}
		return res.line, nil
	case <-time.After(w.cfg.RequestTimeout):
		return nil, fmt.Errorf("model: inference timed out after %s", w.cfg.RequestTimeout)
	case <-ctx.Done():
		return nil, fmt.Errorf("model: inference cancelled: %w", ctx.Err())
	case <-w.done:
		return nil, fmt.Errorf("model: worker process exited")
	}
}

// Stop closes stdin to let the worker exit, then kills it if it lingers.
// Idempotent.
func (w *Worker) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.started || w.stopped {
		w.stopped = true
		return nil
	}
	w.stopped = true

	w.stdin.Close()
	select {
	case <-w.done:
		return nil
	case <-time.After(stopTimeout):
		slog.Warn("pose worker did not exit, killing", "pid", w.cmd.Process.Pid)
		if err := w.cmd.Process.Kill(); err != nil {
			return fmt.Errorf("model: kill worker: %w", err)
		}
		<-w.done
		return nil
	}
}

// relayStderr maps the worker's stderr lines onto slog levels.
func (w *Worker) relayStderr(r io.Reader) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.Contains(line, "[ERROR]") || strings.Contains(line, "[CRITICAL]"):
			slog.Error("pose worker", "line", line)
		case strings.Contains(line, "[WARNING]") || strings.Contains(line, "[WARN]"):
			slog.Warn("pose worker", "line", line)
		default:
			slog.Debug("pose worker", "line", line)
		}
	}
}

// waitProcess reaps the worker so it never zombies, and flags exit.
func (w *Worker) waitProcess(ctx context.Context) {
	err := w.cmd.Wait()
	close(w.done)
	if err != nil && ctx.Err() == nil {
		slog.Error("pose worker exited unexpectedly", "error", err)
		return
	}
	slog.Debug("pose worker exited", "error", err)
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
