package parallel

import (
	"errors"
	"fmt"
	"runtime"
	"sync/atomic"
	"testing"
	"time"
)

func TestNewWorkerPool(t *testing.T) {
	tests := []struct {
		n    int
		want int
	}{
		{4, 4},
		{1, 1},
		{0, runtime.GOMAXPROCS(0)},
		{-3, runtime.GOMAXPROCS(0)},
	}
	for _, tt := range tests {
		p := NewWorkerPool(tt.n)
		if got := p.Workers(); got != tt.want {
			t.Errorf("NewWorkerPool(%d).Workers() = %d, want %d", tt.n, got, tt.want)
		}
		if !p.IsRunning() {
			t.Errorf("NewWorkerPool(%d) not running", tt.n)
		}
		p.Close()
	}
}

func TestExecuteAll(t *testing.T) {
	p := NewWorkerPool(4)
	defer p.Close()

	var n atomic.Int64
	tasks := make([]func(), 257)
	for i := range tasks {
		tasks[i] = func() { n.Add(1) }
	}
	p.ExecuteAll(tasks)
	if n.Load() != int64(len(tasks)) {
		t.Errorf("ran %d tasks, want %d", n.Load(), len(tasks))
	}

	p.ExecuteAll(nil)
}

func TestExecuteAll_Closed(t *testing.T) {
	p := NewWorkerPool(2)
	p.Close()
	p.Close()
	if p.IsRunning() {
		t.Fatal("IsRunning() = true after Close")
	}

	var n atomic.Int64
	p.ExecuteAll([]func(){func() { n.Add(1) }, func() { n.Add(1) }})
	if n.Load() != 2 {
		t.Errorf("closed pool ran %d tasks, want 2", n.Load())
	}
}

func TestExecuteAll_ConcurrentClose(t *testing.T) {
	for range 200 {
		p := NewWorkerPool(2)
		var n atomic.Int64
		tasks := make([]func(), 64)
		for i := range tasks {
			tasks[i] = func() { n.Add(1) }
		}

		done := make(chan struct{})
		go func() {
			defer close(done)
			p.ExecuteAll(tasks)
		}()
		p.Close()

		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatal("ExecuteAll did not return after a concurrent Close")
		}
		if n.Load() != int64(len(tasks)) {
			t.Fatalf("ran %d tasks, want %d", n.Load(), len(tasks))
		}
	}
}

func TestExecuteAll_UnevenTasks(t *testing.T) {
	p := NewWorkerPool(4)
	defer p.Close()

	tasks := make([]func(), 16)
	for i := range tasks {
		if i%4 == 0 {
			tasks[i] = func() { time.Sleep(20 * time.Millisecond) }
		} else {
			tasks[i] = func() {}
		}
	}
	start := time.Now()
	p.ExecuteAll(tasks)
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("ExecuteAll took %v", elapsed)
	}
}

func TestMap(t *testing.T) {
	p := NewWorkerPool(3)
	defer p.Close()

	widths := make([]float64, 50)
	for i := range widths {
		widths[i] = float64(i) * 10
	}
	for _, pool := range []*WorkerPool{p, nil} {
		got := Map(pool, widths, func(i int, w float64) int { return int(w) / 10 })
		for i, v := range got {
			if v != i {
				t.Errorf("Map(pool=%v)[%d] = %d, want %d", pool != nil, i, v, i)
			}
		}
	}
}

func TestMapErr(t *testing.T) {
	p := NewWorkerPool(4)
	defer p.Close()

	labels := []string{"A", "B", "C", "D", "E"}
	out, err := MapErr(p, labels, func(i int, s string) (string, error) {
		return fmt.Sprintf("%d:%s", i, s), nil
	})
	if err != nil {
		t.Fatalf("MapErr() error = %v", err)
	}
	if out[4] != "4:E" {
		t.Errorf("out[4] = %q, want 4:E", out[4])
	}

	errB, errD := errors.New("B too wide"), errors.New("D too wide")
	out, err = MapErr(p, labels, func(_ int, s string) (string, error) {
		switch s {
		case "B":
			return "", errB
		case "D":
			return "", errD
		}
		return s, nil
	})
	if !errors.Is(err, errB) {
		t.Errorf("MapErr() error = %v, want the first failing item", err)
	}
	if out != nil {
		t.Errorf("MapErr() results = %v, want nil on failure", out)
	}
}
