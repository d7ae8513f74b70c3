package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

type funcProvider struct {
	name string
	fn   func(ctx context.Context, prompt string) Outcome
}

func (f funcProvider) Name() string { return f.name }

func (f funcProvider) GenerateText(ctx context.Context, prompt string) Outcome {
	return f.fn(ctx, prompt)
}

func echo(name string) funcProvider {
	return funcProvider{name: name, fn: func(_ context.Context, prompt string) Outcome {
		return Succeeded(name + ":" + prompt)
	}}
}

func TestDispatcher_FanOut_IndexAligned(t *testing.T) {
	providers := []Provider{echo("a"), echo("b"), echo("c")}

	outcomes := NewDispatcher(0, 0).FanOut(context.Background(), StageGenerate, providers, "p")

	for i, want := range []string{"a:p", "b:p", "c:p"} {
		if outcomes[i].Text != want {
			t.Errorf("outcomes[%d]: expected %q, got %q", i, want, outcomes[i].Text)
		}
	}
}

func TestDispatcher_FanOut_FailureDoesNotShortCircuit(t *testing.T) {
	var finished atomic.Int32
	slow := funcProvider{name: "slow", fn: func(context.Context, string) Outcome {
		time.Sleep(20 * time.Millisecond)
		finished.Add(1)
		return Succeeded("done")
	}}
	bad := funcProvider{name: "bad", fn: func(context.Context, string) Outcome {
		return Failed("quota exceeded")
	}}

	outcomes := NewDispatcher(0, 0).FanOut(context.Background(), StageGenerate, []Provider{bad, slow}, "p")

	if finished.Load() != 1 {
		t.Error("expected FanOut to wait for the slow provider")
	}
	if outcomes[0].DisplayText() != "quota exceeded" {
		t.Errorf("expected error display text, got %q", outcomes[0].DisplayText())
	}
	if outcomes[1].DisplayText() != "done" {
		t.Errorf("expected 'done', got %q", outcomes[1].DisplayText())
	}
}

func TestDispatcher_Call_RecoversPanic(t *testing.T) {
	boom := funcProvider{name: "boom", fn: func(context.Context, string) Outcome {
		panic("kaboom")
	}}

	out := NewDispatcher(0, 0).Call(context.Background(), StageJudge, boom, "p")

	if !strings.Contains(out.Err, "kaboom") {
		t.Errorf("expected panic text in error, got %q", out.Err)
	}
}

func TestDispatcher_Call_Timeout(t *testing.T) {
	wait := funcProvider{name: "wait", fn: func(ctx context.Context, _ string) Outcome {
		<-ctx.Done()
		return Failed("request failed: %v", ctx.Err())
	}}

	out := NewDispatcher(0, 10*time.Millisecond).Call(context.Background(), StageGenerate, wait, "p")

	if !strings.Contains(out.Err, context.DeadlineExceeded.Error()) {
		t.Errorf("expected deadline error, got %q", out.Err)
	}
}

func TestDispatcher_Call_CanceledWhileWaitingForSlot(t *testing.T) {
	d := NewDispatcher(1, 0)
	release := make(chan struct{})
	started := make(chan struct{})
	hold := funcProvider{name: "hold", fn: func(context.Context, string) Outcome {
		close(started)
		<-release
		return Succeeded("held")
	}}

	go d.Call(context.Background(), StageGenerate, hold, "p")
	<-started

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	out := d.Call(ctx, StageGenerate, echo("queued"), "p")
	close(release)

	if !strings.HasPrefix(out.Err, "waiting for a call slot") {
		t.Errorf("expected slot wait failure, got %q", out.Err)
	}
}

func TestFailed_NeverEmpty(t *testing.T) {
	if out := Failed(""); out.Err != "unknown error" {
		t.Errorf("expected 'unknown error', got %q", out.Err)
	}
	if out := Failed("%v", errors.New("x")); out.Err != "x" {
		t.Errorf("expected 'x', got %q", out.Err)
	}
}

func TestNew_Kinds(t *testing.T) {
	for _, kind := range Kinds {
		t.Run(kind, func(t *testing.T) {
			p, err := New(context.Background(), Config{Kind: kind})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if p.Name() != kind {
				t.Errorf("expected name to default to %q, got %q", kind, p.Name())
			}
		})
	}
}

func TestNew_UnknownKind(t *testing.T) {
	_, err := New(context.Background(), Config{Name: "x", Kind: "bard"})
	if !errors.Is(err, ErrUnknownKind) {
		t.Errorf("expected ErrUnknownKind, got %v", err)
	}
	if err != nil && !strings.Contains(err.Error(), fmt.Sprintf("%q", "bard")) {
		t.Errorf("expected kind in error, got %v", err)
	}
}
