package stack

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/seedlabs/formseed/internal/logger"
	"github.com/seedlabs/formseed/internal/process"
)

func TestConfig_ApplyDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	if cfg.RepoURL != "https://github.com/formbricks/formbricks.git" {
		t.Errorf("RepoURL = %q", cfg.RepoURL)
	}
	if cfg.Dir != "formbricks" || cfg.Project != "formbricks" {
		t.Errorf("Dir = %q, Project = %q", cfg.Dir, cfg.Project)
	}
}

func fakeManager(run func(ctx context.Context, cmd process.Command) (*process.Result, error)) *Manager {
	cfg := Config{Dir: "checkout", Project: "demo"}
	return &Manager{
		cfg: cfg,
		log: logger.NewDefault("test").WithComponent("stack"),
		run: run,
	}
}

func TestCompose_BuildsCommand(t *testing.T) {
	var got process.Command
	m := fakeManager(func(_ context.Context, cmd process.Command) (*process.Result, error) {
		got = cmd
		return &process.Result{}, nil
	})

	if err := m.compose(context.Background(), "up", "-d"); err != nil {
		t.Fatalf("compose() error: %v", err)
	}
	if got.Binary != "docker" {
		t.Errorf("Binary = %q, want docker", got.Binary)
	}
	want := "compose -p demo up -d"
	if strings.Join(got.Args, " ") != want {
		t.Errorf("Args = %v, want %q", got.Args, want)
	}
	if got.Dir != "checkout" {
		t.Errorf("Dir = %q, want checkout", got.Dir)
	}
}

func TestCompose_SurfacesStderr(t *testing.T) {
	m := fakeManager(func(_ context.Context, _ process.Command) (*process.Result, error) {
		return &process.Result{
			Stderr:   []byte("no compose file found\n"),
			ExitCode: 1,
		}, fmt.Errorf("process: exit code 1")
	})

	err := m.compose(context.Background(), "down")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "no compose file found") {
		t.Errorf("err = %v, want stderr included", err)
	}
}

func TestGit_BuildsCommand(t *testing.T) {
	var got process.Command
	m := fakeManager(func(_ context.Context, cmd process.Command) (*process.Result, error) {
		got = cmd
		return &process.Result{}, nil
	})

	if err := m.git(context.Background(), "clone", "--depth", "1", "repo", "dir"); err != nil {
		t.Fatalf("git() error: %v", err)
	}
	if got.Binary != "git" || got.Args[0] != "clone" {
		t.Errorf("command = %s %v", got.Binary, got.Args)
	}
}

func TestDown_MissingDirIsNoOp(t *testing.T) {
	calls := 0
	m := fakeManager(func(_ context.Context, _ process.Command) (*process.Result, error) {
		calls++
		return &process.Result{}, nil
	})
	m.cfg.Dir = "definitely/does/not/exist"

	if err := m.Down(context.Background()); err != nil {
		t.Fatalf("Down() error: %v", err)
	}
	if calls != 0 {
		t.Errorf("subprocess calls = %d, want 0", calls)
	}
}
