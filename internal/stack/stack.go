// Package stack manages the target application's local container stack:
// cloning its repository, bringing the compose stack up and down, and
// reporting container status through the Docker Engine SDK.
package stack

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/client"

	"github.com/seedlabs/formseed/internal/errors"
	"github.com/seedlabs/formseed/internal/logger"
	"github.com/seedlabs/formseed/internal/process"
)

// composeProjectLabel is the label compose stamps on every container it creates.
const composeProjectLabel = "com.docker.compose.project"

// Config holds settings for the target application stack.
type Config struct {
	// RepoURL is the git repository to clone when Dir is absent.
	RepoURL string `mapstructure:"repo_url"`
	// Dir is the local checkout directory containing the compose file.
	Dir string `mapstructure:"dir"`
	// Project is the compose project name, used to identify containers.
	Project string `mapstructure:"project"`
	// DockerHost overrides the Docker daemon address.
	DockerHost string `mapstructure:"docker_host"`
}

// ApplyDefaults fills in zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.RepoURL == "" {
		c.RepoURL = "https://github.com/formbricks/formbricks.git"
	}
	if c.Dir == "" {
		c.Dir = "formbricks"
	}
	if c.Project == "" {
		c.Project = "formbricks"
	}
}

// ContainerInfo describes one container belonging to the stack.
type ContainerInfo struct {
	ID      string
	Name    string
	Image   string
	Status  string
	Created time.Time
}

// Manager drives the stack. Compose operations run the docker CLI as a
// subprocess; status queries go through the Engine SDK directly.
type Manager struct {
	docker *client.Client
	cfg    Config
	log    *logger.Logger
	run    func(ctx context.Context, cmd process.Command) (*process.Result, error)
}

// New creates a stack manager.
func New(cfg Config, log *logger.Logger) (*Manager, error) {
	cfg.ApplyDefaults()
	if log == nil {
		log = logger.NewDefault("formseed")
	}

	opts := []client.Opt{client.WithAPIVersionNegotiation()}
	if cfg.DockerHost != "" {
		opts = append(opts, client.WithHost(cfg.DockerHost))
	} else {
		opts = append(opts, client.FromEnv)
	}

	cli, err := client.NewClientWithOpts(opts...)
	if err != nil {
		return nil, fmt.Errorf("stack: create docker client: %w", err)
	}

	return &Manager{
		docker: cli,
		cfg:    cfg,
		log:    log.WithComponent("stack"),
		run:    process.Run,
	}, nil
}

// Close releases the Docker client.
func (m *Manager) Close() error {
	return m.docker.Close()
}

// HealthCheck verifies the Docker daemon is reachable.
func (m *Manager) HealthCheck(ctx context.Context) error {
	if _, err := m.docker.Ping(ctx); err != nil {
		return errors.DependencyMissing("docker daemon", "is Docker running?").WithCause(err)
	}
	return nil
}

// Up clones the application repository if needed and starts the compose
// stack detached. The stack takes several minutes to become ready; use
// the seeder's readiness polling before talking to it.
func (m *Manager) Up(ctx context.Context) error {
	if err := process.Require("git", "install git to clone the application repository"); err != nil {
		return err
	}
	if err := process.Require("docker", "install Docker to run the application stack"); err != nil {
		return err
	}
	if err := m.HealthCheck(ctx); err != nil {
		return err
	}

	if _, err := os.Stat(m.cfg.Dir); os.IsNotExist(err) {
		m.log.Info("cloning application repository", logger.Fields(
			"repo", m.cfg.RepoURL,
			logger.FieldPath, m.cfg.Dir,
		))
		if err := m.git(ctx, "clone", "--depth", "1", m.cfg.RepoURL, m.cfg.Dir); err != nil {
			return err
		}
	} else if err != nil {
		return fmt.Errorf("stack: stat %s: %w", m.cfg.Dir, err)
	}

	m.log.Info("starting stack", logger.Fields("project", m.cfg.Project))
	if err := m.compose(ctx, "up", "-d"); err != nil {
		return err
	}
	m.log.Info("stack is starting; allow several minutes for first boot")
	return nil
}

// Down stops and removes the compose stack. A missing checkout directory
// means there is nothing to stop.
func (m *Manager) Down(ctx context.Context) error {
	if _, err := os.Stat(m.cfg.Dir); os.IsNotExist(err) {
		m.log.Info("checkout directory not found, nothing to stop", logger.Fields(logger.FieldPath, m.cfg.Dir))
		return nil
	}

	if err := process.Require("docker", "install Docker to manage the application stack"); err != nil {
		return err
	}

	m.log.Info("stopping stack", logger.Fields("project", m.cfg.Project))
	if err := m.compose(ctx, "down"); err != nil {
		return err
	}
	m.log.Info("stack stopped and removed")
	return nil
}

// Status lists the stack's containers via the compose project label.
func (m *Manager) Status(ctx context.Context) ([]ContainerInfo, error) {
	f := filters.NewArgs()
	f.Add("label", fmt.Sprintf("%s=%s", composeProjectLabel, m.cfg.Project))

	containers, err := m.docker.ContainerList(ctx, container.ListOptions{
		All:     true,
		Filters: f,
	})
	if err != nil {
		return nil, fmt.Errorf("stack: list containers: %w", err)
	}

	infos := make([]ContainerInfo, len(containers))
	for i, c := range containers {
		name := ""
		if len(c.Names) > 0 {
			name = strings.TrimPrefix(c.Names[0], "/")
		}
		infos[i] = ContainerInfo{
			ID:      c.ID,
			Name:    name,
			Image:   c.Image,
			Status:  c.State,
			Created: time.Unix(c.Created, 0),
		}
	}
	return infos, nil
}

// compose runs a docker compose subcommand in the checkout directory.
func (m *Manager) compose(ctx context.Context, args ...string) error {
	cmd := process.Command{
		Binary: "docker",
		Args:   append([]string{"compose", "-p", m.cfg.Project}, args...),
		Dir:    m.cfg.Dir,
	}
	result, err := m.run(ctx, cmd)
	if err != nil {
		return fmt.Errorf("stack: docker compose %s: %w: %s", strings.Join(args, " "), err, strings.TrimSpace(string(result.Stderr)))
	}
	return nil
}

// git runs a git subcommand.
func (m *Manager) git(ctx context.Context, args ...string) error {
	result, err := m.run(ctx, process.Command{Binary: "git", Args: args})
	if err != nil {
		return fmt.Errorf("stack: git %s: %w: %s", args[0], err, strings.TrimSpace(string(result.Stderr)))
	}
	return nil
}
