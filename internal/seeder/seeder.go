// Package seeder drives a target service from "possibly not yet ready"
// to "populated with a bundle": it polls the health endpoint at a fixed
// interval, then submits users, surveys, and each survey's responses in
// bundle order. Individual item failures are reported and skipped; only
// readiness exhaustion aborts a run.
package seeder

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/seedlabs/formseed/internal/errors"
	"github.com/seedlabs/formseed/internal/logger"
	"github.com/seedlabs/formseed/internal/seed"
)

// API is the narrow surface the seeder needs from the target service.
// *formbricks.Client satisfies it; tests substitute fakes.
type API interface {
	// Probe performs a single bounded health check. nil means ready.
	Probe(ctx context.Context) error
	// CreateUser creates a user via the authenticated management API.
	CreateUser(ctx context.Context, user seed.User) error
	// CreateSurvey creates a survey and returns its server-assigned id.
	CreateSurvey(ctx context.Context, survey seed.Survey) (string, error)
	// CreateResponse submits a response scoped to a survey id.
	CreateResponse(ctx context.Context, surveyID string, response seed.Response) error
}

// State identifies the stage a seeding run is in.
type State string

const (
	StateNotStarted      State = "not_started"
	StateWaitingForReady State = "waiting_for_ready"
	StateSeedingUsers    State = "seeding_users"
	StateSeedingSurveys  State = "seeding_surveys"
	StateDone            State = "done"
	StateAborted         State = "aborted"
)

// Config controls readiness polling. The defaults preserve the
// 10-attempts-every-10-seconds contract for a slow-starting local target.
type Config struct {
	// MaxAttempts bounds the number of health probes. Defaults to 10.
	MaxAttempts int
	// Interval is the fixed delay between failed probes. Defaults to 10s.
	Interval time.Duration
}

// ApplyDefaults sets default values for unset config fields.
func (c *Config) ApplyDefaults() {
	if c.MaxAttempts == 0 {
		c.MaxAttempts = 10
	}
	if c.Interval == 0 {
		c.Interval = 10 * time.Second
	}
}

// Report summarizes one seeding run.
type Report struct {
	// RunID uniquely identifies the run in log output.
	RunID string
	// State is the terminal state of the run.
	State State
	// ProbeAttempts counts health probes issued during readiness polling.
	ProbeAttempts int
	// UsersCreated and UsersFailed count user submissions.
	UsersCreated int
	UsersFailed  int
	// SurveysCreated and SurveysFailed count survey submissions.
	SurveysCreated int
	SurveysFailed  int
	// ResponsesCreated and ResponsesFailed count response submissions.
	ResponsesCreated int
	ResponsesFailed  int
	// Failures lists every recoverable item failure, in occurrence order.
	Failures []error
}

// Seeder runs the seeding workflow. It holds no state across runs.
type Seeder struct {
	api   API
	cfg   Config
	log   *logger.Logger
	sleep func(ctx context.Context, d time.Duration) error
}

// New creates a seeder for the given target API.
func New(api API, cfg Config, log *logger.Logger) *Seeder {
	cfg.ApplyDefaults()
	if log == nil {
		log = logger.NewDefault("formseed")
	}
	return &Seeder{
		api:   api,
		cfg:   cfg,
		log:   log.WithComponent("seeder"),
		sleep: sleepContext,
	}
}

// Run executes a full seeding run: wait for readiness, then submit the
// bundle in order. The returned Report is valid even on error; the error
// is non-nil only for fatal conditions (readiness exhaustion).
func (s *Seeder) Run(ctx context.Context, bundle *seed.Bundle) (*Report, error) {
	report := &Report{
		RunID: uuid.NewString(),
		State: StateNotStarted,
	}
	log := s.log.WithFields(logger.Fields(logger.FieldRunID, report.RunID))

	users, surveys, responses := bundle.Counts()
	log.Info("starting seeding run", logger.Fields(
		"users", users,
		"surveys", surveys,
		"responses", responses,
	))

	report.State = StateWaitingForReady
	if err := s.waitUntilReady(ctx, report); err != nil {
		report.State = StateAborted
		return report, err
	}

	report.State = StateSeedingUsers
	s.seedUsers(ctx, bundle, report, log)

	report.State = StateSeedingSurveys
	s.seedSurveys(ctx, bundle, report, log)

	report.State = StateDone
	log.Info("seeding run complete", logger.Fields(
		"users_created", report.UsersCreated,
		"users_failed", report.UsersFailed,
		"surveys_created", report.SurveysCreated,
		"surveys_failed", report.SurveysFailed,
		"responses_created", report.ResponsesCreated,
		"responses_failed", report.ResponsesFailed,
	))
	return report, nil
}

// WaitUntilReady polls the health probe until it succeeds or the attempts
// are exhausted. Probe errors count as "not yet ready". Fixed interval,
// no backoff: the target is a slow-starting local service.
func (s *Seeder) WaitUntilReady(ctx context.Context) error {
	return s.waitUntilReady(ctx, &Report{})
}

func (s *Seeder) waitUntilReady(ctx context.Context, report *Report) error {
	for attempt := 1; attempt <= s.cfg.MaxAttempts; attempt++ {
		report.ProbeAttempts++
		err := s.api.Probe(ctx)
		if err == nil {
			s.log.Info("target is ready", logger.Fields(logger.FieldAttempt, attempt))
			return nil
		}

		s.log.Warn("target not ready yet", logger.Fields(
			logger.FieldAttempt, attempt,
			"max_attempts", s.cfg.MaxAttempts,
			"retry_in", s.cfg.Interval.String(),
			"error", err.Error(),
		))

		if attempt == s.cfg.MaxAttempts {
			break
		}
		if err := s.sleep(ctx, s.cfg.Interval); err != nil {
			return err
		}
	}
	return errors.ServiceUnavailable("target", s.cfg.MaxAttempts)
}

// seedUsers submits every user in bundle order. One user's failure never
// aborts the batch.
func (s *Seeder) seedUsers(ctx context.Context, bundle *seed.Bundle, report *Report, log *logger.Logger) {
	log.Info("seeding users", logger.Fields("count", len(bundle.Users)))

	for _, user := range bundle.Users {
		if err := s.api.CreateUser(ctx, user); err != nil {
			failure := errors.ItemCreationFailed("user", user.Email, err)
			report.UsersFailed++
			report.Failures = append(report.Failures, failure)
			log.Warn("failed to create user", logger.Fields(logger.FieldEmail, user.Email, "error", err.Error()))
			continue
		}
		report.UsersCreated++
		log.Info("created user", logger.Fields(logger.FieldEmail, user.Email))
	}
}

// seedSurveys submits every survey in bundle order, then that survey's
// responses. A failed survey creation skips its responses entirely;
// response failures are reported individually and never block later
// responses or surveys.
func (s *Seeder) seedSurveys(ctx context.Context, bundle *seed.Bundle, report *Report, log *logger.Logger) {
	log.Info("seeding surveys and responses", logger.Fields("count", len(bundle.Surveys)))

	for _, survey := range bundle.Surveys {
		id, err := s.api.CreateSurvey(ctx, survey)
		if err != nil {
			failure := errors.ItemCreationFailed("survey", survey.Name, err)
			report.SurveysFailed++
			report.Failures = append(report.Failures, failure)
			log.Warn("failed to create survey", logger.Fields(logger.FieldSurvey, survey.Name, "error", err.Error()))
			continue
		}
		report.SurveysCreated++
		log.Info("created survey", logger.Fields(logger.FieldSurvey, survey.Name, logger.FieldSurveyID, id))

		for _, response := range survey.Responses {
			if err := s.api.CreateResponse(ctx, id, response); err != nil {
				failure := errors.ItemCreationFailed("response", id, err)
				report.ResponsesFailed++
				report.Failures = append(report.Failures, failure)
				log.Warn("failed to submit response", logger.Fields(logger.FieldSurveyID, id, "error", err.Error()))
				continue
			}
			report.ResponsesCreated++
			log.Info("submitted response", logger.Fields(logger.FieldSurveyID, id))
		}
	}
}

// sleepContext waits for d or until the context is canceled.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
