// Package jobs contains the scheduled background work of the marketplace.
package jobs

import (
	"context"
	"errors"
	"log/slog"

	"marketplace/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// AgentAssignmentJob runs delivery assignment every second: the oldest
// accepted order is matched with the earliest registered available agent.
// It is also the retry loop for backlog: an order that found no agent stays
// Accepted and is retried on the next tick.
type AgentAssignmentJob struct {
	handler commands.AssignAgentCommandHandler
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewAgentAssignmentJob creates a new job for delivery assignment.
func NewAgentAssignmentJob(handler commands.AssignAgentCommandHandler, logger *slog.Logger) *AgentAssignmentJob {
	return &AgentAssignmentJob{
		handler: handler,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.With("component", "agent_assignment_job"),
	}
}

// Start begins the assignment job to run every second.
func (j *AgentAssignmentJob) Start() error {
	_, err := j.cron.AddFunc("* * * * * *", func() {
		ctx := context.Background()
		cmd := commands.NewAssignAgentCommand()

		if err := j.handler.Handle(ctx, cmd); err != nil {
			// An empty backlog and an empty agent pool are expected outcomes,
			// not failures.
			if !errors.Is(err, commands.ErrNoOrderFound) && !errors.Is(err, commands.ErrNoAgentAvailable) {
				j.logger.ErrorContext(ctx, "Agent assignment job failed", "error", err)
			}
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Agent assignment job started (running every second)")
	return nil
}

// Stop stops the assignment job.
func (j *AgentAssignmentJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Agent assignment job stopped")
}
