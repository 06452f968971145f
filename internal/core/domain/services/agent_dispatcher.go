package services

import (
	"errors"
	"time"

	"marketplace/internal/core/domain/model/actor"
	"marketplace/internal/core/domain/model/agent"
	"marketplace/internal/core/domain/model/order"
)

// ErrAgentNotFound is returned when no agent can take the order: either no
// agents were provided or none of them is Available. The order then stays
// Accepted until an agent frees up and assignment is retried.
var ErrAgentNotFound = errors.New("no available agent found")

// AgentDispatcher is the domain service that binds an accepted order to a
// delivery agent. The policy is deterministic: first available agent,
// preferring the earliest registration. Assignment is atomic across both
// aggregates: the agent is reserved and the order bound, or neither changes.
type AgentDispatcher struct{}

// NewAgentDispatcher creates a new AgentDispatcher instance.
func NewAgentDispatcher() AgentDispatcher {
	return AgentDispatcher{}
}

// Dispatch selects an agent for the order, reserves it, and applies the
// Accepted to Assigned transition on behalf of the system actor. Returns the
// chosen agent, or ErrAgentNotFound when nobody is available.
func (d AgentDispatcher) Dispatch(o *order.Order, agents []*agent.DeliveryAgent, now time.Time) (*agent.DeliveryAgent, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}

	best, err := d.findFirstAvailable(agents)
	if err != nil {
		return nil, err
	}

	if err = best.Reserve(o.ID()); err != nil {
		return nil, err
	}

	if err = o.AssignAgent(best.ID(), actor.SystemActor(), now); err != nil {
		// Undo the reservation so a failed assignment leaves the agent free.
		_ = best.Release(o.ID())
		return nil, err
	}

	return best, nil
}

// findFirstAvailable returns the Available agent with the earliest
// registration time. Ties keep the first candidate seen.
func (d AgentDispatcher) findFirstAvailable(agents []*agent.DeliveryAgent) (*agent.DeliveryAgent, error) {
	var best *agent.DeliveryAgent

	for _, a := range agents {
		if err := a.Validate(); err != nil {
			return nil, err
		}

		if !a.IsAvailable() {
			continue
		}

		if best == nil || a.RegisteredAt().Before(best.RegisteredAt()) {
			best = a
		}
	}

	if best == nil {
		return nil, ErrAgentNotFound
	}

	return best, nil
}
