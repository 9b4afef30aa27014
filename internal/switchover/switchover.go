// Package switchover implements the Switchover Controller (spec §4.11):
// the post-provisioning sequence that publishes the freshly provisioned
// ResourceMap, seeds the first coordinator invocations, waits for the
// deployment handshake, and finally runs the user's optional hook. It is
// never invoked from inside the core pipeline — only by the (out of
// scope) deployment driver, grounded on the teacher's
// cmd/rivulet/main.go daemon start/poll-until-ready loop.
package switchover

import (
	"context"
	"fmt"
	"time"

	"github.com/riverflow-io/riverflow/internal/invokegw"
	"github.com/riverflow-io/riverflow/internal/objectgw"
	"github.com/riverflow-io/riverflow/internal/obslog"
	"github.com/riverflow-io/riverflow/internal/resourcemap"
	"github.com/riverflow-io/riverflow/internal/wfcore"
)

// pollCadence is the Switchover Controller's poll interval for the
// ConfirmationArtifact (spec §4.11 step (d)).
const pollCadence = 2 * time.Second

// Hook is the user's optional post-switchover callback (spec §4.11 step
// (e)).
type Hook func(ctx context.Context) error

// Controller drives one switchover sequence.
type Controller struct {
	Objects *objectgw.Gateway
	Invokes *invokegw.Gateway

	ResourceMapKey  string
	ConfirmationKey string

	CoordinatorFunction    string
	CoordinatorConcurrency int
	MinInterval            time.Duration

	// now and sleep are overridable for tests.
	now   func() time.Time
	sleep func(time.Duration)

	log *obslog.Logger
}

// New builds a Controller with production time behavior.
func New(objects *objectgw.Gateway, invokes *invokegw.Gateway, resourceMapKey, confirmationKey, coordinatorFunction string, coordinatorConcurrency int, minInterval time.Duration) *Controller {
	return &Controller{
		Objects:                objects,
		Invokes:                invokes,
		ResourceMapKey:         resourceMapKey,
		ConfirmationKey:        confirmationKey,
		CoordinatorFunction:    coordinatorFunction,
		CoordinatorConcurrency: coordinatorConcurrency,
		MinInterval:            minInterval,
		now:                    time.Now,
		sleep:                  time.Sleep,
		log:                    obslog.For("switchover"),
	}
}

// Run executes the full switchover sequence (spec §4.11). Any step error
// aborts the remaining steps and the user hook is not invoked.
func (c *Controller) Run(ctx context.Context, rm wfcore.ResourceMap, hook Hook) error {
	// (a)+(b): publish the resource map.
	if err := resourcemap.Publish(ctx, c.Objects, c.ResourceMapKey, rm); err != nil {
		return fmt.Errorf("switchover: publishing resource map: %w", err)
	}

	// (c): seed coordinatorConcurrency invocations, spaced evenly across
	// minInterval.
	if err := c.seedCoordinators(ctx); err != nil {
		return fmt.Errorf("switchover: seeding coordinators: %w", err)
	}

	// (d): poll for the confirmation artifact.
	if err := c.awaitConfirmation(ctx); err != nil {
		return fmt.Errorf("switchover: awaiting confirmation: %w", err)
	}

	// (e): the user's optional hook.
	if hook == nil {
		return nil
	}
	if err := hook(ctx); err != nil {
		return fmt.Errorf("switchover: user hook: %w", err)
	}
	return nil
}

func (c *Controller) seedCoordinators(ctx context.Context) error {
	if c.CoordinatorConcurrency <= 0 {
		return nil
	}
	spacing := time.Duration(0)
	if c.CoordinatorConcurrency > 1 {
		spacing = c.MinInterval / time.Duration(c.CoordinatorConcurrency)
	}
	for i := 0; i < c.CoordinatorConcurrency; i++ {
		if i > 0 && spacing > 0 {
			c.sleep(spacing)
		}
		if err := c.Invokes.InvokeAsync(ctx, c.CoordinatorFunction, wfcore.CoordinatorEvent{}); err != nil {
			return err
		}
	}
	return nil
}

func (c *Controller) awaitConfirmation(ctx context.Context) error {
	deadline := c.now().Add(2 * (c.MinInterval + time.Second))
	for {
		found, err := c.Objects.Exists(ctx, c.ConfirmationKey)
		if err != nil {
			return err
		}
		if found {
			return nil
		}
		if c.now().After(deadline) {
			return fmt.Errorf("confirmation artifact not observed within deadline")
		}
		c.sleep(pollCadence)
	}
}
