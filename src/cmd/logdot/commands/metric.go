// FILE: logdot/src/cmd/logdot/commands/metric.go
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"logdot/src/internal/metrics"

	"github.com/spf13/pflag"
)

// MetricCommand sends a single metric sample
type MetricCommand struct {
	output io.Writer
	errOut io.Writer
}

func NewMetricCommand() *MetricCommand {
	return &MetricCommand{output: os.Stdout, errOut: os.Stderr}
}

func (c *MetricCommand) Execute(args []string) error {
	fs := pflag.NewFlagSet("metric", pflag.ContinueOnError)
	fs.SetOutput(c.errOut)

	var common commonFlags
	common.register(fs)
	unit := fs.StringP("unit", "u", "", "Unit of the value, e.g. ms, percent, bytes")
	entity := fs.StringP("entity", "e", "", "Entity name (default: metrics.entity_name)")
	description := fs.String("description", "", "Description used if the entity is created")
	tagArgs := fs.StringArrayP("tag", "t", nil, "Tag as key=value (repeatable)")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	if fs.NArg() != 2 {
		return fmt.Errorf("expected <name> <value>\n\nUsage: logdot metric [options] <name> <value>")
	}
	name := fs.Arg(0)
	value, err := strconv.ParseFloat(fs.Arg(1), 64)
	if err != nil {
		return fmt.Errorf("invalid value '%s': %w", fs.Arg(1), err)
	}
	tags, err := parseTags(*tagArgs)
	if err != nil {
		return err
	}

	sess, err := common.start(c.output)
	if err != nil {
		return err
	}
	defer sess.close()

	ctx := context.Background()
	var ec *metrics.EntityClient
	if *entity != "" {
		desc := *description
		if desc == "" {
			desc = fmt.Sprintf("Go app: %s", *entity)
		}
		e, err := sess.svc.Metrics().GetOrCreateEntity(ctx, *entity, desc, nil)
		if err != nil {
			return fmt.Errorf("failed to resolve entity: %w", err)
		}
		ec = sess.svc.Metrics().ForEntity(e.ID)
	} else {
		ec, err = sess.svc.Entity(ctx)
		if err != nil {
			return fmt.Errorf("failed to resolve entity: %w", err)
		}
	}

	if !ec.SendContext(ctx, name, value, *unit, tags) {
		return fmt.Errorf("failed to send metric: %w", ec.LastError())
	}
	return nil
}

func (c *MetricCommand) Description() string {
	return "Send a single metric sample"
}

func (c *MetricCommand) Help() string {
	return `Metric Command - Send a single metric sample

The entity is created on first use and reused afterwards.

Usage:
  logdot metric [options] <name> <value>

Options:
  -u, --unit <unit>          Unit of the value
  -e, --entity <name>        Entity name (default: metrics.entity_name)
      --description <text>   Description if the entity is created
  -t, --tag key=value        Attach a tag; repeat for more
  Common options: see 'logdot help'

Examples:
  logdot metric cpu.usage 42.5 -u percent
  logdot metric queue.depth 120 -e worker-pool -t queue=jobs
`
}
