package main

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/vango-dev/dragsort/internal/errors"
	"github.com/vango-dev/dragsort/internal/logging"
	"github.com/vango-dev/dragsort/pkg/dnd"
)

func replayCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "replay <scenario.yaml>",
		Short: "Run a scripted drag session",
		Long: `Run the steps of a YAML scenario against a fresh board and print
every commit, followed by the final order of each container.

Items are laid out as a column of equal rows starting at each
container's top, and re-laid out after every step.

Examples:
  dragsort replay testdata/cross.yaml
  dragsort replay -v scenario.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := loadScenario(args[0])
			if err != nil {
				return err
			}

			logger := logging.NewNop()
			if verbose {
				logger = logging.New(slog.LevelDebug, "text")
			}
			return runReplay(cmd.OutOrStdout(), sc, logger)
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log every coordinator transition to stderr")

	return cmd
}

// stepClock only moves when a step asks it to.
type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *stepClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type replayContainer struct {
	name      string
	top       float64
	container *dnd.Container
	items     *dnd.ItemSet
}

type replay struct {
	out       io.Writer
	view      *dnd.View
	clock     *stepClock
	boxes     map[string]dnd.Box
	rowHeight float64
	order     []*replayContainer
	byName    map[string]*replayContainer
}

// runReplay plays sc and writes commits and final orders to out.
func runReplay(out io.Writer, sc *Scenario, logger *slog.Logger) error {
	r := &replay{
		out:       out,
		clock:     &stepClock{now: time.Unix(0, 0)},
		boxes:     make(map[string]dnd.Box),
		rowHeight: sc.RowHeight,
		byName:    make(map[string]*replayContainer),
	}
	r.view = dnd.NewView(
		dnd.WithLogger(logger),
		dnd.WithClock(r.clock),
		dnd.WithThrottleWindow(sc.window),
		dnd.WithMeasurer(dnd.MeasurerFunc(r.measure)),
	)
	defer r.view.Close()

	for _, col := range sc.Containers {
		rc := &replayContainer{name: col.Name, top: col.Top}
		items := make([]dnd.Item, len(col.Items))
		for i, id := range col.Items {
			items[i] = dnd.Item{ID: id}
		}
		c, err := r.view.NewContainer(items, func(_ dnd.ContainerID, items []dnd.Item) {
			fmt.Fprintf(r.out, "commit %s %v\n", rc.name, dnd.IDs(items))
		})
		if err != nil {
			return errors.New("E501").WithDetailf("container %q: %v", col.Name, err).Wrap(err)
		}
		rc.container = c
		rc.items = r.view.Track(c)
		r.order = append(r.order, rc)
		r.byName[rc.name] = rc
	}
	r.layout()

	for i, st := range sc.Steps {
		if err := r.step(st); err != nil {
			return errors.New("E502").WithDetailf("step %d (%s): %v", i+1, st.Action, err).Wrap(err)
		}
		r.layout()
	}

	for _, rc := range r.order {
		fmt.Fprintf(r.out, "final %s %v\n", rc.name, dnd.IDs(rc.container.Items()))
	}
	return nil
}

func (r *replay) measure(handle any) (dnd.Box, error) {
	id, _ := handle.(string)
	box, ok := r.boxes[id]
	if !ok {
		return dnd.Box{}, errors.New("E203").WithDetailf("item %q is not displayed", id)
	}
	return box, nil
}

// layout stacks every container's items from its top and re-syncs the item
// controllers, as a renderer would after each change.
func (r *replay) layout() {
	clear(r.boxes)
	for _, rc := range r.order {
		for i, it := range rc.container.Items() {
			r.boxes[it.ID] = dnd.Box{Top: rc.top + float64(i)*r.rowHeight, Height: r.rowHeight}
		}
	}
	for _, rc := range r.order {
		rc.items.Sync()
	}
}

func (r *replay) step(st Step) error {
	r.clock.Advance(st.advance)
	coord := r.view.Coordinator()

	switch st.Action {
	case actionDragStart:
		ic, err := r.item(st)
		if err != nil {
			return err
		}
		ic.OnDragStart()

	case actionDragOver:
		ic, err := r.item(st)
		if err != nil {
			return err
		}
		ic.OnDragOver(st.Y)

	case actionEmptyOver:
		r.byName[st.Container].container.OnDragOverEmptyArea()

	case actionDragEnd:
		coord.EndDrag()

	case actionTransitionStart:
		coord.LockTransition()

	case actionTransitionEnd:
		coord.UnlockTransition()

	case actionReset:
		coord.Reset("replay step")

	case actionWait:
	}
	return nil
}

func (r *replay) item(st Step) (*dnd.ItemController, error) {
	rc, ok := r.byName[st.Container]
	if !ok {
		return nil, errors.New("E204").WithDetailf("container %q", st.Container)
	}
	return rc.items.Item(st.Item)
}
