// Package dock owns the sidebar's screen-space reservation: registration
// with the shell, bounds negotiation, and debounced re-negotiation after
// topology changes.
package dock

import (
	"log/slog"

	"github.com/1broseidon/checkbar/internal/dpi"
	"github.com/1broseidon/checkbar/internal/platform"
)

// DefaultChannel names the notification channel used for the reservation.
const DefaultChannel = "checkbar.appbar.v1"

// WindowResolver returns the sidebar window once it has been realized.
type WindowResolver func() (platform.WindowID, bool)

// PlacedFunc receives the committed bounds in DIP after every successful
// ApplyDock.
type PlacedFunc func(monitor platform.Monitor, bounds dpi.LogicalRect)

// Options configures a Client.
type Options struct {
	Shell   platform.Shell
	Window  WindowResolver
	Channel string
	// OnPlaced is the window-placement collaborator. Optional.
	OnPlaced PlacedFunc
	Logger   *slog.Logger
}

// Client registers the sidebar window as a right-edge reservation and
// negotiates its bounds. Its methods must be called from the event loop.
type Client struct {
	shell    platform.Shell
	window   WindowResolver
	channel  string
	onPlaced PlacedFunc
	logger   *slog.Logger

	state State
	win   platform.WindowID

	// wanted is set by Register and cleared by Unregister. It lets a failed
	// or deferred registration be retried by later ApplyDock calls.
	wanted bool

	notify      func(platform.Notification)
	unsubscribe func()
}

// NewClient creates an unregistered client.
func NewClient(opts Options) *Client {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	channel := opts.Channel
	if channel == "" {
		channel = DefaultChannel
	}
	return &Client{
		shell:    opts.Shell,
		window:   opts.Window,
		channel:  channel,
		onPlaced: opts.OnPlaced,
		logger:   logger,
		state:    unregisteredState(),
	}
}

// SetNotificationHandler sets where shell notifications are delivered while
// registered. Delivery reads the handler on every notification, so a change
// applies to the next one without re-registering.
func (c *Client) SetNotificationHandler(fn func(platform.Notification)) {
	c.notify = fn
}

// State returns a copy of the current docking state.
func (c *Client) State() State {
	return c.state
}

// Registered reports whether the reservation is held.
func (c *Client) Registered() bool {
	return c.state.Registered
}

// Register claims the reservation. It is a no-op when already registered.
// When the window is not realized yet, registration is deferred until
// WindowRealized.
func (c *Client) Register() {
	c.wanted = true
	if c.state.Registered {
		return
	}
	c.tryRegister()
}

// WindowRealized completes a deferred registration.
func (c *Client) WindowRealized() {
	if c.wanted && !c.state.Registered {
		c.tryRegister()
	}
}

func (c *Client) tryRegister() bool {
	win, ok := c.resolveWindow()
	if !ok {
		c.logger.Debug("dock registration deferred, window not realized")
		return false
	}

	if err := c.shell.RegisterReservation(win, c.channel); err != nil {
		c.logger.Debug("dock registration failed", "window", win, "error", err)
		return false
	}

	c.win = win
	c.state = State{Registered: true, Edge: platform.EdgeRight}
	c.unsubscribe = c.shell.Subscribe(c.channel, c.dispatch)
	c.logger.Debug("dock registered", "window", win, "channel", c.channel)
	return true
}

func (c *Client) dispatch(n platform.Notification) {
	if c.notify != nil {
		c.notify(n)
	}
}

// Unregister releases the reservation. It is a no-op when not registered.
func (c *Client) Unregister() {
	c.wanted = false
	if !c.state.Registered {
		return
	}

	if c.unsubscribe != nil {
		c.unsubscribe()
		c.unsubscribe = nil
	}
	if err := c.shell.UnregisterReservation(c.win); err != nil {
		c.logger.Debug("dock unregister failed", "window", c.win, "error", err)
	}
	c.state = unregisteredState()
	c.logger.Debug("dock unregistered", "window", c.win)
}

// ApplyDock negotiates a right-edge strip of exactly widthPx on monitor and
// moves the window there. Failures leave the window where it is.
func (c *Client) ApplyDock(monitor platform.Monitor, widthPx int) {
	if !c.state.Registered {
		if !c.wanted || !c.tryRegister() {
			return
		}
	}

	proposed := platform.RectFromEdges(
		monitor.Bounds.Right()-widthPx,
		monitor.WorkArea.Y,
		monitor.Bounds.Right(),
		monitor.WorkArea.Bottom(),
	)

	adjusted, err := c.shell.QueryAdjustedPosition(c.win, proposed, platform.EdgeRight)
	if err != nil {
		c.logger.Debug("dock query failed", "monitor", monitor.Name, "error", err)
		return
	}

	// The shell may move the strip but never changes its width.
	final := platform.RectFromEdges(adjusted.Right()-widthPx, adjusted.Y, adjusted.Right(), adjusted.Bottom())

	if err := c.shell.CommitPosition(c.win, final, platform.EdgeRight); err != nil {
		c.logger.Debug("dock commit failed", "monitor", monitor.Name, "error", err)
		return
	}
	c.state.Committed = final

	if err := c.shell.PlaceWindow(c.win, final); err != nil {
		c.logger.Debug("dock placement failed", "window", c.win, "error", err)
		return
	}

	c.logger.Debug("dock applied",
		"monitor", monitor.Name,
		"width", widthPx,
		"x", final.X, "y", final.Y, "height", final.Height)

	if c.onPlaced != nil {
		c.onPlaced(monitor, dpi.ForMonitor(final, monitor))
	}
}

// PlaceSuggested moves the window to a shell-suggested rect without touching
// the reservation.
func (c *Client) PlaceSuggested(rect platform.Rect) {
	win, ok := c.resolveWindow()
	if !ok || rect.Empty() {
		return
	}
	if err := c.shell.PlaceWindow(win, rect); err != nil {
		c.logger.Debug("suggested placement failed", "window", win, "error", err)
	}
}

// Close unregisters and forgets the window.
func (c *Client) Close() {
	c.Unregister()
	c.win = 0
}

func (c *Client) resolveWindow() (platform.WindowID, bool) {
	if c.win != 0 {
		return c.win, true
	}
	if c.window == nil {
		return 0, false
	}
	win, ok := c.window()
	if !ok || win == 0 {
		return 0, false
	}
	return win, true
}
