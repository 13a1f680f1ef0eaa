package bridge

import (
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	luabridge "github.com/hostlink/lua-bridge"
	"github.com/hostlink/lua-bridge/dispatch"
	"github.com/hostlink/lua-bridge/errors"
	"github.com/hostlink/lua-bridge/guard"
	"github.com/hostlink/lua-bridge/image"
	"github.com/hostlink/lua-bridge/interp"
	"github.com/hostlink/lua-bridge/resolver"
)

// Controller sequences module load and unload and owns the shared pieces:
// interpreter handle, resolved symbol table, dispatcher.
type Controller struct {
	mu      sync.Mutex
	state   State
	log     *zap.Logger
	handle  *interp.Handle
	table   *resolver.Table
	disp    *dispatch.Dispatcher
	loadErr error
}

// NewController creates an unloaded controller. A nil logger disables
// logging.
func NewController(log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{state: StateUnloaded, log: log}
}

// State returns the controller's current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// LoadError returns the error that aborted the last Open, if any.
func (c *Controller) LoadError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loadErr
}

// Open is the host's load entry point. The calling thread becomes the
// interpreter owner; the symbol table is resolved against img using the
// signature configuration for the given host version and platform (cfg may
// be nil for hosts that export the full runtime API).
//
// On any failure the controller falls back to Unloaded, the failure is
// logged and retained for LoadError, and the host receives the safe
// default return code: a broken module reports itself unusable, it never
// takes the host down.
func (c *Controller) Open(img image.Image, cfg *resolver.Config, hostVersion, platform string, luaState luabridge.Address) luabridge.HostReturnCode {
	return guard.Run("module_open", func() luabridge.HostReturnCode {
		if err := c.open(img, cfg, hostVersion, platform, luaState); err != nil {
			c.log.Error("module load failed",
				zap.String("image", img.Path()),
				zap.String("host_version", hostVersion),
				zap.Error(err))
			return luabridge.HostOK
		}
		return luabridge.HostOK
	})
}

func (c *Controller) open(img image.Image, cfg *resolver.Config, hostVersion, platform string, luaState luabridge.Address) error {
	c.mu.Lock()
	if c.state != StateUnloaded {
		c.mu.Unlock()
		return errors.InvalidInput(errors.PhaseLifecycle, "load entry invoked in state "+c.state.String())
	}
	c.state = StateInitializing
	c.loadErr = nil
	c.mu.Unlock()

	fail := func(err error) error {
		c.mu.Lock()
		c.state = StateUnloaded
		c.loadErr = err
		c.mu.Unlock()
		return err
	}

	handle := interp.NewHandle()
	if err := handle.BindOwner(luaState); err != nil {
		return fail(err)
	}

	var plan *resolver.Plan
	if cfg != nil {
		p, err := cfg.Plan(hostVersion, platform)
		if err != nil {
			handle.Clear()
			return fail(err)
		}
		plan = p
	}

	table, err := resolver.Resolve(img, plan)
	if err != nil {
		// Fatal and non-retryable: an unrecognized host build must not
		// publish a partial table.
		handle.Clear()
		return fail(err)
	}

	c.mu.Lock()
	c.handle = handle
	c.table = table
	c.disp = dispatch.New(handle)
	c.state = StateReady
	c.mu.Unlock()

	owner, _ := handle.CurrentOwner()
	c.log.Info("module ready",
		zap.String("image", img.Path()),
		zap.String("host_version", hostVersion),
		zap.Int("symbols", table.Len()),
		zap.Int64("owner_thread", int64(owner)))
	return nil
}

// Close is the host's unload entry point, invoked on the owner thread. It
// closes the dispatcher (cancelling pending tasks so no submitter blocks
// forever), releases the symbol table and clears the interpreter handle.
// Teardown always completes; individual failures are aggregated and logged.
func (c *Controller) Close() luabridge.HostReturnCode {
	return guard.Run("module_close", func() luabridge.HostReturnCode {
		if err := c.close(); err != nil {
			c.log.Error("module unload reported errors", zap.Error(err))
		}
		return luabridge.HostOK
	})
}

func (c *Controller) close() error {
	c.mu.Lock()
	if c.state != StateReady {
		state := c.state
		c.mu.Unlock()
		return errors.InvalidInput(errors.PhaseLifecycle, "unload entry invoked in state "+state.String())
	}
	c.state = StateShuttingDown
	disp := c.disp
	handle := c.handle
	c.mu.Unlock()

	var errs error

	// Cancel before clearing the handle so every resolved waiter observes
	// Cancelled, not a torn-down handle.
	disp.Close()

	if err := handle.Clear(); err != nil {
		errs = multierr.Append(errs, err)
	}

	c.mu.Lock()
	c.table = nil
	c.disp = nil
	c.handle = nil
	c.state = StateUnloaded
	c.mu.Unlock()

	c.log.Info("module unloaded")
	return errs
}

// Tick is the host's per-tick callback target, invoked on the owner
// thread. It drains the dispatcher; when the module is not Ready it is a
// logged no-op, never a crash.
func (c *Controller) Tick() luabridge.HostReturnCode {
	return guard.Run("module_tick", func() luabridge.HostReturnCode {
		c.mu.Lock()
		disp := c.disp
		state := c.state
		c.mu.Unlock()

		if state != StateReady {
			c.log.Debug("tick outside ready state", zap.String("state", state.String()))
			return luabridge.HostOK
		}

		if n, err := disp.DrainPending(); err != nil {
			c.log.Error("drain failed", zap.Error(err))
		} else if n > 0 {
			c.log.Debug("drained tasks", zap.Int("count", n))
		}
		return luabridge.HostOK
	})
}

// Table returns the published symbol table while the module is Ready.
func (c *Controller) Table() (*resolver.Table, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateReady {
		return nil, errors.ModuleUnloaded("symbol table access")
	}
	return c.table, nil
}

// Dispatcher returns the cross-thread dispatcher while the module is Ready.
func (c *Controller) Dispatcher() (*dispatch.Dispatcher, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateReady {
		return nil, errors.ModuleUnloaded("dispatcher access")
	}
	return c.disp, nil
}

// Handle returns the interpreter handle while the module is Ready.
func (c *Controller) Handle() (*interp.Handle, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateReady {
		return nil, errors.ModuleUnloaded("interpreter handle access")
	}
	return c.handle, nil
}
