package wmi

// Tracer receives one record per command before it is dispatched.
type Tracer interface {
	Trace(cmd CmdID, vdevID uint32, data uint32)
}

// Observer is notified of command and event outcomes. err is nil on
// success.
type Observer interface {
	ObserveCommand(cmd CmdID, err error)
	ObserveEvent(evt EventID, err error)
}

// HandleOption is an interface which the handle should implement to allow using configuration options
type HandleOption interface {
	SetLogger(Logger) error
	SetFeatures(FeatureSet) error
	SetStrictCapabilities(bool) error
	SetTracer(Tracer) error
	SetObserver(Observer) error
}

// An Option is a configuration function, which configures the handle.
type Option func(HandleOption) error

// OptLogger overrides the package logger for one handle.
func OptLogger(l Logger) Option {
	return func(opt HandleOption) error {
		return opt.SetLogger(l)
	}
}

// OptFeatures selects the features attached at init.
func OptFeatures(fs FeatureSet) Option {
	return func(opt HandleOption) error {
		return opt.SetFeatures(fs)
	}
}

// OptStrictCapabilities makes calls to absent capabilities panic instead of
// returning ErrCapabilityAbsent.
func OptStrictCapabilities(strict bool) Option {
	return func(opt HandleOption) error {
		return opt.SetStrictCapabilities(strict)
	}
}

// OptTracer sets the command tracer.
func OptTracer(t Tracer) Option {
	return func(opt HandleOption) error {
		return opt.SetTracer(t)
	}
}

// OptObserver sets the outcome observer, typically a metrics collector.
func OptObserver(o Observer) Option {
	return func(opt HandleOption) error {
		return opt.SetObserver(o)
	}
}
