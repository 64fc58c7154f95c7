package col

// Default safety limits.
const (
	DefaultMaxElements   = 100000
	DefaultMaxFaceGroups = 10000
	DefaultMaxModels     = 200
)

// Options control decoding limits and archive scanning.
type Options struct {
	// MaxElements caps every stored or derived element count of a model.
	// Larger counts are treated as garbage input (ErrUnrealisticGeometry).
	MaxElements int
	// MaxFaceGroups caps the face group count read backward from the face array.
	MaxFaceGroups int
	// MaxModels stops an archive scan once this many models have decoded.
	MaxModels int
	// Workers decodes models of an archive in parallel when > 1.
	Workers int
	// Validate runs the validator on every decoded model.
	Validate bool
	// Strict adds bounds, finiteness and face group checks to validation.
	Strict bool
	// Observer receives scan events. Nil means no observer.
	Observer Observer
}

// DefaultOptions returns the default limits with validation enabled.
func DefaultOptions() Options {
	return Options{
		MaxElements:   DefaultMaxElements,
		MaxFaceGroups: DefaultMaxFaceGroups,
		MaxModels:     DefaultMaxModels,
		Workers:       1,
		Validate:      true,
	}
}

// normalize fills unset limits with defaults.
func (o Options) normalize() Options {
	if o.MaxElements <= 0 {
		o.MaxElements = DefaultMaxElements
	}
	if o.MaxFaceGroups <= 0 {
		o.MaxFaceGroups = DefaultMaxFaceGroups
	}
	if o.MaxModels <= 0 {
		o.MaxModels = DefaultMaxModels
	}
	if o.Workers <= 0 {
		o.Workers = 1
	}
	if o.Observer == nil {
		o.Observer = NopObserver{}
	}
	return o
}

// Observer is notified while an archive is scanned.
// Implementations must be safe for use by one goroutine at a time;
// the scanner never calls them concurrently.
type Observer interface {
	// OnSignature is called for every signature found in the buffer.
	OnSignature(offset int, version Version)
	// OnModel is called for every model kept in the archive.
	OnModel(offset int, model *Model, consumed int)
	// OnDiagnostic is called for every diagnostic added to the archive.
	OnDiagnostic(d Diagnostic)
}

// NopObserver ignores all events.
type NopObserver struct{}

func (NopObserver) OnSignature(int, Version) {}
func (NopObserver) OnModel(int, *Model, int) {}
func (NopObserver) OnDiagnostic(Diagnostic)  {}
