package loader

import "github.com/Faultbox/colkit/pkg/col"

// observerChain forwards scan events to several observers in order.
type observerChain []col.Observer

// NewObserverChain combines observers, skipping nil ones.
func NewObserverChain(observers ...col.Observer) col.Observer {
	var chain observerChain
	for _, o := range observers {
		if o != nil {
			chain = append(chain, o)
		}
	}
	return chain
}

func (c observerChain) OnSignature(offset int, version col.Version) {
	for _, o := range c {
		o.OnSignature(offset, version)
	}
}

func (c observerChain) OnModel(offset int, model *col.Model, consumed int) {
	for _, o := range c {
		o.OnModel(offset, model, consumed)
	}
}

func (c observerChain) OnDiagnostic(d col.Diagnostic) {
	for _, o := range c {
		o.OnDiagnostic(d)
	}
}
