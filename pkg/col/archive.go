package col

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"
)

// Entry is one model of an archive with its location in the buffer.
type Entry struct {
	Offset int    `json:"offset"`
	Size   int    `json:"size"`
	Model  *Model `json:"model"`
}

// Archive is the result of scanning a buffer for models.
type Archive struct {
	Entries     []Entry      `json:"entries"`
	Diagnostics []Diagnostic `json:"diagnostics"`
	// Multi is true when more than one signature was found.
	Multi bool `json:"multi"`
	// Signatures lists every signature offset found, ascending.
	Signatures []int `json:"signatures"`
}

// Models returns the decoded models in buffer order.
func (a *Archive) Models() []*Model {
	models := make([]*Model, len(a.Entries))
	for i, e := range a.Entries {
		models[i] = e.Model
	}
	return models
}

// Len returns the number of decoded models.
func (a *Archive) Len() int {
	return len(a.Entries)
}

// Model returns the model at index i, or nil.
func (a *Archive) Model(i int) *Model {
	if i < 0 || i >= len(a.Entries) {
		return nil
	}
	return a.Entries[i].Model
}

// CountBySeverity returns the number of diagnostics per severity.
func (a *Archive) CountBySeverity() map[Severity]int {
	counts := make(map[Severity]int)
	for _, d := range a.Diagnostics {
		counts[d.Severity]++
	}
	return counts
}

// String returns "N models, M diagnostics".
func (a *Archive) String() string {
	return fmt.Sprintf("%d models, %d diagnostics", len(a.Entries), len(a.Diagnostics))
}

// FindSignatures returns the offset of every recognised signature in buf,
// checking every byte position.
func FindSignatures(buf []byte) []int {
	var offsets []int
	for i := 0; i+SignatureSize <= len(buf); i++ {
		if buf[i] != 'C' {
			continue
		}
		if _, ok := MatchSignature(buf[i:]); ok {
			offsets = append(offsets, i)
		}
	}
	return offsets
}

// Parse scans data with default options.
func Parse(data []byte) (*Archive, error) {
	return NewDecoder(DefaultOptions()).Scan(context.Background(), data)
}

// ParseFile reads and scans a collision file from disk.
func ParseFile(path string) (*Archive, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading COL file: %w", err)
	}
	return Parse(data)
}

// scanResult is the outcome of decoding at one signature offset.
type scanResult struct {
	offset   int
	model    *Model
	consumed int
	reach    int // end of the bytes actually read
	err      error
}

// Scan finds and decodes every model in buf.
//
// A model that fails to decode becomes an error diagnostic and the scan
// moves on. The returned archive is never nil. The error is
// ErrNoValidModel when nothing decoded, or the context error when ctx was
// cancelled between models; in both cases the archive still holds
// everything decoded so far.
func (d *Decoder) Scan(ctx context.Context, buf []byte) (*Archive, error) {
	obs := d.opts.Observer
	a := &Archive{}

	if len(buf) < HeaderSize {
		a.addDiagnostic(obs, Diagnostic{
			Offset:   -1,
			Severity: SeverityError,
			Kind:     KindNoValidModel,
			Message:  fmt.Sprintf("buffer of %d bytes is too short for a model header", len(buf)),
		})
		return a, fmt.Errorf("%w: buffer too short", ErrNoValidModel)
	}

	a.Signatures = FindSignatures(buf)
	a.Multi = len(a.Signatures) > 1
	for _, off := range a.Signatures {
		v, _ := MatchSignature(buf[off:])
		obs.OnSignature(off, v)
	}

	if len(a.Signatures) == 0 {
		a.addDiagnostic(obs, Diagnostic{
			Offset:   -1,
			Severity: SeverityError,
			Kind:     KindNoValidModel,
			Message:  "no COL signature found",
		})
		return a, fmt.Errorf("%w: no signature found", ErrNoValidModel)
	}

	// Decode in windows so results are merged in offset order and the
	// model limit and cancellation are honoured between models.
	window := 1
	if d.opts.Workers > 1 {
		window = d.opts.Workers * 4
	}

	coveredTo := 0 // end of the last decoded model
	for start := 0; start < len(a.Signatures); start += window {
		if err := ctx.Err(); err != nil {
			a.addDiagnostic(obs, Diagnostic{
				Offset:   -1,
				Severity: SeverityError,
				Kind:     KindCancelled,
				Message:  fmt.Sprintf("scan stopped after %d models: %v", len(a.Entries), err),
			})
			return a, err
		}

		end := min(start+window, len(a.Signatures))
		results := d.decodeWindow(buf, a.Signatures[start:end])

		for i, res := range results {
			// Signature bytes inside an already decoded model are not models.
			if res.err != nil && res.offset < coveredTo {
				continue
			}

			if len(a.Entries) >= d.opts.MaxModels {
				a.addDiagnostic(obs, Diagnostic{
					Offset:   res.offset,
					Severity: SeverityError,
					Kind:     KindScanLimit,
					Message: fmt.Sprintf("safety limit of %d models reached, %d signatures not decoded",
						d.opts.MaxModels, 1+countFrom(a.Signatures[start+i+1:], coveredTo)),
				})
				return a, nil
			}

			if res.err != nil {
				a.addDiagnostic(obs, Diagnostic{
					Offset:   res.offset,
					Severity: SeverityError,
					Kind:     KindOf(res.err),
					Message:  failureMessage(buf, res.offset, res.err),
				})
				continue
			}

			a.addModel(obs, res, d.opts)
			coveredTo = max(coveredTo, min(res.offset+res.consumed, res.reach))
		}
	}

	if len(a.Entries) == 0 {
		return a, fmt.Errorf("%w: %d signatures, none decoded", ErrNoValidModel, len(a.Signatures))
	}
	return a, nil
}

// decodeWindow decodes the models at offsets, in parallel when configured.
// Results keep the order of offsets.
func (d *Decoder) decodeWindow(buf []byte, offsets []int) []scanResult {
	results := make([]scanResult, len(offsets))
	decode := func(i int) {
		m, n, reach, err := d.decode(buf, offsets[i])
		results[i] = scanResult{offset: offsets[i], model: m, consumed: n, reach: reach, err: err}
	}

	if d.opts.Workers <= 1 || len(offsets) == 1 {
		for i := range offsets {
			decode(i)
		}
		return results
	}

	var g errgroup.Group
	g.SetLimit(d.opts.Workers)
	for i := range offsets {
		g.Go(func() error {
			decode(i)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// countFrom returns how many of offsets lie at or after from.
func countFrom(offsets []int, from int) int {
	n := 0
	for _, off := range offsets {
		if off >= from {
			n++
		}
	}
	return n
}

// addModel appends a decoded model with its decode warnings and,
// if enabled, validation warnings.
func (a *Archive) addModel(obs Observer, res scanResult, opts Options) {
	a.Entries = append(a.Entries, Entry{Offset: res.offset, Size: res.consumed, Model: res.model})
	obs.OnModel(res.offset, res.model, res.consumed)

	for _, w := range res.model.Warnings {
		a.addDiagnostic(obs, w)
	}
	if opts.Validate {
		for _, w := range Validate(res.model, ValidateOptions{Strict: opts.Strict}) {
			w.Offset = res.offset
			a.addDiagnostic(obs, w)
		}
	}
}

func (a *Archive) addDiagnostic(obs Observer, d Diagnostic) {
	a.Diagnostics = append(a.Diagnostics, d)
	obs.OnDiagnostic(d)
}

// peekName returns the header name of the model at offset without
// decoding it, or "" when it has none.
func peekName(buf []byte, offset int) string {
	const nameOffset = 8
	if offset+nameOffset+NameSize > len(buf) {
		return ""
	}
	r := newReader(buf, offset)
	r.skip(nameOffset)
	return decodeName(r.bytes(NameSize))
}

// failureMessage describes a model that could not be decoded.
func failureMessage(buf []byte, offset int, err error) string {
	if name := peekName(buf, offset); name != "" {
		return fmt.Sprintf("%q: %v", name, err)
	}
	return err.Error()
}
