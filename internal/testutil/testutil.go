// Package testutil provides fake bill resolvers and fixtures for tests.
package testutil

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/Iron-Ham/solarsizer/internal/bill"
	"github.com/Iron-Ham/solarsizer/internal/errors"
)

// DefaultWait bounds how long helpers wait for asynchronous work.
const DefaultWait = 2 * time.Second

// SampleBill returns a valid bill: 600 kWh at 30 per unit. With default
// sizing parameters it sizes to 5 kW and 12 panels.
func SampleBill(reference string) bill.Record {
	return bill.Record{
		ReferenceNumber: reference,
		CustomerName:    "Ada Obi",
		Address:         "12 Marina Road, Lagos",
		PhoneNumber:     "+234 801 234 5678",
		IssueDate:       "2024-03-01",
		DueDate:         "2024-03-21",
		UnitsConsumed:   600,
		RatePerUnit:     30,
		Amount:          18000,
		TaxRate:         0.075,
		TaxAmount:       1350,
		TotalAmount:     19350,
	}
}

// BillWithUnits returns SampleBill with a different consumption.
func BillWithUnits(reference string, units float64) bill.Record {
	b := SampleBill(reference)
	b.UnitsConsumed = units
	b.Amount = units * b.RatePerUnit
	b.TaxAmount = b.Amount * b.TaxRate
	b.TotalAmount = b.Amount + b.TaxAmount
	return b
}

// FakeResolver is a controllable bill.Resolver. Calls for a reference block
// until that reference is released, unless the resolver was built open.
// Unknown references resolve to an UnknownReference error.
type FakeResolver struct {
	mu      sync.Mutex
	open    bool
	records map[string]bill.Record
	errs    map[string]error
	gates   map[string]chan struct{}
	calls   map[string]int
	started chan string
}

// NewBlockingResolver returns a resolver whose calls wait for Release.
func NewBlockingResolver(records ...bill.Record) *FakeResolver {
	return newFakeResolver(false, records)
}

// NewStaticResolver returns a resolver that answers immediately.
func NewStaticResolver(records ...bill.Record) *FakeResolver {
	return newFakeResolver(true, records)
}

func newFakeResolver(open bool, records []bill.Record) *FakeResolver {
	r := &FakeResolver{
		open:    open,
		records: make(map[string]bill.Record),
		errs:    make(map[string]error),
		gates:   make(map[string]chan struct{}),
		calls:   make(map[string]int),
		started: make(chan string, 64),
	}
	for _, rec := range records {
		r.records[rec.ReferenceNumber] = rec
	}
	return r
}

// Resolve implements bill.Resolver.
func (r *FakeResolver) Resolve(ctx context.Context, reference string) (bill.Record, error) {
	r.mu.Lock()
	r.calls[reference]++
	gate := r.gateLocked(reference)
	r.mu.Unlock()

	select {
	case r.started <- reference:
	default:
	}

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return bill.Record{}, errors.NewResolutionError(errors.Unreachable, reference, ctx.Err())
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if err, ok := r.errs[reference]; ok {
		return bill.Record{}, err
	}
	rec, ok := r.records[reference]
	if !ok {
		return bill.Record{}, errors.NewResolutionError(errors.UnknownReference, reference, nil)
	}
	return rec, nil
}

func (r *FakeResolver) gateLocked(reference string) chan struct{} {
	if r.open {
		return nil
	}
	gate, ok := r.gates[reference]
	if !ok {
		gate = make(chan struct{})
		r.gates[reference] = gate
	}
	return gate
}

// Release lets every pending and future call for reference complete.
func (r *FakeResolver) Release(reference string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	gate, ok := r.gates[reference]
	if !ok {
		gate = make(chan struct{})
		r.gates[reference] = gate
	}
	select {
	case <-gate:
	default:
		close(gate)
	}
}

// Set adds or replaces the record for its reference.
func (r *FakeResolver) Set(rec bill.Record) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[rec.ReferenceNumber] = rec
	delete(r.errs, rec.ReferenceNumber)
}

// Fail makes calls for reference return err. A nil err clears the failure.
func (r *FakeResolver) Fail(reference string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err == nil {
		delete(r.errs, reference)
		return
	}
	r.errs[reference] = err
}

// Calls returns how many times reference was resolved.
func (r *FakeResolver) Calls(reference string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls[reference]
}

// TotalCalls returns the number of Resolve calls across all references.
func (r *FakeResolver) TotalCalls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	total := 0
	for _, n := range r.calls {
		total += n
	}
	return total
}

// Started receives each reference as its Resolve call begins.
func (r *FakeResolver) Started() <-chan string {
	return r.started
}

// WaitStarted fails the test unless a call for reference begins in time.
func WaitStarted(t *testing.T, r *FakeResolver, reference string) {
	t.Helper()

	timeout := time.After(DefaultWait)
	for {
		select {
		case got := <-r.started:
			if got == reference {
				return
			}
		case <-timeout:
			t.Fatalf("timed out waiting for resolver call for %s", reference)
		}
	}
}

// Eventually polls cond until it holds or DefaultWait elapses.
func Eventually(t *testing.T, what string, cond func() bool) {
	t.Helper()

	deadline := time.Now().Add(DefaultWait)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(2 * time.Millisecond)
	}
}

// WriteFixtures writes a YAML fixtures file into a temp dir and returns its
// path.
func WriteFixtures(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "bills.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write fixtures: %v", err)
	}
	return path
}

// SampleFixtures is a fixtures file holding two bills.
const SampleFixtures = `- referenceNumber: ABC-1001
  customerName: Ada Obi
  address: 12 Marina Road, Lagos
  phoneNumber: "+234 801 234 5678"
  issueDate: "2024-03-01"
  dueDate: "2024-03-21"
  unitsConsumed: 600
  ratePerUnit: 30
  amount: 18000
  taxRate: 0.075
  taxAmount: 1350
  totalAmount: 19350
- referenceNumber: ABC-2002
  customerName: Chidi Eze
  address: 4 Allen Avenue, Ikeja
  phoneNumber: "+234 802 000 1111"
  issueDate: "2024-03-03"
  dueDate: "2024-03-23"
  unitsConsumed: 900
  ratePerUnit: 28
  amount: 25200
  taxRate: 0.075
  taxAmount: 1890
  totalAmount: 27090
`
