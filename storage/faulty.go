package storage

import (
	"errors"
	"math/rand"
	"sync"

	"github.com/sirupsen/logrus"
)

// ErrInjectedFault is the synthetic I/O error raised by FaultyStorage.
var ErrInjectedFault = errors.New("injected storage fault")

// FaultyStorage wraps another Storage and makes a configurable fraction
// of calls fail with ErrInjectedFault. A fault is raised before the inner
// adapter is touched, so a failed call has no side effect; this is the
// transient-failure model the protocol's retry discipline is written
// against.
//
// The random source is seeded explicitly so fuzz runs are reproducible.
// FailNext forces an exact number of upcoming calls to fail, which tests
// use to script failure sequences.
type FaultyStorage struct {
	mu       sync.Mutex
	inner    Storage
	rng      *rand.Rand
	rate     float64
	failNext int
}

// NewFaultyStorage wraps inner with fault injection at the given rate in
// [0,1], driven by a deterministic source seeded with seed.
func NewFaultyStorage(inner Storage, rate float64, seed int64) *FaultyStorage {
	return &FaultyStorage{
		inner: inner,
		rng:   rand.New(rand.NewSource(seed)),
		rate:  rate,
	}
}

// FailNext makes the next n calls fail regardless of the configured rate.
func (f *FaultyStorage) FailNext(n int) {
	f.mu.Lock()
	f.failNext = n
	f.mu.Unlock()
}

// inject decides whether the current call fails.
func (f *FaultyStorage) inject(op string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failNext > 0 {
		f.failNext--
	} else if f.rate <= 0 || f.rng.Float64() >= f.rate {
		return nil
	}

	logrus.WithFields(logrus.Fields{
		"function": "FaultyStorage.inject",
		"op":       op,
	}).Debug("Injecting storage fault")
	return ErrInjectedFault
}

func (f *FaultyStorage) List() ([][]byte, error) {
	if err := f.inject("list"); err != nil {
		return nil, err
	}
	return f.inner.List()
}

func (f *FaultyStorage) Read(name []byte) ([]byte, error) {
	if err := f.inject("read"); err != nil {
		return nil, err
	}
	return f.inner.Read(name)
}

func (f *FaultyStorage) Write(name, data []byte) error {
	if err := f.inject("write"); err != nil {
		return err
	}
	return f.inner.Write(name, data)
}

func (f *FaultyStorage) Delete(name []byte) error {
	if err := f.inject("delete"); err != nil {
		return err
	}
	return f.inner.Delete(name)
}
