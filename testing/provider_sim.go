package testing

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/opd-ai/scoremix/interfaces"
	"github.com/sirupsen/logrus"
)

// Response is one scripted reply to Fetch.
type Response struct {
	Data  []byte
	Err   error
	Delay time.Duration
}

// Payload scripts a successful fetch.
func Payload(data []byte) Response { return Response{Data: data} }

// RateLimited scripts a throttled fetch with an optional retry-after hint.
func RateLimited(retryAfter time.Duration) Response {
	return Response{Err: &interfaces.FetchError{Kind: interfaces.FetchRateLimited, RetryAfter: retryAfter}}
}

// TransportFailure scripts a transient network failure.
func TransportFailure() Response {
	return Response{Err: &interfaces.FetchError{Kind: interfaces.FetchTransport, Err: errors.New("simulated connection reset")}}
}

// NoPreview scripts a track without usable audio.
func NoPreview() Response {
	return Response{Err: &interfaces.FetchError{Kind: interfaces.FetchNoPreview}}
}

// Hang scripts a fetch that blocks for d or until the context ends.
func Hang(d time.Duration) Response {
	return Response{Delay: d, Err: &interfaces.FetchError{Kind: interfaces.FetchTransport, Err: errors.New("simulated hang")}}
}

// FetchRecord is one Fetch call, for test verification.
type FetchRecord struct {
	Locator   string
	Attempt   int
	Timestamp int64
	Success   bool
	Error     error
}

// SimulatedProvider is a scripted interfaces.ITrackProvider.
type SimulatedProvider struct {
	mu       sync.Mutex
	scripts  map[string][]Response
	attempts map[string]int
	fetchLog []FetchRecord
}

// NewSimulatedProvider creates an empty provider.
func NewSimulatedProvider() *SimulatedProvider {
	logrus.Warn("SIMULATION FUNCTION - NOT A REAL OPERATION")
	logrus.WithFields(logrus.Fields{
		"function": "NewSimulatedProvider",
	}).Info("Creating simulated track provider")

	return &SimulatedProvider{
		scripts:  make(map[string][]Response),
		attempts: make(map[string]int),
	}
}

// AddTrack makes locator always return data.
func (s *SimulatedProvider) AddTrack(locator string, data []byte) {
	s.Script(locator, Payload(data))
}

// Script sets the responses for locator. Responses are consumed in order and
// the last one repeats once the script is exhausted.
func (s *SimulatedProvider) Script(locator string, responses ...Response) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scripts[locator] = responses
	s.attempts[locator] = 0
}

// Fetch implements interfaces.ITrackProvider.
func (s *SimulatedProvider) Fetch(ctx context.Context, locator string) (io.ReadCloser, error) {
	s.mu.Lock()
	script, ok := s.scripts[locator]
	attempt := s.attempts[locator]
	s.attempts[locator] = attempt + 1
	s.mu.Unlock()

	var resp Response
	if !ok || len(script) == 0 {
		resp = Response{Err: &interfaces.FetchError{Kind: interfaces.FetchNotFound}}
	} else {
		resp = script[minInt(attempt, len(script)-1)]
	}

	if resp.Delay > 0 {
		timer := time.NewTimer(resp.Delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			s.record(locator, attempt, ctx.Err())
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	logrus.WithFields(logrus.Fields{
		"function": "SimulatedProvider.Fetch",
		"locator":  locator,
		"attempt":  attempt,
		"success":  resp.Err == nil,
	}).Debug("Simulating track fetch")

	s.record(locator, attempt, resp.Err)
	if resp.Err != nil {
		return nil, resp.Err
	}
	return io.NopCloser(bytes.NewReader(resp.Data)), nil
}

func (s *SimulatedProvider) record(locator string, attempt int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetchLog = append(s.fetchLog, FetchRecord{
		Locator:   locator,
		Attempt:   attempt,
		Timestamp: time.Now().UnixNano(),
		Success:   err == nil,
		Error:     err,
	})
}

// Name implements interfaces.ITrackProvider.
func (s *SimulatedProvider) Name() string { return "simulated" }

// IsSimulation implements interfaces.ITrackProvider.
func (s *SimulatedProvider) IsSimulation() bool { return true }

// GetFetchLog returns a copy of all recorded fetches.
func (s *SimulatedProvider) GetFetchLog() []FetchRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]FetchRecord, len(s.fetchLog))
	copy(out, s.fetchLog)
	return out
}

// FetchCount returns how many times locator was fetched.
func (s *SimulatedProvider) FetchCount(locator string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attempts[locator]
}

// ClearFetchLog resets the log and attempt counters, keeping the scripts.
func (s *SimulatedProvider) ClearFetchLog() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetchLog = nil
	for k := range s.attempts {
		s.attempts[k] = 0
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
