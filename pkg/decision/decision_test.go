package decision_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/newjec/bizbrain/pkg/decision"
	"github.com/newjec/bizbrain/pkg/schema"
	"github.com/stretchr/testify/assert"
)

func testConfig() decision.Config {
	return decision.Config{
		MinContent:  500,
		IdleTimeout: 50 * time.Millisecond,
		Dwell:       20 * time.Millisecond,
	}
}

func tokenEvent() *schema.Event {
	return &schema.Event{Type: schema.EventToken, Content: "delta"}
}

func completeEvent() *schema.Event {
	return &schema.Event{Type: schema.EventComplete}
}

func TestCompleteEventFiresOnce(t *testing.T) {
	assert := assert.New(t)

	var fired atomic.Int32
	fsm := decision.New(testConfig(), func() { fired.Add(1) })
	assert.Equal(decision.Idle, fsm.State())

	fsm.OnEvent(tokenEvent())
	assert.Equal(decision.Streaming, fsm.State())
	assert.Equal(int32(0), fired.Load())

	fsm.OnEvent(completeEvent())
	assert.Equal(decision.Completing, fsm.State())
	assert.Equal(int32(0), fired.Load(), "must not fire before the dwell")

	time.Sleep(100 * time.Millisecond)
	assert.Equal(decision.Transitioned, fsm.State())
	assert.Equal(int32(1), fired.Load())

	// a duplicate terminal signal must be suppressed
	fsm.OnEvent(completeEvent())
	fsm.OnSessionClosed(10_000)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(int32(1), fired.Load())
}

func TestManualDuringDwellFiresImmediately(t *testing.T) {
	assert := assert.New(t)

	var fired atomic.Int32
	fsm := decision.New(testConfig(), func() { fired.Add(1) })

	fsm.OnEvent(tokenEvent())
	fsm.OnEvent(completeEvent())
	fsm.ManualProceed()
	assert.Equal(decision.Transitioned, fsm.State())
	assert.Equal(int32(1), fired.Load())

	// the pending automatic firing must have been cancelled
	time.Sleep(100 * time.Millisecond)
	assert.Equal(int32(1), fired.Load())
}

func TestClosedWithSubstantialContent(t *testing.T) {
	assert := assert.New(t)

	var fired atomic.Int32
	fsm := decision.New(testConfig(), func() { fired.Add(1) })

	fsm.OnEvent(tokenEvent())
	fsm.OnSessionClosed(501)
	assert.Equal(decision.Completing, fsm.State())

	time.Sleep(100 * time.Millisecond)
	assert.Equal(int32(1), fired.Load())
}

func TestClosedBelowThresholdDoesNotFire(t *testing.T) {
	assert := assert.New(t)

	var fired atomic.Int32
	fsm := decision.New(testConfig(), func() { fired.Add(1) })

	fsm.OnEvent(tokenEvent())
	fsm.OnSessionClosed(120)
	time.Sleep(100 * time.Millisecond)
	assert.Equal(decision.Streaming, fsm.State(), "insufficient content is not completion evidence")
	assert.Equal(int32(0), fired.Load())
}

func TestIdleTimeoutExposesManualProceed(t *testing.T) {
	assert := assert.New(t)

	var fired atomic.Int32
	fsm := decision.New(testConfig(), func() { fired.Add(1) })

	fsm.OnEvent(tokenEvent())
	time.Sleep(100 * time.Millisecond)
	assert.Equal(decision.ManualReady, fsm.State())
	assert.Equal(int32(0), fired.Load(), "the timeout itself never transitions")

	fsm.ManualProceed()
	assert.Equal(decision.Transitioned, fsm.State())
	assert.Equal(int32(1), fired.Load())
}

func TestCancelSuppressesCallback(t *testing.T) {
	assert := assert.New(t)

	var fired atomic.Int32
	fsm := decision.New(testConfig(), func() { fired.Add(1) })

	fsm.OnEvent(tokenEvent())
	fsm.OnEvent(completeEvent())
	fsm.Cancel()
	assert.Equal(decision.Aborted, fsm.State())

	// neither the armed dwell nor any later signal may fire
	fsm.ManualProceed()
	fsm.OnSessionClosed(10_000)
	time.Sleep(100 * time.Millisecond)
	assert.Equal(int32(0), fired.Load())
	assert.Equal(decision.Aborted, fsm.State())

	// cancel is idempotent
	fsm.Cancel()
	assert.Equal(decision.Aborted, fsm.State())
}

func TestCancelAfterTransitionIsIgnored(t *testing.T) {
	assert := assert.New(t)

	var fired atomic.Int32
	fsm := decision.New(testConfig(), func() { fired.Add(1) })

	fsm.OnEvent(tokenEvent())
	fsm.OnEvent(completeEvent())
	fsm.ManualProceed()
	fsm.Cancel()
	assert.Equal(decision.Transitioned, fsm.State())
	assert.Equal(int32(1), fired.Load())
}

func TestCallbackMayReenter(t *testing.T) {
	assert := assert.New(t)

	// The callback runs outside the lock, so it may call back into the
	// machine without deadlocking
	var observed decision.State
	var fsm *decision.FSM
	fsm = decision.New(testConfig(), func() {
		observed = fsm.State()
		fsm.ManualProceed() // second firing path must be a no-op
	})

	fsm.OnEvent(tokenEvent())
	fsm.ManualProceed()
	assert.Equal(decision.Transitioned, observed)
	assert.Equal(decision.Transitioned, fsm.State())
}

func TestCallbackMayReenterFromDwell(t *testing.T) {
	assert := assert.New(t)

	done := make(chan decision.State, 1)
	var fsm *decision.FSM
	fsm = decision.New(testConfig(), func() {
		done <- fsm.State()
	})

	fsm.OnEvent(tokenEvent())
	fsm.OnEvent(completeEvent())
	select {
	case state := <-done:
		assert.Equal(decision.Transitioned, state)
	case <-time.After(time.Second):
		t.Fatal("dwell transition never fired")
	}
}
