package breather

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTickerSource_StartsStopped(t *testing.T) {
	ts := NewTickerSource(5 * time.Millisecond)

	select {
	case <-ts.C():
		t.Fatal("tick before Start")
	case <-time.After(30 * time.Millisecond):
	}
}

func TestTickerSource_StartStop(t *testing.T) {
	ts := NewTickerSource(5 * time.Millisecond)

	ts.Start()
	select {
	case <-ts.C():
	case <-time.After(waitTimeout):
		t.Fatal("no tick after Start")
	}

	ts.Stop()
	// Drain a tick that raced with Stop
	select {
	case <-ts.C():
	default:
	}
	select {
	case <-ts.C():
		t.Fatal("tick after Stop")
	case <-time.After(30 * time.Millisecond):
	}

	ts.Start()
	select {
	case <-ts.C():
	case <-time.After(waitTimeout):
		t.Fatal("no tick after restart")
	}
	ts.Stop()
	assert.NotNil(t, ts.C())
}
