package main

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestMalformedPayloadsAreLogged(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	c := &Client{log: zap.New(core), playerID: "p1"}

	// bad envelope, then well-formed envelopes with junk payloads; each is
	// dropped before touching the game and leaves a log entry behind
	c.handleMessage([]byte(`not json at all`))
	c.handleMessage([]byte(`{"t":"update","d":42}`))
	c.handleMessage([]byte(`{"t":"impact","d":"nope"}`))
	c.handleMessage([]byte(`{"t":"collect","d":[1,2]}`))
	c.handleMessage([]byte(`{"t":"structHit","d":"x"}`))

	if logs.Len() != 5 {
		t.Fatalf("logged %d entries, want 5", logs.Len())
	}
}
