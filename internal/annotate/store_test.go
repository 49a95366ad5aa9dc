package annotate_test

import (
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/envskema/internal/annotate"
)

type node struct {
	rule string
}

func TestStore_RegisterAndLookup(t *testing.T) {
	s := annotate.New[node, string]()
	n := &node{rule: "string"}

	_, ok := s.Lookup(n)
	assert.False(t, ok)

	s.Register(n, "PORT")
	got, ok := s.Lookup(n)
	require.True(t, ok)
	assert.Equal(t, "PORT", got)
}

func TestStore_IdentityNotEquality(t *testing.T) {
	s := annotate.New[node, string]()
	a := &node{rule: "same"}
	b := &node{rule: "same"}

	s.Register(a, "A")
	s.Register(b, "B")

	ga, _ := s.Lookup(a)
	gb, _ := s.Lookup(b)
	assert.Equal(t, "A", ga)
	assert.Equal(t, "B", gb)

	clone := *a
	_, ok := s.Lookup(&clone)
	assert.False(t, ok, "a copy must not inherit the annotation")
}

func TestStore_OverwriteSilently(t *testing.T) {
	s := annotate.New[node, string]()
	n := &node{}
	s.Register(n, "first")
	s.Register(n, "second")

	got, ok := s.Lookup(n)
	require.True(t, ok)
	assert.Equal(t, "second", got)
	assert.Equal(t, 1, s.Len())
}

func TestStore_NilIgnored(t *testing.T) {
	s := annotate.New[node, string]()
	s.Register(nil, "x")
	_, ok := s.Lookup(nil)
	assert.False(t, ok)
	assert.Zero(t, s.Len())
}

//go:noinline
func registerUnreachable(s *annotate.Store[node, string], n int) {
	for i := 0; i < n; i++ {
		s.Register(&node{rule: "number"}, "PORT")
	}
}

func TestStore_EvictsUnreachable(t *testing.T) {
	s := annotate.New[node, string]()
	registerUnreachable(s, 100)
	require.Equal(t, 100, s.Len())

	for i := 0; i < 50 && s.Len() > 0; i++ {
		runtime.GC()
		time.Sleep(10 * time.Millisecond)
	}
	assert.Equal(t, 0, s.Len(), "entries must go away with their nodes")
}

func TestStore_KeepsReachable(t *testing.T) {
	s := annotate.New[node, string]()
	n := &node{rule: "string"}
	s.Register(n, "HOST")
	registerUnreachable(s, 10)

	for i := 0; i < 50 && s.Len() > 1; i++ {
		runtime.GC()
		time.Sleep(10 * time.Millisecond)
	}
	require.Equal(t, 1, s.Len())
	got, ok := s.Lookup(n)
	require.True(t, ok)
	assert.Equal(t, "HOST", got)
	runtime.KeepAlive(n)
}
