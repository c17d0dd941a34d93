/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package undo

import (
	"testing"
	"time"
)

func snap(blob string) Snapshot {
	return Snapshot{Blob: []byte(blob), TS: time.Now()}
}

func TestUndoRedoRoundTrip(t *testing.T) {
	m := NewManager(Config{MaxBytes: 1024 * 1024, MaxDepth: 10})
	m.PushSnapshot(snap("a"))
	m.PushSnapshot(snap("b"))
	if _, depth, _ := m.Stats(); depth != 2 {
		t.Fatalf("expected 2 snapshots, got depth=%d", depth)
	}
	// current state is "c"; undo hands back "b" and parks "c" for redo
	s, ok := m.Undo(snap("c"))
	if !ok || string(s.Blob) != "b" {
		t.Fatalf("undo expected 'b', got ok=%v blob=%q", ok, string(s.Blob))
	}
	// after restoring "b", redo must bring back the parked "c"
	s, ok = m.Redo(snap("b"))
	if !ok || string(s.Blob) != "c" {
		t.Fatalf("redo expected 'c', got ok=%v blob=%q", ok, string(s.Blob))
	}
	// and undo again returns "b"
	s, ok = m.Undo(snap("c"))
	if !ok || string(s.Blob) != "b" {
		t.Fatalf("second undo expected 'b', got ok=%v blob=%q", ok, string(s.Blob))
	}
}

func TestCoalesce(t *testing.T) {
	m := NewManager(Config{MaxBytes: 1024 * 1024, MaxDepth: 10, MinInterval: 50 * time.Millisecond})
	t0 := time.Now()
	m.PushSnapshot(Snapshot{Blob: []byte("1"), TS: t0})
	m.PushSnapshot(Snapshot{Blob: []byte("2"), TS: t0.Add(10 * time.Millisecond)}) // coalesce
	if _, depth, _ := m.Stats(); depth != 1 {
		t.Fatalf("expected coalesced to 1 snapshot, got %d", depth)
	}
	s, ok := m.Undo(snap("3"))
	if !ok || string(s.Blob) != "2" {
		t.Fatalf("expected coalesced snapshot '2', got ok=%v blob=%q", ok, string(s.Blob))
	}
}

func TestNoCoalesceWhenDisabled(t *testing.T) {
	m := NewManager(Config{MaxBytes: 1024 * 1024, MaxDepth: 10})
	t0 := time.Now()
	m.PushSnapshot(Snapshot{Blob: []byte("1"), TS: t0})
	m.PushSnapshot(Snapshot{Blob: []byte("2"), TS: t0.Add(time.Millisecond)})
	if _, depth, _ := m.Stats(); depth != 2 {
		t.Fatalf("rapid pushes coalesced without MinInterval, depth=%d", depth)
	}
}

func TestCaps(t *testing.T) {
	m := NewManager(Config{MaxBytes: 20, MaxDepth: 2})
	for i := 0; i < 10; i++ {
		m.PushSnapshot(Snapshot{Blob: []byte("xxxxx"), TS: time.Now().Add(time.Duration(i) * time.Millisecond)})
	}
	tb, depth, _ := m.Stats()
	if depth > 2 {
		t.Fatalf("expected MaxDepth cap to limit to 2, got %d", depth)
	}
	if tb > 20 {
		t.Fatalf("expected MaxBytes cap to hold, got %d", tb)
	}
}

func TestPushInvalidatesRedo(t *testing.T) {
	m := NewManager(Config{MaxBytes: 1024, MaxDepth: 10})
	m.PushSnapshot(snap("a"))
	m.PushSnapshot(snap("b"))
	if _, ok := m.Undo(snap("c")); !ok {
		t.Fatalf("undo failed")
	}
	m.PushSnapshot(snap("d"))
	if _, ok := m.Redo(snap("d")); ok {
		t.Fatalf("redo should be invalidated by a new snapshot")
	}
}

func TestClearAndStats(t *testing.T) {
	m := NewManager(Config{MaxBytes: 1024, MaxDepth: 10})
	m.PushSnapshot(snap("abcdef"))
	tb, depth, _ := m.Stats()
	if tb == 0 || depth != 1 {
		t.Fatalf("unexpected stats before clear: tb=%d depth=%d", tb, depth)
	}
	m.Clear()
	tb2, depth2, redo2 := m.Stats()
	if tb2 != 0 || depth2 != 0 || redo2 != 0 {
		t.Fatalf("expected cleared stats to be zero, got tb=%d depth=%d redo=%d", tb2, depth2, redo2)
	}
}
