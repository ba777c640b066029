package store

import (
	"crypto/rand"
	"encoding/base32"
	"fmt"
	"strings"
	"sync/atomic"
)

var idSeq atomic.Uint64

// newTaskIDLocked returns task-<suffix> where suffix is 8 chars of base32
// (lowercase, no padding). 8 chars base32 ~= 40 bits of space; on the off
// chance of a collision with a live task we re-roll, and if randomness is
// unavailable we fall back to a process-local sequence number.
//
// Caller must hold s.mu.
func (s *Store) newTaskIDLocked() string {
	for tries := 0; tries < 4; tries++ {
		id, err := newRandomID("task")
		if err != nil {
			break
		}
		if _, exists := s.snap.Find(id); !exists {
			return id
		}
	}
	return fmt.Sprintf("task-seq%d", idSeq.Add(1))
}

func newRandomID(prefix string) (string, error) {
	var b [5]byte // 40 bits -> 8 base32 chars
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	enc := base32.StdEncoding.WithPadding(base32.NoPadding)
	suffix := strings.ToLower(enc.EncodeToString(b[:]))
	return prefix + "-" + suffix, nil
}
