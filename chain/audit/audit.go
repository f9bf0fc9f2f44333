// Package audit keeps the append-only, human-readable record of
// economically significant operations. The state engine only writes
// to it; reporting reads it from outside.
package audit

import (
	"context"
	"encoding/json"
	"fmt"

	ds "github.com/ipfs/go-datastore"
	"golang.org/x/xerrors"

	"github.com/dcore-project/dcore/chain/types"
)

const (
	ContentSubmit = "content_submit"
	ContentBuy    = "content_buy"
	ContentRate   = "content_rate"
	EscrowReturn  = "escrow_return"
)

type Entry struct {
	Type        string
	From        types.AccountID
	To          types.AccountID
	Amount      types.BigInt
	Description string
	Timestamp   types.Timestamp
}

// Log is the write-only surface the evaluators see.
type Log interface {
	Append(e Entry) error

	// RewriteDescription updates the stored description of the most
	// recent entry recorded under old. Content resubmission uses it
	// when the listing's title changes.
	RewriteDescription(old, new string, ts types.Timestamp) error
}

// DSLog stores entries under sequential keys in a datastore. The
// datastore write path is the only I/O the core performs, and a
// failure there is surfaced to the caller as fatal.
type DSLog struct {
	ds  ds.Datastore
	seq uint64

	byDescription map[string]ds.Key
}

func NewLog(d ds.Datastore) *DSLog {
	return &DSLog{
		ds:            d,
		byDescription: make(map[string]ds.Key),
	}
}

func (l *DSLog) Append(e Entry) error {
	b, err := json.Marshal(&e)
	if err != nil {
		return xerrors.Errorf("marshaling audit entry: %w", err)
	}

	k := ds.NewKey(fmt.Sprintf("/audit/%020d", l.seq))
	if err := l.ds.Put(context.TODO(), k, b); err != nil {
		return xerrors.Errorf("appending audit entry: %w", err)
	}
	l.seq++

	if e.Description != "" {
		l.byDescription[e.Description] = k
	}
	return nil
}

func (l *DSLog) RewriteDescription(old, new string, ts types.Timestamp) error {
	k, ok := l.byDescription[old]
	if !ok {
		return nil // nothing recorded under the old title
	}

	b, err := l.ds.Get(context.TODO(), k)
	if err != nil {
		return xerrors.Errorf("loading audit entry for rewrite: %w", err)
	}

	var e Entry
	if err := json.Unmarshal(b, &e); err != nil {
		return xerrors.Errorf("decoding audit entry for rewrite: %w", err)
	}

	e.Description = new
	e.Timestamp = ts

	nb, err := json.Marshal(&e)
	if err != nil {
		return xerrors.Errorf("re-encoding audit entry: %w", err)
	}
	if err := l.ds.Put(context.TODO(), k, nb); err != nil {
		return xerrors.Errorf("rewriting audit entry: %w", err)
	}

	delete(l.byDescription, old)
	l.byDescription[new] = k
	return nil
}
