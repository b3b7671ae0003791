// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum/event"
	"github.com/pkg/errors"

	"github.com/tacolabs/childapp/cache"
	"github.com/tacolabs/childapp/co"
	"github.com/tacolabs/childapp/genesis"
	"github.com/tacolabs/childapp/kv"
	"github.com/tacolabs/childapp/log"
	"github.com/tacolabs/childapp/logdb"
	"github.com/tacolabs/childapp/runtime"
	"github.com/tacolabs/childapp/state"
	"github.com/tacolabs/childapp/taco"
	"github.com/tacolabs/childapp/tx"
)

var logger = log.WithContext("pkg", "node")

// Options to create a node.
type Options struct {
	// StateCacheSize is the number of storage slots kept in the read cache, 0 disables it.
	StateCacheSize int
	// Clock returns the current unix time in seconds, defaults to the wall clock.
	Clock func() uint64
}

// Node executes clauses one at a time. Each accepted clause forms a block.
type Node struct {
	lock       sync.RWMutex
	db         kv.Store
	meta       kv.Store
	stateCache *cache.LRU
	logDB      *logdb.LogDB
	genesisID  taco.Bytes32
	head       *Block
	clock      func() uint64

	clockOffset  atomic.Int64
	clockChecked atomic.Bool

	feed  event.Feed
	scope event.SubscriptionScope
	goes  co.Goes
}

// New opens the node on the given store. The genesis state is built on an empty store,
// otherwise the stored genesis id must match.
func New(db kv.Store, logDB *logdb.LogDB, gene *genesis.Genesis, opts Options) (*Node, error) {
	n := &Node{
		db:        db,
		meta:      metaBucket.NewStore(db),
		logDB:     logDB,
		genesisID: gene.ID(),
		clock:     opts.Clock,
	}
	if n.clock == nil {
		n.clock = func() uint64 { return uint64(time.Now().Unix()) }
	}
	if opts.StateCacheSize > 0 {
		c, err := cache.NewLRU(opts.StateCacheSize)
		if err != nil {
			return nil, err
		}
		n.stateCache = c
	}

	var storedID taco.Bytes32
	found, err := loadMeta(n.meta, genesisIDKey, &storedID)
	if err != nil {
		return nil, errors.Wrap(err, "load genesis id")
	}
	if found {
		if storedID != n.genesisID {
			return nil, errors.Errorf("genesis mismatch: stored %v, given %v", storedID, n.genesisID)
		}
		var head Block
		if _, err := loadMeta(n.meta, headKey, &head); err != nil {
			return nil, errors.Wrap(err, "load head")
		}
		n.head = &head
		if err := n.syncLogDB(); err != nil {
			return nil, err
		}
		return n, nil
	}

	if err := n.initGenesis(gene); err != nil {
		return nil, err
	}
	logger.Info("genesis initialized", "name", gene.Name(), "id", n.genesisID)
	return n, nil
}

func (n *Node) initGenesis(gene *genesis.Genesis) error {
	events, err := gene.Build(state.New(n.db, n.stateCache))
	if err != nil {
		return errors.Wrap(err, "build genesis")
	}
	head := &Block{Number: 0, Time: gene.LaunchTime()}

	w := n.logDB.NewWriter()
	if err := w.Write(head.info(), events); err != nil {
		_ = w.Rollback()
		return errors.Wrap(err, "index genesis events")
	}
	if err := saveMeta(n.meta, headKey, head); err != nil {
		_ = w.Rollback()
		return err
	}
	if err := saveMeta(n.meta, genesisIDKey, n.genesisID); err != nil {
		_ = w.Rollback()
		return err
	}
	if err := w.Commit(); err != nil {
		return err
	}
	n.head = head
	return nil
}

// syncLogDB drops indexed events of blocks beyond the stored head.
func (n *Node) syncLogDB() error {
	newest, err := n.logDB.NewestBlockNumber()
	if err != nil {
		return errors.Wrap(err, "newest indexed block")
	}
	if newest <= n.head.Number {
		return nil
	}
	logger.Warn("truncating log db", "from", n.head.Number+1, "to", newest)
	w := n.logDB.NewWriter()
	if err := w.Truncate(n.head.Number + 1); err != nil {
		_ = w.Rollback()
		return errors.Wrap(err, "truncate log db")
	}
	return w.Commit()
}

// Run runs background routines until ctx is done.
func (n *Node) Run(ctx context.Context) error {
	defer n.goes.Wait()
	n.goes.Go(func() { n.houseKeeping(ctx) })
	<-ctx.Done()
	return nil
}

// Close unsubscribes all subscribers.
func (n *Node) Close() {
	n.scope.Close()
}

// GenesisID returns the genesis id.
func (n *Node) GenesisID() taco.Bytes32 {
	return n.genesisID
}

// Head returns the latest block.
func (n *Node) Head() Block {
	n.lock.RLock()
	defer n.lock.RUnlock()
	return *n.head
}

func (n *Node) LogDB() *logdb.LogDB {
	return n.logDB
}

// SubscribeEvents subscribes events of newly committed blocks.
func (n *Node) SubscribeEvents(ch chan<- *BlockEvents) event.Subscription {
	return n.scope.Track(n.feed.Subscribe(ch))
}

// nextTime returns the timestamp of the next block, which never precedes the head.
func (n *Node) nextTime() uint64 {
	if now := n.clock(); now > n.head.Time {
		return now
	}
	return n.head.Time
}

// Execute executes the clause as a new block. A reverted clause forms no block and changes nothing.
func (n *Node) Execute(clause *tx.Clause) (*tx.Receipt, *Block, error) {
	n.lock.Lock()
	defer n.lock.Unlock()

	startTime := time.Now()
	blk := &Block{
		Number: n.head.Number + 1,
		Time:   n.nextTime(),
		Caller: clause.Caller(),
		To:     clause.To(),
	}
	blk.ClauseID = clause.ID(blk.Number, 0)

	st := state.New(n.db, n.stateCache)
	receipt, err := runtime.New(st, blk.Number, blk.Time).ExecuteClause(clause)
	if err != nil {
		return nil, nil, err
	}
	if receipt.Reverted {
		logger.Debug("clause reverted", "to", blk.To, "caller", blk.Caller)
		return receipt, nil, nil
	}
	if err := n.commit(st, blk, receipt.Events); err != nil {
		logger.Error("failed to commit block", "number", blk.Number, "err", err)
		// the kv bulk may have landed before the index failed
		var head Block
		if found, loadErr := loadMeta(n.meta, headKey, &head); loadErr == nil && found {
			n.head = &head
		}
		return nil, nil, err
	}
	n.head = blk

	metricBlockCount().Add(1)
	metricHeadNumber().Set(int64(blk.Number))
	n.reportCacheStats()
	logger.Debug("block committed",
		"number", blk.Number,
		"clause", blk.ClauseID.AbbrevString(),
		"events", len(receipt.Events),
		"elapsed", time.Since(startTime))

	if len(receipt.Events) > 0 {
		n.feed.Send(&BlockEvents{Block: blk, Events: receipt.Events})
	}
	return receipt, blk, nil
}

func (n *Node) commit(st *state.State, blk *Block, events tx.Events) error {
	w := n.logDB.NewWriter()
	if err := w.Write(blk.info(), events); err != nil {
		_ = w.Rollback()
		return errors.Wrap(err, "index events")
	}
	// slots and head share one bulk
	saveHead := func(p kv.Putter) error {
		return errors.WithMessage(saveMeta(metaBucket.NewPutter(p), headKey, blk), "save head")
	}
	if _, err := st.Commit(saveHead); err != nil {
		_ = w.Rollback()
		return errors.Wrap(err, "commit state")
	}
	return w.Commit()
}

func (n *Node) reportCacheStats() {
	if n.stateCache == nil {
		return
	}
	if changed, hit, miss := n.stateCache.Stats().Stats(); changed {
		metricStateCache().SetWithLabel(hit, map[string]string{"type": "hit"})
		metricStateCache().SetWithLabel(miss, map[string]string{"type": "miss"})
		logger.Debug("state cache stats", "hit", hit, "miss", miss)
	}
}

// Call executes the clause in read-only mode against the latest state.
func (n *Node) Call(clause *tx.Clause) (*tx.Receipt, error) {
	n.lock.RLock()
	defer n.lock.RUnlock()

	st := state.New(n.db, n.stateCache)
	return runtime.New(st, n.head.Number, n.nextTime()).Call(clause)
}

func (b *Block) info() *logdb.BlockInfo {
	return &logdb.BlockInfo{
		Number:   b.Number,
		Time:     b.Time,
		ClauseID: b.ClauseID,
		Caller:   b.Caller,
	}
}
