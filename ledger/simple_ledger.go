package ledger

import (
	"fmt"
	"github.com/coopgov/coopgov-go/types/xerrors"
	"github.com/cosmos/iavl"
	tmdb "github.com/tendermint/tm-db"
	"sort"
	"sync"
)

type SimpleLedger[T ILedgerItem] struct {
	db          tmdb.DB
	tree        *iavl.MutableTree
	lastHash    []byte
	cachedItems *memItems[T]
	getNewItem  func() T

	mtx sync.RWMutex
}

// NewSimpleLedger opens (or creates) the tree `name` in dbDir.
// backend is a tm-db backend name such as "goleveldb" or "memdb".
func NewSimpleLedger[T ILedgerItem](name, backend, dbDir string, cacheSize int, cb func() T) (*SimpleLedger[T], xerrors.XError) {
	if db, err := tmdb.NewDB(name, tmdb.BackendType(backend), dbDir); err != nil {
		return nil, xerrors.From(err)
	} else if tree, err := iavl.NewMutableTree(db, cacheSize); err != nil {
		_ = db.Close()
		return nil, xerrors.From(err)
	} else if _, err := tree.Load(); err != nil {
		_ = db.Close()
		return nil, xerrors.From(err)
	} else {
		return &SimpleLedger[T]{
			db:          db,
			tree:        tree,
			cachedItems: newMemItems[T](),
			getNewItem:  cb,
		}, nil
	}
}

func (ledger *SimpleLedger[T]) Version() int64 {
	ledger.mtx.RLock()
	defer ledger.mtx.RUnlock()

	return ledger.tree.Version()
}

func (ledger *SimpleLedger[T]) Hash() []byte {
	ledger.mtx.RLock()
	defer ledger.mtx.RUnlock()

	return ledger.lastHash
}

func (ledger *SimpleLedger[T]) Set(item T) xerrors.XError {
	ledger.mtx.Lock()
	defer ledger.mtx.Unlock()

	ledger.cachedItems.setUpdatedItem(item)
	ledger.cachedItems.setGotItem(item)
	return nil
}

// Get returns the cached item for key, loading a fresh decoded copy from
// the tree on a miss. Mutating the returned item never touches committed state.
func (ledger *SimpleLedger[T]) Get(key LedgerKey) (T, xerrors.XError) {
	ledger.mtx.Lock()
	defer ledger.mtx.Unlock()

	return ledger.get(key)
}

func (ledger *SimpleLedger[T]) get(key LedgerKey) (T, xerrors.XError) {

	// search in cachedItems
	if item, ok := ledger.cachedItems.getGotItem(key); ok {
		return item, nil
	}

	var emptyNil T
	if item, xerr := ledger.read(key); xerr != nil {
		return emptyNil, xerr
	} else {
		ledger.cachedItems.setGotItem(item)
		return item, nil
	}
}

// Read only reads committed state and does not touch the cache.
func (ledger *SimpleLedger[T]) Read(key LedgerKey) (T, xerrors.XError) {
	ledger.mtx.RLock()
	defer ledger.mtx.RUnlock()

	return ledger.read(key)
}

func (ledger *SimpleLedger[T]) read(key LedgerKey) (T, xerrors.XError) {
	var emptyNil T
	item := ledger.getNewItem()

	if bz, err := ledger.tree.Get(key[:]); err != nil {
		return emptyNil, xerrors.From(err)
	} else if bz == nil {
		return emptyNil, xerrors.ErrNotFoundResult
	} else if err := item.Decode(bz); err != nil {
		return emptyNil, xerrors.From(err)
	} else if key != item.Key() {
		return emptyNil, xerrors.NewOrdinary("simple_ledger: the key is compromised - the requested key is not equal to the key encoded in value")
	} else {
		return item, nil
	}
}

// IterateReadAllItems visits committed items in key order.
func (ledger *SimpleLedger[T]) IterateReadAllItems(cb func(T) xerrors.XError) xerrors.XError {
	ledger.mtx.RLock()
	defer ledger.mtx.RUnlock()

	var cbErr xerrors.XError
	stopped, err := ledger.tree.Iterate(func(key []byte, value []byte) bool {
		item := ledger.getNewItem()
		if xerr := item.Decode(value); xerr != nil {
			cbErr = xerrors.From(fmt.Errorf("unable to decode item - key:%X, error:%v", key, xerr))
			return true
		} else if item.Key() != ToLedgerKey(key) {
			cbErr = xerrors.From(fmt.Errorf("wrong key - Key:%X vs. item's key:%X", key, item.Key()))
			return true
		} else if xerr := cb(item); xerr != nil {
			cbErr = xerr
			return true
		}
		return false
	})

	if err != nil {
		return xerrors.From(err)
	} else if cbErr != nil {
		return cbErr
	} else if stopped {
		return xerrors.NewOrdinary("stop to iterate ledger tree")
	}
	return nil
}

func (ledger *SimpleLedger[T]) Commit() ([]byte, int64, xerrors.XError) {
	ledger.mtx.Lock()
	defer ledger.mtx.Unlock()

	var keys LedgerKeyList
	for k := range ledger.cachedItems.updatedItems {
		keys = append(keys, k)
	}
	// root hash may be different by update order
	sort.Sort(keys)

	for _, k := range keys {
		_val := ledger.cachedItems.updatedItems[k]
		_key := _val.Key()
		if bz, err := _val.Encode(); err != nil {
			return nil, -1, err
		} else if _, err := ledger.tree.Set(_key[:], bz); err != nil {
			return nil, -1, xerrors.From(err)
		}
	}

	if r1, r2, err := ledger.tree.SaveVersion(); err != nil {
		return r1, r2, xerrors.From(err)
	} else {
		ledger.lastHash = r1
		ledger.cachedItems.reset()
		return r1, r2, nil
	}
}

func (ledger *SimpleLedger[T]) Rollback() {
	ledger.mtx.Lock()
	defer ledger.mtx.Unlock()

	ledger.cachedItems.reset()
}

func (ledger *SimpleLedger[T]) Close() xerrors.XError {
	ledger.mtx.Lock()
	defer ledger.mtx.Unlock()

	if ledger.db != nil {
		if err := ledger.db.Close(); err != nil {
			return xerrors.From(err)
		}
	}

	ledger.db = nil
	ledger.tree = nil
	return nil
}

var _ ILedger[ILedgerItem] = (*SimpleLedger[ILedgerItem])(nil)
