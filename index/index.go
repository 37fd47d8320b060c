// Package index stores derived addresses in LevelDB, keyed by address with
// the raw payload as value, and moves them in and out as gzip CSV.
package index

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"

	"Addrforge/address"
	"Addrforge/addresses"
	"Addrforge/constants"
	"Addrforge/logger"
	"Addrforge/utils"
)

var (
	ErrNotFound = errors.New("address not in index")
	ErrCorrupt  = errors.New("stored payload does not match address")
)

type Index struct {
	DB     *leveldb.DB
	Logger *log.Logger
	Path   string
	Stats  *addresses.Category

	writeMu sync.Mutex
}

// Open opens or creates the index at path and tallies what it holds.
func Open(localLog *log.Logger, path string) (*Index, error) {
	opts := &opt.Options{
		Filter:                 filter.NewBloomFilter(10),
		OpenFilesCacheCapacity: 500,
		BlockSize:              32 * 1024,
	}

	db, err := leveldb.OpenFile(path, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open index: %w", err)
	}

	ix := &Index{
		DB:     db,
		Logger: localLog,
		Path:   path,
		Stats:  &addresses.Category{},
	}

	startTime := time.Now()
	count, err := ix.loadStats()
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to load stats: %w", err)
	}
	if count > 0 {
		logger.LogStatus(localLog, constants.LogInfo,
			"Indexed Addresses: %s (%.1f seconds)",
			utils.FormatWithCommas(int(count)),
			time.Since(startTime).Seconds())
	}

	return ix, nil
}

func (ix *Index) Close() error {
	if ix.DB == nil {
		return nil
	}
	return ix.DB.Close()
}

// key lowercases addr; bech32 strings are stored in their canonical form.
func key(addr string) []byte {
	return []byte(constants.IndexKeyPrefix + strings.ToLower(addr))
}

func prefixRange() *util.Range {
	return util.BytesPrefix([]byte(constants.IndexKeyPrefix))
}

func (ix *Index) loadStats() (uint64, error) {
	iter := ix.DB.NewIterator(prefixRange(), nil)
	defer iter.Release()

	ix.Stats.Reset()
	count := uint64(0)
	for iter.Next() {
		payload, err := address.ParsePayload(iter.Value())
		if err != nil {
			logger.LogDebug(ix.Logger, constants.LogDB,
				"Skipping bad payload for %s", iter.Key()[len(constants.IndexKeyPrefix):])
			continue
		}
		ix.Stats.Add(payload.Header().Kind(), payload.Header().Network())
		count++
	}
	return count, iter.Error()
}

// Put stores one derivation.
func (ix *Index) Put(d *address.Derivation) error {
	return ix.PutBatch([]*address.Derivation{d})
}

// PutBatch stores derivations, flushing every constants.IndexBatchSize
// entries. Addresses already present are overwritten but counted once.
func (ix *Index) PutBatch(ds []*address.Derivation) error {
	ix.writeMu.Lock()
	defer ix.writeMu.Unlock()

	pb := newPendingBatch()
	for _, d := range ds {
		if err := ix.queue(pb, d.Address, d.Payload); err != nil {
			return err
		}
		if pb.batch.Len() >= constants.IndexBatchSize {
			if err := ix.flush(pb); err != nil {
				return err
			}
		}
	}
	return ix.flush(pb)
}

// pendingBatch is a write batch plus the headers of the addresses in it
// that are not stored yet. Stats only see them once the batch is written.
type pendingBatch struct {
	batch *leveldb.Batch
	fresh map[string]address.Header
}

func newPendingBatch() *pendingBatch {
	return &pendingBatch{
		batch: new(leveldb.Batch),
		fresh: make(map[string]address.Header),
	}
}

func (ix *Index) queue(pb *pendingBatch, addr string, payload address.Payload) error {
	k := key(addr)
	if _, ok := pb.fresh[string(k)]; !ok {
		has, err := ix.DB.Has(k, nil)
		if err != nil {
			return err
		}
		if !has {
			pb.fresh[string(k)] = payload.Header()
		}
	}
	pb.batch.Put(k, payload.Bytes())
	return nil
}

func (ix *Index) flush(pb *pendingBatch) error {
	if pb.batch.Len() == 0 {
		return nil
	}
	if err := ix.DB.Write(pb.batch, nil); err != nil {
		return err
	}
	for _, h := range pb.fresh {
		ix.Stats.Add(h.Kind(), h.Network())
	}
	pb.batch.Reset()
	pb.fresh = make(map[string]address.Header)
	return nil
}

// PutAddress parses addr and stores its payload.
func (ix *Index) PutAddress(addr string) error {
	dec, err := address.Parse(addr)
	if err != nil {
		return err
	}
	return ix.PutBatch([]*address.Derivation{{
		Fingerprint: dec.Fingerprint(),
		Payload:     dec.Payload,
		Address:     addr,
	}})
}

// Get returns the payload stored for addr after checking it is the one
// the address itself encodes.
func (ix *Index) Get(addr string) (address.Payload, error) {
	value, err := ix.DB.Get(key(addr), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return address.Payload{}, fmt.Errorf("%w: %s", ErrNotFound, addr)
	}
	if err != nil {
		return address.Payload{}, err
	}

	dec, err := address.Parse(addr)
	if err != nil {
		return address.Payload{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if !bytes.Equal(value, dec.Payload.Bytes()) {
		return address.Payload{}, fmt.Errorf("%w: %s", ErrCorrupt, addr)
	}
	return dec.Payload, nil
}

func (ix *Index) Has(addr string) (bool, error) {
	return ix.DB.Has(key(addr), nil)
}

// Count walks the index and returns the number of stored addresses.
func (ix *Index) Count() (uint64, error) {
	iter := ix.DB.NewIterator(prefixRange(), nil)
	defer iter.Release()

	count := uint64(0)
	for iter.Next() {
		count++
	}
	if err := iter.Error(); err != nil {
		return count, fmt.Errorf("error during address counting: %w", err)
	}
	return count, nil
}

// Addresses returns up to limit stored addresses in key order. A limit of
// zero or less returns all of them.
func (ix *Index) Addresses(limit int) ([]string, error) {
	iter := ix.DB.NewIterator(prefixRange(), nil)
	defer iter.Release()

	addrs := make([]string, 0, 64)
	for iter.Next() {
		addrs = append(addrs, string(iter.Key()[len(constants.IndexKeyPrefix):]))
		if limit > 0 && len(addrs) >= limit {
			break
		}
	}
	return addrs, iter.Error()
}
