package persistence

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/jxskiss/base62"

	"ashare-backtest-go/internal/models"
)

const runKeyPrefix = "run:"

// NewRunID 生成一个紧凑的运行标识：纳秒时间戳的 base62 编码。
func NewRunID() string {
	return string(base62.FormatInt(time.Now().UnixNano()))
}

// badgerRepository is the BadgerDB implementation of the ResultRepository.
type badgerRepository struct {
	db *badger.DB
}

// NewBadgerRepository creates and returns a new repository instance connected to a BadgerDB database.
func NewBadgerRepository(dbPath string) (ResultRepository, error) {
	opts := badger.DefaultOptions(dbPath)
	// Badger 自己的日志与应用日志混在一起只添乱，关掉；错误仍会从操作返回。
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return &badgerRepository{db: db}, nil
}

// SaveResult 将一次回测运行序列化为JSON后按运行ID落库。
func (r *badgerRepository) SaveResult(result *models.RunResult) error {
	if result.RunID == "" {
		return errors.New("运行结果缺少 RunID")
	}
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}

	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(runKeyPrefix+result.RunID), data)
	})
}

// LoadResult 按运行ID读取结果；不存在时返回 (nil, nil)。
func (r *badgerRepository) LoadResult(runID string) (*models.RunResult, error) {
	var result models.RunResult

	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(runKeyPrefix + runID))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &result)
		})
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// ListRunIDs 返回库中全部运行ID。
func (r *badgerRepository) ListRunIDs() ([]string, error) {
	var ids []string
	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(runKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			key := string(it.Item().Key())
			ids = append(ids, strings.TrimPrefix(key, runKeyPrefix))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// Close gracefully closes the connection to the database.
func (r *badgerRepository) Close() error {
	return r.db.Close()
}
