// Package filerepo хранилище в одном JSON файле. Все изменения сериализуются одной блокировкой записи,
// каждая единица работы пишет документ на диск атомарно до того, как изменения станут видны читателям.
package filerepo

import (
	"context"
	"sync"

	"github.com/fsdevblog/garant/internal/repository/repoargs"
	"github.com/fsdevblog/garant/pkg/uow"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Store реализует uow.UOW поверх JSON документа.
type Store struct {
	mu     sync.RWMutex
	path   string
	state  *snapshot
	closed bool
	l      *logrus.Entry
}

// Open загружает документ из path. Если файла нет, хранилище стартует пустым.
func Open(path string, l *logrus.Logger) (*Store, error) {
	state, err := loadSnapshot(path)
	if err != nil {
		return nil, err
	}
	entry := l.WithFields(logrus.Fields{
		"component": "repository",
		"module":    "filerepo",
	})
	entry.WithFields(logrus.Fields{
		"path":     path,
		"accounts": len(state.Accounts),
		"deals":    len(state.Deals),
	}).Info("data file loaded")

	return &Store{
		path:  path,
		state: state,
		l:     entry,
	}, nil
}

// Do выполняет fn над копией документа под блокировкой записи. Если fn вернула ошибку или документ не
// удалось сохранить, копия отбрасывается и состояние не меняется.
func (s *Store) Do(ctx context.Context, fn func(context.Context, uow.TX) error) error {
	if err := ctx.Err(); err != nil {
		return err //nolint:wrapcheck
	}
	return s.commit(func(tx *transaction) error {
		return fn(ctx, tx)
	})
}

func (s *Store) commit(fn func(tx *transaction) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	tx := &transaction{state: s.state.clone()}
	if err := fn(tx); err != nil {
		return err
	}
	if !tx.dirty {
		return nil
	}
	if err := saveSnapshot(s.path, tx.state); err != nil {
		s.l.WithError(err).Error("save snapshot")
		return errors.Wrap(err, "[repository/filerepo] commit")
	}
	s.state = tx.state
	return nil
}

// GetRepository возвращает репозиторий, работающий вне единицы работы. Чтение берет блокировку чтения,
// каждая запись выполняется отдельной единицей работы.
//
// Такие репозитории нельзя вызывать внутри Do: блокировка не реентерабельна.
func (s *Store) GetRepository(name uow.RepositoryName) (uow.Repository, error) {
	return newRepository(name, storeSource{s: s})
}

// Close запрещает дальнейшие записи. Вызывается после остановки всех фоновых задач.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// source дает репозиторию доступ к документу.
type source interface {
	read(fn func(s *snapshot) error) error
	write(fn func(s *snapshot) error) error
}

type transaction struct {
	state *snapshot
	dirty bool
}

func (t *transaction) Get(name uow.RepositoryName) (uow.Repository, error) {
	return newRepository(name, txSource{tx: t})
}

type txSource struct {
	tx *transaction
}

func (t txSource) read(fn func(s *snapshot) error) error {
	return fn(t.tx.state)
}

func (t txSource) write(fn func(s *snapshot) error) error {
	if err := fn(t.tx.state); err != nil {
		return err
	}
	t.tx.dirty = true
	return nil
}

type storeSource struct {
	s *Store
}

func (ss storeSource) read(fn func(s *snapshot) error) error {
	ss.s.mu.RLock()
	defer ss.s.mu.RUnlock()
	return fn(ss.s.state)
}

func (ss storeSource) write(fn func(s *snapshot) error) error {
	return ss.s.commit(func(tx *transaction) error {
		return txSource{tx: tx}.write(fn)
	})
}

func newRepository(name uow.RepositoryName, src source) (uow.Repository, error) {
	switch repoargs.RepositoryName(name) {
	case repoargs.AccountRepoName:
		return &AccountRepository{src: src}, nil
	case repoargs.TransactionRepoName:
		return &TransactionRepository{src: src}, nil
	case repoargs.DealRepoName:
		return &DealRepository{src: src}, nil
	case repoargs.InvoiceRepoName:
		return &InvoiceRepository{src: src}, nil
	case repoargs.LedgerRepoName:
		return &LedgerRepository{src: src}, nil
	default:
		return nil, uow.ErrRepositoryNotRegistered
	}
}
