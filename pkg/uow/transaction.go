package uow

import (
	"github.com/jackc/pgx/v5"
)

// Transaction реализация TX поверх pgx.Tx. Репозиторий создается один раз на транзакцию.
type Transaction struct {
	factories map[RepositoryName]RepositoryFactory
	created   map[RepositoryName]Repository
	tx        pgx.Tx
}

func NewTransaction(tx pgx.Tx, factories map[RepositoryName]RepositoryFactory) *Transaction {
	return &Transaction{
		factories: factories,
		created:   make(map[RepositoryName]Repository, len(factories)),
		tx:        tx,
	}
}

// Get возвращает репозиторий, привязанный к транзакции, или ошибку ErrRepositoryNotRegistered.
func (t *Transaction) Get(name RepositoryName) (Repository, error) {
	if repo, ok := t.created[name]; ok {
		return repo, nil
	}
	factory, ok := t.factories[name]
	if !ok {
		return nil, ErrRepositoryNotRegistered
	}
	repo := factory(t.tx)
	t.created[name] = repo
	return repo, nil
}

// GetAs возвращает репозиторий открытой единицы работы, приведенный к типу T.
// Возвращает ErrRepositoryNotRegistered и ErrInvalidRepositoryType.
func GetAs[T any](t TX, name RepositoryName) (T, error) {
	return as[T](t.Get(name))
}

// GetRepositoryAs то же, что GetAs, но для репозитория вне единицы работы.
func GetRepositoryAs[T any](u UOW, name RepositoryName) (T, error) {
	return as[T](u.GetRepository(name))
}

func as[T any](repo Repository, err error) (T, error) {
	var res T
	if err != nil {
		return res, err
	}
	res, ok := repo.(T)
	if !ok {
		return res, ErrInvalidRepositoryType
	}
	return res, nil
}
