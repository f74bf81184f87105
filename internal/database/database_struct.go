package database

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrNotFound      = errors.New("record not found")
	ErrDuplicate     = errors.New("duplicate record")
	ErrInvalidCursor = errors.New("unknown pagination cursor")
)

// invalid_text_representation: строка не разбирается как uuid
const pgInvalidTextRepresentation = "22P02"

type Database struct {
	db *gorm.DB
}

func NewDatabase(db *gorm.DB) *Database {
	return &Database{db: db}
}

type txKey struct{}

// WithTx выполняет cb в транзакции; вложенные вызовы переиспользуют текущую
func (d *Database) WithTx(ctx context.Context, cb func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return cb(ctx)
	}
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return cb(context.WithValue(ctx, txKey{}, tx))
	})
}

// conn возвращает транзакцию из контекста или общее соединение
func (d *Database) conn(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return d.db.WithContext(ctx)
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	case isMalformedID(err):
		// строки с таким id не может существовать
		return ErrNotFound
	default:
		return err
	}
}

func isMalformedID(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgInvalidTextRepresentation
}

// absent сводит ErrNotFound к пустому результату для запросов вида "есть ли строка"
func absent(err error) error {
	if err = translate(err); errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}
