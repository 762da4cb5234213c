package orm

import (
	"database/sql"

	goMysql "github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

var (
	ErrRecordNotFound = gorm.ErrRecordNotFound
	ErrDuplicatedKey  = gorm.ErrDuplicatedKey
)

type dbType int

const (
	dbTypeNoop dbType = iota
	dbTypeMySQL
	dbTypeSQLite
	dbTypePostgres
)

type DB struct {
	gormClient *gorm.DB

	dbType dbType
	dsn    string
}

type (
	TX         = gorm.DB
	Expression = clause.Expression
)

type Option func(*DB)

func UseMySQL(dsn string) Option {
	return func(db *DB) {
		db.dbType = dbTypeMySQL
		db.dsn = dsn
	}
}

func UsePostgres(dsn string) Option {
	return func(db *DB) {
		db.dbType = dbTypePostgres
		db.dsn = dsn
	}
}

func UseSQLite(fileName string) Option {
	return func(db *DB) {
		db.dbType = dbTypeSQLite
		db.dsn = fileName
	}
}

func CreateDB(useDB Option, options ...Option) (*DB, error) {
	var gormDB DB

	useDB(&gormDB)
	for _, option := range options {
		option(&gormDB)
	}

	var dialector gorm.Dialector
	switch gormDB.dbType {
	case dbTypeNoop:
		return &gormDB, nil
	case dbTypeMySQL:
		dialector = mysql.Open(gormDB.dsn)
	case dbTypeSQLite:
		dialector = sqlite.Open(gormDB.dsn)
	case dbTypePostgres:
		dialector = postgres.Open(gormDB.dsn)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, errors.Wrap(err, "connect db failed")
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "get core db failed")
	}
	if sqlDB.Ping() != nil {
		return nil, errors.New("ping core db failed")
	}

	gormDB.gormClient = db

	return &gormDB, nil
}

// Expr builds a raw SQL expression for single-statement updates, e.g.
// atomic counter increments.
func Expr(expr string, args ...interface{}) clause.Expr {
	return gorm.Expr(expr, args...)
}

func (db *DB) Transaction(fc func(tx *TX) error, opts ...*sql.TxOptions) error {
	return db.gormClient.Transaction(fc, opts...)
}

func (db *DB) AutoMigrate(dst ...interface{}) error {
	return db.gormClient.AutoMigrate(dst...)
}

func (db *DB) Exec(sql string, values ...interface{}) *TX {
	return db.gormClient.Exec(sql, values...)
}

func (db *DB) Model(value interface{}) *TX {
	return db.gormClient.Model(value)
}

func (db *DB) Where(query interface{}, args ...interface{}) *TX {
	return db.gormClient.Where(query, args...)
}

func (db *DB) Order(value interface{}) *TX {
	return db.gormClient.Order(value)
}

func (db *DB) Create(value interface{}) *TX {
	return db.gormClient.Create(value)
}

func (db *DB) First(dest interface{}, conds ...interface{}) error {
	return db.gormClient.First(dest, conds...).Error
}

func (db *DB) Find(dest interface{}, conds ...interface{}) *TX {
	return db.gormClient.Find(dest, conds...)
}

// ConvertMySQLErr maps the driver's duplicate-entry error to
// ErrDuplicatedKey for callers that match on sentinel errors.
func ConvertMySQLErr(err error) (error, bool) {
	var mysqlErr *goMysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
		return ErrDuplicatedKey, true
	}
	return nil, false
}
