package postgres_test

import (
	"errors"
	"io/fs"
	"reflect"
	"testing"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/suite"
	"github.com/xy-planning-network/enumcol"
	"github.com/xy-planning-network/enumcol/postgres"
	"gorm.io/gorm"
)

type DBTestSuite struct {
	suite.Suite

	cfg *postgres.CxnConfig
	db  *gorm.DB
}

func TestRunSuite(t *testing.T) {
	suite.Run(t, new(DBTestSuite))
}

func (suite *DBTestSuite) SetupSuite() {
	err := godotenv.Load("../.env")
	var pe *fs.PathError
	if err != nil && !errors.As(err, &pe) {
		suite.Require().FailNow(err.Error())
	}

	suite.cfg = postgres.NewCxnConfig(enumcol.Testing)
	if !suite.cfg.Configured() {
		suite.T().Skip("DATABASE_TEST_* not set, skipping PostgreSQL tests")
	}

	r := enumcol.NewRegistry()
	suite.Require().Nil(r.AddType(answerColumn.Column()))
	suite.cfg.Registry = r

	suite.db, err = postgres.Connect(suite.cfg, []postgres.Migration{
		{
			Key:      "0001-create-answer-entities",
			Executor: func(tx *gorm.DB) error { return tx.Migrator().CreateTable(&AnswerEntity{}) },
		},
		postgres.CommentHintMigration("0002-comment-answer-entities", &AnswerEntity{}),
	}, enumcol.Testing)
	suite.Require().Nil(err)
}

func (suite *DBTestSuite) TearDownTest() {
	suite.Require().Nil(postgres.WipeDB(suite.db, "public"))
}

func (suite *DBTestSuite) TestColumnDefinition() {
	var col struct {
		DataType  string
		MaxLength int
		Comment   string
	}

	err := suite.db.Raw(`
		SELECT
			c.data_type,
			c.character_maximum_length AS max_length,
			col_description('answer_entities'::regclass, c.ordinal_position) AS comment
		FROM information_schema.columns c
		WHERE c.table_name = 'answer_entities' AND c.column_name = 'answer'
	`).Scan(&col).Error
	suite.Require().Nil(err)

	suite.Require().Equal("character varying", col.DataType)
	suite.Require().Equal(enumcol.DefaultWidth, col.MaxLength)

	name, ok := enumcol.ParseCommentHint(col.Comment)
	suite.Require().True(ok)
	suite.Require().Equal("enum_yes_no", name)
}

func (suite *DBTestSuite) TestRoundTrip() {
	no := No
	for _, answer := range []*Answer{&no, nil} {
		entity := AnswerEntity{Answer: answer}
		suite.Require().Nil(suite.db.Create(&entity).Error)
		suite.Require().NotZero(entity.ID)

		var loaded AnswerEntity
		suite.Require().Nil(suite.db.First(&loaded, entity.ID).Error)
		suite.Require().Equal(entity, loaded)
	}
}

func (suite *DBTestSuite) TestUnknownStoredValue() {
	err := suite.db.Exec(`INSERT INTO answer_entities (answer) VALUES (?)`, "MAYBE").Error
	suite.Require().Nil(err)

	var loaded []AnswerEntity
	err = suite.db.Find(&loaded).Error
	suite.Require().ErrorIs(err, enumcol.ErrConversion)
}

func (suite *DBTestSuite) TestTooNarrowColumnFailsConnect() {
	r := enumcol.NewRegistry()
	name := "enum_too_small_" + uuid.NewString()
	suite.Require().Nil(r.AddType(enumcol.New(name, reflect.TypeFor[Answer](), enumcol.WithWidth(2))))

	cfg := *suite.cfg
	cfg.IsTestDB = false
	cfg.Registry = r

	db, err := postgres.Connect(&cfg, nil, enumcol.Testing)
	suite.Require().Nil(db)
	suite.Require().ErrorIs(err, enumcol.ErrBadConfig)
	suite.Require().ErrorContains(err, name)
}
