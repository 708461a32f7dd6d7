//go:build integration
// +build integration

package tests

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	dbadapter "github.com/philipp-moriss/volunteers-backend/internal/adapter/db"
	"github.com/philipp-moriss/volunteers-backend/internal/config"
	"github.com/philipp-moriss/volunteers-backend/pkg/translator"
)

// Child tables first.
var dropOrder = []string{
	"push_subscriptions",
	"volunteer_ratings",
	"points_transactions",
	"task_responses",
	"task_skills",
	"tasks",
	"needies",
	"volunteer_skills",
	"volunteer_programs",
	"volunteers",
	"users",
	"cities",
	"city_groups",
	"skills",
	"categories",
	"programs",
}

type IntegrationSuiteBase struct {
	suite.Suite

	adminDB    *sqlx.DB
	DB         *sqlx.DB
	testDBName string
}

func (s *IntegrationSuiteBase) SetupSuite() {
	gin.SetMode(gin.TestMode)
	translator.InitTranslator(translator.Config{
		TranslationFolder:  filepath.Join(projectRoot(s.T()), "pkg", "translator", "translation"),
		SupportedLanguages: []string{translator.LanguageHe, translator.LanguageEn, translator.LanguageRu},
		DefaultLanguage:    translator.LanguageHe,
	})

	conf := &config.Config{
		DbHost:     envOrDefault("MYSQL_HOST", "127.0.0.1"),
		DbPort:     envOrDefault("MYSQL_PORT", "3306"),
		DbUser:     envOrDefault("MYSQL_ROOT_USER", "root"),
		DbPassword: envOrDefault("MYSQL_ROOT_PASSWORD", "root"),
		DbParams:   envOrDefault("MYSQL_PARAMS", "parseTime=true&multiStatements=true"),
	}
	database := envOrDefault("MYSQL_TEST_DATABASE", envOrDefault("MYSQL_DATABASE", "volunteers")+"_test")

	adminDSN, err := dbadapter.DSN(conf)
	s.Require().NoError(err)
	adminDB, err := sqlx.Connect("mysql", adminDSN)
	if err != nil {
		s.T().Skipf("skipping integration suite: could not connect to mysql: %v", err)
	}
	s.adminDB = adminDB

	_, err = s.adminDB.Exec(fmt.Sprintf("CREATE DATABASE IF NOT EXISTS `%s`", database))
	s.Require().NoError(err)

	conf.DbName = database
	db, err := dbadapter.ConnectDB(conf)
	s.Require().NoError(err)
	s.DB = db
	s.testDBName = database
}

func (s *IntegrationSuiteBase) TearDownSuite() {
	if s.DB != nil {
		s.Require().NoError(s.DB.Close())
	}

	// Drop test database to keep local environment clean after integration runs.
	if s.adminDB != nil && s.testDBName != "" && strings.HasSuffix(s.testDBName, "_test") {
		_, err := s.adminDB.Exec(fmt.Sprintf("DROP DATABASE IF EXISTS `%s`", s.testDBName))
		s.Require().NoError(err)
	}

	if s.adminDB != nil {
		s.Require().NoError(s.adminDB.Close())
	}
}

func (s *IntegrationSuiteBase) ResetDatabase() {
	applyTestMigrations(s.T(), s.DB)
}

// Exec runs seed statements, failing the test on error.
func (s *IntegrationSuiteBase) Exec(query string, args ...interface{}) {
	_, err := s.DB.Exec(query, args...)
	s.Require().NoError(err)
}

func applyTestMigrations(t *testing.T, db *sqlx.DB) {
	t.Helper()

	for _, table := range dropOrder {
		_, err := db.Exec("DROP TABLE IF EXISTS " + table)
		require.NoError(t, err)
	}

	files, err := filepath.Glob(filepath.Join(projectRoot(t), "db", "migrations", "*.up.sql"))
	require.NoError(t, err)
	require.NotEmpty(t, files)
	sort.Strings(files)

	for _, file := range files {
		content, readErr := os.ReadFile(file)
		require.NoError(t, readErr)
		_, execErr := db.Exec(string(content))
		require.NoError(t, execErr, filepath.Base(file))
	}
}

func projectRoot(t *testing.T) string {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	require.True(t, ok)
	return filepath.Clean(filepath.Join(filepath.Dir(thisFile), "..", "..", "..", ".."))
}

func envOrDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}
