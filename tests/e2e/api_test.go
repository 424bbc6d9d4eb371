package e2e

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/gavv/httpexpect/v2"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/suite"
	"github.com/vadimbarashkov/shortlink/internal/config"
	"github.com/vadimbarashkov/shortlink/tests"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// APITestSuite runs against an already running instance configured via
// CONFIG_PATH. Set SHORTLINK_E2E to enable it.
type APITestSuite struct {
	suite.Suite
	cfg *config.Config
	db  *sqlx.DB
	e   *httpexpect.Expect
}

func (suite *APITestSuite) SetupSuite() {
	if os.Getenv("SHORTLINK_E2E") == "" {
		suite.T().Skip("set SHORTLINK_E2E to run e2e tests")
	}

	root, err := tests.FindProjectRoot()
	if err != nil {
		suite.T().Fatalf("Failed to get project root: %v", err)
	}

	configPath := filepath.Join(root, os.Getenv("CONFIG_PATH"))

	suite.cfg, err = config.Load(configPath)
	if err != nil {
		suite.T().Fatalf("Failed to load config: %v", err)
	}

	suite.db, err = sqlx.Connect("pgx", suite.cfg.Postgres.DSN())
	if err != nil {
		suite.T().Fatalf("Failed to connect to database: %v", err)
	}
	suite.T().Cleanup(func() {
		suite.db.Close()
	})

	baseURL := fmt.Sprintf("http://localhost:%d", suite.cfg.HTTPServer.Port)
	suite.e = httpexpect.WithConfig(httpexpect.Config{
		BaseURL:  baseURL,
		Reporter: httpexpect.NewAssertReporter(suite.T()),
		Client: &http.Client{
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	})
}

func (suite *APITestSuite) TearDownSubTest() {
	_, err := suite.db.Exec(`TRUNCATE TABLE links RESTART IDENTITY CASCADE`)
	if err != nil {
		suite.T().Fatalf("Failed to clean links table: %v", err)
	}
}

func (suite *APITestSuite) TestPing() {
	suite.Run("success", func() {
		suite.e.GET("/api/v1/ping").
			Expect().
			Status(http.StatusOK).
			Text().IsEqual("pong\n")
	})
}

func (suite *APITestSuite) TestShortenResolveReport() {
	suite.Run("full lifecycle", func() {
		resp := suite.e.POST("/api/v1/shorten").
			WithJSON(map[string]any{"url": "https://example.com", "expiry_hours": 1}).
			Expect().
			Status(http.StatusCreated).
			JSON().Object()

		code := resp.Value("data").Object().Value("code").String().Raw()

		// Shortening the same URL again reuses the code.
		suite.e.POST("/api/v1/shorten").
			WithJSON(map[string]any{"url": "https://example.com", "expiry_hours": 1}).
			Expect().
			Status(http.StatusCreated).
			JSON().Object().
			Value("data").Object().
			HasValue("code", code)

		suite.e.GET("/" + code).
			Expect().
			Status(http.StatusFound).
			Header("Location").IsEqual("https://example.com")

		report := suite.e.GET("/api/v1/analytics/" + code).
			Expect().
			Status(http.StatusOK).
			JSON().Object().
			Value("data").Object()

		report.HasValue("url", "https://example.com")
		report.HasValue("access_count", 1)
		report.Value("entries").Array().Length().IsEqual(1)
	})

	suite.Run("unknown code", func() {
		suite.e.GET("/nosuchcode").
			Expect().
			Status(http.StatusNotFound)

		suite.e.GET("/api/v1/analytics/nosuchcode").
			Expect().
			Status(http.StatusNotFound)
	})
}

func TestAPI(t *testing.T) {
	suite.Run(t, new(APITestSuite))
}
