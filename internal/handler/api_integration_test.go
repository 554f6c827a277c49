package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"

	"github.com/critiquehub/critique/internal/handler"
	"github.com/critiquehub/critique/internal/models"
	"github.com/critiquehub/critique/internal/repository"
	"github.com/critiquehub/critique/internal/service"
	"github.com/critiquehub/critique/internal/testutil"
	"github.com/critiquehub/critique/internal/utils"
)

const testJWTSecret = "integration-test-secret"

type APIIntegrationTestSuite struct {
	suite.Suite
	testDB *testutil.TestDatabase
	mailer *testutil.RecorderMailer
	router *gin.Engine
}

func (s *APIIntegrationTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	s.testDB = testutil.SetupTestDatabase(s.T())
	s.mailer = &testutil.RecorderMailer{}

	userRepo := repository.NewUserRepository(s.testDB.DB)
	codeRepo := repository.NewCodeRepository(s.testDB.DB)
	categoryRepo := repository.NewCategoryRepository(s.testDB.DB)
	genreRepo := repository.NewGenreRepository(s.testDB.DB)
	titleRepo := repository.NewTitleRepository(s.testDB.DB)
	reviewRepo := repository.NewReviewRepository(s.testDB.DB)
	commentRepo := repository.NewCommentRepository(s.testDB.DB)

	authService := service.NewAuthService(userRepo, codeRepo, s.mailer, testJWTSecret, 1*time.Hour, 24*time.Hour)
	reviewService := service.NewReviewService(reviewRepo)

	s.router = gin.New()
	handler.RegisterRoutes(s.router, handler.Handlers{
		Auth:     handler.NewAuthHandler(authService),
		User:     handler.NewUserHandler(service.NewUserService(userRepo)),
		Category: handler.NewCategoryHandler(service.NewCategoryService(categoryRepo)),
		Genre:    handler.NewGenreHandler(service.NewGenreService(genreRepo)),
		Title:    handler.NewTitleHandler(service.NewTitleService(titleRepo, categoryRepo, genreRepo)),
		Review:   handler.NewReviewHandler(reviewService),
		Comment:  handler.NewCommentHandler(service.NewCommentService(commentRepo, reviewRepo)),
	}, handler.RouterOptions{
		JWTSecret: testJWTSecret,
	})
}

func (s *APIIntegrationTestSuite) TearDownSuite() {
	s.testDB.Teardown(s.T())
}

func (s *APIIntegrationTestSuite) SetupTest() {
	testutil.CleanDatabase(s.T(), s.testDB.DB)
	s.mailer.Sent = nil
}

func (s *APIIntegrationTestSuite) request(method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, path, &buf)
	s.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *APIIntegrationTestSuite) decode(w *httptest.ResponseRecorder) map[string]any {
	var body map[string]any
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

// tokenFor runs the signup and token-exchange flow for a fresh user and
// returns a usable access token.
func (s *APIIntegrationTestSuite) tokenFor(username string) string {
	w := s.request(http.MethodPost, "/api/v1/auth/signup", "", gin.H{
		"username": username,
		"email":    username + "@example.com",
	})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	w = s.request(http.MethodPost, "/api/v1/auth/token", "", gin.H{
		"username":          username,
		"confirmation_code": s.mailer.LastCode(),
	})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	return s.decode(w)["token"].(string)
}

// adminToken forges a token for an admin created directly in the database.
func (s *APIIntegrationTestSuite) adminToken() string {
	admin, err := testutil.CreateTestUser(s.testDB.DB, "admin", models.RoleAdmin)
	s.Require().NoError(err)

	token, err := utils.GenerateToken(admin, testJWTSecret, time.Hour)
	s.Require().NoError(err)
	return token
}

func (s *APIIntegrationTestSuite) TestSignupTokenFlow() {
	w := s.request(http.MethodPost, "/api/v1/auth/signup", "", gin.H{
		"username": "reader",
		"email":    "reader@example.com",
	})
	s.Equal(http.StatusOK, w.Code)

	body := s.decode(w)
	s.Equal("reader", body["username"])
	s.Equal("reader@example.com", body["email"])
	s.Require().Len(s.mailer.Sent, 1)

	w = s.request(http.MethodPost, "/api/v1/auth/token", "", gin.H{
		"username":          "reader",
		"confirmation_code": s.mailer.LastCode(),
	})
	s.Equal(http.StatusOK, w.Code)
	s.NotEmpty(s.decode(w)["token"])
}

func (s *APIIntegrationTestSuite) TestTokenUnknownUsername() {
	w := s.request(http.MethodPost, "/api/v1/auth/token", "", gin.H{
		"username":          "ghost",
		"confirmation_code": "anything",
	})
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *APIIntegrationTestSuite) TestSignupReservedUsername() {
	w := s.request(http.MethodPost, "/api/v1/auth/signup", "", gin.H{
		"username": "Me",
		"email":    "me@example.com",
	})
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *APIIntegrationTestSuite) TestReviewFlowUpdatesRating() {
	adminToken := s.adminToken()

	w := s.request(http.MethodPost, "/api/v1/titles", adminToken, gin.H{
		"name": "Reviewable",
		"year": 2001,
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	titleID := int(s.decode(w)["id"].(float64))
	s.Nil(s.decode(w)["rating"], "rating is null before any review")

	readerToken := s.tokenFor("reader")
	w = s.request(http.MethodPost, fmt.Sprintf("/api/v1/titles/%d/reviews", titleID), readerToken, gin.H{
		"text":  "solid",
		"score": 8,
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	review := s.decode(w)
	s.Equal("reader", review["author"])

	otherToken := s.tokenFor("other")
	w = s.request(http.MethodPost, fmt.Sprintf("/api/v1/titles/%d/reviews", titleID), otherToken, gin.H{
		"text":  "brilliant",
		"score": 9,
	})
	s.Require().Equal(http.StatusCreated, w.Code)

	// anonymous read sees the averaged rating
	w = s.request(http.MethodGet, fmt.Sprintf("/api/v1/titles/%d", titleID), "", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.InDelta(8.5, s.decode(w)["rating"].(float64), 0.001)
}

func (s *APIIntegrationTestSuite) TestDuplicateReviewRejected() {
	adminToken := s.adminToken()
	w := s.request(http.MethodPost, "/api/v1/titles", adminToken, gin.H{"name": "Once Only"})
	s.Require().Equal(http.StatusCreated, w.Code)
	titleID := int(s.decode(w)["id"].(float64))

	readerToken := s.tokenFor("reader")
	path := fmt.Sprintf("/api/v1/titles/%d/reviews", titleID)

	w = s.request(http.MethodPost, path, readerToken, gin.H{"text": "first", "score": 7})
	s.Require().Equal(http.StatusCreated, w.Code)

	w = s.request(http.MethodPost, path, readerToken, gin.H{"text": "second", "score": 8})
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *APIIntegrationTestSuite) TestAnonymousWriteDenied() {
	w := s.request(http.MethodPost, "/api/v1/titles/1/reviews", "", gin.H{"text": "x", "score": 5})
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *APIIntegrationTestSuite) TestAdminGateOnReferenceData() {
	readerToken := s.tokenFor("reader")

	w := s.request(http.MethodPost, "/api/v1/categories", readerToken, gin.H{
		"name": "Films",
		"slug": "films",
	})
	s.Equal(http.StatusForbidden, w.Code)

	w = s.request(http.MethodPost, "/api/v1/categories", s.adminToken(), gin.H{
		"name": "Films",
		"slug": "films",
	})
	s.Equal(http.StatusCreated, w.Code)

	// reads stay public
	w = s.request(http.MethodGet, "/api/v1/categories", "", nil)
	s.Equal(http.StatusOK, w.Code)
}

func (s *APIIntegrationTestSuite) TestUsersMe() {
	readerToken := s.tokenFor("reader")

	w := s.request(http.MethodGet, "/api/v1/users/me", readerToken, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal("reader", s.decode(w)["username"])

	// self-update cannot change role
	w = s.request(http.MethodPatch, "/api/v1/users/me", readerToken, gin.H{
		"bio":  "avid reader",
		"role": "admin",
	})
	s.Require().Equal(http.StatusOK, w.Code)
	body := s.decode(w)
	s.Equal("avid reader", body["bio"])
	s.Equal("user", body["role"])
}

func (s *APIIntegrationTestSuite) TestCommentCrossTitleNotFound() {
	adminToken := s.adminToken()

	w := s.request(http.MethodPost, "/api/v1/titles", adminToken, gin.H{"name": "First"})
	s.Require().Equal(http.StatusCreated, w.Code)
	firstID := int(s.decode(w)["id"].(float64))

	w = s.request(http.MethodPost, "/api/v1/titles", adminToken, gin.H{"name": "Second"})
	s.Require().Equal(http.StatusCreated, w.Code)
	secondID := int(s.decode(w)["id"].(float64))

	readerToken := s.tokenFor("reader")
	w = s.request(http.MethodPost, fmt.Sprintf("/api/v1/titles/%d/reviews", firstID), readerToken, gin.H{
		"text":  "on the first title",
		"score": 6,
	})
	s.Require().Equal(http.StatusCreated, w.Code)
	reviewID := int(s.decode(w)["id"].(float64))

	// the review belongs to the first title, so commenting through the
	// second one is a 404
	w = s.request(http.MethodPost, fmt.Sprintf("/api/v1/titles/%d/reviews/%d/comments", secondID, reviewID), readerToken, gin.H{
		"text": "misplaced",
	})
	s.Equal(http.StatusNotFound, w.Code)

	w = s.request(http.MethodPost, fmt.Sprintf("/api/v1/titles/%d/reviews/%d/comments", firstID, reviewID), readerToken, gin.H{
		"text": "well placed",
	})
	s.Equal(http.StatusCreated, w.Code)
}

func TestAPIIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(APIIntegrationTestSuite))
}
