package service_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/critiquehub/critique/internal/models"
	"github.com/critiquehub/critique/internal/repository"
	"github.com/critiquehub/critique/internal/service"
	"github.com/critiquehub/critique/internal/testutil"
)

type TitleServiceTestSuite struct {
	suite.Suite
	testDB          *testutil.TestDatabase
	titleService    *service.TitleService
	categoryService *service.CategoryService
}

func (s *TitleServiceTestSuite) SetupSuite() {
	s.testDB = testutil.SetupTestDatabase(s.T())

	titleRepo := repository.NewTitleRepository(s.testDB.DB)
	categoryRepo := repository.NewCategoryRepository(s.testDB.DB)
	genreRepo := repository.NewGenreRepository(s.testDB.DB)

	s.titleService = service.NewTitleService(titleRepo, categoryRepo, genreRepo)
	s.categoryService = service.NewCategoryService(categoryRepo)
}

func (s *TitleServiceTestSuite) TearDownSuite() {
	s.testDB.Teardown(s.T())
}

func (s *TitleServiceTestSuite) SetupTest() {
	testutil.CleanDatabase(s.T(), s.testDB.DB)
}

func (s *TitleServiceTestSuite) seedRefs() (*models.Category, *models.Genre, *models.Genre) {
	category, err := testutil.CreateTestCategory(s.testDB.DB, "films")
	s.Require().NoError(err)
	drama, err := testutil.CreateTestGenre(s.testDB.DB, "drama")
	s.Require().NoError(err)
	comedy, err := testutil.CreateTestGenre(s.testDB.DB, "comedy")
	s.Require().NoError(err)
	return category, drama, comedy
}

func (s *TitleServiceTestSuite) TestCreateWithReferences() {
	category, drama, comedy := s.seedRefs()

	year := 1994
	rated, err := s.titleService.Create(service.TitleInput{
		Name:     "The Shawshank Redemption",
		Year:     &year,
		Category: category.Slug,
		Genres:   []string{drama.Slug, comedy.Slug},
	})
	s.Require().NoError(err)

	s.Equal("The Shawshank Redemption", rated.Title.Name)
	s.Require().NotNil(rated.Title.Category)
	s.Equal(category.Slug, rated.Title.Category.Slug)
	s.Len(rated.Title.Genres, 2)
	s.Nil(rated.Rating, "a fresh title has no rating")
}

func (s *TitleServiceTestSuite) TestCreateYearValidation() {
	future := time.Now().Year() + 1
	_, err := s.titleService.Create(service.TitleInput{Name: "From the future", Year: &future})
	s.ErrorIs(err, service.ErrInvalidYear)

	tooOld := 1699
	_, err = s.titleService.Create(service.TitleInput{Name: "Ancient", Year: &tooOld})
	s.ErrorIs(err, service.ErrInvalidYear)

	current := time.Now().Year()
	_, err = s.titleService.Create(service.TitleInput{Name: "This year", Year: &current})
	s.NoError(err)
}

func (s *TitleServiceTestSuite) TestCreateUnknownReferences() {
	_, err := s.titleService.Create(service.TitleInput{
		Name:     "Orphan",
		Category: "no-such-category",
	})
	s.ErrorIs(err, service.ErrCategoryNotFound)

	_, err = s.titleService.Create(service.TitleInput{
		Name:   "Orphan",
		Genres: []string{"no-such-genre"},
	})
	s.ErrorIs(err, service.ErrGenreNotFound)
}

func (s *TitleServiceTestSuite) TestRatingAverages() {
	title, err := testutil.CreateTestTitle(s.testDB.DB, "Rated", nil)
	s.Require().NoError(err)

	alice, err := testutil.CreateTestUser(s.testDB.DB, "alice", models.RoleUser)
	s.Require().NoError(err)
	bob, err := testutil.CreateTestUser(s.testDB.DB, "bob", models.RoleUser)
	s.Require().NoError(err)

	_, err = testutil.CreateTestReview(s.testDB.DB, title, alice, 8, time.Now())
	s.Require().NoError(err)
	_, err = testutil.CreateTestReview(s.testDB.DB, title, bob, 9, time.Now())
	s.Require().NoError(err)

	rated, err := s.titleService.Get(title.ID)
	s.Require().NoError(err)
	s.Require().NotNil(rated.Rating)
	s.InDelta(8.5, *rated.Rating, 0.001)
}

func (s *TitleServiceTestSuite) TestRatingWholeNumber() {
	title, err := testutil.CreateTestTitle(s.testDB.DB, "Even", nil)
	s.Require().NoError(err)

	alice, err := testutil.CreateTestUser(s.testDB.DB, "alice", models.RoleUser)
	s.Require().NoError(err)

	_, err = testutil.CreateTestReview(s.testDB.DB, title, alice, 8, time.Now())
	s.Require().NoError(err)

	rated, err := s.titleService.Get(title.ID)
	s.Require().NoError(err)
	s.Require().NotNil(rated.Rating)
	s.InDelta(8.0, *rated.Rating, 0.001)
}

func (s *TitleServiceTestSuite) TestListRatings() {
	reviewed, err := testutil.CreateTestTitle(s.testDB.DB, "Acclaimed", nil)
	s.Require().NoError(err)
	_, err = testutil.CreateTestTitle(s.testDB.DB, "Ignored", nil)
	s.Require().NoError(err)

	alice, err := testutil.CreateTestUser(s.testDB.DB, "alice", models.RoleUser)
	s.Require().NoError(err)
	bob, err := testutil.CreateTestUser(s.testDB.DB, "bob", models.RoleUser)
	s.Require().NoError(err)

	_, err = testutil.CreateTestReview(s.testDB.DB, reviewed, alice, 8, time.Now())
	s.Require().NoError(err)
	_, err = testutil.CreateTestReview(s.testDB.DB, reviewed, bob, 9, time.Now())
	s.Require().NoError(err)

	rated, total, err := s.titleService.List(repository.TitleFilter{}, 1, 10)
	s.Require().NoError(err)
	s.Equal(int64(2), total)
	s.Require().Len(rated, 2)

	byName := make(map[string]*float64, len(rated))
	for _, r := range rated {
		byName[r.Title.Name] = r.Rating
	}
	s.Require().NotNil(byName["Acclaimed"])
	s.InDelta(8.5, *byName["Acclaimed"], 0.001)
	s.Nil(byName["Ignored"], "unreviewed titles carry no rating")
}

func (s *TitleServiceTestSuite) TestListFilters() {
	category, drama, _ := s.seedRefs()

	year := 1999
	_, err := s.titleService.Create(service.TitleInput{
		Name:     "Fight Club",
		Year:     &year,
		Category: category.Slug,
		Genres:   []string{drama.Slug},
	})
	s.Require().NoError(err)

	other := 2005
	_, err = s.titleService.Create(service.TitleInput{Name: "Unrelated", Year: &other})
	s.Require().NoError(err)

	byCategory, total, err := s.titleService.List(repository.TitleFilter{Category: category.Slug}, 1, 10)
	s.Require().NoError(err)
	s.Equal(int64(1), total)
	s.Require().Len(byCategory, 1)
	s.Equal("Fight Club", byCategory[0].Title.Name)

	byGenre, _, err := s.titleService.List(repository.TitleFilter{Genre: drama.Slug}, 1, 10)
	s.Require().NoError(err)
	s.Require().Len(byGenre, 1)
	s.Equal("Fight Club", byGenre[0].Title.Name)

	byName, _, err := s.titleService.List(repository.TitleFilter{Name: "fight"}, 1, 10)
	s.Require().NoError(err)
	s.Require().Len(byName, 1)

	byYear, _, err := s.titleService.List(repository.TitleFilter{Year: &year}, 1, 10)
	s.Require().NoError(err)
	s.Require().Len(byYear, 1)
	s.Equal("Fight Club", byYear[0].Title.Name)
}

func (s *TitleServiceTestSuite) TestUpdateReplacesGenres() {
	_, drama, comedy := s.seedRefs()

	rated, err := s.titleService.Create(service.TitleInput{
		Name:   "Mutable",
		Genres: []string{drama.Slug},
	})
	s.Require().NoError(err)

	newGenres := []string{comedy.Slug}
	updated, err := s.titleService.Update(rated.Title.ID, service.TitleUpdate{Genres: &newGenres})
	s.Require().NoError(err)
	s.Require().Len(updated.Title.Genres, 1)
	s.Equal(comedy.Slug, updated.Title.Genres[0].Slug)
}

func (s *TitleServiceTestSuite) TestUpdateClearsCategory() {
	category, _, _ := s.seedRefs()

	rated, err := s.titleService.Create(service.TitleInput{
		Name:     "Detachable",
		Category: category.Slug,
	})
	s.Require().NoError(err)
	s.Require().NotNil(rated.Title.Category)

	empty := ""
	updated, err := s.titleService.Update(rated.Title.ID, service.TitleUpdate{Category: &empty})
	s.Require().NoError(err)
	s.Nil(updated.Title.Category)
}

func (s *TitleServiceTestSuite) TestCategoryDeleteDetachesTitles() {
	category, _, _ := s.seedRefs()

	rated, err := s.titleService.Create(service.TitleInput{
		Name:     "Survivor",
		Category: category.Slug,
	})
	s.Require().NoError(err)

	s.Require().NoError(s.categoryService.Delete(category.Slug))

	// the title survives with its category detached
	after, err := s.titleService.Get(rated.Title.ID)
	s.Require().NoError(err)
	s.Nil(after.Title.Category)
}

func (s *TitleServiceTestSuite) TestGetAndDeleteNotFound() {
	_, err := s.titleService.Get(9999)
	s.ErrorIs(err, service.ErrTitleNotFound)

	err = s.titleService.Delete(9999)
	s.ErrorIs(err, service.ErrTitleNotFound)
}

func TestTitleServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TitleServiceTestSuite))
}
