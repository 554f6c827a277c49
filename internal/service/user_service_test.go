package service_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/critiquehub/critique/internal/models"
	"github.com/critiquehub/critique/internal/repository"
	"github.com/critiquehub/critique/internal/service"
	"github.com/critiquehub/critique/internal/testutil"
)

type UserServiceTestSuite struct {
	suite.Suite
	testDB      *testutil.TestDatabase
	userService *service.UserService
}

func (s *UserServiceTestSuite) SetupSuite() {
	s.testDB = testutil.SetupTestDatabase(s.T())
	s.userService = service.NewUserService(repository.NewUserRepository(s.testDB.DB))
}

func (s *UserServiceTestSuite) TearDownSuite() {
	s.testDB.Teardown(s.T())
}

func (s *UserServiceTestSuite) SetupTest() {
	testutil.CleanDatabase(s.T(), s.testDB.DB)
}

func (s *UserServiceTestSuite) TestCreateWithRole() {
	user, err := s.userService.Create("mod", "mod@example.com", models.RoleModerator)
	s.Require().NoError(err)
	s.Equal(models.RoleModerator, user.Role)

	// empty role defaults to user
	user, err = s.userService.Create("plain", "plain@example.com", "")
	s.Require().NoError(err)
	s.Equal(models.RoleUser, user.Role)
}

func (s *UserServiceTestSuite) TestCreateInvalidRole() {
	_, err := s.userService.Create("weird", "weird@example.com", "superuser")
	s.ErrorIs(err, service.ErrInvalidRole)
}

func (s *UserServiceTestSuite) TestCreateReservedUsername() {
	_, err := s.userService.Create("Me", "me@example.com", models.RoleUser)
	s.ErrorIs(err, service.ErrReservedUsername)
}

func (s *UserServiceTestSuite) TestCreateConflicts() {
	_, err := s.userService.Create("taken", "taken@example.com", models.RoleUser)
	s.Require().NoError(err)

	_, err = s.userService.Create("taken", "fresh@example.com", models.RoleUser)
	s.ErrorIs(err, service.ErrUsernameTaken)

	_, err = s.userService.Create("fresh", "taken@example.com", models.RoleUser)
	s.ErrorIs(err, service.ErrEmailTaken)
}

func (s *UserServiceTestSuite) TestAdminUpdateCanChangeRole() {
	_, err := s.userService.Create("promotee", "promotee@example.com", models.RoleUser)
	s.Require().NoError(err)

	role := "moderator"
	updated, err := s.userService.Update("promotee", service.UserUpdate{Role: &role})
	s.Require().NoError(err)
	s.Equal(models.RoleModerator, updated.Role)
}

func (s *UserServiceTestSuite) TestSelfUpdateIgnoresRole() {
	user, err := s.userService.Create("climber", "climber@example.com", models.RoleUser)
	s.Require().NoError(err)

	role := "admin"
	bio := "just a reader"
	updated, err := s.userService.UpdateProfile(user.ID, service.UserUpdate{Role: &role, Bio: &bio})
	s.Require().NoError(err)
	s.Equal(models.RoleUser, updated.Role, "self-service cannot escalate")
	s.Equal("just a reader", updated.Bio)
}

func (s *UserServiceTestSuite) TestUpdateEmailConflict() {
	_, err := s.userService.Create("first", "first@example.com", models.RoleUser)
	s.Require().NoError(err)
	_, err = s.userService.Create("second", "second@example.com", models.RoleUser)
	s.Require().NoError(err)

	email := "first@example.com"
	_, err = s.userService.Update("second", service.UserUpdate{Email: &email})
	s.ErrorIs(err, service.ErrEmailTaken)
}

func (s *UserServiceTestSuite) TestListSearch() {
	_, err := s.userService.Create("reader_anna", "anna@example.com", models.RoleUser)
	s.Require().NoError(err)
	_, err = s.userService.Create("writer_boris", "boris@example.com", models.RoleUser)
	s.Require().NoError(err)

	users, total, err := s.userService.List("ANNA", 1, 10)
	s.Require().NoError(err)
	s.Equal(int64(1), total)
	s.Require().Len(users, 1)
	s.Equal("reader_anna", users[0].Username)
}

func (s *UserServiceTestSuite) TestDeleteUnknown() {
	err := s.userService.Delete("ghost")
	s.ErrorIs(err, service.ErrUserNotFound)
}

func TestUserServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}
