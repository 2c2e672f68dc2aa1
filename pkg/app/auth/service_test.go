package auth

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/NeuralTrust/MetaGuard/pkg/domain"
	"github.com/NeuralTrust/MetaGuard/pkg/domain/user"
	userMocks "github.com/NeuralTrust/MetaGuard/pkg/domain/user/mocks"
	"github.com/NeuralTrust/MetaGuard/pkg/infra/auth/google"
	googleMocks "github.com/NeuralTrust/MetaGuard/pkg/infra/auth/google/mocks"
	"github.com/NeuralTrust/MetaGuard/pkg/infra/auth/jwt"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fixture struct {
	svc      Service
	users    *userMocks.Repository
	verifier *googleMocks.Verifier
	tokens   jwt.Manager
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	users := &userMocks.Repository{}
	verifier := &googleMocks.Verifier{}
	tokens := jwt.NewJwtManager(jwt.Config{Secret: "test-secret", Issuer: "metaguard"})
	t.Cleanup(func() {
		users.AssertExpectations(t)
		verifier.AssertExpectations(t)
	})
	return &fixture{
		svc:      NewService(logger, users, tokens, verifier, Config{BcryptCost: bcrypt.MinCost}),
		users:    users,
		verifier: verifier,
		tokens:   tokens,
	}
}

func hashed(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestSignup_IssuesTokens(t *testing.T) {
	f := newFixture(t)
	id := uuid.New()
	f.users.On("Create", mock.Anything, mock.AnythingOfType("*user.User")).
		Run(func(args mock.Arguments) {
			u := args.Get(1).(*user.User)
			assert.Equal(t, "ana@example.com", u.Email)
			assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("correct horse")))
			u.ID = id
		}).
		Return(nil).Once()

	pair, err := f.svc.Signup(context.Background(), " Ana@Example.com ", "correct horse", "Ana")
	require.NoError(t, err)

	claims, err := f.tokens.DecodeToken(pair.Access, jwt.TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, id.String(), claims.UserID)
	_, err = f.tokens.DecodeToken(pair.Refresh, jwt.TokenTypeRefresh)
	assert.NoError(t, err)
}

func TestSignup_Rejections(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Signup(context.Background(), "", "whatever1", "")
	assert.ErrorIs(t, err, ErrMissingCredentials)

	_, err = f.svc.Signup(context.Background(), "a@example.com", "short", "")
	assert.ErrorIs(t, err, ErrWeakPassword)

	_, err = f.svc.Signup(context.Background(), "not-an-email", "long enough", "")
	assert.ErrorIs(t, err, user.ErrInvalidEmail)

	f.users.On("Create", mock.Anything, mock.Anything).Return(user.ErrUserAlreadyExists).Once()
	_, err = f.svc.Signup(context.Background(), "a@example.com", "long enough", "")
	assert.ErrorIs(t, err, user.ErrUserAlreadyExists)
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	u := &user.User{ID: uuid.New(), Email: "a@example.com", PasswordHash: hashed(t, "long enough")}
	f.users.On("GetByEmail", mock.Anything, "a@example.com").Return(u, nil)
	f.users.On("GetByEmail", mock.Anything, "nobody@example.com").
		Return(nil, domain.NewNotFoundError("user", uuid.Nil))

	pair, err := f.svc.Login(context.Background(), "a@example.com", "long enough")
	require.NoError(t, err)
	assert.NotEmpty(t, pair.Access)

	_, err = f.svc.Login(context.Background(), "a@example.com", "wrong password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = f.svc.Login(context.Background(), "nobody@example.com", "long enough")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = f.svc.Login(context.Background(), "a@example.com", "")
	assert.ErrorIs(t, err, ErrMissingCredentials)
}

func TestLogin_GoogleOnlyAccount(t *testing.T) {
	f := newFixture(t)
	f.users.On("GetByEmail", mock.Anything, "g@example.com").
		Return(&user.User{ID: uuid.New(), Email: "g@example.com"}, nil)

	_, err := f.svc.Login(context.Background(), "g@example.com", "anything")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefresh(t *testing.T) {
	f := newFixture(t)
	u := &user.User{ID: uuid.New(), Email: "a@example.com"}
	f.users.On("GetByID", mock.Anything, u.ID).Return(u, nil).Once()

	pair, err := f.tokens.CreateTokenPair(u.ID, u.Email)
	require.NoError(t, err)

	access, err := f.svc.Refresh(context.Background(), pair.Refresh)
	require.NoError(t, err)
	claims, err := f.tokens.DecodeToken(access, jwt.TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, u.ID.String(), claims.UserID)

	_, err = f.svc.Refresh(context.Background(), pair.Access)
	assert.ErrorIs(t, err, jwt.ErrWrongTokenType)
}

func TestRefresh_DeletedUser(t *testing.T) {
	f := newFixture(t)
	id := uuid.New()
	f.users.On("GetByID", mock.Anything, id).Return(nil, domain.NewNotFoundError("user", id)).Once()

	pair, err := f.tokens.CreateTokenPair(id, "gone@example.com")
	require.NoError(t, err)
	_, err = f.svc.Refresh(context.Background(), pair.Refresh)
	assert.ErrorIs(t, err, jwt.ErrInvalidToken)
}

func TestGoogle_CreatesNewUser(t *testing.T) {
	f := newFixture(t)
	f.verifier.On("Verify", mock.Anything, "id-token").
		Return(&google.Identity{Subject: "sub-1", Email: "new@example.com", Name: "New"}, nil)
	f.users.On("GetByEmail", mock.Anything, "new@example.com").
		Return(nil, domain.NewNotFoundError("user", uuid.Nil)).Once()
	f.users.On("Create", mock.Anything, mock.MatchedBy(func(u *user.User) bool {
		return u.GoogleSubject != nil && *u.GoogleSubject == "sub-1" && u.PasswordHash == ""
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*user.User).ID = uuid.New()
	}).Return(nil).Once()

	res, err := f.svc.Google(context.Background(), "id-token")
	require.NoError(t, err)
	assert.True(t, res.NewUser)
	assert.NotEmpty(t, res.Access)
	assert.NotEmpty(t, res.Refresh)
}

func TestGoogle_LinksExistingUser(t *testing.T) {
	f := newFixture(t)
	existing := &user.User{ID: uuid.New(), Email: "a@example.com"}
	f.verifier.On("Verify", mock.Anything, "id-token").
		Return(&google.Identity{Subject: "sub-2", Email: "a@example.com"}, nil)
	f.users.On("GetByEmail", mock.Anything, "a@example.com").Return(existing, nil).Once()
	f.users.On("LinkGoogle", mock.Anything, existing.ID, "sub-2").Return(nil).Once()

	res, err := f.svc.Google(context.Background(), "id-token")
	require.NoError(t, err)
	assert.False(t, res.NewUser)
}

func TestGoogle_VerifierError(t *testing.T) {
	f := newFixture(t)
	f.verifier.On("Verify", mock.Anything, "bad").Return(nil, google.ErrInvalidIDToken)

	_, err := f.svc.Google(context.Background(), "bad")
	assert.ErrorIs(t, err, google.ErrInvalidIDToken)
}

func TestDelete(t *testing.T) {
	f := newFixture(t)
	id := uuid.New()
	f.users.On("Delete", mock.Anything, id).Return(nil).Once()
	require.NoError(t, f.svc.Delete(context.Background(), id))

	other := uuid.New()
	f.users.On("Delete", mock.Anything, other).Return(errors.New("connection reset")).Once()
	assert.Error(t, f.svc.Delete(context.Background(), other))
}
