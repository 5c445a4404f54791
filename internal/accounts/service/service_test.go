package service

import (
	"context"
	"testing"
	"time"

	"orgdir_backend/internal/accounts/password"
	"orgdir_backend/internal/accounts/repository"
	"orgdir_backend/internal/events"
	"orgdir_backend/platform/apperr"
	"orgdir_backend/platform/logger"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	users      map[uuid.UUID]repository.User
	byEmail    map[string]uuid.UUID
	orgsByUser map[uuid.UUID][]uuid.UUID
	lastOrg    string
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		users:      make(map[uuid.UUID]repository.User),
		byEmail:    make(map[string]uuid.UUID),
		orgsByUser: make(map[uuid.UUID][]uuid.UUID),
	}
}

func (r *fakeRepo) addUser(u repository.User) repository.User {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.users[u.ID] = u
	r.byEmail[u.Email] = u.ID
	return u
}

func (r *fakeRepo) CreateUserWithOrganisation(_ context.Context, params repository.CreateUserParams, orgName string) (repository.User, uuid.UUID, error) {
	if _, taken := r.byEmail[params.Email]; taken {
		return repository.User{}, uuid.Nil, repository.ErrEmailTaken
	}
	user := r.addUser(repository.User{
		FirstName:    params.FirstName,
		LastName:     params.LastName,
		Email:        params.Email,
		Phone:        params.Phone,
		PasswordHash: params.PasswordHash,
	})
	orgID := uuid.New()
	r.orgsByUser[user.ID] = append(r.orgsByUser[user.ID], orgID)
	r.lastOrg = orgName
	return user, orgID, nil
}

func (r *fakeRepo) GetByEmail(_ context.Context, email string) (repository.User, error) {
	id, ok := r.byEmail[email]
	if !ok {
		return repository.User{}, repository.ErrNotFound
	}
	return r.users[id], nil
}

func (r *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (repository.User, error) {
	u, ok := r.users[id]
	if !ok {
		return repository.User{}, repository.ErrNotFound
	}
	return u, nil
}

func (r *fakeRepo) List(_ context.Context) ([]repository.User, error) {
	out := make([]repository.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	return out, nil
}

func (r *fakeRepo) Update(_ context.Context, params repository.UpdateUserParams) (repository.User, error) {
	u, ok := r.users[params.ID]
	if !ok {
		return repository.User{}, repository.ErrNotFound
	}
	if params.Email != nil {
		if id, taken := r.byEmail[*params.Email]; taken && id != u.ID {
			return repository.User{}, repository.ErrEmailTaken
		}
		delete(r.byEmail, u.Email)
		u.Email = *params.Email
		r.byEmail[u.Email] = u.ID
	}
	if params.FirstName != nil {
		u.FirstName = *params.FirstName
	}
	if params.LastName != nil {
		u.LastName = *params.LastName
	}
	if params.IsStaff != nil {
		u.IsStaff = *params.IsStaff
	}
	r.users[u.ID] = u
	return u, nil
}

func (r *fakeRepo) Delete(_ context.Context, id uuid.UUID) error {
	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	delete(r.byEmail, u.Email)
	delete(r.users, id)
	return nil
}

func (r *fakeRepo) ShareOrganisation(_ context.Context, a, b uuid.UUID) (bool, error) {
	for _, orgA := range r.orgsByUser[a] {
		for _, orgB := range r.orgsByUser[b] {
			if orgA == orgB {
				return true, nil
			}
		}
	}
	return false, nil
}

type recordingBus struct {
	published []events.Event
}

func (b *recordingBus) Publish(_ context.Context, event events.Event) {
	b.published = append(b.published, event)
}

func (b *recordingBus) PublishSync(_ context.Context, event events.Event) error {
	b.published = append(b.published, event)
	return nil
}

func (b *recordingBus) Subscribe(string, events.Handler) {}

type testAuthConfig struct{}

func (testAuthConfig) GetJWTAccessSecret() string       { return "test-secret" }
func (testAuthConfig) GetAccessTokenTTL() time.Duration { return time.Hour }

func newTestService(repo *fakeRepo, bus *recordingBus) *Service {
	return New(repo, testAuthConfig{}, bus, logger.New("development"))
}

func TestRegisterCreatesUserWithDefaultOrganisation(t *testing.T) {
	repo := newFakeRepo()
	bus := &recordingBus{}
	svc := newTestService(repo, bus)

	token, user, err := svc.Register(context.Background(), RegisterParams{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Password:  "s3cret-pass",
	})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	assert.Equal(t, "Ada's Organisation", repo.lastOrg)
	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.NotEqual(t, "s3cret-pass", user.PasswordHash, "password must be stored hashed")
	require.NoError(t, password.Compare(user.PasswordHash, "s3cret-pass"))

	// Both the registration and the default-organisation events go out.
	require.Len(t, bus.published, 2)
	registered, ok := bus.published[0].(events.UserRegistered)
	require.True(t, ok)
	assert.Equal(t, "Ada's Organisation", registered.OrganisationName)
}

func TestRegisterIssuesVerifiableAccessToken(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &recordingBus{})

	token, user, err := svc.Register(context.Background(), RegisterParams{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Password:  "s3cret-pass",
	})
	require.NoError(t, err)

	parsed, err := jwt.Parse(token, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	require.NoError(t, err)

	claims, ok := parsed.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, user.ID.String(), claims["sub"])
	assert.Equal(t, "access", claims["type"])

	exp, err := claims.GetExpirationTime()
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp.Time, time.Minute)
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &recordingBus{})

	params := RegisterParams{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Password: "s3cret-pass"}
	_, _, err := svc.Register(context.Background(), params)
	require.NoError(t, err)

	_, _, err = svc.Register(context.Background(), params)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindConflict))
	assert.Equal(t, "Registration unsuccessful", err.(*apperr.Error).Message)
}

func TestLoginDoesNotDistinguishUnknownEmailFromWrongPassword(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &recordingBus{})

	_, _, err := svc.Register(context.Background(), RegisterParams{
		FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Password: "s3cret-pass",
	})
	require.NoError(t, err)

	_, _, unknownErr := svc.Login(context.Background(), "nobody@example.com", "whatever")
	_, _, wrongErr := svc.Login(context.Background(), "ada@example.com", "wrong-pass")

	require.Error(t, unknownErr)
	require.Error(t, wrongErr)
	assert.Equal(t, unknownErr.Error(), wrongErr.Error())
	assert.True(t, apperr.Is(unknownErr, apperr.KindUnauthorized))
	assert.True(t, apperr.Is(wrongErr, apperr.KindUnauthorized))
}

func TestLoginSucceedsWithCorrectCredentials(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &recordingBus{})

	_, _, err := svc.Register(context.Background(), RegisterParams{
		FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Password: "s3cret-pass",
	})
	require.NoError(t, err)

	token, user, err := svc.Login(context.Background(), "ada@example.com", "s3cret-pass")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "ada@example.com", user.Email)
}

func TestGetUserAuthorization(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &recordingBus{})

	hash, err := password.Hash("irrelevant")
	require.NoError(t, err)

	self := repo.addUser(repository.User{FirstName: "Ada", Email: "ada@example.com", PasswordHash: hash})
	coMember := repo.addUser(repository.User{FirstName: "Grace", Email: "grace@example.com", PasswordHash: hash})
	stranger := repo.addUser(repository.User{FirstName: "Alan", Email: "alan@example.com", PasswordHash: hash})
	staff := repo.addUser(repository.User{FirstName: "Root", Email: "root@example.com", PasswordHash: hash, IsStaff: true})

	sharedOrg := uuid.New()
	repo.orgsByUser[self.ID] = []uuid.UUID{sharedOrg}
	repo.orgsByUser[coMember.ID] = []uuid.UUID{sharedOrg}

	t.Run("own record", func(t *testing.T) {
		got, err := svc.GetUser(context.Background(), self.ID, self.ID)
		require.NoError(t, err)
		assert.Equal(t, self.ID, got.ID)
	})

	t.Run("co-member record", func(t *testing.T) {
		got, err := svc.GetUser(context.Background(), self.ID, coMember.ID)
		require.NoError(t, err)
		assert.Equal(t, coMember.ID, got.ID)
	})

	t.Run("stranger is forbidden", func(t *testing.T) {
		_, err := svc.GetUser(context.Background(), self.ID, stranger.ID)
		require.Error(t, err)
		assert.True(t, apperr.Is(err, apperr.KindForbidden))
	})

	t.Run("staff sees anyone", func(t *testing.T) {
		got, err := svc.GetUser(context.Background(), staff.ID, stranger.ID)
		require.NoError(t, err)
		assert.Equal(t, stranger.ID, got.ID)
	})

	t.Run("missing target is not found", func(t *testing.T) {
		_, err := svc.GetUser(context.Background(), self.ID, uuid.New())
		require.Error(t, err)
		assert.True(t, apperr.Is(err, apperr.KindNotFound))
	})
}

func TestAdminEndpointsRequireStaff(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &recordingBus{})

	hash, err := password.Hash("irrelevant")
	require.NoError(t, err)

	regular := repo.addUser(repository.User{FirstName: "Ada", Email: "ada@example.com", PasswordHash: hash})
	staff := repo.addUser(repository.User{FirstName: "Root", Email: "root@example.com", PasswordHash: hash, IsStaff: true})
	target := repo.addUser(repository.User{FirstName: "Alan", Email: "alan@example.com", PasswordHash: hash})

	_, err = svc.ListUsers(context.Background(), regular.ID)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindForbidden))

	users, err := svc.ListUsers(context.Background(), staff.ID)
	require.NoError(t, err)
	assert.Len(t, users, 3)

	newFirst := "Turing"
	updated, err := svc.AdminUpdateUser(context.Background(), staff.ID, repository.UpdateUserParams{
		ID:        target.ID,
		FirstName: &newFirst,
	})
	require.NoError(t, err)
	assert.Equal(t, "Turing", updated.FirstName)

	require.NoError(t, svc.AdminDeleteUser(context.Background(), staff.ID, target.ID))
	_, err = svc.AdminGetUser(context.Background(), staff.ID, target.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestAdminUpdateDuplicateEmailConflicts(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &recordingBus{})

	hash, err := password.Hash("irrelevant")
	require.NoError(t, err)

	staff := repo.addUser(repository.User{FirstName: "Root", Email: "root@example.com", PasswordHash: hash, IsStaff: true})
	repo.addUser(repository.User{FirstName: "Ada", Email: "ada@example.com", PasswordHash: hash})
	target := repo.addUser(repository.User{FirstName: "Alan", Email: "alan@example.com", PasswordHash: hash})

	taken := "ada@example.com"
	_, err = svc.AdminUpdateUser(context.Background(), staff.ID, repository.UpdateUserParams{
		ID:    target.ID,
		Email: &taken,
	})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindConflict))
	assert.Equal(t, "Email already in use", err.(*apperr.Error).Message)
}
