package service

import (
	"context"
	"testing"

	"orgdir_backend/internal/events"
	"orgdir_backend/internal/orgs/repository"
	"orgdir_backend/platform/apperr"
	"orgdir_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOrgRepo struct {
	orgs    map[uuid.UUID]repository.Organisation
	members map[uuid.UUID]map[uuid.UUID]bool
	adds    int
}

func newFakeOrgRepo() *fakeOrgRepo {
	return &fakeOrgRepo{
		orgs:    make(map[uuid.UUID]repository.Organisation),
		members: make(map[uuid.UUID]map[uuid.UUID]bool),
	}
}

func (r *fakeOrgRepo) List(_ context.Context) ([]repository.Organisation, error) {
	out := make([]repository.Organisation, 0, len(r.orgs))
	for _, org := range r.orgs {
		out = append(out, org)
	}
	return out, nil
}

func (r *fakeOrgRepo) GetByID(_ context.Context, id uuid.UUID) (repository.Organisation, error) {
	org, ok := r.orgs[id]
	if !ok {
		return repository.Organisation{}, repository.ErrNotFound
	}
	return org, nil
}

func (r *fakeOrgRepo) CreateWithMember(_ context.Context, name, description string, creator uuid.UUID) (repository.Organisation, error) {
	org := repository.Organisation{ID: uuid.New(), Name: name, Description: description}
	r.orgs[org.ID] = org
	r.members[org.ID] = map[uuid.UUID]bool{creator: true}
	return org, nil
}

func (r *fakeOrgRepo) AddMember(_ context.Context, orgID, userID uuid.UUID) error {
	r.adds++
	if r.members[orgID] == nil {
		r.members[orgID] = make(map[uuid.UUID]bool)
	}
	r.members[orgID][userID] = true
	return nil
}

func (r *fakeOrgRepo) IsMember(_ context.Context, orgID, userID uuid.UUID) (bool, error) {
	return r.members[orgID][userID], nil
}

type fakeDirectory struct {
	members map[uuid.UUID]Member
}

func (d fakeDirectory) GetMember(_ context.Context, userID uuid.UUID) (Member, error) {
	m, ok := d.members[userID]
	if !ok {
		return Member{}, ErrUnknownUser
	}
	return m, nil
}

type nopBus struct{}

func (nopBus) Publish(context.Context, events.Event) {}

func (nopBus) PublishSync(context.Context, events.Event) error {
	return nil
}

func (nopBus) Subscribe(string, events.Handler) {}

func newTestService(repo *fakeOrgRepo, dir fakeDirectory) *Service {
	return New(repo, dir, nopBus{}, logger.New("development"))
}

func TestDefaultNameUsesCreatorFirstName(t *testing.T) {
	assert.Equal(t, "Ada's Organisation", DefaultName("Ada"))
}

func TestCreateNamesOrganisationServerSide(t *testing.T) {
	repo := newFakeOrgRepo()
	requester := uuid.New()
	svc := newTestService(repo, fakeDirectory{members: map[uuid.UUID]Member{
		requester: {ID: requester, FirstName: "Grace"},
	}})

	org, err := svc.Create(context.Background(), requester, "ship things")
	require.NoError(t, err)
	assert.Equal(t, "Grace's Organisation", org.Name)
	assert.Equal(t, "ship things", org.Description)

	isMember, err := repo.IsMember(context.Background(), org.ID, requester)
	require.NoError(t, err)
	assert.True(t, isMember, "creator must be the initial member")
}

func TestListIsGlobal(t *testing.T) {
	repo := newFakeOrgRepo()
	a := uuid.New()
	b := uuid.New()
	dir := fakeDirectory{members: map[uuid.UUID]Member{
		a: {ID: a, FirstName: "Ada"},
		b: {ID: b, FirstName: "Grace"},
	}}
	svc := newTestService(repo, dir)

	_, err := svc.Create(context.Background(), a, "")
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), b, "")
	require.NoError(t, err)

	orgs, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, orgs, 2, "listing is not membership-scoped")
}

func TestGetIsMembershipScoped(t *testing.T) {
	repo := newFakeOrgRepo()
	member := uuid.New()
	outsider := uuid.New()
	staff := uuid.New()
	dir := fakeDirectory{members: map[uuid.UUID]Member{
		member:   {ID: member, FirstName: "Ada"},
		outsider: {ID: outsider, FirstName: "Alan"},
		staff:    {ID: staff, FirstName: "Root", Staff: true},
	}}
	svc := newTestService(repo, dir)

	org, err := svc.Create(context.Background(), member, "")
	require.NoError(t, err)

	got, err := svc.Get(context.Background(), member, org.ID)
	require.NoError(t, err)
	assert.Equal(t, org.ID, got.ID)

	_, err = svc.Get(context.Background(), outsider, org.ID)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindForbidden))

	// Staff get no bypass on organisation detail: membership is the only key.
	_, err = svc.Get(context.Background(), staff, org.ID)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindForbidden))

	_, err = svc.Get(context.Background(), member, uuid.New())
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestAddMember(t *testing.T) {
	repo := newFakeOrgRepo()
	requester := uuid.New()
	outsider := uuid.New()
	target := uuid.New()
	dir := fakeDirectory{members: map[uuid.UUID]Member{
		requester: {ID: requester, FirstName: "Ada"},
		outsider:  {ID: outsider, FirstName: "Alan"},
		target:    {ID: target, FirstName: "Grace"},
	}}
	svc := newTestService(repo, dir)

	org, err := svc.Create(context.Background(), requester, "")
	require.NoError(t, err)

	t.Run("any authenticated user may add", func(t *testing.T) {
		require.NoError(t, svc.AddMember(context.Background(), outsider, org.ID, target))
		isMember, err := repo.IsMember(context.Background(), org.ID, target)
		require.NoError(t, err)
		assert.True(t, isMember)
	})

	t.Run("re-adding is a no-op", func(t *testing.T) {
		require.NoError(t, svc.AddMember(context.Background(), requester, org.ID, target))
		require.NoError(t, svc.AddMember(context.Background(), requester, org.ID, target))
		isMember, err := repo.IsMember(context.Background(), org.ID, target)
		require.NoError(t, err)
		assert.True(t, isMember)
	})

	t.Run("unknown organisation", func(t *testing.T) {
		err := svc.AddMember(context.Background(), requester, uuid.New(), target)
		require.Error(t, err)
		assert.True(t, apperr.Is(err, apperr.KindNotFound))
		assert.Equal(t, "Organisation not found", err.(*apperr.Error).Message)
	})

	t.Run("unknown target user", func(t *testing.T) {
		err := svc.AddMember(context.Background(), requester, org.ID, uuid.New())
		require.Error(t, err)
		assert.True(t, apperr.Is(err, apperr.KindNotFound))
		assert.Equal(t, "User not found", err.(*apperr.Error).Message)
	})
}
