package service

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"artist-platform/internal/domains/artist/ledger"
	"artist-platform/internal/domains/artist/model"
	"artist-platform/internal/domains/artist/repository"
	"artist-platform/pkg/derive"
)

// =====================================================
// FIXTURES
// =====================================================

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type recordingPublisher struct {
	mu     sync.Mutex
	events []model.Event
}

func (p *recordingPublisher) Publish(_ context.Context, event model.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type recordingEnqueuer struct {
	tips   []model.TipReceivedPayload
	closed []model.ProfileClosedPayload
}

func (e *recordingEnqueuer) EnqueueTipReceived(_ context.Context, p model.TipReceivedPayload) error {
	e.tips = append(e.tips, p)
	return nil
}

func (e *recordingEnqueuer) EnqueueProfileClosed(_ context.Context, p model.ProfileClosedPayload) error {
	e.closed = append(e.closed, p)
	return nil
}

// mapCache is a JSON round-tripping cache.Cache
type mapCache struct {
	mu    sync.Mutex
	items map[string][]byte
}

func newMapCache() *mapCache { return &mapCache{items: make(map[string][]byte)} }

func (c *mapCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.items[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (c *mapCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = raw
	return nil
}

func (c *mapCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.items, k)
	}
	return nil
}

func (c *mapCache) DeletePattern(_ context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	prefix := strings.TrimSuffix(pattern, "*")
	for k := range c.items {
		if strings.HasPrefix(k, prefix) {
			delete(c.items, k)
		}
	}
	return nil
}

func (c *mapCache) Exists(_ context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.items[key]
	return ok, nil
}

func (c *mapCache) Ping(context.Context) error { return nil }

type fixture struct {
	ctx     context.Context
	svc     ServiceInterface
	store   repository.Store
	deriver derive.Deriver
	events  *recordingPublisher
	tasks   *recordingEnqueuer
	cache   *mapCache
}

func newFixture(t *testing.T, reserve ledger.ReservePolicy) *fixture {
	t.Helper()
	deriver, err := derive.NewBlake2bDeriver("artist-platform-test")
	require.NoError(t, err)

	f := &fixture{
		ctx:     context.Background(),
		store:   repository.NewMemoryStore(),
		deriver: deriver,
		events:  &recordingPublisher{},
		tasks:   &recordingEnqueuer{},
		cache:   newMapCache(),
	}
	f.svc = NewArtistService(Dependencies{
		Store:         f.store,
		Deriver:       deriver,
		Reserve:       reserve,
		Clock:         func() time.Time { return fixedNow },
		Cache:         f.cache,
		Events:        f.events,
		Tasks:         f.tasks,
		FaucetEnabled: true,
	})
	return f
}

func key(b byte) model.Key {
	var k model.Key
	for i := range k {
		k[i] = b
	}
	return k
}

var (
	alice = key(0xa1)
	bob   = key(0xb0)
	carol = key(0xc0)
)

func (f *fixture) fund(t *testing.T, wallet model.Key, amount uint64) {
	t.Helper()
	_, err := f.svc.Fund(f.ctx, wallet, model.AmountRequest{Amount: amount})
	require.NoError(t, err)
}

func (f *fixture) createProfile(t *testing.T, owner model.Key, name string) model.Address {
	t.Helper()
	resp, err := f.svc.CreateArtistProfile(f.ctx, owner, model.CreateProfileRequest{Name: name, Bio: "bio"})
	require.NoError(t, err)
	return resp.Address
}

func (f *fixture) createProfileWithVault(t *testing.T, owner model.Key) model.Address {
	t.Helper()
	addr := f.createProfile(t, owner, "Alice")
	_, err := f.svc.CreateTipsVault(f.ctx, owner, addr)
	require.NoError(t, err)
	return addr
}

func (f *fixture) profile(t *testing.T, addr model.Address) model.ArtistProfile {
	t.Helper()
	account, err := f.store.Get(f.ctx, addr)
	require.NoError(t, err)
	var p model.ArtistProfile
	require.NoError(t, model.DecodeRecord(account.Data, &p))
	return p
}

func (f *fixture) balance(t *testing.T, addr model.Address) uint64 {
	t.Helper()
	resp, err := f.svc.GetWallet(f.ctx, addr)
	require.NoError(t, err)
	return resp.Lamports
}

func (f *fixture) vaultBalance(t *testing.T, profile model.Address) uint64 {
	t.Helper()
	resp, err := f.svc.GetVault(f.ctx, profile)
	require.NoError(t, err)
	return resp.Lamports
}

// snapshot captures every stored account so failed operations can be compared byte for byte
func (f *fixture) snapshot(t *testing.T) []*model.Account {
	t.Helper()
	var all []*model.Account
	for _, kind := range model.RecordKinds() {
		accounts, err := f.store.List(f.ctx, kind)
		require.NoError(t, err)
		all = append(all, accounts...)
	}
	return all
}

// =====================================================
// PROFILE
// =====================================================

func TestCreateArtistProfile_InitialState(t *testing.T) {
	f := newFixture(t, ledger.ReservePolicy{})

	resp, err := f.svc.CreateArtistProfile(f.ctx, alice, model.CreateProfileRequest{
		Name:  "Alice",
		Bio:   "bio",
		Links: []string{"https://alice.art"},
	})
	require.NoError(t, err)

	wantAddr, wantBump, err := f.deriver.Derive([]byte(model.SeedArtistProfile), alice[:])
	require.NoError(t, err)
	assert.Equal(t, model.Address(wantAddr), resp.Address)

	stored := f.profile(t, resp.Address)
	assert.Equal(t, alice, stored.Owner)
	assert.Equal(t, "Alice", stored.Name)
	assert.Equal(t, []string{"https://alice.art"}, stored.Links)
	assert.Equal(t, uint64(0), stored.FollowerCount)
	assert.Equal(t, uint64(0), stored.TotalTips)
	assert.Equal(t, uint8(0), stored.WorkCount)
	assert.Equal(t, wantBump, stored.Bump)
	assert.Equal(t, []string{model.SubjectArtistCreated}, f.events.types())
}

func TestCreateArtistProfile_OncePerOwner(t *testing.T) {
	f := newFixture(t, ledger.ReservePolicy{})
	f.createProfile(t, alice, "Alice")

	_, err := f.svc.CreateArtistProfile(f.ctx, alice, model.CreateProfileRequest{Name: "Again"})
	assert.ErrorIs(t, err, model.ErrAccountExists)
}

func TestCreateArtistProfile_BoundsLeaveNoState(t *testing.T) {
	f := newFixture(t, ledger.ReservePolicy{})

	_, err := f.svc.CreateArtistProfile(f.ctx, alice, model.CreateProfileRequest{Name: strings.Repeat("n", 51)})
	assert.ErrorIs(t, err, model.ErrNameTooLong)

	_, err = f.svc.CreateArtistProfile(f.ctx, alice, model.CreateProfileRequest{Links: []string{"1", "2", "3", "4", "5", "6"}})
	assert.ErrorIs(t, err, model.ErrTooManyLinks)

	assert.Empty(t, f.snapshot(t))
	assert.Empty(t, f.events.types())
}

func TestCreateArtistProfile_UnfundedOwnerRollsBack(t *testing.T) {
	f := newFixture(t, ledger.DefaultReservePolicy)
	before := f.snapshot(t)

	_, err := f.svc.CreateArtistProfile(f.ctx, alice, model.CreateProfileRequest{Name: "Alice"})
	assert.ErrorIs(t, err, model.ErrInsufficientFunds)
	assert.Equal(t, before, f.snapshot(t))
}

func TestCreateArtistProfile_OwnerPaysReserve(t *testing.T) {
	reserve := ledger.ReservePolicy{LamportsPerByteYear: 1, ExemptionYears: 1}
	f := newFixture(t, reserve)
	f.fund(t, alice, 10_000)

	resp, err := f.svc.CreateArtistProfile(f.ctx, alice, model.CreateProfileRequest{Name: "Alice"})
	require.NoError(t, err)

	assert.Equal(t, uint64(model.ArtistProfileSize), resp.Lamports)
	assert.Equal(t, uint64(10_000-model.ArtistProfileSize), f.balance(t, alice))
}

func TestUpdateArtistProfile_LeavesAbsentFieldsUntouched(t *testing.T) {
	f := newFixture(t, ledger.ReservePolicy{})
	resp, err := f.svc.CreateArtistProfile(f.ctx, alice, model.CreateProfileRequest{
		Name: "Alice", Bio: "old bio", Links: []string{"a"},
	})
	require.NoError(t, err)

	newBio := "new bio"
	_, err = f.svc.UpdateArtistProfile(f.ctx, alice, resp.Address, model.UpdateProfileRequest{Bio: &newBio})
	require.NoError(t, err)

	stored := f.profile(t, resp.Address)
	assert.Equal(t, "Alice", stored.Name)
	assert.Equal(t, "new bio", stored.Bio)
	assert.Equal(t, []string{"a"}, stored.Links)

	empty := []string{}
	_, err = f.svc.UpdateArtistProfile(f.ctx, alice, resp.Address, model.UpdateProfileRequest{Links: &empty})
	require.NoError(t, err)
	stored = f.profile(t, resp.Address)
	assert.Empty(t, stored.Links)
	assert.Equal(t, "new bio", stored.Bio)
}

func TestUpdateArtistProfile_Guarded(t *testing.T) {
	f := newFixture(t, ledger.ReservePolicy{})
	addr := f.createProfile(t, alice, "Alice")

	name := "Mallory"
	_, err := f.svc.UpdateArtistProfile(f.ctx, bob, addr, model.UpdateProfileRequest{Name: &name})
	assert.ErrorIs(t, err, model.ErrUnauthorized)
	assert.Equal(t, "Alice", f.profile(t, addr).Name)

	long := strings.Repeat("b", 501)
	_, err = f.svc.UpdateArtistProfile(f.ctx, alice, addr, model.UpdateProfileRequest{Bio: &long})
	assert.ErrorIs(t, err, model.ErrBioTooLong)
}

func TestGetProfile_CacheAside(t *testing.T) {
	f := newFixture(t, ledger.ReservePolicy{})
	addr := f.createProfile(t, alice, "Alice")

	first, err := f.svc.GetProfile(f.ctx, addr)
	require.NoError(t, err)
	exists, _ := f.cache.Exists(f.ctx, ProfileCacheKey(addr))
	assert.True(t, exists)

	name := "Alice B"
	_, err = f.svc.UpdateArtistProfile(f.ctx, alice, addr, model.UpdateProfileRequest{Name: &name})
	require.NoError(t, err)
	exists, _ = f.cache.Exists(f.ctx, ProfileCacheKey(addr))
	assert.False(t, exists)

	second, err := f.svc.GetProfile(f.ctx, addr)
	require.NoError(t, err)
	assert.Equal(t, "Alice", first.Name)
	assert.Equal(t, "Alice B", second.Name)
}

// =====================================================
// FOLLOW
// =====================================================

func TestFollowArtist_CountsDistinctFollowers(t *testing.T) {
	f := newFixture(t, ledger.ReservePolicy{})
	addr := f.createProfile(t, alice, "Alice")

	resp, err := f.svc.FollowArtist(f.ctx, bob, addr)
	require.NoError(t, err)
	assert.True(t, resp.IsFollowing)
	assert.Equal(t, bob, resp.Follower)
	assert.Equal(t, addr, resp.Artist)

	_, err = f.svc.FollowArtist(f.ctx, carol, addr)
	require.NoError(t, err)

	_, err = f.svc.FollowArtist(f.ctx, bob, addr)
	assert.ErrorIs(t, err, model.ErrAccountExists)

	assert.Equal(t, uint64(2), f.profile(t, addr).FollowerCount)

	edge, err := f.svc.GetFollow(f.ctx, addr, bob)
	require.NoError(t, err)
	assert.True(t, edge.IsFollowing)
}

func TestFollowArtist_UnknownProfile(t *testing.T) {
	f := newFixture(t, ledger.ReservePolicy{})

	_, err := f.svc.FollowArtist(f.ctx, bob, key(0x11))
	assert.ErrorIs(t, err, model.ErrAccountNotFound)
}

// =====================================================
// WORKS
// =====================================================

func TestPostWork_IndexesByCountBeforeIncrement(t *testing.T) {
	f := newFixture(t, ledger.ReservePolicy{})
	addr := f.createProfile(t, alice, "Alice")

	for n := 1; n <= 3; n++ {
		resp, err := f.svc.PostWork(f.ctx, alice, addr, model.PostWorkRequest{Title: "T", Description: "D", ContentURL: "url"})
		require.NoError(t, err)

		want, bump, err := f.deriver.Derive([]byte(model.SeedWork), addr[:], []byte{uint8(n - 1)})
		require.NoError(t, err)
		assert.Equal(t, uint8(n-1), resp.Index)
		assert.Equal(t, model.Address(want), resp.Address)
		assert.Equal(t, bump, resp.Bump)
		assert.Equal(t, fixedNow.Unix(), resp.Timestamp)
		assert.Equal(t, uint8(n), f.profile(t, addr).WorkCount)
	}

	works, err := f.svc.ListWorks(f.ctx, addr)
	require.NoError(t, err)
	assert.Len(t, works, 3)
}

func TestPostWork_OverflowsAfter255(t *testing.T) {
	f := newFixture(t, ledger.ReservePolicy{})
	addr := f.createProfile(t, alice, "Alice")

	for i := 0; i < 255; i++ {
		_, err := f.svc.PostWork(f.ctx, alice, addr, model.PostWorkRequest{Title: "T"})
		require.NoError(t, err)
	}
	assert.Equal(t, uint8(255), f.profile(t, addr).WorkCount)

	before := f.snapshot(t)
	_, err := f.svc.PostWork(f.ctx, alice, addr, model.PostWorkRequest{Title: "T"})
	assert.ErrorIs(t, err, model.ErrNumericalOverflow)
	assert.Equal(t, before, f.snapshot(t))
}

func TestPostWork_Guarded(t *testing.T) {
	f := newFixture(t, ledger.ReservePolicy{})
	addr := f.createProfile(t, alice, "Alice")

	_, err := f.svc.PostWork(f.ctx, bob, addr, model.PostWorkRequest{Title: "T"})
	assert.ErrorIs(t, err, model.ErrUnauthorized)

	_, err = f.svc.PostWork(f.ctx, alice, addr, model.PostWorkRequest{Title: strings.Repeat("t", 101)})
	assert.ErrorIs(t, err, model.ErrTitleTooLong)

	_, err = f.svc.PostWork(f.ctx, alice, addr, model.PostWorkRequest{Description: strings.Repeat("d", 1001)})
	assert.ErrorIs(t, err, model.ErrDescriptionTooLong)

	assert.Equal(t, uint8(0), f.profile(t, addr).WorkCount)
}

// =====================================================
// INTERACTIONS
// =====================================================

func TestInteractWithWork_LikeScenario(t *testing.T) {
	f := newFixture(t, ledger.ReservePolicy{})
	addr := f.createProfile(t, alice, "Alice")

	work, err := f.svc.PostWork(f.ctx, alice, addr, model.PostWorkRequest{Title: "T", Description: "D", ContentURL: "url"})
	require.NoError(t, err)
	assert.Equal(t, uint8(1), f.profile(t, addr).WorkCount)
	assert.Equal(t, uint64(0), work.Likes)

	_, err = f.svc.InteractWithWork(f.ctx, bob, work.Address, model.InteractRequest{Type: model.InteractionLike})
	require.NoError(t, err)
	got, err := f.svc.GetWork(f.ctx, addr, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), got.Likes)

	_, err = f.svc.InteractWithWork(f.ctx, bob, work.Address, model.InteractRequest{Type: model.InteractionLike})
	assert.ErrorIs(t, err, model.ErrAlreadyLiked)
	got, err = f.svc.GetWork(f.ctx, addr, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), got.Likes)

	interaction, err := f.svc.GetInteraction(f.ctx, work.Address, bob)
	require.NoError(t, err)
	assert.True(t, interaction.HasLiked)
	assert.Equal(t, bob, interaction.User)
	assert.Equal(t, work.Address, interaction.Work)
}

func TestInteractWithWork_Comments(t *testing.T) {
	f := newFixture(t, ledger.ReservePolicy{})
	addr := f.createProfile(t, alice, "Alice")
	work, err := f.svc.PostWork(f.ctx, alice, addr, model.PostWorkRequest{Title: "T"})
	require.NoError(t, err)

	before := f.snapshot(t)
	long := strings.Repeat("c", 501)
	_, err = f.svc.InteractWithWork(f.ctx, bob, work.Address, model.InteractRequest{Type: model.InteractionComment, Comment: &long})
	assert.ErrorIs(t, err, model.ErrCommentTooLong)
	_, err = f.svc.InteractWithWork(f.ctx, bob, work.Address, model.InteractRequest{Type: model.InteractionComment})
	assert.ErrorIs(t, err, model.ErrCommentRequired)
	assert.Equal(t, before, f.snapshot(t))

	first, second := "first", "second"
	_, err = f.svc.InteractWithWork(f.ctx, bob, work.Address, model.InteractRequest{Type: model.InteractionComment, Comment: &first})
	require.NoError(t, err)
	resp, err := f.svc.InteractWithWork(f.ctx, bob, work.Address, model.InteractRequest{Type: model.InteractionComment, Comment: &second})
	require.NoError(t, err)
	require.NotNil(t, resp.Comment)
	assert.Equal(t, "second", *resp.Comment)
	assert.False(t, resp.HasLiked)

	got, err := f.svc.GetWork(f.ctx, addr, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), got.CommentCount)
	assert.Equal(t, uint64(0), got.Likes)
}

func TestInteractWithWork_UnknownWork(t *testing.T) {
	f := newFixture(t, ledger.ReservePolicy{})

	_, err := f.svc.InteractWithWork(f.ctx, bob, key(0x42), model.InteractRequest{Type: model.InteractionLike})
	assert.ErrorIs(t, err, model.ErrAccountNotFound)
}

// =====================================================
// TIPS
// =====================================================

func TestTipArtist_MovesExactAmount(t *testing.T) {
	f := newFixture(t, ledger.ReservePolicy{})
	addr := f.createProfileWithVault(t, alice)
	f.fund(t, bob, 5000)

	resp, err := f.svc.TipArtist(f.ctx, bob, addr, model.AmountRequest{Amount: 1200})
	require.NoError(t, err)
	assert.Equal(t, uint64(1200), resp.Lamports)

	assert.Equal(t, uint64(1200), f.vaultBalance(t, addr))
	assert.Equal(t, uint64(3800), f.balance(t, bob))
	assert.Equal(t, uint64(1200), f.profile(t, addr).TotalTips)

	require.Len(t, f.tasks.tips, 1)
	assert.Equal(t, uint64(1200), f.tasks.tips[0].TotalTips)
}

func TestTipArtist_RejectedTipsChangeNothing(t *testing.T) {
	f := newFixture(t, ledger.ReservePolicy{})
	addr := f.createProfileWithVault(t, alice)
	f.fund(t, bob, 100)
	before := f.snapshot(t)

	_, err := f.svc.TipArtist(f.ctx, bob, addr, model.AmountRequest{Amount: 0})
	assert.ErrorIs(t, err, model.ErrInvalidAmount)

	_, err = f.svc.TipArtist(f.ctx, bob, addr, model.AmountRequest{Amount: 101})
	assert.ErrorIs(t, err, model.ErrInsufficientFunds)

	assert.Equal(t, before, f.snapshot(t))
	assert.Empty(t, f.tasks.tips)
}

func TestTipArtist_RequiresVault(t *testing.T) {
	f := newFixture(t, ledger.ReservePolicy{})
	addr := f.createProfile(t, alice, "Alice")
	f.fund(t, bob, 100)

	_, err := f.svc.TipArtist(f.ctx, bob, addr, model.AmountRequest{Amount: 10})
	assert.ErrorIs(t, err, model.ErrAccountNotFound)
	assert.Equal(t, uint64(100), f.balance(t, bob))
}

func TestTipThenWithdraw_TotalTipsIsCumulative(t *testing.T) {
	f := newFixture(t, ledger.ReservePolicy{})
	addr := f.createProfileWithVault(t, alice)
	f.fund(t, bob, 1000)

	_, err := f.svc.TipArtist(f.ctx, bob, addr, model.AmountRequest{Amount: 1000})
	require.NoError(t, err)
	_, err = f.svc.WithdrawTips(f.ctx, alice, addr, model.AmountRequest{Amount: 1000})
	require.NoError(t, err)

	assert.Equal(t, uint64(0), f.vaultBalance(t, addr))
	assert.Equal(t, uint64(1000), f.profile(t, addr).TotalTips)
	assert.Equal(t, uint64(1000), f.balance(t, alice))
}

func TestWithdrawTips_KeepsReserve(t *testing.T) {
	reserve := ledger.ReservePolicy{LamportsPerByteYear: 1, ExemptionYears: 1, AccountOverhead: 100}
	f := newFixture(t, reserve)
	f.fund(t, alice, 10_000)
	f.fund(t, bob, 10_000)
	addr := f.createProfileWithVault(t, alice)
	assert.Equal(t, uint64(100), f.vaultBalance(t, addr))

	_, err := f.svc.TipArtist(f.ctx, bob, addr, model.AmountRequest{Amount: 500})
	require.NoError(t, err)

	before := f.vaultBalance(t, addr)
	_, err = f.svc.WithdrawTips(f.ctx, alice, addr, model.AmountRequest{Amount: 501})
	assert.ErrorIs(t, err, model.ErrInsufficientFunds)
	_, err = f.svc.WithdrawTips(f.ctx, alice, addr, model.AmountRequest{Amount: 601})
	assert.ErrorIs(t, err, model.ErrInsufficientFunds)
	assert.Equal(t, before, f.vaultBalance(t, addr))

	resp, err := f.svc.WithdrawTips(f.ctx, alice, addr, model.AmountRequest{Amount: 500})
	require.NoError(t, err)
	assert.Equal(t, uint64(100), resp.Lamports)
	assert.Equal(t, uint64(100), resp.Reserve)
}

func TestWithdrawTips_Guarded(t *testing.T) {
	f := newFixture(t, ledger.ReservePolicy{})
	addr := f.createProfileWithVault(t, alice)
	f.fund(t, bob, 100)
	_, err := f.svc.TipArtist(f.ctx, bob, addr, model.AmountRequest{Amount: 100})
	require.NoError(t, err)

	_, err = f.svc.WithdrawTips(f.ctx, bob, addr, model.AmountRequest{Amount: 100})
	assert.ErrorIs(t, err, model.ErrUnauthorized)
	assert.Equal(t, uint64(100), f.vaultBalance(t, addr))
	assert.Equal(t, uint64(0), f.balance(t, bob))
}

func TestFund_Disabled(t *testing.T) {
	deriver, err := derive.NewBlake2bDeriver("artist-platform-test")
	require.NoError(t, err)
	svc := NewArtistService(Dependencies{Store: repository.NewMemoryStore(), Deriver: deriver})

	_, err = svc.Fund(context.Background(), alice, model.AmountRequest{Amount: 1})
	assert.ErrorIs(t, err, model.ErrFaucetDisabled)
}

// =====================================================
// COLLABORATION
// =====================================================

func TestCollab_ResolvesExactlyOnce(t *testing.T) {
	f := newFixture(t, ledger.ReservePolicy{})
	addr := f.createProfile(t, alice, "Alice")

	created, err := f.svc.CreateCollabRequest(f.ctx, bob, addr, model.CreateCollabRequest{Description: "duet?"})
	require.NoError(t, err)
	assert.Equal(t, model.CollabPending, created.Status)
	assert.Equal(t, fixedNow.Unix(), created.Timestamp)

	_, err = f.svc.UpdateCollabStatus(f.ctx, bob, addr, bob, model.UpdateCollabStatusRequest{Status: model.CollabAccepted})
	assert.ErrorIs(t, err, model.ErrUnauthorized)

	_, err = f.svc.UpdateCollabStatus(f.ctx, alice, addr, bob, model.UpdateCollabStatusRequest{Status: model.CollabPending})
	assert.ErrorIs(t, err, model.ErrInvalidCollabStatus)

	resp, err := f.svc.UpdateCollabStatus(f.ctx, alice, addr, bob, model.UpdateCollabStatusRequest{Status: model.CollabAccepted})
	require.NoError(t, err)
	assert.Equal(t, model.CollabAccepted, resp.Status)

	_, err = f.svc.UpdateCollabStatus(f.ctx, alice, addr, bob, model.UpdateCollabStatusRequest{Status: model.CollabRejected})
	assert.ErrorIs(t, err, model.ErrCollabAlreadyResolved)

	got, err := f.svc.GetCollabRequest(f.ctx, addr, bob)
	require.NoError(t, err)
	assert.Equal(t, model.CollabAccepted, got.Status)
}

func TestCollab_OnePerRequester(t *testing.T) {
	f := newFixture(t, ledger.ReservePolicy{})
	addr := f.createProfile(t, alice, "Alice")

	_, err := f.svc.CreateCollabRequest(f.ctx, bob, addr, model.CreateCollabRequest{Description: "a"})
	require.NoError(t, err)
	_, err = f.svc.CreateCollabRequest(f.ctx, bob, addr, model.CreateCollabRequest{Description: "b"})
	assert.ErrorIs(t, err, model.ErrAccountExists)
}

func TestCollab_OversizedDescriptionHitsCapacity(t *testing.T) {
	f := newFixture(t, ledger.ReservePolicy{})
	addr := f.createProfile(t, alice, "Alice")

	_, err := f.svc.CreateCollabRequest(f.ctx, bob, addr, model.CreateCollabRequest{Description: strings.Repeat("x", 2000)})
	assert.ErrorIs(t, err, model.ErrRecordTooLarge)

	_, err = f.svc.GetCollabRequest(f.ctx, addr, bob)
	assert.ErrorIs(t, err, model.ErrAccountNotFound)
}

// =====================================================
// CLOSE
// =====================================================

func TestCloseArtistProfile_SweepsAndDeletes(t *testing.T) {
	reserve := ledger.ReservePolicy{LamportsPerByteYear: 1, ExemptionYears: 1}
	f := newFixture(t, reserve)
	f.fund(t, alice, 5_000)
	f.fund(t, bob, 1_000)
	addr := f.createProfileWithVault(t, alice)
	_, err := f.svc.TipArtist(f.ctx, bob, addr, model.AmountRequest{Amount: 700})
	require.NoError(t, err)

	_, err = f.svc.CloseArtistProfile(f.ctx, bob, addr)
	assert.ErrorIs(t, err, model.ErrUnauthorized)

	wallet, err := f.svc.CloseArtistProfile(f.ctx, alice, addr)
	require.NoError(t, err)

	// profile reserve comes back and the vault (reserve 0 here) gives up the tip
	assert.Equal(t, uint64(5_700), wallet.Lamports)
	assert.Equal(t, uint64(5_700), f.balance(t, alice))

	_, err = f.svc.GetProfile(f.ctx, addr)
	assert.ErrorIs(t, err, model.ErrAccountNotFound)
	_, err = f.svc.GetVault(f.ctx, addr)
	assert.ErrorIs(t, err, model.ErrAccountNotFound)

	require.Len(t, f.tasks.closed, 1)
	assert.Equal(t, addr, f.tasks.closed[0].Artist)
}

func TestCloseArtistProfile_WithoutVault(t *testing.T) {
	f := newFixture(t, ledger.ReservePolicy{})
	addr := f.createProfile(t, alice, "Alice")

	wallet, err := f.svc.CloseArtistProfile(f.ctx, alice, addr)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), wallet.Lamports)

	// nothing outlives an empty profile
	closedAddr, _, err := NewAddresses(f.deriver).ClosedProfile(addr)
	require.NoError(t, err)
	_, err = f.store.Get(f.ctx, closedAddr)
	assert.ErrorIs(t, err, model.ErrAccountNotFound)
}

func TestCloseArtistProfile_ReopenContinuesWorksAndFollowers(t *testing.T) {
	// Setup
	f := newFixture(t, ledger.ReservePolicy{})
	addr := f.createProfile(t, alice, "Alice")
	_, err := f.svc.PostWork(f.ctx, alice, addr, model.PostWorkRequest{Title: "first"})
	require.NoError(t, err)
	_, err = f.svc.FollowArtist(f.ctx, bob, addr)
	require.NoError(t, err)
	_, err = f.svc.CloseArtistProfile(f.ctx, alice, addr)
	require.NoError(t, err)

	// Execute
	again, err := f.svc.CreateArtistProfile(f.ctx, alice, model.CreateProfileRequest{Name: "Alice again"})
	require.NoError(t, err)
	work, postErr := f.svc.PostWork(f.ctx, alice, addr, model.PostWorkRequest{Title: "second"})
	_, carolErr := f.svc.FollowArtist(f.ctx, carol, addr)
	_, bobErr := f.svc.FollowArtist(f.ctx, bob, addr)

	// Assert
	assert.Equal(t, addr, again.Address)
	assert.Equal(t, uint8(1), again.WorkCount)
	assert.Equal(t, uint64(1), again.FollowerCount)
	assert.Equal(t, uint64(0), again.TotalTips)

	require.NoError(t, postErr)
	assert.Equal(t, uint8(1), work.Index)
	require.NoError(t, carolErr)
	assert.ErrorIs(t, bobErr, model.ErrAccountExists)

	p := f.profile(t, addr)
	assert.Equal(t, uint8(2), p.WorkCount)
	assert.Equal(t, uint64(2), p.FollowerCount)

	works, err := f.svc.ListWorks(f.ctx, addr)
	require.NoError(t, err)
	require.Len(t, works, 2)
	assert.Equal(t, "first", works[0].Title)
	assert.Equal(t, "second", works[1].Title)
}

func TestCloseArtistProfile_ClosedRecordReserveRoundTrips(t *testing.T) {
	// Setup
	reserve := ledger.ReservePolicy{LamportsPerByteYear: 1, ExemptionYears: 1}
	f := newFixture(t, reserve)
	f.fund(t, alice, 5_000)
	addr := f.createProfile(t, alice, "Alice")
	_, err := f.svc.PostWork(f.ctx, alice, addr, model.PostWorkRequest{Title: "T"})
	require.NoError(t, err)
	afterPost := uint64(5_000 - model.ArtistProfileSize - model.WorkSize)
	require.Equal(t, afterPost, f.balance(t, alice))

	closedAddr, _, err := NewAddresses(f.deriver).ClosedProfile(addr)
	require.NoError(t, err)

	// Execute
	wallet, err := f.svc.CloseArtistProfile(f.ctx, alice, addr)
	require.NoError(t, err)

	// Assert: profile storage comes back, the closed record keeps its own reserve
	assert.Equal(t, afterPost+model.ArtistProfileSize-model.ClosedProfileSize, wallet.Lamports)
	closed, err := f.store.Get(f.ctx, closedAddr)
	require.NoError(t, err)
	assert.Equal(t, model.KindClosedProfile, closed.Kind)
	assert.Equal(t, uint64(model.ClosedProfileSize), closed.Lamports)

	// Reopening releases the closed record
	_, err = f.svc.CreateArtistProfile(f.ctx, alice, model.CreateProfileRequest{Name: "Alice"})
	require.NoError(t, err)
	assert.Equal(t, afterPost, f.balance(t, alice))
	_, err = f.store.Get(f.ctx, closedAddr)
	assert.ErrorIs(t, err, model.ErrAccountNotFound)
}

// =====================================================
// STRAY BALANCES AND FOREIGN RECORDS
// =====================================================

func TestFund_PrefundedAddressIsTakenOverOnCreate(t *testing.T) {
	// Setup
	reserve := ledger.ReservePolicy{LamportsPerByteYear: 1, ExemptionYears: 1, AccountOverhead: 100}
	f := newFixture(t, reserve)
	f.fund(t, alice, 10_000)
	addresses := NewAddresses(f.deriver)
	profileAddr, _, err := addresses.Profile(alice)
	require.NoError(t, err)
	vaultAddr, _, err := addresses.Vault(profileAddr)
	require.NoError(t, err)
	f.fund(t, vaultAddr, 30)

	// Execute
	profile, err := f.svc.CreateArtistProfile(f.ctx, alice, model.CreateProfileRequest{Name: "Alice"})
	require.NoError(t, err)
	vault, err := f.svc.CreateTipsVault(f.ctx, alice, profile.Address)

	// Assert: the stray 30 counts toward the vault reserve
	require.NoError(t, err)
	assert.Equal(t, uint64(100), vault.Lamports)
	assert.Equal(t, "tips_vault", vault.Kind)
	assert.Equal(t, uint64(10_000-(100+model.ArtistProfileSize)-70), f.balance(t, alice))
}

func TestFund_RefusesRecordAccounts(t *testing.T) {
	f := newFixture(t, ledger.ReservePolicy{})
	addr := f.createProfileWithVault(t, alice)
	vaultAddr, _, err := NewAddresses(f.deriver).Vault(addr)
	require.NoError(t, err)
	before := f.snapshot(t)

	_, err = f.svc.Fund(f.ctx, addr, model.AmountRequest{Amount: 10})
	assert.ErrorIs(t, err, model.ErrNotAWallet)
	_, err = f.svc.Fund(f.ctx, vaultAddr, model.AmountRequest{Amount: 10})
	assert.ErrorIs(t, err, model.ErrNotAWallet)

	assert.Equal(t, before, f.snapshot(t))
}

func TestLoad_RecordAtWrongAddressIsMissing(t *testing.T) {
	// Setup: carol's profile bytes stored at alice's profile address
	f := newFixture(t, ledger.ReservePolicy{})
	aliceAddr, _, err := NewAddresses(f.deriver).Profile(alice)
	require.NoError(t, err)
	_, carolBump, err := NewAddresses(f.deriver).Profile(carol)
	require.NoError(t, err)
	data, err := model.EncodeRecord(&model.ArtistProfile{Owner: carol, Name: "Carol", Bump: carolBump})
	require.NoError(t, err)
	require.NoError(t, f.store.WithTx(f.ctx, func(tx repository.Tx) error {
		return tx.Create(f.ctx, &model.Account{Address: aliceAddr, Kind: model.KindArtistProfile, Data: data})
	}))

	// Execute
	_, getErr := f.svc.GetProfile(f.ctx, aliceAddr)
	_, updateErr := f.svc.UpdateArtistProfile(f.ctx, carol, aliceAddr, model.UpdateProfileRequest{})

	// Assert
	assert.ErrorIs(t, getErr, model.ErrAccountNotFound)
	assert.ErrorIs(t, updateErr, model.ErrAccountNotFound)
}

// =====================================================
// LEADERBOARD
// =====================================================

type fakeLeaderboard struct {
	scores []LeaderboardScore
}

func (l *fakeLeaderboard) Record(context.Context, model.Address, uint64) error { return nil }
func (l *fakeLeaderboard) Remove(context.Context, model.Address) error         { return nil }
func (l *fakeLeaderboard) Top(_ context.Context, limit int) ([]LeaderboardScore, error) {
	if len(l.scores) > limit {
		return l.scores[:limit], nil
	}
	return l.scores, nil
}
func (l *fakeLeaderboard) Replace(_ context.Context, scores []LeaderboardScore) error {
	l.scores = scores
	return nil
}

func TestLeaderboard_ScanAndRebuild(t *testing.T) {
	f := newFixture(t, ledger.ReservePolicy{})
	a := f.createProfileWithVault(t, alice)
	c := f.createProfile(t, carol, "Carol")
	_, err := f.svc.CreateTipsVault(f.ctx, carol, c)
	require.NoError(t, err)
	f.fund(t, bob, 1000)
	_, err = f.svc.TipArtist(f.ctx, bob, a, model.AmountRequest{Amount: 100})
	require.NoError(t, err)
	_, err = f.svc.TipArtist(f.ctx, bob, c, model.AmountRequest{Amount: 300})
	require.NoError(t, err)

	entries, err := f.svc.Leaderboard(f.ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, c, entries[0].Artist)
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, uint64(100), entries[1].TotalTips)

	board := &fakeLeaderboard{}
	svc := NewArtistService(Dependencies{Store: f.store, Deriver: f.deriver, Leaderboard: board})
	n, err := svc.RebuildLeaderboard(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	top, err := svc.Leaderboard(f.ctx, 1)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, c, top[0].Artist)
}
