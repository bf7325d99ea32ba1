package service

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"go-blog-api/internal/event"
	"go-blog-api/internal/model"
	"go-blog-api/internal/storage"
)

// memUsers is an in-memory UserStore and SessionStore.
type memUsers struct {
	mu    sync.Mutex
	users map[string]model.User
}

func newMemUsers() *memUsers {
	return &memUsers{users: map[string]model.User{}}
}

func (m *memUsers) Create(_ context.Context, u model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if strings.EqualFold(existing.Username, u.Username) || strings.EqualFold(existing.Email, u.Email) {
			return model.ErrUserAlreadyExists
		}
	}
	m.users[u.ID] = u
	return nil
}

func (m *memUsers) FindByID(_ context.Context, id string) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return model.User{}, model.ErrUserNotFound
	}
	return u, nil
}

func (m *memUsers) FindByIdentifier(_ context.Context, identifier string) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	identifier = strings.TrimSpace(identifier)
	for _, u := range m.users {
		if strings.EqualFold(u.Username, identifier) || strings.EqualFold(u.Email, identifier) {
			return u, nil
		}
	}
	return model.User{}, model.ErrUserNotFound
}

func (m *memUsers) FindByUsername(_ context.Context, username string) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if strings.EqualFold(u.Username, strings.TrimSpace(username)) {
			return u, nil
		}
	}
	return model.User{}, model.ErrUserNotFound
}

func (m *memUsers) ExistsByUsernameOrEmail(_ context.Context, username string, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if strings.EqualFold(u.Username, username) || strings.EqualFold(u.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (m *memUsers) update(id string, fn func(*model.User) error) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return model.User{}, model.ErrUserNotFound
	}
	if err := fn(&u); err != nil {
		return model.User{}, err
	}
	u.UpdatedAt = time.Now().UTC()
	m.users[id] = u
	return u, nil
}

func (m *memUsers) taken(id string, check func(model.User) bool) bool {
	for otherID, other := range m.users {
		if otherID != id && check(other) {
			return true
		}
	}
	return false
}

func (m *memUsers) UpdatePassword(_ context.Context, userID string, passwordHash string) error {
	_, err := m.update(userID, func(u *model.User) error {
		u.PasswordHash = passwordHash
		return nil
	})
	return err
}

func (m *memUsers) UpdateDetails(_ context.Context, userID string, firstName string, lastName string, username string) (model.User, error) {
	return m.update(userID, func(u *model.User) error {
		if username != "" && m.taken(userID, func(o model.User) bool { return strings.EqualFold(o.Username, username) }) {
			return model.ErrUserAlreadyExists
		}
		if firstName != "" {
			u.FirstName = firstName
		}
		if lastName != "" {
			u.LastName = lastName
		}
		if username != "" {
			u.Username = username
		}
		return nil
	})
}

func (m *memUsers) UpdateEmail(_ context.Context, userID string, email string) (model.User, error) {
	return m.update(userID, func(u *model.User) error {
		if m.taken(userID, func(o model.User) bool { return strings.EqualFold(o.Email, email) }) {
			return model.ErrUserAlreadyExists
		}
		u.Email = email
		return nil
	})
}

func (m *memUsers) UpdateProfilePicture(_ context.Context, userID string, url string, assetID string) error {
	_, err := m.update(userID, func(u *model.User) error {
		u.ProfilePictureURL = url
		u.ProfilePictureAssetID = assetID
		return nil
	})
	return err
}

func (m *memUsers) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return model.ErrUserNotFound
	}
	delete(m.users, id)
	return nil
}

func (m *memUsers) Store(_ context.Context, userID string, token string) error {
	_, err := m.update(userID, func(u *model.User) error {
		u.RefreshToken = token
		u.IsActive = true
		return nil
	})
	return err
}

func (m *memUsers) Rotate(_ context.Context, userID string, current string, next string) error {
	_, err := m.update(userID, func(u *model.User) error {
		if u.RefreshToken != current {
			return model.ErrRefreshTokenMismatch
		}
		u.RefreshToken = next
		u.IsActive = true
		return nil
	})
	if err == model.ErrUserNotFound {
		return model.ErrRefreshTokenMismatch
	}
	return err
}

func (m *memUsers) Revoke(_ context.Context, userID string) error {
	_, err := m.update(userID, func(u *model.User) error {
		u.RefreshToken = ""
		u.IsActive = false
		return nil
	})
	return err
}

func (m *memUsers) get(t *testing.T, id string) model.User {
	t.Helper()
	u, err := m.FindByID(context.Background(), id)
	require.NoError(t, err)
	return u
}

// memFollows is an in-memory FollowStore backed by memUsers.
type memFollows struct {
	users *memUsers
	mu    sync.Mutex
	edges map[[2]string]time.Time
}

func newMemFollows(users *memUsers) *memFollows {
	return &memFollows{users: users, edges: map[[2]string]time.Time{}}
}

func (m *memFollows) Follow(_ context.Context, followerID string, followingID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := [2]string{followerID, followingID}
	if _, ok := m.edges[key]; !ok {
		m.edges[key] = time.Now()
	}
	return nil
}

func (m *memFollows) Unfollow(_ context.Context, followerID string, followingID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.edges, [2]string{followerID, followingID})
	return nil
}

func (m *memFollows) PublicProfile(ctx context.Context, username string, viewerID string) (model.PublicProfile, error) {
	u, err := m.users.FindByUsername(ctx, username)
	if err != nil {
		return model.PublicProfile{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	profile := model.PublicProfile{UserSummary: summary(u)}
	for key := range m.edges {
		if key[1] == u.ID {
			profile.FollowersCount++
			if key[0] == viewerID {
				profile.IsFollowing = true
			}
		}
		if key[0] == u.ID {
			profile.FollowingsCount++
		}
	}
	return profile, nil
}

func (m *memFollows) Followers(ctx context.Context, userID string, page model.Page) ([]model.UserSummary, int, error) {
	return m.list(ctx, userID, page, 1, 0)
}

func (m *memFollows) Followings(ctx context.Context, userID string, page model.Page) ([]model.UserSummary, int, error) {
	return m.list(ctx, userID, page, 0, 1)
}

func (m *memFollows) list(ctx context.Context, userID string, page model.Page, match int, other int) ([]model.UserSummary, int, error) {
	m.mu.Lock()
	ids := make([]string, 0)
	for key := range m.edges {
		if key[match] == userID {
			ids = append(ids, key[other])
		}
	}
	m.mu.Unlock()
	sort.Strings(ids)

	out := make([]model.UserSummary, 0)
	for i := page.Offset(); i < len(ids) && len(out) < page.Limit; i++ {
		u, err := m.users.FindByID(ctx, ids[i])
		if err != nil {
			return nil, 0, err
		}
		out = append(out, summary(u))
	}
	return out, len(ids), nil
}

func summary(u model.User) model.UserSummary {
	return model.UserSummary{ID: u.ID, FirstName: u.FirstName, LastName: u.LastName, Username: u.Username, ProfilePictureURL: u.ProfilePictureURL}
}

// recordingBus captures published events.
type recordingBus struct {
	mu     sync.Mutex
	events []event.Event
}

func (b *recordingBus) Publish(e event.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, e)
}

func (b *recordingBus) Subscribe() (<-chan event.Event, func()) {
	return event.Nop{}.Subscribe()
}

func (b *recordingBus) types() []event.Type {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]event.Type, 0, len(b.events))
	for _, e := range b.events {
		out = append(out, e.Type)
	}
	return out
}

func pngUpload(t *testing.T, name string) *storage.UploadInput {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			img.Set(x, y, color.RGBA{G: 180, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return &storage.UploadInput{Name: name, ContentType: "image/png", Body: bytes.NewReader(buf.Bytes()), Size: int64(buf.Len())}
}

func stringsReader(s string) *strings.Reader {
	return strings.NewReader(s)
}

type memCategories struct {
	mu         sync.Mutex
	categories map[string]model.Category
}

func newMemCategories() *memCategories {
	return &memCategories{categories: map[string]model.Category{}}
}

func (m *memCategories) Create(_ context.Context, c model.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.categories {
		if existing.Name == c.Name || existing.Slug == c.Slug {
			return model.ErrCategoryAlreadyExists
		}
	}
	m.categories[c.ID] = c
	return nil
}

func (m *memCategories) FindByID(_ context.Context, id string) (model.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.categories[id]
	if !ok {
		return model.Category{}, model.ErrCategoryNotFound
	}
	return c, nil
}

func (m *memCategories) ExistsByName(_ context.Context, name string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.categories {
		if c.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (m *memCategories) List(context.Context) ([]model.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Category, 0, len(m.categories))
	for _, c := range m.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type memPosts struct {
	mu    sync.Mutex
	posts map[string]model.Post
}

func newMemPosts() *memPosts {
	return &memPosts{posts: map[string]model.Post{}}
}

func (m *memPosts) Create(_ context.Context, p model.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.posts {
		if existing.Slug == p.Slug {
			return model.ErrSlugTaken
		}
	}
	m.posts[p.ID] = p
	return nil
}

func (m *memPosts) FindByID(_ context.Context, id string) (model.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[id]
	if !ok {
		return model.Post{}, model.ErrPostNotFound
	}
	return p, nil
}

func (m *memPosts) SlugExists(_ context.Context, slug string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.posts {
		if p.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (m *memPosts) UpdateContent(_ context.Context, id string, content string, categoryID string) (model.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[id]
	if !ok {
		return model.Post{}, model.ErrPostNotFound
	}
	p.Content = content
	if categoryID != "" {
		p.CategoryID = categoryID
	}
	m.posts[id] = p
	return p, nil
}

func (m *memPosts) ToggleVisibility(_ context.Context, id string) (model.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[id]
	if !ok {
		return model.Post{}, model.ErrPostNotFound
	}
	p.IsPublic = !p.IsPublic
	if p.IsPublic && p.PublishedAt == nil {
		now := time.Now().UTC()
		p.PublishedAt = &now
	}
	m.posts[id] = p
	return p, nil
}

func (m *memPosts) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.posts[id]; !ok {
		return model.ErrPostNotFound
	}
	delete(m.posts, id)
	return nil
}

func (m *memPosts) ListPublic(_ context.Context, filter model.PostFilter, page model.Page) ([]model.Post, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	matched := make([]model.Post, 0)
	for _, p := range m.posts {
		if !p.IsPublic {
			continue
		}
		if filter.Tag != "" && !containsString(p.Tags, filter.Tag) {
			continue
		}
		matched = append(matched, p)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })

	start := min(page.Offset(), len(matched))
	end := min(start+page.Limit, len(matched))
	return matched[start:end], len(matched), nil
}

func containsString(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}

type memAudit struct {
	mu      sync.Mutex
	entries []model.AuditEntry
}

func (m *memAudit) Insert(_ context.Context, entry model.AuditEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry)
	return nil
}

func (m *memAudit) ListByActor(_ context.Context, actorID string, page model.Page) ([]model.AuditEntry, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.AuditEntry, 0)
	for _, e := range m.entries {
		if e.ActorID == actorID {
			out = append(out, e)
		}
	}
	total := len(out)
	start := min(page.Offset(), total)
	end := min(start+page.Limit, total)
	return out[start:end], total, nil
}

func (m *memAudit) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

func seedUser(t *testing.T, users *memUsers, username string) model.User {
	t.Helper()
	now := time.Now().UTC()
	u := model.User{
		ID:                    "id-" + username,
		FirstName:             strings.ToUpper(username[:1]) + username[1:],
		LastName:              "Tester",
		Username:              username,
		Email:                 username + "@x.com",
		PasswordHash:          "hash",
		DateOfBirth:           time.Date(1990, 5, 5, 0, 0, 0, 0, time.UTC),
		ProfilePictureURL:     "https://media.example/profiles/" + username + ".jpg",
		ProfilePictureAssetID: "profiles/" + username + ".jpg",
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	require.NoError(t, users.Create(context.Background(), u))
	return u
}
